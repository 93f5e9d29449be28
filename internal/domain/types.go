package domain

import "time"

// BloodTypes is the set of ABO/Rh classifications tracked by the system.
var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// Components is the set of blood product categories.
var Components = []string{"whole_blood", "plasma", "platelets"}

// Locations is the set of collection sites inventory is tracked against.
var Locations = []string{"center_1", "center_2", "center_3", "mobile_drive_1"}

// Request statuses. A request's status is fixed at creation; only fulfilled
// requests reduce inventory for their (blood type, component, location) group.
const (
	StatusPending   = "pending"
	StatusFulfilled = "fulfilled"
	StatusRejected  = "rejected"
)

// Statuses lists all valid request statuses.
var Statuses = []string{StatusPending, StatusFulfilled, StatusRejected}

// Urgencies classify how quickly a hospital needs the units.
var Urgencies = []string{"routine", "urgent", "emergency"}

// ShelfLife returns how long a donated component stays usable.
func ShelfLife(component string) time.Duration {
	switch component {
	case "plasma":
		return 365 * 24 * time.Hour
	case "platelets":
		return 5 * 24 * time.Hour
	default: // whole_blood
		return 42 * 24 * time.Hour
	}
}

type Donor struct {
	ID         string
	BloodType  string
	LocationID string
	DOB        time.Time
}

type Donation struct {
	ID           string
	DonorID      string
	BloodType    string
	Component    string
	Units        int
	DonationDate time.Time
	ExpiryDate   time.Time
	LocationID   string
	QCPass       bool
}

type HospitalRequest struct {
	ID             string
	HospitalID     string
	BloodType      string
	Component      string
	UnitsRequested int
	Status         string
	Urgency        string
	LocationID     string
	RequestDate    time.Time
	FulfilledDate  *time.Time
}

// InventoryLevel is derived data: units donated minus units supplied to
// fulfilled requests for one (blood type, component, location) group. It is
// recomputed from scratch on every load, never updated incrementally.
type InventoryLevel struct {
	BloodType  string
	Component  string
	LocationID string
	Units      int
}

func ValidBloodType(s string) bool { return contains(BloodTypes, s) }
func ValidComponent(s string) bool { return contains(Components, s) }
func ValidLocation(s string) bool  { return contains(Locations, s) }
func ValidStatus(s string) bool    { return contains(Statuses, s) }
func ValidUrgency(s string) bool   { return contains(Urgencies, s) }

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
