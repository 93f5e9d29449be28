package store

import (
	"fmt"
	"strings"

	"github.com/redcell/bloodinv/internal/domain"
)

// Filter is an immutable set of dashboard query predicates. A zero-value
// field means "all". Filters are built once per request and passed by value
// into every query so the data access layer stays free of UI state.
type Filter struct {
	BloodType  string
	Component  string
	LocationID string
}

// ParseFilter builds a Filter from raw selector values. "all" and the empty
// string both mean no restriction; anything else must be a known value.
func ParseFilter(bloodType, component, locationID string) (Filter, error) {
	f := Filter{
		BloodType:  normalize(bloodType),
		Component:  normalize(component),
		LocationID: normalize(locationID),
	}
	if f.BloodType != "" && !domain.ValidBloodType(f.BloodType) {
		return Filter{}, fmt.Errorf("unknown blood type %q", bloodType)
	}
	if f.Component != "" && !domain.ValidComponent(f.Component) {
		return Filter{}, fmt.Errorf("unknown component %q", component)
	}
	if f.LocationID != "" && !domain.ValidLocation(f.LocationID) {
		return Filter{}, fmt.Errorf("unknown location %q", locationID)
	}
	return f, nil
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

// where renders the filter as a WHERE clause over the given columns.
// Tables without a component column (donors) pass withComponent=false so the
// component filter is simply not applicable there.
func (f Filter) where(withComponent bool) (string, []any) {
	var conds []string
	var args []any

	if f.BloodType != "" {
		conds = append(conds, "blood_type = ?")
		args = append(args, f.BloodType)
	}
	if withComponent && f.Component != "" {
		conds = append(conds, "component = ?")
		args = append(args, f.Component)
	}
	if f.LocationID != "" {
		conds = append(conds, "location_id = ?")
		args = append(args, f.LocationID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
