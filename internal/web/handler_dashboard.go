package web

import (
	"log"
	"net/http"

	"github.com/redcell/bloodinv/internal/domain"
	"github.com/redcell/bloodinv/internal/service"
	"github.com/redcell/bloodinv/internal/store"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := store.ParseFilter(q.Get("blood_type"), q.Get("component"), q.Get("location"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := s.service.Summary(r.Context(), filter)
	if err != nil {
		http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
		log.Printf("dashboard summary error: %v", err)
		return
	}

	data := dashboardData(summary)

	// HTMX filter change: re-render only the panels.
	if r.Header.Get("HX-Request") == "true" {
		if err := s.renderPartial(w, "partials/dashboard_panels.html", data); err != nil {
			log.Printf("render partial error: %v", err)
		}
		return
	}

	if err := s.renderPage(w, data,
		"base.html", "pages/dashboard.html", "partials/dashboard_panels.html",
	); err != nil {
		log.Printf("render page error: %v", err)
	}
}

func dashboardData(summary *service.Summary) map[string]any {
	seriesScale := 0
	for _, p := range summary.Series {
		if p.Units > seriesScale {
			seriesScale = p.Units
		}
	}
	breakdownScale := 0
	for _, b := range summary.Breakdown {
		if b.Units > breakdownScale {
			breakdownScale = b.Units
		}
	}

	return map[string]any{
		"Summary":        summary,
		"SeriesScale":    seriesScale,
		"BreakdownScale": breakdownScale,
		"BloodTypes":     domain.BloodTypes,
		"Components":     domain.Components,
		"Locations":      domain.Locations,
	}
}
