package adapthttp

import (
	"net/http"

	"dietprogram/internal/domain"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Dashboard.GetDashboard(r.Context(), userFromContext(r).ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleChartsDaily(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 30)
	unit := r.URL.Query().Get("unit")
	if unit == "" {
		unit = domain.UnitKg
	}

	points, err := s.svc.Charts.GetDaily(r.Context(), userFromContext(r).ID, days, unit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"days":  len(points),
		"unit":  unit,
		"today": localDayString(s.now()),
		"items": points,
	})
}
