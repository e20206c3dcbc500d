package adapthttp

import (
	"net/http"

	"dietprogram/internal/domain"
)

func (s *Server) handleSaveProgress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date            string   `json:"date"`
		Weight          *float64 `json:"weight"`
		WaterIntake     *float64 `json:"waterIntake"`
		ExerciseMinutes *int     `json:"exerciseMinutes"`
		Notes           *string  `json:"notes"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	entry, err := s.svc.Progress.SaveProgress(r.Context(), userFromContext(r).ID, domain.ProgressEntry{
		Date:            req.Date,
		WeightKg:        req.Weight,
		WaterLiters:     req.WaterIntake,
		ExerciseMinutes: req.ExerciseMinutes,
		Notes:           req.Notes,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ProgressSaved()
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleListProgress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := s.svc.Progress.ListProgress(r.Context(), userFromContext(r).ID, q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.ProgressEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entries})
}

func (s *Server) handleLatestWeight(w http.ResponseWriter, r *http.Request) {
	entry, err := s.svc.Progress.LatestWeight(r.Context(), userFromContext(r).ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entry": entry})
}
