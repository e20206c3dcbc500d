package adapthttp

import (
	"net/http"

	"dietprogram/internal/domain"
)

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.svc.Plans.ListPublic(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if plans == nil {
		plans = []domain.DietPlan{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": plans})
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	detail, err := s.svc.Plans.GetPlan(r.Context(), pathID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
