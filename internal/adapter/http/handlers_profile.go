package adapthttp

import (
	"net/http"

	"dietprogram/internal/app"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.svc.Profile.GetProfile(r.Context(), userFromContext(r).ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd app.ProfileUpdate
	if err := parseJSON(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	user, err := s.svc.Profile.UpdateProfile(r.Context(), userFromContext(r).ID, upd)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleCalorieGoal(w http.ResponseWriter, r *http.Request) {
	var req app.GoalRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	est, err := s.svc.Profile.EstimateGoal(req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}
