package adapthttp

import (
	"net/http"

	"dietprogram/internal/domain"
)

func (s *Server) handleListFoods(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.FoodFilter{
		Category:     domain.Category(q.Get("category")),
		NameContains: q.Get("search"),
	}

	items, err := s.svc.Foods.ListFoods(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.FoodItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleFoodCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.svc.Foods.Categories(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": cats})
}

func (s *Server) handleGetFood(w http.ResponseWriter, r *http.Request) {
	item, err := s.svc.Foods.GetFood(r.Context(), pathID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
