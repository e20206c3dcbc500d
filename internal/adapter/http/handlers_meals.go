package adapthttp

import (
	"net/http"

	"dietprogram/internal/domain"
)

func (s *Server) handleRecordMeal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MealType domain.MealType        `json:"mealType"`
		Date     string                 `json:"date"`
		MealDate string                 `json:"mealDate"`
		Items    []domain.MealItemInput `json:"items"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Date == "" {
		req.Date = req.MealDate
	}

	meal, err := s.svc.Meals.RecordMeal(r.Context(), userFromContext(r).ID, req.MealType, req.Date, req.Items)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.MealRecorded(string(meal.MealType))
	}
	writeJSON(w, http.StatusCreated, meal)
}

func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	// Without a date the whole history is returned, newest day first.
	day := r.URL.Query().Get("date")
	meals, err := s.svc.Meals.ListMeals(r.Context(), userFromContext(r).ID, day)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if meals == nil {
		meals = []domain.Meal{}
	}
	resp := map[string]any{"items": meals}
	if day != "" {
		resp["date"] = day
	}
	writeJSON(w, http.StatusOK, resp)
}
