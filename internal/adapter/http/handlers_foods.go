package adapthttp

import (
	"net/http"

	"nutrilog/internal/app"
)

type foodRequest struct {
	Name           string  `json:"name"`
	Slug           string  `json:"slug,omitempty"`
	KcalPer100g    float64 `json:"kcal_per_100g"`
	ProteinPer100g float64 `json:"protein_per_100g"`
	CarbsPer100g   float64 `json:"carbs_per_100g"`
	FatPer100g     float64 `json:"fat_per_100g"`
}

func (req foodRequest) input() app.FoodInput {
	return app.FoodInput{
		Name:           req.Name,
		Slug:           req.Slug,
		KcalPer100g:    req.KcalPer100g,
		ProteinPer100g: req.ProteinPer100g,
		CarbsPer100g:   req.CarbsPer100g,
		FatPer100g:     req.FatPer100g,
	}
}

func (s *Server) handleFoods(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	switch r.Method {
	case http.MethodGet:
		foods, err := s.foods.ListAccessible(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": foods})

	case http.MethodPost:
		var req foodRequest
		if err := parseJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		food, err := s.foods.Create(r.Context(), user.ID, req.input())
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, food)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleFoodByID(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	id, err := idFromPath(r, "/foods/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		food, err := s.foods.Get(r.Context(), user.ID, id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, food)

	case http.MethodPut:
		var req foodRequest
		if err := parseJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		food, err := s.foods.Update(r.Context(), user.ID, id, req.input())
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, food)

	case http.MethodDelete:
		if err := s.foods.Delete(r.Context(), user.ID, id); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
