package adapthttp

import (
	"errors"
	"net/http"
	"time"

	"nutrilog/internal/app"
)

func (s *Server) handlePortions(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	switch r.Method {
	case http.MethodGet:
		limit := intQuery(r, "limit", 50)
		groups, err := s.portions.ListGroupedByDate(r.Context(), user.ID, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": groups})

	case http.MethodPost:
		var req struct {
			FoodID     int64   `json:"food_id"`
			Grams      float64 `json:"grams"`
			ConsumedAt string  `json:"consumed_at,omitempty"`
		}
		if err := parseJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if req.Grams <= 0 {
			writeError(w, http.StatusUnprocessableEntity, app.ErrInvalidGrams)
			return
		}
		if req.ConsumedAt != "" {
			if _, err := time.ParseInLocation("2006-01-02", req.ConsumedAt, time.Local); err != nil {
				writeError(w, http.StatusUnprocessableEntity, errors.New("consumed_at must be YYYY-MM-DD"))
				return
			}
		}
		portion, err := s.portions.Create(r.Context(), user.ID, req.FoodID, req.Grams, req.ConsumedAt)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, portion)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePortionByID(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	id, err := idFromPath(r, "/portions/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		portion, err := s.portions.Get(r.Context(), user.ID, id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, portion)

	case http.MethodDelete:
		if err := s.portions.Delete(r.Context(), user.ID, id); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleDailyTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user := userFromContext(r)
	day := r.URL.Query().Get("date")
	if day == "" {
		day = localDayString(time.Now())
	} else if _, err := time.ParseInLocation("2006-01-02", day, time.Local); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
		return
	}

	totals, err := s.totals.CalculateDailyTotals(r.Context(), user.ID, day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": day, "totals": totals})
}
