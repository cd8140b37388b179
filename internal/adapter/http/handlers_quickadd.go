package adapthttp

import (
	"errors"
	"net/http"

	"nutrilog/internal/app"
)

// handleQuickAdd processes a batch of "slug-grams" tokens. The response
// status distinguishes full success (201), partial success (207) and full
// failure or empty input (422) so clients can branch without parsing the
// message text.
func (s *Server) handleQuickAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user := userFromContext(r)

	var req struct {
		SlugGrams string `json:"slug_grams"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.quickAdd.QuickAdd(r.Context(), user.ID, req.SlugGrams)
	if errors.Is(err, app.ErrNoEntries) {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	status := http.StatusCreated
	if result.Summary.Failed > 0 {
		if result.Summary.Successful > 0 {
			status = http.StatusMultiStatus
		} else {
			status = http.StatusUnprocessableEntity
		}
	}
	writeJSON(w, status, result)
}
