package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"nutrilog/internal/domain"
)

// ErrNoEntries indicates that the quick-add input contained no entries.
var ErrNoEntries = errors.New("at least one food entry is required")

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9_]+$`)
	gramsPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
)

// QuickAddEntry is one successfully processed quick-add token.
type QuickAddEntry struct {
	Portion *domain.Portion `json:"portion"`
	Food    string          `json:"food"`
	Grams   float64         `json:"grams"`
	Source  string          `json:"source"`
}

// QuickAddSummary aggregates the per-entry outcomes of a batch.
type QuickAddSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	AICreated  int `json:"ai_created"`
}

// QuickAddResult is the full outcome of a quick-add batch.
type QuickAddResult struct {
	Results []QuickAddEntry `json:"results"`
	Errors  []string        `json:"errors,omitempty"`
	Summary QuickAddSummary `json:"summary"`
	Message string          `json:"message"`
}

// QuickAddService processes batches of "slug-grams" tokens: each token is
// validated, resolved (local store first, AI fallback second) and logged
// as a portion for today. Entries are independent; one entry's failure
// never blocks the rest and nothing is rolled back.
type QuickAddService struct {
	lookup   *LookupService
	portions *PortionService
}

// NewQuickAddService creates a QuickAddService.
func NewQuickAddService(lookup *LookupService, portions *PortionService) *QuickAddService {
	return &QuickAddService{lookup: lookup, portions: portions}
}

// QuickAdd processes a raw multi-entry input for the user. It returns
// ErrNoEntries when the input contains no tokens at all; every other
// failure is reported per entry inside the result.
func (s *QuickAddService) QuickAdd(ctx context.Context, userID int64, raw string) (*QuickAddResult, error) {
	lines := splitEntries(raw)
	if len(lines) == 0 {
		return nil, ErrNoEntries
	}

	res := &QuickAddResult{Results: make([]QuickAddEntry, 0, len(lines))}

	for _, line := range lines {
		slug, grams, ok := parseSlugGrams(line)
		if !ok {
			res.Errors = append(res.Errors,
				fmt.Sprintf("Invalid format: '%s'. Use: slug-grams (e.g., chicken_breast-150)", line))
			continue
		}

		lookup, err := s.lookup.FindOrCreateFood(ctx, slug, userID)
		switch {
		case errors.Is(err, ErrFoodNotFound):
			res.Errors = append(res.Errors, "Could not find or create food: "+slug)
			continue
		case errors.Is(err, ErrAIUnavailable), errors.Is(err, ErrAIInvalidData):
			res.Errors = append(res.Errors, "Unable to find nutrition information for: "+slug)
			continue
		case err != nil:
			return nil, err
		}

		portion, err := s.portions.Create(ctx, userID, lookup.Food.ID, grams, "")
		if errors.Is(err, ErrFoodUnauthorized) || errors.Is(err, ErrFoodNotFound) {
			res.Errors = append(res.Errors, "You do not have access to food: "+slug)
			continue
		}
		if err != nil {
			return nil, err
		}

		res.Summary.Successful++
		if lookup.Source == SourceAI {
			res.Summary.AICreated++
		}
		res.Results = append(res.Results, QuickAddEntry{
			Portion: portion,
			Food:    lookup.Food.Name,
			Grams:   grams,
			Source:  lookup.Source,
		})
	}

	res.Summary.Total = len(lines)
	res.Summary.Failed = len(res.Errors)
	res.Message = buildMessage(res)
	return res, nil
}

func buildMessage(res *QuickAddResult) string {
	sum := res.Summary
	if sum.Failed > 0 {
		msg := "Some foods could not be added: " + strings.Join(res.Errors, ", ")
		if sum.Successful > 0 {
			msg += fmt.Sprintf(" (%d foods were added successfully)", sum.Successful)
		}
		return msg
	}

	msg := fmt.Sprintf("Successfully added %d food%s!", sum.Successful, plural(sum.Successful))
	if sum.AICreated > 0 {
		if sum.AICreated > 1 {
			msg += fmt.Sprintf(" %d foods were automatically created with AI.", sum.AICreated)
		} else {
			msg += " 1 food was automatically created with AI."
		}
	}
	return msg
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// splitEntries splits raw quick-add input on commas and newlines, trims
// each piece and discards empties.
func splitEntries(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseSlugGrams parses one "slug-grams" token. The slug must match
// [a-z0-9_]+ and the grams must be a positive decimal.
func parseSlugGrams(entry string) (slug string, grams float64, ok bool) {
	parts := strings.Split(entry, "-")
	if len(parts) != 2 {
		return "", 0, false
	}
	if !slugPattern.MatchString(parts[0]) || !gramsPattern.MatchString(parts[1]) {
		return "", 0, false
	}
	grams, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || grams <= 0 {
		return "", 0, false
	}
	return strings.ToLower(parts[0]), grams, true
}
