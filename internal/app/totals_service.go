package app

import (
	"context"
	"math"
	"time"

	"nutrilog/internal/domain"
)

// DailyTotals is the aggregated macro intake for one calendar day.
type DailyTotals struct {
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// TotalsService aggregates macro totals over a user's logged portions.
type TotalsService struct {
	portions domain.PortionRepository
}

// NewTotalsService creates a TotalsService backed by the given repository.
func NewTotalsService(portions domain.PortionRepository) *TotalsService {
	return &TotalsService{portions: portions}
}

// CalculateDailyTotals sums the macro contributions of the user's
// portions on the given day. Each contribution is the food's per-100g
// value scaled by grams/100; totals are rounded to one decimal place
// once at the end. An empty day yields all zeroes.
func (s *TotalsService) CalculateDailyTotals(ctx context.Context, userID int64, day string) (DailyTotals, error) {
	portions, err := s.portions.ListPortionsByDate(ctx, userID, day)
	if err != nil {
		return DailyTotals{}, err
	}

	var t DailyTotals
	for _, p := range portions {
		if p.Food == nil {
			continue
		}
		multiplier := p.Grams / 100
		t.Kcal += p.Food.KcalPer100g * multiplier
		t.Protein += p.Food.ProteinPer100g * multiplier
		t.Carbs += p.Food.CarbsPer100g * multiplier
		t.Fat += p.Food.FatPer100g * multiplier
	}

	t.Kcal = round1(t.Kcal)
	t.Protein = round1(t.Protein)
	t.Carbs = round1(t.Carbs)
	t.Fat = round1(t.Fat)
	return t, nil
}

// TodayTotals returns the totals for the current local day.
func (s *TotalsService) TodayTotals(ctx context.Context, userID int64) (DailyTotals, string, error) {
	today := time.Now().In(time.Local).Format("2006-01-02")
	totals, err := s.CalculateDailyTotals(ctx, userID, today)
	return totals, today, err
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
