package app_test

import (
	"context"
	"testing"

	"nutrilog/internal/app"
	"nutrilog/internal/domain"
)

type mockPortionRepo struct {
	findByIDFn   func(ctx context.Context, id int64) (*domain.Portion, error)
	listByDateFn func(ctx context.Context, userID int64, day string) ([]domain.Portion, error)
	listRecentFn func(ctx context.Context, userID int64, limit int) ([]domain.Portion, error)
	createFn     func(ctx context.Context, p *domain.Portion) (*domain.Portion, error)
	deleteFn     func(ctx context.Context, userID, id int64) error
}

func (m *mockPortionRepo) FindPortionByID(ctx context.Context, id int64) (*domain.Portion, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPortionRepo) ListPortionsByDate(ctx context.Context, userID int64, day string) ([]domain.Portion, error) {
	if m.listByDateFn != nil {
		return m.listByDateFn(ctx, userID, day)
	}
	return nil, nil
}

func (m *mockPortionRepo) ListRecentPortions(ctx context.Context, userID int64, limit int) ([]domain.Portion, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockPortionRepo) CreatePortion(ctx context.Context, p *domain.Portion) (*domain.Portion, error) {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	created := *p
	created.ID = 1
	return &created, nil
}

func (m *mockPortionRepo) DeletePortion(ctx context.Context, userID, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return nil
}

func TestCalculateDailyTotals_Empty(t *testing.T) {
	svc := app.NewTotalsService(&mockPortionRepo{})

	totals, err := svc.CalculateDailyTotals(context.Background(), 1, "2026-08-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals != (app.DailyTotals{}) {
		t.Fatalf("expected all-zero totals, got %+v", totals)
	}
}

func TestCalculateDailyTotals_RoundsOnceAtEnd(t *testing.T) {
	repo := &mockPortionRepo{
		listByDateFn: func(_ context.Context, _ int64, _ string) ([]domain.Portion, error) {
			return []domain.Portion{
				{Grams: 75, Food: &domain.Food{KcalPer100g: 123.456}},
			}, nil
		},
	}
	svc := app.NewTotalsService(repo)

	totals, err := svc.CalculateDailyTotals(context.Background(), 1, "2026-08-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 123.456 * 0.75 = 92.592, rounded once to one decimal.
	if totals.Kcal != 92.6 {
		t.Fatalf("expected kcal 92.6, got %v", totals.Kcal)
	}
}

func TestCalculateDailyTotals_TwoPortions(t *testing.T) {
	chicken := &domain.Food{KcalPer100g: 165, ProteinPer100g: 31, CarbsPer100g: 0, FatPer100g: 3.6}
	rice := &domain.Food{KcalPer100g: 130, ProteinPer100g: 2.7, CarbsPer100g: 28, FatPer100g: 0.3}
	repo := &mockPortionRepo{
		listByDateFn: func(_ context.Context, userID int64, day string) ([]domain.Portion, error) {
			if userID != 1 || day != "2026-08-31" {
				t.Fatalf("unexpected query: user=%d day=%s", userID, day)
			}
			return []domain.Portion{
				{Grams: 150, Food: chicken},
				{Grams: 200, Food: rice},
			}, nil
		},
	}
	svc := app.NewTotalsService(repo)

	totals, err := svc.CalculateDailyTotals(context.Background(), 1, "2026-08-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := app.DailyTotals{Kcal: 507.5, Protein: 51.9, Carbs: 56.0, Fat: 6.0}
	if totals != want {
		t.Fatalf("expected %+v, got %+v", want, totals)
	}
}
