package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"nutrilog/internal/adapter/memory"
	"nutrilog/internal/app"
)

func TestPortionCreate_DefaultsToToday(t *testing.T) {
	db := memory.New()
	foods := app.NewFoodService(db)
	portions := app.NewPortionService(db, db)

	food, err := foods.CreateGlobal(context.Background(), app.FoodInput{Name: "Rice", KcalPer100g: 130})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := portions.Create(context.Background(), 1, food.ID, 150, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	today := time.Now().In(time.Local).Format("2006-01-02")
	if p.ConsumedAt != today {
		t.Fatalf("expected default day %q, got %q", today, p.ConsumedAt)
	}
	if p.Food == nil || p.Food.Slug != "rice" {
		t.Fatalf("expected food attached to created portion, got %+v", p.Food)
	}
}

func TestPortionCreate_FoodAccess(t *testing.T) {
	db := memory.New()
	foods := app.NewFoodService(db)
	portions := app.NewPortionService(db, db)

	private, err := foods.Create(context.Background(), 1, app.FoodInput{Name: "Secret Sauce"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := portions.Create(context.Background(), 2, private.ID, 100, ""); !errors.Is(err, app.ErrFoodUnauthorized) {
		t.Fatalf("expected ErrFoodUnauthorized, got %v", err)
	}
	if _, err := portions.Create(context.Background(), 2, 999, 100, ""); !errors.Is(err, app.ErrFoodNotFound) {
		t.Fatalf("expected ErrFoodNotFound, got %v", err)
	}
}

func TestPortionGetDelete_Ownership(t *testing.T) {
	db := memory.New()
	foods := app.NewFoodService(db)
	portions := app.NewPortionService(db, db)

	food, err := foods.CreateGlobal(context.Background(), app.FoodInput{Name: "Rice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := portions.Create(context.Background(), 1, food.ID, 150, "2026-08-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := portions.Get(context.Background(), 2, p.ID); !errors.Is(err, app.ErrPortionUnauthorized) {
		t.Fatalf("expected ErrPortionUnauthorized, got %v", err)
	}
	if err := portions.Delete(context.Background(), 2, p.ID); !errors.Is(err, app.ErrPortionUnauthorized) {
		t.Fatalf("expected ErrPortionUnauthorized, got %v", err)
	}
	if err := portions.Delete(context.Background(), 1, 999); !errors.Is(err, app.ErrPortionNotFound) {
		t.Fatalf("expected ErrPortionNotFound, got %v", err)
	}

	if err := portions.Delete(context.Background(), 1, p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := portions.Get(context.Background(), 1, p.ID); !errors.Is(err, app.ErrPortionNotFound) {
		t.Fatalf("expected ErrPortionNotFound after delete, got %v", err)
	}
}

func TestPortionListGroupedByDate(t *testing.T) {
	db := memory.New()
	foods := app.NewFoodService(db)
	portions := app.NewPortionService(db, db)

	food, err := foods.CreateGlobal(context.Background(), app.FoodInput{Name: "Rice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, day := range []string{"2026-08-29", "2026-08-30", "2026-08-30", "2026-08-28"} {
		if _, err := portions.Create(context.Background(), 1, food.ID, 100, day); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// Another user's portions must not leak into the listing.
	if _, err := portions.Create(context.Background(), 2, food.ID, 100, "2026-08-30"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	groups, err := portions.ListGroupedByDate(context.Background(), 1, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("expected 3 day groups, got %d", len(groups))
	}
	wantDays := []string{"2026-08-30", "2026-08-29", "2026-08-28"}
	for i, want := range wantDays {
		if groups[i].Day != want {
			t.Fatalf("group %d: expected day %q, got %q", i, want, groups[i].Day)
		}
	}
	if len(groups[0].Portions) != 2 {
		t.Fatalf("expected 2 portions on the newest day, got %d", len(groups[0].Portions))
	}
	for _, g := range groups {
		for _, p := range g.Portions {
			if p.UserID != 1 {
				t.Fatalf("listing leaked another user's portion: %+v", p)
			}
		}
	}
}
