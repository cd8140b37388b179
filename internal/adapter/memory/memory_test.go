package memory_test

import (
	"context"
	"errors"
	"testing"

	"nutrilog/internal/adapter/memory"
	"nutrilog/internal/domain"
)

func seedFood(t *testing.T, db *memory.DB, slug string, owner *int64) *domain.Food {
	t.Helper()
	f, err := db.CreateFood(context.Background(), &domain.Food{
		Name:     slug,
		Slug:     slug,
		UserID:   owner,
		IsGlobal: owner == nil,
	})
	if err != nil {
		t.Fatalf("seed food %q: %v", slug, err)
	}
	return f
}

func TestCreateFood_SlugUnique(t *testing.T) {
	db := memory.New()
	owner := int64(1)
	seedFood(t, db, "rice", nil)

	_, err := db.CreateFood(context.Background(), &domain.Food{Name: "Rice", Slug: "rice", UserID: &owner})
	if !errors.Is(err, domain.ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}
}

func TestUpdateFood_SlugUnique(t *testing.T) {
	db := memory.New()
	seedFood(t, db, "rice", nil)
	oats := seedFood(t, db, "oats", nil)

	oats.Slug = "rice"
	if err := db.UpdateFood(context.Background(), oats); !errors.Is(err, domain.ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}

	oats.Slug = "oats"
	oats.Name = "Rolled Oats"
	if err := db.UpdateFood(context.Background(), oats); err != nil {
		t.Fatalf("keeping its own slug must not conflict: %v", err)
	}
}

func TestFindFoodBySlug_Visibility(t *testing.T) {
	db := memory.New()
	owner := int64(1)
	seedFood(t, db, "secret_sauce", &owner)
	seedFood(t, db, "rice", nil)

	got, err := db.FindFoodBySlug(context.Background(), "secret_sauce", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatal("another user's private food must not resolve")
	}

	got, err = db.FindFoodBySlug(context.Background(), "secret_sauce", 1)
	if err != nil || got == nil {
		t.Fatalf("owner lookup failed: food=%v err=%v", got, err)
	}
	got, err = db.FindFoodBySlug(context.Background(), "rice", 2)
	if err != nil || got == nil {
		t.Fatalf("global lookup failed: food=%v err=%v", got, err)
	}
}

func TestListAccessibleFoods_ScopedAndSorted(t *testing.T) {
	db := memory.New()
	one, two := int64(1), int64(2)
	seedFood(t, db, "rice", nil)
	seedFood(t, db, "avocado", &one)
	seedFood(t, db, "secret_sauce", &two)

	foods, err := db.ListAccessibleFoods(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(foods) != 2 {
		t.Fatalf("expected 2 foods, got %d", len(foods))
	}
	if foods[0].Slug != "avocado" || foods[1].Slug != "rice" {
		t.Fatalf("expected name-sorted [avocado rice], got [%s %s]", foods[0].Slug, foods[1].Slug)
	}
}

func TestListRecentPortions_OrderAndLimit(t *testing.T) {
	db := memory.New()
	food := seedFood(t, db, "rice", nil)

	for _, day := range []string{"2026-08-28", "2026-08-30", "2026-08-29"} {
		if _, err := db.CreatePortion(context.Background(), &domain.Portion{
			UserID: 1, FoodID: food.ID, Grams: 100, ConsumedAt: day,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	out, err := db.ListRecentPortions(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(out))
	}
	if out[0].ConsumedAt != "2026-08-30" || out[1].ConsumedAt != "2026-08-29" {
		t.Fatalf("expected newest days first, got [%s %s]", out[0].ConsumedAt, out[1].ConsumedAt)
	}
	if out[0].Food == nil || out[0].Food.Slug != "rice" {
		t.Fatal("expected food loaded on listed portions")
	}
}

func TestDeleteFood_CascadesPortions(t *testing.T) {
	db := memory.New()
	rice := seedFood(t, db, "rice", nil)
	oats := seedFood(t, db, "oats", nil)

	for _, f := range []*domain.Food{rice, oats} {
		if _, err := db.CreatePortion(context.Background(), &domain.Portion{
			UserID: 1, FoodID: f.ID, Grams: 100, ConsumedAt: "2026-08-30",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := db.DeleteFood(context.Background(), rice.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := db.ListPortionsByDate(context.Background(), 1, "2026-08-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].FoodID != oats.ID {
		t.Fatalf("expected only the oats portion to survive, got %+v", out)
	}
}

func TestDeletePortion_ScopedToUser(t *testing.T) {
	db := memory.New()
	food := seedFood(t, db, "rice", nil)

	p, err := db.CreatePortion(context.Background(), &domain.Portion{
		UserID: 1, FoodID: food.ID, Grams: 100, ConsumedAt: "2026-08-30",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := db.DeletePortion(context.Background(), 2, p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := db.FindPortionByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("another user's delete must not remove the portion")
	}
}
