// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"nutrilog/internal/domain"
)

var (
	// ErrFoodNotFound indicates that no accessible food matched the request.
	ErrFoodNotFound = errors.New("food not found")
	// ErrFoodUnauthorized indicates that the food exists but is neither
	// global nor owned by the requesting user.
	ErrFoodUnauthorized = errors.New("you do not have access to this food")
	// ErrInvalidFood indicates that the submitted food data failed validation.
	ErrInvalidFood = errors.New("invalid food data")
)

var slugSanitize = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a food slug from a display name. The result matches the
// slug pattern [a-z0-9_]+ used by quick-add lookups.
func Slugify(name string) string {
	s := slugSanitize.ReplaceAllString(strings.ToLower(name), "_")
	return strings.Trim(s, "_")
}

// FoodInput carries the writable fields of a food.
type FoodInput struct {
	Name           string
	Slug           string
	KcalPer100g    float64
	ProteinPer100g float64
	CarbsPer100g   float64
	FatPer100g     float64
}

func (in FoodInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrInvalidFood
	}
	if in.KcalPer100g < 0 || in.ProteinPer100g < 0 || in.CarbsPer100g < 0 || in.FatPer100g < 0 {
		return ErrInvalidFood
	}
	return nil
}

// slug validates the input and resolves its slug, deriving one from the
// name when not supplied. The result must match [a-z0-9_]+; a name with
// no alphanumeric characters derives an empty slug and is rejected.
func (in FoodInput) slug() (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Name)
	}
	if !slugPattern.MatchString(slug) {
		return "", ErrInvalidFood
	}
	return slug, nil
}

// FoodService encapsulates food catalogue use cases.
type FoodService struct {
	repo domain.FoodRepository
}

// NewFoodService creates a FoodService backed by the given repository.
func NewFoodService(repo domain.FoodRepository) *FoodService {
	return &FoodService{repo: repo}
}

// ResolveBySlug returns the food with the given slug that is global or
// owned by the requesting user. No side effects.
func (s *FoodService) ResolveBySlug(ctx context.Context, slug string, userID int64) (*domain.Food, error) {
	food, err := s.repo.FindFoodBySlug(ctx, slug, userID)
	if err != nil {
		return nil, err
	}
	if food == nil {
		return nil, ErrFoodNotFound
	}
	return food, nil
}

// ListAccessible returns the global foods plus the user's own foods,
// ordered by name.
func (s *FoodService) ListAccessible(ctx context.Context, userID int64) ([]domain.Food, error) {
	return s.repo.ListAccessibleFoods(ctx, userID)
}

// Create validates and stores a new food owned by the given user. The
// slug is derived from the name when not supplied and must match the
// slug pattern either way.
func (s *FoodService) Create(ctx context.Context, userID int64, in FoodInput) (*domain.Food, error) {
	slug, err := in.slug()
	if err != nil {
		return nil, err
	}
	return s.repo.CreateFood(ctx, &domain.Food{
		UserID:         &userID,
		Name:           in.Name,
		Slug:           slug,
		KcalPer100g:    in.KcalPer100g,
		ProteinPer100g: in.ProteinPer100g,
		CarbsPer100g:   in.CarbsPer100g,
		FatPer100g:     in.FatPer100g,
	})
}

// CreateGlobal validates and stores a new global food visible to all users.
func (s *FoodService) CreateGlobal(ctx context.Context, in FoodInput) (*domain.Food, error) {
	slug, err := in.slug()
	if err != nil {
		return nil, err
	}
	return s.repo.CreateFood(ctx, &domain.Food{
		Name:           in.Name,
		Slug:           slug,
		KcalPer100g:    in.KcalPer100g,
		ProteinPer100g: in.ProteinPer100g,
		CarbsPer100g:   in.CarbsPer100g,
		FatPer100g:     in.FatPer100g,
		IsGlobal:       true,
	})
}

// Get returns a food by ID if it is visible to the user.
func (s *FoodService) Get(ctx context.Context, userID, id int64) (*domain.Food, error) {
	food, err := s.repo.FindFoodByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if food == nil {
		return nil, ErrFoodNotFound
	}
	if !food.VisibleTo(userID) {
		return nil, ErrFoodUnauthorized
	}
	return food, nil
}

// Update validates and applies changes to a food owned by the user. When
// the name changes without an explicit slug, the slug is re-derived.
func (s *FoodService) Update(ctx context.Context, userID, id int64, in FoodInput) (*domain.Food, error) {
	food, err := s.repo.FindFoodByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if food == nil {
		return nil, ErrFoodNotFound
	}
	if !food.OwnedBy(userID) {
		return nil, ErrFoodUnauthorized
	}
	slug, err := in.slug()
	if err != nil {
		return nil, err
	}
	food.Name = in.Name
	food.Slug = slug
	food.KcalPer100g = in.KcalPer100g
	food.ProteinPer100g = in.ProteinPer100g
	food.CarbsPer100g = in.CarbsPer100g
	food.FatPer100g = in.FatPer100g
	if err := s.repo.UpdateFood(ctx, food); err != nil {
		return nil, err
	}
	return food, nil
}

// Delete removes a food owned by the user. Portions referencing the food
// are removed by the storage-level cascade.
func (s *FoodService) Delete(ctx context.Context, userID, id int64) error {
	food, err := s.repo.FindFoodByID(ctx, id)
	if err != nil {
		return err
	}
	if food == nil {
		return ErrFoodNotFound
	}
	if !food.OwnedBy(userID) {
		return ErrFoodUnauthorized
	}
	return s.repo.DeleteFood(ctx, id)
}
