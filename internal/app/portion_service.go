package app

import (
	"context"
	"errors"
	"time"

	"nutrilog/internal/domain"
)

var (
	// ErrPortionNotFound indicates that the portion does not exist.
	ErrPortionNotFound = errors.New("portion not found")
	// ErrPortionUnauthorized indicates that the portion belongs to another user.
	ErrPortionUnauthorized = errors.New("you do not have access to this portion")
	// ErrInvalidGrams indicates a non-positive gram amount.
	ErrInvalidGrams = errors.New("grams must be greater than zero")
)

// DayGroup is a day's worth of portions, newest first.
type DayGroup struct {
	Day      string           `json:"day"`
	Portions []domain.Portion `json:"portions"`
}

// PortionService encapsulates portion-logging use cases.
type PortionService struct {
	portions domain.PortionRepository
	foods    domain.FoodRepository
}

// NewPortionService creates a PortionService backed by the given repositories.
func NewPortionService(portions domain.PortionRepository, foods domain.FoodRepository) *PortionService {
	return &PortionService{portions: portions, foods: foods}
}

// Create stores a portion of the given food for the user. The food must
// exist and be visible to the user; an inaccessible food yields
// ErrFoodUnauthorized rather than a hard failure. An empty day defaults
// to the current local date. Grams are expected to be validated upstream.
func (s *PortionService) Create(ctx context.Context, userID, foodID int64, grams float64, day string) (*domain.Portion, error) {
	food, err := s.foods.FindFoodByID(ctx, foodID)
	if err != nil {
		return nil, err
	}
	if food == nil {
		return nil, ErrFoodNotFound
	}
	if !food.VisibleTo(userID) {
		return nil, ErrFoodUnauthorized
	}
	if day == "" {
		day = time.Now().In(time.Local).Format("2006-01-02")
	}
	p, err := s.portions.CreatePortion(ctx, &domain.Portion{
		UserID:     userID,
		FoodID:     foodID,
		Grams:      grams,
		ConsumedAt: day,
	})
	if err != nil {
		return nil, err
	}
	p.Food = food
	return p, nil
}

// Get returns a portion owned by the user, with its food loaded.
func (s *PortionService) Get(ctx context.Context, userID, id int64) (*domain.Portion, error) {
	p, err := s.portions.FindPortionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPortionNotFound
	}
	if p.UserID != userID {
		return nil, ErrPortionUnauthorized
	}
	return p, nil
}

// ListByDate returns the user's portions for a local calendar day, newest
// first, with foods loaded.
func (s *PortionService) ListByDate(ctx context.Context, userID int64, day string) ([]domain.Portion, error) {
	return s.portions.ListPortionsByDate(ctx, userID, day)
}

// ListGroupedByDate returns up to limit recent portions grouped by
// consumption day, newest day first.
func (s *PortionService) ListGroupedByDate(ctx context.Context, userID int64, limit int) ([]DayGroup, error) {
	portions, err := s.portions.ListRecentPortions(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	groups := make([]DayGroup, 0)
	idx := make(map[string]int)
	for _, p := range portions {
		i, ok := idx[p.ConsumedAt]
		if !ok {
			i = len(groups)
			idx[p.ConsumedAt] = i
			groups = append(groups, DayGroup{Day: p.ConsumedAt})
		}
		groups[i].Portions = append(groups[i].Portions, p)
	}
	return groups, nil
}

// Delete removes a portion owned by the user.
func (s *PortionService) Delete(ctx context.Context, userID, id int64) error {
	p, err := s.portions.FindPortionByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPortionNotFound
	}
	if p.UserID != userID {
		return ErrPortionUnauthorized
	}
	return s.portions.DeletePortion(ctx, userID, id)
}
