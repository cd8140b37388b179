package domain

import (
	"context"
	"time"
)

// Portion is a logged consumption of a food in grams on a calendar day.
// Portions are never mutated after creation.
type Portion struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	FoodID     int64     `json:"foodId"`
	Grams      float64   `json:"grams"`
	ConsumedAt string    `json:"consumedAt"`
	CreatedAt  time.Time `json:"createdAt"`
	Food       *Food     `json:"food,omitempty"`
}

// PortionRepository is the port for portion persistence. List and find
// methods populate the Food field. FindPortionByID returns (nil, nil)
// when no row matches.
type PortionRepository interface {
	FindPortionByID(ctx context.Context, id int64) (*Portion, error)
	ListPortionsByDate(ctx context.Context, userID int64, day string) ([]Portion, error)
	ListRecentPortions(ctx context.Context, userID int64, limit int) ([]Portion, error)
	CreatePortion(ctx context.Context, p *Portion) (*Portion, error)
	DeletePortion(ctx context.Context, userID, id int64) error
}
