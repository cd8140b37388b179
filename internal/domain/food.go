// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateSlug indicates that a food with the same slug already exists.
// Slugs are unique across all foods regardless of ownership, enforced at
// the storage layer.
var ErrDuplicateSlug = errors.New("food slug already exists")

// Food is a nutrition record per 100 grams. A food is either global
// (visible to every user) or owned by a single user.
type Food struct {
	ID             int64     `json:"id"`
	UserID         *int64    `json:"userId,omitempty"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	KcalPer100g    float64   `json:"kcalPer100g"`
	ProteinPer100g float64   `json:"proteinPer100g"`
	CarbsPer100g   float64   `json:"carbsPer100g"`
	FatPer100g     float64   `json:"fatPer100g"`
	IsGlobal       bool      `json:"isGlobal"`
	CreatedAt      time.Time `json:"createdAt"`
}

// VisibleTo reports whether the food is global or owned by the given user.
func (f *Food) VisibleTo(userID int64) bool {
	return f.IsGlobal || f.OwnedBy(userID)
}

// OwnedBy reports whether the food is owned by the given user. Global
// foods have no owner.
func (f *Food) OwnedBy(userID int64) bool {
	return f.UserID != nil && *f.UserID == userID
}

// FoodRepository is the port for food persistence. Lookup methods return
// (nil, nil) when no row matches.
type FoodRepository interface {
	FindFoodByID(ctx context.Context, id int64) (*Food, error)
	FindFoodBySlug(ctx context.Context, slug string, userID int64) (*Food, error)
	ListAccessibleFoods(ctx context.Context, userID int64) ([]Food, error)
	CreateFood(ctx context.Context, food *Food) (*Food, error)
	UpdateFood(ctx context.Context, food *Food) error
	DeleteFood(ctx context.Context, id int64) error
}
