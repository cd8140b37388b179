package domain

import "context"

// NutritionClient is the port for the external nutrition-inference
// service. InferNutrition returns the raw model response text for the
// given human-readable food name; callers are responsible for parsing it
// defensively.
type NutritionClient interface {
	InferNutrition(ctx context.Context, foodName string) (string, error)
}
