package app

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"nutrilog/internal/domain"

	"go.uber.org/zap"
)

var (
	// ErrAIUnavailable indicates that the outbound nutrition-inference call
	// itself failed.
	ErrAIUnavailable = errors.New("nutrition service is unavailable")
	// ErrAIInvalidData indicates that the nutrition-inference call succeeded
	// but returned unparseable or incomplete content.
	ErrAIInvalidData = errors.New("nutrition service returned invalid data")
)

// Source values reported by FindOrCreateFood.
const (
	SourceDatabase = "database"
	SourceAI       = "ai"
)

// LookupResult is the outcome of a successful food lookup.
type LookupResult struct {
	Food   *domain.Food
	Source string
}

// LookupService resolves food slugs against the local store and falls
// back to the nutrition-inference collaborator for unknown slugs.
type LookupService struct {
	foods domain.FoodRepository
	ai    domain.NutritionClient
	log   *zap.Logger
}

// NewLookupService creates a LookupService. The nutrition client may be
// nil, in which case unknown slugs resolve to ErrFoodNotFound.
func NewLookupService(foods domain.FoodRepository, ai domain.NutritionClient, log *zap.Logger) *LookupService {
	return &LookupService{foods: foods, ai: ai, log: log}
}

// FindOrCreateFood resolves a slug to a food visible to the user. When no
// local match exists and a user is present, it queries the nutrition
// collaborator once and persists the result as a new user-owned food.
// A userID of 0 means anonymous: no AI creation is attempted.
func (s *LookupService) FindOrCreateFood(ctx context.Context, slug string, userID int64) (*LookupResult, error) {
	food, err := s.foods.FindFoodBySlug(ctx, slug, userID)
	if err != nil {
		return nil, err
	}
	if food != nil {
		return &LookupResult{Food: food, Source: SourceDatabase}, nil
	}

	if userID == 0 || s.ai == nil {
		return nil, ErrFoodNotFound
	}

	info, err := s.inferNutrition(ctx, slug)
	if err != nil {
		return nil, err
	}

	created, err := s.foods.CreateFood(ctx, &domain.Food{
		UserID:         &userID,
		Name:           info.Name,
		Slug:           slug,
		KcalPer100g:    info.KcalPer100g,
		ProteinPer100g: info.ProteinPer100g,
		CarbsPer100g:   info.CarbsPer100g,
		FatPer100g:     info.FatPer100g,
	})
	if errors.Is(err, domain.ErrDuplicateSlug) {
		// A concurrent request created the same slug first. Resolve again
		// and treat the winner as the local food.
		food, ferr := s.foods.FindFoodBySlug(ctx, slug, userID)
		if ferr != nil {
			return nil, ferr
		}
		if food == nil {
			return nil, ErrFoodNotFound
		}
		return &LookupResult{Food: food, Source: SourceDatabase}, nil
	}
	if err != nil {
		return nil, err
	}
	return &LookupResult{Food: created, Source: SourceAI}, nil
}

type nutritionInfo struct {
	Name           string
	KcalPer100g    float64
	ProteinPer100g float64
	CarbsPer100g   float64
	FatPer100g     float64
}

func (s *LookupService) inferNutrition(ctx context.Context, slug string) (*nutritionInfo, error) {
	foodName := strings.ReplaceAll(slug, "_", " ")

	raw, err := s.ai.InferNutrition(ctx, foodName)
	if err != nil {
		s.log.Error("ai food lookup failed", zap.String("slug", slug), zap.Error(err))
		return nil, ErrAIUnavailable
	}

	var parsed struct {
		Name           string   `json:"name"`
		KcalPer100g    *float64 `json:"kcal_per_100g"`
		ProteinPer100g float64  `json:"protein_per_100g"`
		CarbsPer100g   float64  `json:"carbs_per_100g"`
		FatPer100g     float64  `json:"fat_per_100g"`
	}
	content := stripCodeFences(raw)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil || parsed.KcalPer100g == nil {
		s.log.Error("ai food lookup returned invalid data",
			zap.String("slug", slug), zap.String("content", content), zap.Error(err))
		return nil, ErrAIInvalidData
	}

	name := parsed.Name
	if name == "" {
		name = foodName
	}
	return &nutritionInfo{
		Name:           name,
		KcalPer100g:    *parsed.KcalPer100g,
		ProteinPer100g: parsed.ProteinPer100g,
		CarbsPer100g:   parsed.CarbsPer100g,
		FatPer100g:     parsed.FatPer100g,
	}, nil
}

var codeFence = regexp.MustCompile("```(?:json)?\\s*")

// stripCodeFences removes Markdown code-fence wrapping that models often
// add around JSON replies.
func stripCodeFences(s string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(s, ""))
}
