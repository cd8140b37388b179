package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"nutrilog/internal/domain"
)

const foodColumns = "id, user_id, name, slug, kcal_per_100g, protein_per_100g, carbs_per_100g, fat_per_100g, is_global, created_at"

func scanFood(row interface{ Scan(...any) error }) (*domain.Food, error) {
	var f domain.Food
	var userID sql.NullInt64
	err := row.Scan(&f.ID, &userID, &f.Name, &f.Slug,
		&f.KcalPer100g, &f.ProteinPer100g, &f.CarbsPer100g, &f.FatPer100g,
		&f.IsGlobal, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		f.UserID = &userID.Int64
	}
	return &f, nil
}

// FindFoodByID retrieves a food by ID regardless of ownership.
func (d *DB) FindFoodByID(ctx context.Context, id int64) (*domain.Food, error) {
	f, err := scanFood(d.sql.QueryRowContext(ctx,
		"SELECT "+foodColumns+" FROM foods WHERE id=$1;", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

// FindFoodBySlug retrieves the food with the given slug that is global or
// owned by the user.
func (d *DB) FindFoodBySlug(ctx context.Context, slug string, userID int64) (*domain.Food, error) {
	f, err := scanFood(d.sql.QueryRowContext(ctx,
		"SELECT "+foodColumns+" FROM foods WHERE slug=$1 AND (is_global OR user_id=$2) ORDER BY id LIMIT 1;",
		slug, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

// ListAccessibleFoods returns the global foods plus the user's own foods,
// ordered by name.
func (d *DB) ListAccessibleFoods(ctx context.Context, userID int64) ([]domain.Food, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+foodColumns+" FROM foods WHERE is_global OR user_id=$1 ORDER BY name;", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

// CreateFood inserts a new food. A duplicate slug yields
// domain.ErrDuplicateSlug.
func (d *DB) CreateFood(ctx context.Context, food *domain.Food) (*domain.Food, error) {
	var userID sql.NullInt64
	if food.UserID != nil {
		userID = sql.NullInt64{Int64: *food.UserID, Valid: true}
	}
	f := *food
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO foods(user_id, name, slug, kcal_per_100g, protein_per_100g, carbs_per_100g, fat_per_100g, is_global, created_at) VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at;",
		userID, food.Name, food.Slug,
		food.KcalPer100g, food.ProteinPer100g, food.CarbsPer100g, food.FatPer100g,
		food.IsGlobal, time.Now().UTC(),
	).Scan(&f.ID, &f.CreatedAt)
	if isUniqueViolation(err, "foods_slug_key") {
		return nil, domain.ErrDuplicateSlug
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// UpdateFood applies changes to an existing food. A duplicate slug yields
// domain.ErrDuplicateSlug.
func (d *DB) UpdateFood(ctx context.Context, food *domain.Food) error {
	_, err := d.sql.ExecContext(ctx,
		"UPDATE foods SET name=$1, slug=$2, kcal_per_100g=$3, protein_per_100g=$4, carbs_per_100g=$5, fat_per_100g=$6 WHERE id=$7;",
		food.Name, food.Slug,
		food.KcalPer100g, food.ProteinPer100g, food.CarbsPer100g, food.FatPer100g,
		food.ID)
	if isUniqueViolation(err, "foods_slug_key") {
		return domain.ErrDuplicateSlug
	}
	return err
}

// DeleteFood removes a food; dependent portions go with it via the
// ON DELETE CASCADE on portions.food_id.
func (d *DB) DeleteFood(ctx context.Context, id int64) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM foods WHERE id=$1;", id)
	return err
}
