package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"nutrilog/internal/domain"
)

const portionSelect = `SELECT p.id, p.user_id, p.food_id, p.grams, p.consumed_at, p.created_at,
	f.id, f.user_id, f.name, f.slug, f.kcal_per_100g, f.protein_per_100g, f.carbs_per_100g, f.fat_per_100g, f.is_global, f.created_at
	FROM portions p JOIN foods f ON f.id = p.food_id`

func scanPortion(row interface{ Scan(...any) error }) (*domain.Portion, error) {
	var p domain.Portion
	var f domain.Food
	var day time.Time
	var foodOwner sql.NullInt64
	err := row.Scan(&p.ID, &p.UserID, &p.FoodID, &p.Grams, &day, &p.CreatedAt,
		&f.ID, &foodOwner, &f.Name, &f.Slug,
		&f.KcalPer100g, &f.ProteinPer100g, &f.CarbsPer100g, &f.FatPer100g,
		&f.IsGlobal, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.ConsumedAt = day.Format("2006-01-02")
	if foodOwner.Valid {
		f.UserID = &foodOwner.Int64
	}
	p.Food = &f
	return &p, nil
}

// FindPortionByID retrieves a portion with its food loaded.
func (d *DB) FindPortionByID(ctx context.Context, id int64) (*domain.Portion, error) {
	p, err := scanPortion(d.sql.QueryRowContext(ctx, portionSelect+" WHERE p.id=$1;", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// ListPortionsByDate returns a user's portions for a calendar day, newest
// first, with foods loaded.
func (d *DB) ListPortionsByDate(ctx context.Context, userID int64, day string) ([]domain.Portion, error) {
	rows, err := d.sql.QueryContext(ctx,
		portionSelect+" WHERE p.user_id=$1 AND p.consumed_at=$2 ORDER BY p.created_at DESC;",
		userID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck
	return collectPortions(rows)
}

// ListRecentPortions returns up to limit of a user's portions ordered by
// consumption day then creation time, newest first.
func (d *DB) ListRecentPortions(ctx context.Context, userID int64, limit int) ([]domain.Portion, error) {
	rows, err := d.sql.QueryContext(ctx,
		portionSelect+" WHERE p.user_id=$1 ORDER BY p.consumed_at DESC, p.created_at DESC LIMIT $2;",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck
	return collectPortions(rows)
}

func collectPortions(rows *sql.Rows) ([]domain.Portion, error) {
	var out []domain.Portion
	for rows.Next() {
		p, err := scanPortion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// CreatePortion inserts a new portion log entry.
func (d *DB) CreatePortion(ctx context.Context, p *domain.Portion) (*domain.Portion, error) {
	created := *p
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO portions(user_id, food_id, grams, consumed_at, created_at) VALUES($1, $2, $3, $4, $5) RETURNING id, created_at;",
		p.UserID, p.FoodID, p.Grams, p.ConsumedAt, time.Now().UTC(),
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeletePortion removes a portion by ID, scoped to a user.
func (d *DB) DeletePortion(ctx context.Context, userID, id int64) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM portions WHERE id=$1 AND user_id=$2;", id, userID)
	return err
}
