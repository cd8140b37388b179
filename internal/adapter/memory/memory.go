// Package memory implements in-memory repositories for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"nutrilog/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	foods    []domain.Food
	portions []domain.Portion
	users    []*domain.User
	sessions map[string]*domain.Session

	foodIDCounter    int64
	portionIDCounter int64
	userIDCounter    int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.FoodRepository = (*DB)(nil)
var _ domain.PortionRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- FoodRepository ---

// FindFoodByID retrieves a food by ID regardless of ownership.
func (db *DB) FindFoodByID(ctx context.Context, id int64) (*domain.Food, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.foods {
		if db.foods[i].ID == id {
			f := db.foods[i]
			return &f, nil
		}
	}
	return nil, nil
}

// FindFoodBySlug retrieves the food with the given slug that is global or
// owned by the user.
func (db *DB) FindFoodBySlug(ctx context.Context, slug string, userID int64) (*domain.Food, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.foods {
		f := db.foods[i]
		if f.Slug == slug && f.VisibleTo(userID) {
			return &f, nil
		}
	}
	return nil, nil
}

// ListAccessibleFoods returns global foods plus the user's own, ordered by name.
func (db *DB) ListAccessibleFoods(ctx context.Context, userID int64) ([]domain.Food, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Food
	for i := range db.foods {
		if db.foods[i].VisibleTo(userID) {
			out = append(out, db.foods[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CreateFood adds a food, enforcing global slug uniqueness.
func (db *DB) CreateFood(ctx context.Context, food *domain.Food) (*domain.Food, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.foods {
		if db.foods[i].Slug == food.Slug {
			return nil, domain.ErrDuplicateSlug
		}
	}

	db.foodIDCounter++
	created := *food
	created.ID = db.foodIDCounter
	created.CreatedAt = time.Now().UTC()
	db.foods = append(db.foods, created)
	return &created, nil
}

// UpdateFood applies changes to an existing food.
func (db *DB) UpdateFood(ctx context.Context, food *domain.Food) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.foods {
		if db.foods[i].Slug == food.Slug && db.foods[i].ID != food.ID {
			return domain.ErrDuplicateSlug
		}
	}
	for i := range db.foods {
		if db.foods[i].ID == food.ID {
			db.foods[i] = *food
			return nil
		}
	}
	return nil
}

// DeleteFood removes a food and cascades to portions referencing it.
func (db *DB) DeleteFood(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.foods {
		if db.foods[i].ID == id {
			db.foods = append(db.foods[:i], db.foods[i+1:]...)
			break
		}
	}
	kept := db.portions[:0]
	for _, p := range db.portions {
		if p.FoodID != id {
			kept = append(kept, p)
		}
	}
	db.portions = kept
	return nil
}

// --- PortionRepository ---

// FindPortionByID retrieves a portion with its food loaded.
func (db *DB) FindPortionByID(ctx context.Context, id int64) (*domain.Portion, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.portions {
		if db.portions[i].ID == id {
			p := db.portions[i]
			p.Food = db.foodByID(p.FoodID)
			return &p, nil
		}
	}
	return nil, nil
}

// ListPortionsByDate returns a user's portions for a day, newest first.
func (db *DB) ListPortionsByDate(ctx context.Context, userID int64, day string) ([]domain.Portion, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Portion
	for i := range db.portions {
		p := db.portions[i]
		if p.UserID == userID && p.ConsumedAt == day {
			p.Food = db.foodByID(p.FoodID)
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ListRecentPortions returns up to limit of a user's portions, newest day first.
func (db *DB) ListRecentPortions(ctx context.Context, userID int64, limit int) ([]domain.Portion, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Portion
	for i := range db.portions {
		p := db.portions[i]
		if p.UserID == userID {
			p.Food = db.foodByID(p.FoodID)
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ConsumedAt != out[j].ConsumedAt {
			return out[i].ConsumedAt > out[j].ConsumedAt
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CreatePortion adds a portion log entry.
func (db *DB) CreatePortion(ctx context.Context, p *domain.Portion) (*domain.Portion, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.portionIDCounter++
	created := *p
	created.ID = db.portionIDCounter
	created.CreatedAt = time.Now().UTC()
	created.Food = nil
	db.portions = append(db.portions, created)
	return &created, nil
}

// DeletePortion removes a portion by ID, scoped to a user.
func (db *DB) DeletePortion(ctx context.Context, userID, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.portions {
		if db.portions[i].ID == id && db.portions[i].UserID == userID {
			db.portions = append(db.portions[:i], db.portions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (db *DB) foodByID(id int64) *domain.Food {
	for i := range db.foods {
		if db.foods[i].ID == id {
			f := db.foods[i]
			return &f
		}
	}
	return nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		return s, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
