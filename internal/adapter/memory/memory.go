// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"dietprogram/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	foods    []domain.FoodItem
	meals    []domain.Meal
	progress map[progressKey]domain.ProgressEntry
	plans    []domain.DietPlan
	users    []*domain.User
	sessions map[string]*domain.Session

	foodIDCounter     int64
	mealIDCounter     int64
	mealItemIDCounter int64
	progressIDCounter int64
	planIDCounter     int64
	userIDCounter     int64
}

type progressKey struct {
	userID int64
	day    string
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		progress: make(map[progressKey]domain.ProgressEntry),
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.FoodRepository = (*DB)(nil)
var _ domain.MealRepository = (*DB)(nil)
var _ domain.DietPlanRepository = (*DB)(nil)
var _ domain.ProgressRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- FoodRepository ---

// CreateFoodItem adds an item to the catalog and returns its id.
func (db *DB) CreateFoodItem(ctx context.Context, f domain.FoodItem) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.foodIDCounter++
	f.ID = db.foodIDCounter
	db.foods = append(db.foods, f)
	return f.ID, nil
}

// CountFoodItems returns the catalog size.
func (db *DB) CountFoodItems(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.foods), nil
}

func (db *DB) catalog() *domain.Catalog {
	return domain.NewCatalog(db.foods)
}

// GetFoodItem returns the item with id, or nil.
func (db *DB) GetFoodItem(ctx context.Context, id int64) (*domain.FoodItem, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, f := range db.foods {
		if f.ID == id {
			return &f, nil
		}
	}
	return nil, nil
}

// GetFoodItems returns the items whose id is in ids. Unknown ids are skipped.
func (db *DB) GetFoodItems(ctx context.Context, ids []int64) ([]domain.FoodItem, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.FoodItem
	for _, f := range db.foods {
		if want[f.ID] {
			out = append(out, f)
		}
	}
	return out, nil
}

// ListFoodItems returns the items matching filter, ordered by name.
func (db *DB) ListFoodItems(ctx context.Context, filter domain.FoodFilter) ([]domain.FoodItem, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.catalog().Search(filter), nil
}

// ListCategories returns the distinct categories in the catalog.
func (db *DB) ListCategories(ctx context.Context) ([]domain.Category, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.catalog().Categories(), nil
}

// --- MealRepository ---

// CreateMeal stores m with its items and returns the new meal id.
func (db *DB) CreateMeal(ctx context.Context, m *domain.Meal) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.mealIDCounter++
	stored := *m
	stored.ID = db.mealIDCounter
	stored.Items = make([]domain.MealItem, len(m.Items))
	for i, it := range m.Items {
		db.mealItemIDCounter++
		it.ID = db.mealItemIDCounter
		stored.Items[i] = it
		m.Items[i].ID = it.ID
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	db.meals = append(db.meals, stored)
	return stored.ID, nil
}

// ListMeals returns the user's meals on day, or all of them when day is
// empty, newest day first and in meal type order within a day.
func (db *DB) ListMeals(ctx context.Context, userID int64, day string) ([]domain.Meal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Meal
	for _, m := range db.meals {
		if m.UserID == userID && (day == "" || m.Date == day) {
			m.Items = append([]domain.MealItem(nil), m.Items...)
			m.Totals = domain.SumItems(m.Items)
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if ri, rj := out[i].MealType.Rank(), out[j].MealType.Rank(); ri != rj {
			return ri < rj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DailyTotals sums the user's meals per day inside r.
func (db *DB) DailyTotals(ctx context.Context, userID int64, r domain.DateRange) (map[string]domain.Totals, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make(map[string]domain.Totals)
	for _, m := range db.meals {
		if m.UserID == userID && r.Contains(m.Date) {
			out[m.Date] = out[m.Date].Add(domain.SumItems(m.Items))
		}
	}
	return out, nil
}

// --- DietPlanRepository ---

// CreateDietPlan stores p with its meal templates and returns its id.
func (db *DB) CreateDietPlan(ctx context.Context, p domain.DietPlan) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.planIDCounter++
	p.ID = db.planIDCounter
	meals := make([]domain.PlanMeal, len(p.Meals))
	for i, pm := range p.Meals {
		pm.ID = int64(i + 1)
		pm.Items = append([]domain.PlanItem(nil), pm.Items...)
		meals[i] = pm
	}
	p.Meals = meals
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	db.plans = append(db.plans, p)
	return p.ID, nil
}

// ListPublicPlans returns public plans ordered by name.
func (db *DB) ListPublicPlans(ctx context.Context) ([]domain.DietPlan, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.DietPlan
	for _, p := range db.plans {
		if p.IsPublic {
			p.Meals = nil
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetDietPlan returns the plan with id including its meals, or nil.
func (db *DB) GetDietPlan(ctx context.Context, id int64) (*domain.DietPlan, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, p := range db.plans {
		if p.ID == id {
			p.Meals = append([]domain.PlanMeal(nil), p.Meals...)
			return &p, nil
		}
	}
	return nil, nil
}

// --- ProgressRepository ---

// UpsertProgress replaces the entry for (e.UserID, e.Date).
func (db *DB) UpsertProgress(ctx context.Context, e domain.ProgressEntry) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	k := progressKey{userID: e.UserID, day: e.Date}
	if prev, ok := db.progress[k]; ok {
		e.ID = prev.ID
	} else {
		db.progressIDCounter++
		e.ID = db.progressIDCounter
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}
	db.progress[k] = e
	return nil
}

// ListProgress returns the user's entries newest first.
func (db *DB) ListProgress(ctx context.Context, userID int64, r *domain.DateRange) ([]domain.ProgressEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.listProgress(userID, r), nil
}

func (db *DB) listProgress(userID int64, r *domain.DateRange) []domain.ProgressEntry {
	var out []domain.ProgressEntry
	for k, e := range db.progress {
		if k.userID != userID {
			continue
		}
		if r != nil && !r.Contains(k.day) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// LatestWeight returns the newest entry with a weight, or nil.
func (db *DB) LatestWeight(ctx context.Context, userID int64) (*domain.ProgressEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, e := range db.listProgress(userID, nil) {
		if e.WeightKg != nil {
			return &e, nil
		}
	}
	return nil, nil
}

// --- UserRepository ---

// GetByLogin retrieves a user by username or email.
func (db *DB) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == login || strings.EqualFold(u.Email, login) {
			cp := *u
			return &cp, nil
		}
	}
	// Return nil if not found
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.users {
		if existing.Username == u.Username || strings.EqualFold(existing.Email, u.Email) {
			return nil, domain.ErrUserExists
		}
	}

	db.userIDCounter++
	u.ID = db.userIDCounter
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	stored := u
	db.users = append(db.users, &stored)
	return &u, nil
}

// UpdateProfile overwrites the stored profile fields of u.
func (db *DB) UpdateProfile(ctx context.Context, u domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.users {
		if existing.ID == u.ID {
			existing.FirstName = u.FirstName
			existing.LastName = u.LastName
			existing.BirthDate = u.BirthDate
			existing.Gender = u.Gender
			existing.HeightCm = u.HeightCm
			existing.WeightKg = u.WeightKg
			existing.ActivityLevel = u.ActivityLevel
			existing.Goal = u.Goal
			existing.TargetWeightKg = u.TargetWeightKg
			existing.DailyCalorieGoal = u.DailyCalorieGoal
			existing.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrNotFound
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

// GetByToken retrieves a session by token. Expiry is left to the caller.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		cp := *s
		return &cp, nil
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
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	var n int64
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
			n++
		}
	}
	return n, nil
}
