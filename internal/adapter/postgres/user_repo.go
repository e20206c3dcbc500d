// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dietprogram/internal/domain"
)

type userRow struct {
	ID               int64     `db:"id"`
	Username         string    `db:"username"`
	Email            string    `db:"email"`
	PasswordHash     string    `db:"password_hash"`
	FirstName        string    `db:"first_name"`
	LastName         string    `db:"last_name"`
	BirthDate        string    `db:"birth_date"`
	Gender           string    `db:"gender"`
	HeightCm         float64   `db:"height_cm"`
	WeightKg         float64   `db:"weight_kg"`
	ActivityLevel    string    `db:"activity_level"`
	Goal             string    `db:"goal"`
	TargetWeightKg   *float64  `db:"target_weight_kg"`
	DailyCalorieGoal int       `db:"daily_calorie_goal"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:               r.ID,
		Username:         r.Username,
		Email:            r.Email,
		PasswordHash:     r.PasswordHash,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		BirthDate:        r.BirthDate,
		Gender:           domain.Gender(r.Gender),
		HeightCm:         r.HeightCm,
		WeightKg:         r.WeightKg,
		ActivityLevel:    domain.ActivityLevel(r.ActivityLevel),
		Goal:             domain.Goal(r.Goal),
		TargetWeightKg:   r.TargetWeightKg,
		DailyCalorieGoal: r.DailyCalorieGoal,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

const userColumns = `id, username, email, password_hash, first_name, last_name,
	COALESCE(birth_date::text, '') AS birth_date, gender, height_cm, weight_kg,
	activity_level, goal, target_weight_kg, daily_calorie_goal, created_at, updated_at`

func (d *DB) getUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	var row userRow
	err := d.sql.GetContext(ctx, &row, "SELECT "+userColumns+" FROM users WHERE "+where, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// GetByLogin retrieves a user by username or case-insensitive email.
func (d *DB) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return d.getUser(ctx, "username = $1 OR lower(email) = lower($1)", login)
}

// GetByID retrieves a user by ID.
func (d *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return d.getUser(ctx, "id = $1", id)
}

// Create creates a new user.
func (d *DB) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	var birth any
	if u.BirthDate != "" {
		birth = u.BirthDate
	}
	now := time.Now().UTC()

	var row userRow
	err := d.sql.GetContext(ctx, &row,
		`INSERT INTO users (username, email, password_hash, first_name, last_name, birth_date, gender,
			height_cm, weight_kg, activity_level, goal, target_weight_kg, daily_calorie_goal, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		RETURNING `+userColumns,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, birth, string(u.Gender),
		u.HeightCm, u.WeightKg, string(u.ActivityLevel), string(u.Goal), u.TargetWeightKg, u.DailyCalorieGoal, now,
	)
	if isUniqueViolation(err) {
		return nil, domain.ErrUserExists
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// UpdateProfile overwrites the editable profile fields of u.
func (d *DB) UpdateProfile(ctx context.Context, u domain.User) error {
	var birth any
	if u.BirthDate != "" {
		birth = u.BirthDate
	}
	res, err := d.sql.ExecContext(ctx,
		`UPDATE users SET first_name = $2, last_name = $3, birth_date = $4, gender = $5, height_cm = $6,
			weight_kg = $7, activity_level = $8, goal = $9, target_weight_kg = $10, daily_calorie_goal = $11,
			updated_at = $12
		WHERE id = $1`,
		u.ID, u.FirstName, u.LastName, birth, string(u.Gender), u.HeightCm,
		u.WeightKg, string(u.ActivityLevel), string(u.Goal), u.TargetWeightKg, u.DailyCalorieGoal,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SessionRepo implements session repository operations on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

type sessionRow struct {
	Token     string    `db:"token"`
	UserID    int64     `db:"user_id"`
	UserAgent string    `db:"user_agent"`
	IP        string    `db:"ip"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token, user_agent, ip, expires_at, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		userID, token, userAgent, ip, expiresAt, time.Now(),
	)
	return err
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var row sessionRow
	err := r.db.sql.GetContext(ctx, &row,
		"SELECT token, user_id, user_agent, ip, expires_at, created_at FROM sessions WHERE token = $1",
		token,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		Token:     row.Token,
		UserID:    row.UserID,
		UserAgent: row.UserAgent,
		IP:        row.IP,
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
	}, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE token = $1", token)
	return err
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < $1", time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.FoodRepository = (*DB)(nil)
var _ domain.MealRepository = (*DB)(nil)
var _ domain.DietPlanRepository = (*DB)(nil)
var _ domain.ProgressRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)
