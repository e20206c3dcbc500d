package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// DB wraps a *sqlx.DB and implements domain repository interfaces.
type DB struct {
	sql *sqlx.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := New(s)
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// New wraps an existing connection without migrating it.
func New(s *sqlx.DB) *DB {
	return &DB{sql: s}
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Ping checks that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		birth_date DATE,
		gender TEXT NOT NULL DEFAULT '',
		height_cm DOUBLE PRECISION NOT NULL DEFAULT 0,
		weight_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
		activity_level TEXT NOT NULL DEFAULT 'sedentary',
		goal TEXT NOT NULL DEFAULT 'maintain',
		target_weight_kg DOUBLE PRECISION,
		daily_calorie_goal INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		user_agent TEXT NOT NULL DEFAULT '',
		ip TEXT NOT NULL DEFAULT '',
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);`,
	"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
	`CREATE TABLE IF NOT EXISTS food_items (
		id BIGSERIAL PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		category TEXT NOT NULL,
		calories_per_100g DOUBLE PRECISION NOT NULL CHECK (calories_per_100g >= 0),
		protein_per_100g DOUBLE PRECISION NOT NULL CHECK (protein_per_100g >= 0),
		carbs_per_100g DOUBLE PRECISION NOT NULL CHECK (carbs_per_100g >= 0),
		fat_per_100g DOUBLE PRECISION NOT NULL CHECK (fat_per_100g >= 0)
	);`,
	"CREATE INDEX IF NOT EXISTS idx_food_items_category ON food_items(category);",
	`CREATE TABLE IF NOT EXISTS meals (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		meal_type TEXT NOT NULL CHECK (meal_type IN ('breakfast','lunch','dinner','snack')),
		created_at TIMESTAMPTZ NOT NULL
	);`,
	"CREATE INDEX IF NOT EXISTS idx_meals_user_date ON meals(user_id, date);",
	`CREATE TABLE IF NOT EXISTS meal_items (
		id BIGSERIAL PRIMARY KEY,
		meal_id BIGINT NOT NULL REFERENCES meals(id) ON DELETE CASCADE,
		food_item_id BIGINT NOT NULL REFERENCES food_items(id),
		position INTEGER NOT NULL,
		food_name TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		calories INTEGER NOT NULL,
		protein DOUBLE PRECISION NOT NULL,
		carbs DOUBLE PRECISION NOT NULL,
		fat DOUBLE PRECISION NOT NULL
	);`,
	"CREATE INDEX IF NOT EXISTS idx_meal_items_meal_id ON meal_items(meal_id);",
	`CREATE TABLE IF NOT EXISTS user_progress (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		weight_kg DOUBLE PRECISION,
		water_liters DOUBLE PRECISION,
		exercise_minutes INTEGER,
		notes TEXT,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, date)
	);`,
	`CREATE TABLE IF NOT EXISTS diet_plans (
		id BIGSERIAL PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		duration_days INTEGER NOT NULL,
		target_calories INTEGER NOT NULL,
		is_public BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS diet_plan_meals (
		id BIGSERIAL PRIMARY KEY,
		diet_plan_id BIGINT NOT NULL REFERENCES diet_plans(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		day_number INTEGER NOT NULL,
		meal_type TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS diet_plan_meal_items (
		id BIGSERIAL PRIMARY KEY,
		plan_meal_id BIGINT NOT NULL REFERENCES diet_plan_meals(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		food_item_id BIGINT NOT NULL REFERENCES food_items(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0)
	);`,
}

func (d *DB) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
