// Package domain contains the core business entities, the nutrition
// computations and the repository ports.
package domain

import (
	"context"
	"time"
)

// User represents a registered user and their body profile.
type User struct {
	ID               int64         `json:"id"`
	Username         string        `json:"username"`
	Email            string        `json:"email"`
	PasswordHash     string        `json:"-"`
	FirstName        string        `json:"firstName"`
	LastName         string        `json:"lastName"`
	BirthDate        string        `json:"birthDate"`
	Gender           Gender        `json:"gender"`
	HeightCm         float64       `json:"height"`
	WeightKg         float64       `json:"weight"`
	ActivityLevel    ActivityLevel `json:"activityLevel"`
	Goal             Goal          `json:"goal"`
	TargetWeightKg   *float64      `json:"targetWeight"`
	DailyCalorieGoal int           `json:"dailyCalorieGoal"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// BodyMetrics derives the calorie goal inputs from the profile. An
// unparseable birth date yields age 0.
func (u User) BodyMetrics(today time.Time) BodyMetrics {
	age := 0
	if b, err := time.Parse(DayLayout, u.BirthDate); err == nil {
		age = AgeOn(b, today)
	}
	return BodyMetrics{
		WeightKg: u.WeightKg,
		HeightCm: u.HeightCm,
		Age:      age,
		Gender:   u.Gender,
		Activity: u.ActivityLevel,
		Goal:     u.Goal,
	}
}

// Session represents an active user session.
type Session struct {
	Token     string
	UserID    int64
	UserAgent string
	IP        string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	// GetByLogin finds a user by username or email. It returns nil when
	// no user matches.
	GetByLogin(ctx context.Context, login string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	// Create stores u and returns it with ID and timestamps set. It fails
	// with ErrUserExists on a duplicate username or email.
	Create(ctx context.Context, u User) (*User, error)
	UpdateProfile(ctx context.Context, u User) error
}

// SessionRepository defines the port for session persistence operations.
type SessionRepository interface {
	Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
