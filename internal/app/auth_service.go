// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"dietprogram/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// DefaultSessionTTL is the lifetime of a session cookie.
const DefaultSessionTTL = 24 * time.Hour

// Registration is the sign-up form.
type Registration struct {
	Username       string               `json:"username"`
	Email          string               `json:"email"`
	Password       string               `json:"password"`
	FirstName      string               `json:"firstName"`
	LastName       string               `json:"lastName"`
	BirthDate      string               `json:"birthDate"`
	Gender         domain.Gender        `json:"gender"`
	HeightCm       float64              `json:"height"`
	WeightKg       float64              `json:"weight"`
	ActivityLevel  domain.ActivityLevel `json:"activityLevel"`
	Goal           domain.Goal          `json:"goal"`
	TargetWeightKg *float64             `json:"targetWeight"`
}

// AuthService handles registration, authentication and session management.
type AuthService struct {
	users      domain.UserRepository
	sessions   domain.SessionRepository
	sessionTTL time.Duration
	now        func() time.Time
}

// NewAuthService creates a new authentication service. A non-positive ttl
// uses DefaultSessionTTL.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		sessionTTL: ttl,
		now:        time.Now,
	}
}

// SessionTTL returns the configured session lifetime.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Register validates the form, stores the user with a bcrypt password hash
// and a computed daily calorie goal, and opens a session.
func (s *AuthService) Register(ctx context.Context, reg Registration, userAgent, ip string) (*domain.User, string, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Username == "" {
		return nil, "", invalidf("username is required")
	}
	if !strings.Contains(reg.Email, "@") {
		return nil, "", invalidf("email is invalid")
	}
	if reg.Password == "" {
		return nil, "", invalidf("password is required")
	}
	if !domain.ValidDay(reg.BirthDate) {
		return nil, "", invalidf("birthDate must be YYYY-MM-DD")
	}
	if err := validateBody(reg.Gender, reg.HeightCm, reg.WeightKg, reg.ActivityLevel, reg.Goal); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u := domain.User{
		Username:       reg.Username,
		Email:          reg.Email,
		PasswordHash:   string(hash),
		FirstName:      reg.FirstName,
		LastName:       reg.LastName,
		BirthDate:      reg.BirthDate,
		Gender:         reg.Gender,
		HeightCm:       reg.HeightCm,
		WeightKg:       reg.WeightKg,
		ActivityLevel:  reg.ActivityLevel,
		Goal:           reg.Goal,
		TargetWeightKg: reg.TargetWeightKg,
	}
	u.DailyCalorieGoal = domain.DailyCalorieGoal(u.BodyMetrics(s.now()))

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, "", err
	}

	token, err := s.openSession(ctx, created.ID, userAgent, ip)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login authenticates a user by username or email and creates a session.
func (s *AuthService) Login(ctx context.Context, login, password, userAgent, ip string) (*domain.User, string, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil || user == nil || user.PasswordHash == "" {
		return nil, "", ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user.ID, userAgent, ip)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession checks if a session token is valid and matches the user agent.
func (s *AuthService) ValidateSession(ctx context.Context, token, userAgent string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if s.now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	if session.UserAgent != userAgent {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// LoginWithUser creates a session for an already authenticated user (e.g. via SSO).
// Unknown users are provisioned with an empty password hash and a default profile.
func (s *AuthService) LoginWithUser(ctx context.Context, email, userAgent, ip string) (string, error) {
	user, err := s.users.GetByLogin(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		user, err = s.users.Create(ctx, domain.User{
			Username:      email,
			Email:         email,
			ActivityLevel: domain.ActivitySedentary,
			Goal:          domain.GoalMaintain,
		})
		if err != nil {
			// Lost a race with a concurrent first login.
			user, err = s.users.GetByLogin(ctx, email)
			if err != nil || user == nil {
				return "", ErrUserNotFound
			}
		}
	}

	return s.openSession(ctx, user.ID, userAgent, ip)
}

// PurgeExpiredSessions deletes expired sessions and returns how many were removed.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}

func (s *AuthService) openSession(ctx context.Context, userID int64, userAgent, ip string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	expiresAt := s.now().Add(s.sessionTTL)
	if err := s.sessions.Create(ctx, userID, token, userAgent, ip, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
