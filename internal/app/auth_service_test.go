package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"dietprogram/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func validRegistration() Registration {
	return Registration{
		Username:      "jane",
		Email:         "jane@example.com",
		Password:      "s3cret!",
		BirthDate:     "1995-01-10",
		Gender:        domain.GenderMale,
		HeightCm:      175,
		WeightKg:      70,
		ActivityLevel: domain.ActivityModerate,
		Goal:          domain.GoalLoseWeight,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	ctx := context.Background()

	var stored domain.User
	users := &mockUserRepo{
		createFn: func(_ context.Context, u domain.User) (*domain.User, error) {
			stored = u
			u.ID = 7
			return &u, nil
		},
	}
	var sessionUser int64
	var sessionUA string
	sessions := &mockSessionRepo{
		createFn: func(_ context.Context, userID int64, token, userAgent, _ string, _ time.Time) error {
			sessionUser = userID
			sessionUA = userAgent
			if token == "" {
				t.Error("token should not be empty")
			}
			return nil
		},
	}

	svc := NewAuthService(users, sessions, time.Hour)
	svc.now = fixedClock("2025-05-15")

	user, token, err := svc.Register(ctx, validRegistration(), "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected token")
	}
	if user.ID != 7 || sessionUser != 7 {
		t.Errorf("expected session for user 7, got %d", sessionUser)
	}
	if sessionUA != "test-agent" {
		t.Errorf("expected session bound to user agent, got %q", sessionUA)
	}
	if stored.DailyCalorieGoal != 2128 {
		t.Errorf("expected daily goal 2128, got %d", stored.DailyCalorieGoal)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret!")) != nil {
		t.Error("expected bcrypt hash of password")
	}
}

func TestAuthService_Register_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Registration)
	}{
		{"no username", func(r *Registration) { r.Username = " " }},
		{"bad email", func(r *Registration) { r.Email = "nope" }},
		{"no password", func(r *Registration) { r.Password = "" }},
		{"bad birth date", func(r *Registration) { r.BirthDate = "15/05/1990" }},
		{"bad gender", func(r *Registration) { r.Gender = "other" }},
		{"zero height", func(r *Registration) { r.HeightCm = 0 }},
		{"zero weight", func(r *Registration) { r.WeightKg = 0 }},
		{"bad activity", func(r *Registration) { r.ActivityLevel = "couch" }},
		{"bad goal", func(r *Registration) { r.Goal = "bulk" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserRepo{
				createFn: func(context.Context, domain.User) (*domain.User, error) {
					t.Fatal("create must not be called")
					return nil, nil
				},
			}
			svc := NewAuthService(users, &mockSessionRepo{}, 0)
			reg := validRegistration()
			tt.mutate(&reg)
			_, _, err := svc.Register(context.Background(), reg, "ua", "ip")
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	users := &mockUserRepo{
		createFn: func(context.Context, domain.User) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{}, 0)
	_, _, err := svc.Register(context.Background(), validRegistration(), "ua", "ip")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	password := "testpass123"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	users := &mockUserRepo{
		getByLoginFn: func(_ context.Context, login string) (*domain.User, error) {
			if login != "testuser@example.com" {
				t.Errorf("unexpected login %q", login)
			}
			return &domain.User{
				ID:           1,
				Username:     "testuser",
				PasswordHash: string(hash),
			}, nil
		},
	}

	var expires time.Time
	sessions := &mockSessionRepo{
		createFn: func(_ context.Context, userID int64, token, _, _ string, expiresAt time.Time) error {
			if userID != 1 {
				t.Errorf("expected userID 1, got %d", userID)
			}
			if token == "" {
				t.Error("token should not be empty")
			}
			expires = expiresAt
			return nil
		},
	}

	svc := NewAuthService(users, sessions, 2*time.Hour)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	user, token, err := svc.Login(ctx, "testuser@example.com", password, "ua", "ip")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected token, got empty string")
	}
	if user.Username != "testuser" {
		t.Errorf("expected testuser, got %s", user.Username)
	}
	if !expires.Equal(now.Add(2 * time.Hour)) {
		t.Errorf("expected expiry after ttl, got %v", expires)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.DefaultCost)

	users := &mockUserRepo{
		getByLoginFn: func(context.Context, string) (*domain.User, error) {
			return &domain.User{
				ID:           1,
				Username:     "testuser",
				PasswordHash: string(hash),
			}, nil
		},
	}

	svc := NewAuthService(users, &mockSessionRepo{}, 0)

	_, _, err := svc.Login(ctx, "testuser", "wrongpass", "ua", "ip")
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownAndSSOOnlyUsers(t *testing.T) {
	for name, user := range map[string]*domain.User{
		"unknown":  nil,
		"sso only": {ID: 3, Username: "sso@example.com"},
	} {
		t.Run(name, func(t *testing.T) {
			users := &mockUserRepo{
				getByLoginFn: func(context.Context, string) (*domain.User, error) { return user, nil },
			}
			svc := NewAuthService(users, &mockSessionRepo{}, 0)
			_, _, err := svc.Login(context.Background(), "x", "", "ua", "ip")
			if err != ErrInvalidCredentials {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_ValidateSession_Valid(t *testing.T) {
	ctx := context.Background()
	token := "validtoken"

	sessions := &mockSessionRepo{
		getByTokenFn: func(context.Context, string) (*domain.Session, error) {
			return &domain.Session{
				Token:     token,
				UserID:    1,
				UserAgent: "ua",
				ExpiresAt: time.Now().Add(1 * time.Hour),
			}, nil
		},
	}

	users := &mockUserRepo{
		getByIDFn: func(context.Context, int64) (*domain.User, error) {
			return &domain.User{
				ID:       1,
				Username: "testuser",
			}, nil
		},
	}

	svc := NewAuthService(users, sessions, 0)
	user, err := svc.ValidateSession(ctx, token, "ua")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "testuser" {
		t.Errorf("expected username 'testuser', got %s", user.Username)
	}
}

func TestAuthService_ValidateSession_Expired(t *testing.T) {
	ctx := context.Background()
	token := "expiredtoken"

	deleted := false
	sessions := &mockSessionRepo{
		getByTokenFn: func(context.Context, string) (*domain.Session, error) {
			return &domain.Session{
				Token:     token,
				UserID:    1,
				UserAgent: "ua",
				ExpiresAt: time.Now().Add(-1 * time.Hour),
			}, nil
		},
		deleteFn: func(context.Context, string) error {
			deleted = true
			return nil
		},
	}

	svc := NewAuthService(&mockUserRepo{}, sessions, 0)

	_, err := svc.ValidateSession(ctx, token, "ua")
	if err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if !deleted {
		t.Error("expected session to be deleted")
	}
}

func TestAuthService_ValidateSession_UserAgentMismatch(t *testing.T) {
	deleted := false
	sessions := &mockSessionRepo{
		getByTokenFn: func(context.Context, string) (*domain.Session, error) {
			return &domain.Session{UserID: 1, UserAgent: "firefox", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
		deleteFn: func(context.Context, string) error {
			deleted = true
			return nil
		},
	}

	svc := NewAuthService(&mockUserRepo{}, sessions, 0)
	_, err := svc.ValidateSession(context.Background(), "tok", "curl")
	if err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if !deleted {
		t.Error("expected hijacked session to be deleted")
	}
}

func TestAuthService_ValidateSession_NotFound(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockSessionRepo{}, 0)
	_, err := svc.ValidateSession(context.Background(), "missing", "ua")
	if err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAuthService_LoginWithUser_ExistingUser(t *testing.T) {
	users := &mockUserRepo{
		getByLoginFn: func(context.Context, string) (*domain.User, error) {
			return &domain.User{ID: 4, Email: "sso@example.com"}, nil
		},
		createFn: func(context.Context, domain.User) (*domain.User, error) {
			t.Fatal("existing user must not be recreated")
			return nil, nil
		},
	}
	var sessionUser int64
	sessions := &mockSessionRepo{
		createFn: func(_ context.Context, userID int64, _, _, _ string, _ time.Time) error {
			sessionUser = userID
			return nil
		},
	}

	svc := NewAuthService(users, sessions, 0)
	token, err := svc.LoginWithUser(context.Background(), "sso@example.com", "ua", "ip")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" || sessionUser != 4 {
		t.Errorf("expected session for user 4, got %d", sessionUser)
	}
}

func TestAuthService_LoginWithUser_NewUser(t *testing.T) {
	var created domain.User
	users := &mockUserRepo{
		createFn: func(_ context.Context, u domain.User) (*domain.User, error) {
			created = u
			u.ID = 9
			return &u, nil
		},
	}

	svc := NewAuthService(users, &mockSessionRepo{}, 0)
	if _, err := svc.LoginWithUser(context.Background(), "new@example.com", "ua", "ip"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Email != "new@example.com" || created.PasswordHash != "" {
		t.Errorf("unexpected provisioned user %+v", created)
	}
}

func TestAuthService_PurgeExpiredSessions(t *testing.T) {
	sessions := &mockSessionRepo{
		deleteExpiredFn: func(context.Context) (int64, error) { return 3, nil },
	}
	svc := NewAuthService(&mockUserRepo{}, sessions, 0)
	n, err := svc.PurgeExpiredSessions(context.Background())
	if err != nil || n != 3 {
		t.Errorf("expected 3 purged, got %d (%v)", n, err)
	}
}
