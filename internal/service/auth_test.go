package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/billeasy/backend/internal/config"
	"github.com/billeasy/backend/internal/model"
)

type fakeUserRepo struct {
	users  map[string]*model.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}, nextID: 1}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, email, passwordHash string) (*model.User, error) {
	if _, ok := f.users[email]; ok {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	user := &model.User{ID: f.nextID, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.nextID++
	f.users[email] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	for _, user := range f.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newTestAuthService(t *testing.T, repo UserRepo) *AuthService {
	t.Helper()
	svc, err := NewAuthService(repo, config.AuthConfig{JWTSecret: "test-secret"})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc
}

func TestSignupThenLogin(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())
	ctx := context.Background()

	user, err := svc.Signup(ctx, "a@x.com", "secret123")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Fatalf("password stored without hashing")
	}

	token, err := svc.Login(ctx, "a@x.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	identity, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if identity.ID != user.ID || identity.Email != "a@x.com" {
		t.Fatalf("claims mismatch: %+v", identity)
	}
}

func TestSignupValidation(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())
	ctx := context.Background()

	for _, tc := range []struct{ email, password string }{
		{"", "secret123"},
		{"a@x.com", ""},
		{"   ", "secret123"},
	} {
		if _, err := svc.Signup(ctx, tc.email, tc.password); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("signup(%q, %q): expected ErrInvalidInput, got %v", tc.email, tc.password, err)
		}
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "a@x.com", "secret123"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(ctx, "a@x.com", "different"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSignupConflictOnLostRace(t *testing.T) {
	// A concurrent signup that sneaks in between the pre-check and the
	// insert surfaces as a unique violation, which must still map to
	// ErrConflict.
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, &racingUserRepo{fakeUserRepo: repo})
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "a@x.com", "secret123"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

// racingUserRepo reports no user on lookup but a unique violation on
// insert, simulating a lost duplicate-email race.
type racingUserRepo struct {
	*fakeUserRepo
}

func (r *racingUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, pgx.ErrNoRows
}

func (r *racingUserRepo) CreateUser(ctx context.Context, email, passwordHash string) (*model.User, error) {
	return nil, &pgconn.PgError{Code: "23505"}
}

func TestLoginEnumerationResistance(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "a@x.com", "secret123"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, errWrongPassword := svc.Login(ctx, "a@x.com", "wrong")
	_, errUnknownEmail := svc.Login(ctx, "nobody@x.com", "secret123")

	if !errors.Is(errWrongPassword, ErrInvalidCredentials) || !errors.Is(errUnknownEmail, ErrInvalidCredentials) {
		t.Fatalf("expected identical ErrInvalidCredentials, got %v and %v", errWrongPassword, errUnknownEmail)
	}
}

func TestParseTokenExpired(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())

	now := time.Now()
	claims := authClaims{
		Email: "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-25 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.jwtSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.ParseToken(expired); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseTokenWrongKey(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())

	forged, err := NewAuthService(newFakeUserRepo(), config.AuthConfig{JWTSecret: "other-secret"})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	token, err := forged.IssueToken(1, "a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())
	if _, err := svc.ParseToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseTokenBadSubject(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())

	claims := authClaims{
		Email: "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-number",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.jwtSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	if _, err := NewAuthService(newFakeUserRepo(), config.AuthConfig{}); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured, got %v", err)
	}
}

func TestCookieConfigDefaults(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())
	cfg := svc.CookieConfig()
	if cfg.Name != CookieName {
		t.Fatalf("cookie name = %q", cfg.Name)
	}
	if cfg.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Fatalf("cookie max age = %d", cfg.MaxAge)
	}
}
