package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sharpline/barberbook/internal/api"
	"github.com/sharpline/barberbook/pkg/logging"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestFromTokenParsesClaims(t *testing.T) {
	tokenString := signToken(t, Claims{
		Email: "ada@example.com",
		Name:  "Ada",
		Role:  RoleBarber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSecret)

	resolver := NewResolver(testSecret, nil, logging.Default())
	sess, err := resolver.FromToken(tokenString)
	if err != nil {
		t.Fatalf("FromToken() error = %v", err)
	}
	if sess.UserID != "user_1" || sess.Email != "ada@example.com" || !sess.IsBarber() {
		t.Fatalf("session = %+v", sess)
	}
}

func TestFromTokenDefaultsRoleToClient(t *testing.T) {
	tokenString := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user_2"},
	}, testSecret)

	resolver := NewResolver(testSecret, nil, logging.Default())
	sess, err := resolver.FromToken(tokenString)
	if err != nil {
		t.Fatalf("FromToken() error = %v", err)
	}
	if sess.Role != RoleClient {
		t.Fatalf("role = %q, want client", sess.Role)
	}
}

func TestFromTokenRejectsWrongSecret(t *testing.T) {
	tokenString := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user_3"},
	}, "other-secret")

	resolver := NewResolver(testSecret, nil, logging.Default())
	if _, err := resolver.FromToken(tokenString); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

type stubDirectory struct {
	user *api.User
	err  error
}

func (s *stubDirectory) FindUserByEmail(ctx context.Context, email string) (*api.User, error) {
	return s.user, s.err
}

func TestResolveFallsBackToEmail(t *testing.T) {
	directory := &stubDirectory{user: &api.User{
		UserID: "user_4",
		Email:  "sam@example.com",
		Name:   "Sam",
		Role:   RoleAdmin,
	}}

	resolver := NewResolver(testSecret, directory, logging.Default())
	sess, err := resolver.Resolve(context.Background(), "", "sam@example.com")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if sess.UserID != "user_4" || !sess.IsAdmin() {
		t.Fatalf("session = %+v", sess)
	}
}

func TestResolveWithoutIdentity(t *testing.T) {
	resolver := NewResolver(testSecret, nil, logging.Default())
	if _, err := resolver.Resolve(context.Background(), "", ""); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("err = %v, want ErrNoIdentity", err)
	}
}
