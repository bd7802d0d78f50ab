// Package session resolves the current user and role. The resolver is passed
// explicitly to whatever needs an identity; nothing reads ambient globals.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sharpline/barberbook/internal/api"
	"github.com/sharpline/barberbook/pkg/logging"
)

// Roles recognized by the platform.
const (
	RoleClient = "client"
	RoleBarber = "barber"
	RoleAdmin  = "admin"
)

var (
	ErrNoIdentity   = errors.New("session: no token or email configured")
	ErrInvalidToken = errors.New("session: invalid token")
)

// Session identifies the signed-in user for the lifetime of the process.
type Session struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

func (s *Session) IsAdmin() bool  { return s.Role == RoleAdmin }
func (s *Session) IsBarber() bool { return s.Role == RoleBarber }

// Claims is the session token payload issued by the auth service.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UserDirectory looks accounts up by email.
type UserDirectory interface {
	FindUserByEmail(ctx context.Context, email string) (*api.User, error)
}

// Resolver turns a session token or a configured email into a Session.
type Resolver struct {
	secret    string
	directory UserDirectory
	logger    *logging.Logger
}

func NewResolver(secret string, directory UserDirectory, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{secret: secret, directory: directory, logger: logger}
}

// Resolve prefers the token; falls back to an email lookup.
func (r *Resolver) Resolve(ctx context.Context, token, email string) (*Session, error) {
	if strings.TrimSpace(token) != "" {
		return r.FromToken(token)
	}
	if strings.TrimSpace(email) != "" {
		return r.ByEmail(ctx, email)
	}
	return nil, ErrNoIdentity
}

// FromToken parses an HS256 session token into a Session.
func (r *Resolver) FromToken(tokenString string) (*Session, error) {
	if r.secret == "" {
		return nil, fmt.Errorf("%w: no session secret configured", ErrInvalidToken)
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(r.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	role := claims.Role
	if role == "" {
		role = RoleClient
	}
	return &Session{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   role,
	}, nil
}

// ByEmail resolves a Session through the user directory.
func (r *Resolver) ByEmail(ctx context.Context, email string) (*Session, error) {
	if r.directory == nil {
		return nil, fmt.Errorf("session: no user directory configured")
	}
	user, err := r.directory.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("session: lookup %q: %w", email, err)
	}
	return &Session{
		UserID: user.UserID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}, nil
}
