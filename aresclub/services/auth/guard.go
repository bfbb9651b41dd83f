// Package auth validates admin credentials and issues and verifies session tokens.
package auth

import (
	"aresclub/aresclub/sources/psql/models"
	"aresclub/aresclub/utils/apperrors"
	"aresclub/aresclub/utils/logging"
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	// SessionTokenTTL is the validity window of a token issued at login.
	SessionTokenTTL = 30 * time.Minute
	// DefaultTokenTTL applies when a token is issued without an explicit expiry.
	DefaultTokenTTL = 15 * time.Minute

	issuer = "aresclub"
)

var (
	ErrInvalidCredentials = apperrors.Authentication("invalid credentials")
	ErrInvalidToken       = apperrors.Authentication("invalid token")
	ErrExpiredToken       = apperrors.Authentication("token expired")
	ErrUserNotFound       = apperrors.Authentication("user not found")
	ErrInactiveUser       = apperrors.Authentication("user is inactive")
)

// UserStore is the read access the guard needs.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type Guard struct {
	users      UserStore
	secret     []byte
	sessionTTL time.Duration
	now        func() time.Time
}

func NewGuard(users UserStore, secret string, sessionTTL time.Duration) *Guard {
	if sessionTTL <= 0 {
		sessionTTL = SessionTokenTTL
	}
	return &Guard{
		users:      users,
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// WithClock replaces the time source used for issuing and verifying tokens.
func (g *Guard) WithClock(now func() time.Time) *Guard {
	g.now = now
	return g
}

// Authenticate looks the user up by exact username and verifies the password.
func (g *Guard) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := g.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.Store("lookup user", err)
	}
	if user == nil {
		_, _ = CheckPassword(password, string(dummyHash))
		return nil, ErrInvalidCredentials
	}
	ok, err := CheckPassword(password, user.HashedPassword)
	if err != nil {
		logging.ErrorLogger.Error("stored password hash unreadable",
			zap.String("username", username), zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if !ok || !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueSessionToken signs a token valid for the session window.
func (g *Guard) IssueSessionToken(user *models.User) (string, time.Time, error) {
	return g.IssueToken(user, g.sessionTTL)
}

// IssueToken signs a token embedding the username. ttl <= 0 means DefaultTokenTTL.
func (g *Guard) IssueToken(user *models.User, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := g.now()
	expiresAt := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   user.Username,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// VerifyToken checks signature and expiry and returns the embedded username.
func (g *Guard) VerifyToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return g.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// ResolveCurrentUser verifies the token and loads the account it names.
func (g *Guard) ResolveCurrentUser(ctx context.Context, tokenString string) (*models.User, error) {
	username, err := g.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := g.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.Store("lookup user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}
