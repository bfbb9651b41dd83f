package auth

import (
	"aresclub/aresclub/sources/psql/models"
	"context"
	"fmt"
)

// AccountStore creates an account only if its username is free.
type AccountStore interface {
	EnsureUser(ctx context.Context, user *models.User) (bool, error)
}

type SeedAccount struct {
	Username string
	Email    string
	Password string
}

// SeedAdmin guarantees the admin account exists. It is safe to run on every start.
func SeedAdmin(ctx context.Context, store AccountStore, acct SeedAccount) (*models.User, bool, error) {
	hash, err := HashPassword(acct.Password)
	if err != nil {
		return nil, false, fmt.Errorf("hash admin password: %w", err)
	}
	user := &models.User{
		Username:       acct.Username,
		Email:          acct.Email,
		HashedPassword: hash,
		IsAdmin:        true,
		IsActive:       true,
	}
	created, err := store.EnsureUser(ctx, user)
	if err != nil {
		return nil, false, fmt.Errorf("seed admin: %w", err)
	}
	return user, created, nil
}
