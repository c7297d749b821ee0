package auth

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/lostfound/registry/internal/model"
	"github.com/lostfound/registry/internal/store"
)

// SeedAdmin creates the bootstrap administrator account if no user with
// the given email exists yet. Idempotent: running it again is a no-op.
// Returns true when the account was created.
func SeedAdmin(ctx context.Context, db *sql.DB, email, password string) (bool, error) {
	existing, err := store.GetUserByEmail(ctx, db, email)
	if err != nil {
		return false, fmt.Errorf("checking for admin: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hashing admin password: %w", err)
	}

	if _, err := store.CreateUser(ctx, db, email, string(hash), model.RoleAdmin); err != nil {
		return false, fmt.Errorf("creating admin user: %w", err)
	}
	return true, nil
}
