// Package testutil provides test helpers for setting up isolated
// in-memory databases with seeded reference data.
package testutil

import (
	"context"
	"testing"

	"github.com/jsalinas/tally/internal/model"
	"github.com/jsalinas/tally/internal/storage"
)

// SetupTestDB creates a new in-memory database with migrations applied
// (which seeds the category reference data). Cleanup is registered
// automatically.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// CreateTestUser inserts a user and returns it.
func CreateTestUser(t *testing.T, store *storage.SQLiteStorage, name string) *model.User {
	t.Helper()

	user, err := store.CreateUser(context.Background(), name, name+"@example.com")
	if err != nil {
		t.Fatalf("failed to create test user %q: %v", name, err)
	}
	return user
}

// CreateTestAccount inserts a checking account for the user and returns it.
func CreateTestAccount(t *testing.T, store *storage.SQLiteStorage, name string, userID int64) *model.Account {
	t.Helper()

	account, err := store.CreateAccount(context.Background(), name, 1, userID)
	if err != nil {
		t.Fatalf("failed to create test account %q: %v", name, err)
	}
	return account
}
