package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/harulog/harulog/internal/model"
)

// newTestDB opens a fresh database in a per-test temp directory. A file
// path is used instead of ":memory:" so every pooled connection sees the
// same database.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedUser inserts a user so rows with foreign keys have a parent.
func seedUser(t *testing.T, db *DB, username, email string) *model.User {
	t.Helper()

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: "x",
		IsActive:     true,
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user %s: %v", username, err)
	}
	return user
}
