// Package repository defines the persistence interfaces the service layer
// depends on. Services never import a concrete store; the sqlite
// implementation (or a test fake) is injected at wiring time.
package repository

import (
	"context"

	"github.com/harulog/harulog/internal/model"
)

// UserRepository persists user accounts.
//
// Create and Update surface uniqueness violations on email/username as
// apperror.ErrConflict so concurrent duplicate registrations resolve at
// the constraint, not by check-then-act.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// EmailExists reports whether another user (excluding excludeID, which
	// may be empty) already uses the email.
	EmailExists(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

// DiaryRepository persists diary entries. Ownership filtering is the
// service layer's job; the repository exposes plain lookups.
type DiaryRepository interface {
	Create(ctx context.Context, diary *model.Diary) error
	GetByID(ctx context.Context, id string) (*model.Diary, error)
	ListByUser(ctx context.Context, userID string) ([]model.Diary, error)
	Update(ctx context.Context, diary *model.Diary) error
	Delete(ctx context.Context, id string) error
}

// QuoteRepository persists quotes and per-user bookmarks.
type QuoteRepository interface {
	Create(ctx context.Context, quote *model.Quote) error
	GetByID(ctx context.Context, id string) (*model.Quote, error)
	// GetByContent looks a quote up by its (content, author) identity key.
	GetByContent(ctx context.Context, content string, author *string) (*model.Quote, error)
	Count(ctx context.Context) (int64, error)
	// GetByOffset returns the quote at a stable offset in [0, Count).
	GetByOffset(ctx context.Context, offset int64) (*model.Quote, error)

	// AddBookmark returns apperror.ErrConflict if the (user, quote) pair
	// already exists.
	AddBookmark(ctx context.Context, userID, quoteID string) error
	RemoveBookmark(ctx context.Context, userID, quoteID string) error
	ListBookmarks(ctx context.Context, userID string) ([]model.Quote, error)
}

// QuestionRepository persists the prompt pool and the one-per-day delivery
// records.
type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	Count(ctx context.Context) (int64, error)
	GetByOffset(ctx context.Context, offset int64) (*model.Question, error)

	// HasRecordOn reports whether the user already received a question on
	// the given UTC day ("2006-01-02").
	HasRecordOn(ctx context.Context, userID, day string) (bool, error)
	// CreateRecord inserts the delivery record; a same-day duplicate is
	// rejected by the store's unique constraint as apperror.ErrConflict.
	CreateRecord(ctx context.Context, userID, questionID, day string) error
}
