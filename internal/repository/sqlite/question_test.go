package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/harulog/harulog/internal/apperror"
	"github.com/harulog/harulog/internal/model"
)

func seedQuestion(t *testing.T, db *DB, text string) *model.Question {
	t.Helper()

	question := &model.Question{Text: text}
	if err := db.Questions().Create(context.Background(), question); err != nil {
		t.Fatalf("seeding question %q: %v", text, err)
	}
	return question
}

func TestQuestionDB_CountAndOffset(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	count, err := db.Questions().Count(ctx)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 0 {
		t.Fatalf("Count() on empty pool = %d, want 0", count)
	}

	texts := []string{"What made you smile today?", "What are you avoiding?"}
	for _, txt := range texts {
		seedQuestion(t, db, txt)
	}

	count, err = db.Questions().Count(ctx)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 2 {
		t.Fatalf("Count() = %d, want 2", count)
	}

	for i, want := range texts {
		got, err := db.Questions().GetByOffset(ctx, int64(i))
		if err != nil {
			t.Fatalf("GetByOffset(%d) error: %v", i, err)
		}
		if got.Text != want {
			t.Errorf("GetByOffset(%d) = %q, want %q", i, got.Text, want)
		}
	}

	if _, err := db.Questions().GetByOffset(ctx, 2); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByOffset(past end) error = %v, want ErrNotFound", err)
	}
}

func TestQuestionDB_Records(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db, "mina", "mina@example.com")
	question := seedQuestion(t, db, "How was your day?")

	has, err := db.Questions().HasRecordOn(ctx, user.ID, "2026-08-30")
	if err != nil {
		t.Fatalf("HasRecordOn() error: %v", err)
	}
	if has {
		t.Fatal("HasRecordOn() before any record should be false")
	}

	if err := db.Questions().CreateRecord(ctx, user.ID, question.ID, "2026-08-30"); err != nil {
		t.Fatalf("CreateRecord() error: %v", err)
	}

	has, err = db.Questions().HasRecordOn(ctx, user.ID, "2026-08-30")
	if err != nil {
		t.Fatalf("HasRecordOn() error: %v", err)
	}
	if !has {
		t.Error("HasRecordOn() after a record should be true")
	}

	// Same user, same day: the (user_id, asked_on) primary key holds even
	// for a different question.
	other := seedQuestion(t, db, "Different question")
	err = db.Questions().CreateRecord(ctx, user.ID, other.ID, "2026-08-30")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("CreateRecord(same day) error = %v, want ErrConflict", err)
	}

	// The next day is a fresh slot.
	if err := db.Questions().CreateRecord(ctx, user.ID, other.ID, "2026-08-31"); err != nil {
		t.Errorf("CreateRecord(next day) error = %v, want nil", err)
	}

	// Another user's same-day record is independent.
	bob := seedUser(t, db, "bob", "bob@example.com")
	if err := db.Questions().CreateRecord(ctx, bob.ID, question.ID, "2026-08-30"); err != nil {
		t.Errorf("CreateRecord(other user) error = %v, want nil", err)
	}
}
