package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/harulog/harulog/internal/apperror"
	"github.com/harulog/harulog/internal/model"
)

func TestDiaryDB_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "mina", "mina@example.com")

	diary := &model.Diary{
		UserID:  user.ID,
		Title:   "first entry",
		Content: "went for a long walk",
	}
	if err := db.Diaries().Create(ctx, diary); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if diary.ID == "" {
		t.Fatal("Create() did not assign an ID")
	}

	got, err := db.Diaries().GetByID(ctx, diary.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Title != "first entry" || got.Content != "went for a long walk" {
		t.Errorf("GetByID() = %+v, want the stored row", got)
	}
	if got.UserID != user.ID {
		t.Errorf("UserID = %s, want %s", got.UserID, user.ID)
	}
}

func TestDiaryDB_ListByUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "alice@example.com")
	bob := seedUser(t, db, "bob", "bob@example.com")

	for _, title := range []string{"one", "two", "three"} {
		if err := db.Diaries().Create(ctx, &model.Diary{UserID: alice.ID, Title: title}); err != nil {
			t.Fatalf("Create(%s) error: %v", title, err)
		}
	}
	if err := db.Diaries().Create(ctx, &model.Diary{UserID: bob.ID, Title: "bob's"}); err != nil {
		t.Fatalf("Create(bob's) error: %v", err)
	}

	entries, err := db.Diaries().ListByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByUser() error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("ListByUser() returned %d entries, want 3", len(entries))
	}
	for _, e := range entries {
		if e.UserID != alice.ID {
			t.Errorf("ListByUser() leaked entry for user %s", e.UserID)
		}
	}
	// Newest first.
	for i := 1; i < len(entries); i++ {
		if entries[i].CreatedAt.After(entries[i-1].CreatedAt) {
			t.Errorf("ListByUser() not in descending created_at order at index %d", i)
		}
	}

	empty, err := db.Diaries().ListByUser(ctx, "nobody")
	if err != nil {
		t.Fatalf("ListByUser(nobody) error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("ListByUser(nobody) returned %d entries, want 0", len(empty))
	}
}

func TestDiaryDB_Update(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "mina", "mina@example.com")

	diary := &model.Diary{UserID: user.ID, Title: "before", Content: "old"}
	if err := db.Diaries().Create(ctx, diary); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	diary.Title = "after"
	diary.Content = "new"
	if err := db.Diaries().Update(ctx, diary); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	got, err := db.Diaries().GetByID(ctx, diary.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Title != "after" || got.Content != "new" {
		t.Errorf("Update() left row %+v", got)
	}
}

func TestDiaryDB_UpdateMissing(t *testing.T) {
	db := newTestDB(t)

	ghost := &model.Diary{ID: "ghost", Title: "x"}
	if err := db.Diaries().Update(context.Background(), ghost); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDiaryDB_Delete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "mina", "mina@example.com")

	diary := &model.Diary{UserID: user.ID, Title: "doomed"}
	if err := db.Diaries().Create(ctx, diary); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := db.Diaries().Delete(ctx, diary.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := db.Diaries().GetByID(ctx, diary.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID(deleted) error = %v, want ErrNotFound", err)
	}
	if err := db.Diaries().Delete(ctx, diary.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete(deleted) error = %v, want ErrNotFound", err)
	}
}
