package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/harulog/harulog/internal/apperror"
	"github.com/harulog/harulog/internal/model"
	"github.com/harulog/harulog/internal/repository"
)

// DiaryDB implements repository.DiaryRepository.
type DiaryDB struct {
	conn *sql.DB
}

var _ repository.DiaryRepository = (*DiaryDB)(nil)

// Create inserts a new diary entry, generating ID and timestamps in place.
func (d *DiaryDB) Create(ctx context.Context, diary *model.Diary) error {
	now := time.Now().UTC()
	diary.ID = xid.New().String()
	diary.CreatedAt = now
	diary.UpdatedAt = now

	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO diaries (id, user_id, title, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		diary.ID,
		diary.UserID,
		diary.Title,
		diary.Content,
		diary.CreatedAt,
		diary.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting diary: %w", err)
	}

	return nil
}

// GetByID retrieves a diary entry by ID.
func (d *DiaryDB) GetByID(ctx context.Context, id string) (*model.Diary, error) {
	var diary model.Diary
	err := d.conn.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at
		 FROM diaries WHERE id = ?`, id,
	).Scan(
		&diary.ID,
		&diary.UserID,
		&diary.Title,
		&diary.Content,
		&diary.CreatedAt,
		&diary.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("diary", id)
		}
		return nil, fmt.Errorf("sqlite: getting diary %s: %w", id, err)
	}
	return &diary, nil
}

// ListByUser returns the user's entries, newest first.
func (d *DiaryDB) ListByUser(ctx context.Context, userID string) ([]model.Diary, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at
		 FROM diaries WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing diaries for user %s: %w", userID, err)
	}
	defer rows.Close()

	diaries := []model.Diary{}
	for rows.Next() {
		var diary model.Diary
		if err := rows.Scan(
			&diary.ID,
			&diary.UserID,
			&diary.Title,
			&diary.Content,
			&diary.CreatedAt,
			&diary.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning diary row: %w", err)
		}
		diaries = append(diaries, diary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating diary rows: %w", err)
	}

	return diaries, nil
}

// Update persists title/content changes and refreshes updated_at.
func (d *DiaryDB) Update(ctx context.Context, diary *model.Diary) error {
	diary.UpdatedAt = time.Now().UTC()

	res, err := d.conn.ExecContext(ctx,
		`UPDATE diaries SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		diary.Title,
		diary.Content,
		diary.UpdatedAt,
		diary.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating diary %s: %w", diary.ID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating diary %s: %w", diary.ID, err)
	}
	if rows == 0 {
		return apperror.NotFound("diary", diary.ID)
	}
	return nil
}

// Delete removes a diary entry by ID.
func (d *DiaryDB) Delete(ctx context.Context, id string) error {
	res, err := d.conn.ExecContext(ctx, `DELETE FROM diaries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting diary %s: %w", id, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting diary %s: %w", id, err)
	}
	if rows == 0 {
		return apperror.NotFound("diary", id)
	}
	return nil
}
