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

// QuestionDB implements repository.QuestionRepository.
//
// Delivery records key on (user_id, asked_on) where asked_on is a UTC date
// string; the primary key makes "one question per user per day" a store
// invariant instead of an application-level check.
type QuestionDB struct {
	conn *sql.DB
}

var _ repository.QuestionRepository = (*QuestionDB)(nil)

// Create inserts a question into the pool.
func (q *QuestionDB) Create(ctx context.Context, question *model.Question) error {
	question.ID = xid.New().String()
	question.CreatedAt = time.Now().UTC()

	_, err := q.conn.ExecContext(ctx,
		`INSERT INTO questions (id, question_text, created_at) VALUES (?, ?, ?)`,
		question.ID, question.Text, question.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting question: %w", err)
	}
	return nil
}

// Count returns the size of the question pool.
func (q *QuestionDB) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := q.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: counting questions: %w", err)
	}
	return count, nil
}

// GetByOffset returns the question at the given offset in insertion order.
func (q *QuestionDB) GetByOffset(ctx context.Context, offset int64) (*model.Question, error) {
	var question model.Question
	err := q.conn.QueryRowContext(ctx,
		`SELECT id, question_text, created_at FROM questions ORDER BY rowid LIMIT 1 OFFSET ?`,
		offset,
	).Scan(&question.ID, &question.Text, &question.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("question", fmt.Sprintf("offset %d", offset))
		}
		return nil, fmt.Errorf("sqlite: getting question at offset %d: %w", offset, err)
	}
	return &question, nil
}

// HasRecordOn reports whether the user already received a question on the
// given UTC day.
func (q *QuestionDB) HasRecordOn(ctx context.Context, userID, day string) (bool, error) {
	var count int
	err := q.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM question_records WHERE user_id = ? AND asked_on = ?`,
		userID, day,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking question record: %w", err)
	}
	return count > 0, nil
}

// CreateRecord inserts the delivery record. A concurrent same-day insert
// loses at the primary key and surfaces as apperror.ErrConflict.
func (q *QuestionDB) CreateRecord(ctx context.Context, userID, questionID, day string) error {
	_, err := q.conn.ExecContext(ctx,
		`INSERT INTO question_records (user_id, question_id, asked_on, created_at)
		 VALUES (?, ?, ?, ?)`,
		userID, questionID, day, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("question already delivered today")
		}
		return fmt.Errorf("sqlite: inserting question record: %w", err)
	}
	return nil
}
