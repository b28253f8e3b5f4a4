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

// QuoteDB implements repository.QuoteRepository.
//
// The author column stores '' for authorless quotes so the UNIQUE
// (content, author) constraint holds; the mapping to *string happens here.
type QuoteDB struct {
	conn *sql.DB
}

var _ repository.QuoteRepository = (*QuoteDB)(nil)

func authorToColumn(author *string) string {
	if author == nil {
		return ""
	}
	return *author
}

func authorFromColumn(col string) *string {
	if col == "" {
		return nil
	}
	return &col
}

// Create inserts a new quote. A duplicate (content, author) pair surfaces
// as apperror.ErrConflict.
func (q *QuoteDB) Create(ctx context.Context, quote *model.Quote) error {
	quote.ID = xid.New().String()
	quote.CreatedAt = time.Now().UTC()

	_, err := q.conn.ExecContext(ctx,
		`INSERT INTO quotes (id, content, author, created_at) VALUES (?, ?, ?, ?)`,
		quote.ID,
		quote.Content,
		authorToColumn(quote.Author),
		quote.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("quote already exists")
		}
		return fmt.Errorf("sqlite: inserting quote: %w", err)
	}

	return nil
}

// GetByID retrieves a quote by ID.
func (q *QuoteDB) GetByID(ctx context.Context, id string) (*model.Quote, error) {
	return q.scanOne(
		q.conn.QueryRowContext(ctx,
			`SELECT id, content, author, created_at FROM quotes WHERE id = ?`, id),
		id,
	)
}

// GetByContent retrieves a quote by its (content, author) identity key.
func (q *QuoteDB) GetByContent(ctx context.Context, content string, author *string) (*model.Quote, error) {
	return q.scanOne(
		q.conn.QueryRowContext(ctx,
			`SELECT id, content, author, created_at FROM quotes WHERE content = ? AND author = ?`,
			content, authorToColumn(author)),
		content,
	)
}

func (q *QuoteDB) scanOne(row *sql.Row, key string) (*model.Quote, error) {
	var quote model.Quote
	var author string
	err := row.Scan(&quote.ID, &quote.Content, &author, &quote.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("quote", key)
		}
		return nil, fmt.Errorf("sqlite: getting quote: %w", err)
	}
	quote.Author = authorFromColumn(author)
	return &quote, nil
}

// Count returns the total number of stored quotes.
func (q *QuoteDB) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := q.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: counting quotes: %w", err)
	}
	return count, nil
}

// GetByOffset returns the quote at the given offset in insertion order.
// OFFSET over the rowid-ordered table is an indexed skip, not a content
// scan.
func (q *QuoteDB) GetByOffset(ctx context.Context, offset int64) (*model.Quote, error) {
	return q.scanOne(
		q.conn.QueryRowContext(ctx,
			`SELECT id, content, author, created_at FROM quotes ORDER BY rowid LIMIT 1 OFFSET ?`,
			offset),
		fmt.Sprintf("offset %d", offset),
	)
}

// AddBookmark records that the user bookmarked the quote. An existing pair
// surfaces as apperror.ErrConflict, which the service reports as "already
// bookmarked" rather than an error.
func (q *QuoteDB) AddBookmark(ctx context.Context, userID, quoteID string) error {
	_, err := q.conn.ExecContext(ctx,
		`INSERT INTO bookmarks (user_id, quote_id, created_at) VALUES (?, ?, ?)`,
		userID, quoteID, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("quote already bookmarked")
		}
		return fmt.Errorf("sqlite: inserting bookmark: %w", err)
	}
	return nil
}

// RemoveBookmark deletes the pair; a missing pair is NotFound.
func (q *QuoteDB) RemoveBookmark(ctx context.Context, userID, quoteID string) error {
	res, err := q.conn.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE user_id = ? AND quote_id = ?`,
		userID, quoteID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting bookmark: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting bookmark: %w", err)
	}
	if rows == 0 {
		return apperror.NotFound("bookmark", quoteID)
	}
	return nil
}

// ListBookmarks returns the user's bookmarked quotes, most recently
// bookmarked first.
func (q *QuoteDB) ListBookmarks(ctx context.Context, userID string) ([]model.Quote, error) {
	rows, err := q.conn.QueryContext(ctx,
		`SELECT q.id, q.content, q.author, q.created_at
		 FROM quotes q
		 JOIN bookmarks b ON b.quote_id = q.id
		 WHERE b.user_id = ?
		 ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing bookmarks for user %s: %w", userID, err)
	}
	defer rows.Close()

	quotes := []model.Quote{}
	for rows.Next() {
		var quote model.Quote
		var author string
		if err := rows.Scan(&quote.ID, &quote.Content, &author, &quote.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning bookmark row: %w", err)
		}
		quote.Author = authorFromColumn(author)
		quotes = append(quotes, quote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating bookmark rows: %w", err)
	}

	return quotes, nil
}
