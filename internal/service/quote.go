package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/harulog/harulog/internal/apperror"
	"github.com/harulog/harulog/internal/model"
	"github.com/harulog/harulog/internal/repository"
)

// MaxQuoteAuthorLength bounds the author field.
const MaxQuoteAuthorLength = 100

// QuoteService handles quotes and per-user bookmarks.
type QuoteService struct {
	repo   repository.QuoteRepository
	logger *slog.Logger
}

// NewQuoteService creates a QuoteService.
func NewQuoteService(repo repository.QuoteRepository, logger *slog.Logger) *QuoteService {
	return &QuoteService{repo: repo, logger: logger}
}

// Random returns a uniformly random quote: count the table, pick an offset
// in [0, count), fetch that row. An empty store is NotFound. The row can
// vanish between count and fetch; that narrow race also reads as NotFound.
func (s *QuoteService) Random(ctx context.Context) (*model.Quote, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/quote: counting quotes: %w", err)
	}
	if count == 0 {
		return nil, apperror.NotFound("quote", "any")
	}

	quote, err := s.repo.GetByOffset(ctx, rand.Int64N(count))
	if err != nil {
		return nil, fmt.Errorf("service/quote: fetching random quote: %w", err)
	}
	return quote, nil
}

// Create stores a quote, idempotently on (content, author). The second
// return is true when a new row was inserted and false when an identical
// quote already existed (the existing record is returned).
func (s *QuoteService) Create(ctx context.Context, content string, author *string) (*model.Quote, bool, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, false, apperror.ValidationFailed("content", "content is required")
	}
	if author != nil {
		trimmed := strings.TrimSpace(*author)
		if trimmed == "" {
			author = nil
		} else {
			if len(trimmed) > MaxQuoteAuthorLength {
				return nil, false, apperror.ValidationFailed("author",
					fmt.Sprintf("author must be %d characters or fewer", MaxQuoteAuthorLength))
			}
			author = &trimmed
		}
	}

	existing, err := s.repo.GetByContent(ctx, content, author)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, false, fmt.Errorf("service/quote: checking for duplicate: %w", err)
	}

	quote := &model.Quote{Content: content, Author: author}
	err = s.repo.Create(ctx, quote)
	if errors.Is(err, apperror.ErrConflict) {
		// Lost the insert race; the winner's row is the canonical one.
		existing, err := s.repo.GetByContent(ctx, content, author)
		if err != nil {
			return nil, false, fmt.Errorf("service/quote: refetching after conflict: %w", err)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("service/quote: creating quote: %w", err)
	}

	return quote, true, nil
}

// CreateMany ingests a batch of quotes (the scraping job's output) and
// returns how many were newly inserted. Invalid entries are skipped, not
// fatal: one malformed scrape should not abort the batch.
func (s *QuoteService) CreateMany(ctx context.Context, quotes []model.Quote) (int, error) {
	created := 0
	for i := range quotes {
		_, isNew, err := s.Create(ctx, quotes[i].Content, quotes[i].Author)
		if err != nil {
			if errors.Is(err, apperror.ErrValidation) {
				s.logger.Warn("skipping invalid quote in batch", slog.Int("index", i))
				continue
			}
			return created, err
		}
		if isNew {
			created++
		}
	}
	return created, nil
}

// Bookmark records that the user bookmarked the quote. The second return
// is true when the bookmark already existed; repeating the call never
// creates a duplicate.
func (s *QuoteService) Bookmark(ctx context.Context, userID, quoteID string) (bool, error) {
	if _, err := s.repo.GetByID(ctx, quoteID); err != nil {
		return false, fmt.Errorf("service/quote: fetching quote %s: %w", quoteID, err)
	}

	err := s.repo.AddBookmark(ctx, userID, quoteID)
	if errors.Is(err, apperror.ErrConflict) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("service/quote: bookmarking quote %s: %w", quoteID, err)
	}
	return false, nil
}

// Unbookmark removes the user's bookmark; a missing bookmark is NotFound.
func (s *QuoteService) Unbookmark(ctx context.Context, userID, quoteID string) error {
	if err := s.repo.RemoveBookmark(ctx, userID, quoteID); err != nil {
		return fmt.Errorf("service/quote: removing bookmark for quote %s: %w", quoteID, err)
	}
	return nil
}

// Bookmarks lists the user's bookmarked quotes.
func (s *QuoteService) Bookmarks(ctx context.Context, userID string) ([]model.Quote, error) {
	quotes, err := s.repo.ListBookmarks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/quote: listing bookmarks: %w", err)
	}
	return quotes, nil
}
