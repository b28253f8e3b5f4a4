package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/harulog/harulog/internal/apperror"
	"github.com/harulog/harulog/internal/model"
	"github.com/harulog/harulog/internal/repository"
)

// Validation constants for diary entries.
const (
	MaxDiaryTitleLength   = 255
	MaxDiaryContentLength = 100000
)

// DiaryService handles business logic for diary entries.
//
// Every read or mutation is scoped to the calling user: an entry owned by
// someone else is reported as not found, so probing ids reveals nothing
// about other users' journals.
type DiaryService struct {
	repo   repository.DiaryRepository
	logger *slog.Logger
}

// NewDiaryService creates a DiaryService.
func NewDiaryService(repo repository.DiaryRepository, logger *slog.Logger) *DiaryService {
	return &DiaryService{repo: repo, logger: logger}
}

// Create validates and saves a new entry for the user.
func (s *DiaryService) Create(ctx context.Context, userID, title, content string) (*model.Diary, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxDiaryTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or fewer", MaxDiaryTitleLength))
	}
	if len(content) > MaxDiaryContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("content must be %d characters or fewer", MaxDiaryContentLength))
	}

	diary := &model.Diary{
		UserID:  userID,
		Title:   title,
		Content: content,
	}
	if err := s.repo.Create(ctx, diary); err != nil {
		return nil, fmt.Errorf("service/diary: creating entry: %w", err)
	}

	s.logger.Info("diary created",
		slog.String("diaryID", diary.ID),
		slog.String("userID", userID),
	)

	return diary, nil
}

// List returns the user's entries, newest first.
func (s *DiaryService) List(ctx context.Context, userID string) ([]model.Diary, error) {
	diaries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/diary: listing entries: %w", err)
	}
	return diaries, nil
}

// Get returns a single entry owned by the user.
func (s *DiaryService) Get(ctx context.Context, userID, id string) (*model.Diary, error) {
	return s.getOwned(ctx, userID, id)
}

// Update replaces the entry's title and, when non-nil, its content.
func (s *DiaryService) Update(ctx context.Context, userID, id, title string, content *string) (*model.Diary, error) {
	diary, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxDiaryTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or fewer", MaxDiaryTitleLength))
	}
	diary.Title = title

	if content != nil {
		if len(*content) > MaxDiaryContentLength {
			return nil, apperror.ValidationFailed("content",
				fmt.Sprintf("content must be %d characters or fewer", MaxDiaryContentLength))
		}
		diary.Content = *content
	}

	if err := s.repo.Update(ctx, diary); err != nil {
		return nil, fmt.Errorf("service/diary: updating entry %s: %w", id, err)
	}

	return diary, nil
}

// Delete removes the entry if the user owns it.
func (s *DiaryService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service/diary: deleting entry %s: %w", id, err)
	}

	s.logger.Info("diary deleted",
		slog.String("diaryID", id),
		slog.String("userID", userID),
	)
	return nil
}

// getOwned fetches the entry and enforces ownership. A foreign entry gets
// the same NotFound as a missing one.
func (s *DiaryService) getOwned(ctx context.Context, userID, id string) (*model.Diary, error) {
	diary, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/diary: fetching entry %s: %w", id, err)
	}
	if diary.UserID != userID {
		return nil, apperror.NotFound("diary", id)
	}
	return diary, nil
}
