package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/harulog/harulog/internal/apperror"
	"github.com/harulog/harulog/internal/model"
	"github.com/harulog/harulog/internal/repository"
)

// dayFormat is the UTC calendar-day key for delivery records.
const dayFormat = "2006-01-02"

// QuestionService delivers at most one random prompt per user per UTC day.
//
// The clock is injectable so tests can cross a day boundary without
// sleeping until midnight.
type QuestionService struct {
	repo   repository.QuestionRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewQuestionService creates a QuestionService using the wall clock.
func NewQuestionService(repo repository.QuestionRepository, logger *slog.Logger) *QuestionService {
	return &QuestionService{repo: repo, logger: logger, now: time.Now}
}

// NewQuestionServiceWithClock creates a QuestionService with a custom
// clock. Test use only.
func NewQuestionServiceWithClock(repo repository.QuestionRepository, logger *slog.Logger, now func() time.Time) *QuestionService {
	return &QuestionService{repo: repo, logger: logger, now: now}
}

// Daily returns today's question for the user.
//
// A repeat request on the same UTC day is denied (validation error, not a
// replay of the earlier question), and the denial is checked before the
// pool: "already answered" wins over "empty pool". The final insert goes
// through the store's unique constraint, so two racing first requests
// still deliver exactly once.
func (s *QuestionService) Daily(ctx context.Context, userID string) (*model.Question, error) {
	day := s.now().UTC().Format(dayFormat)

	answered, err := s.repo.HasRecordOn(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("service/question: checking today's record: %w", err)
	}
	if answered {
		return nil, alreadyAnswered()
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/question: counting questions: %w", err)
	}
	if count == 0 {
		return nil, apperror.NotFound("question", "any")
	}

	question, err := s.repo.GetByOffset(ctx, rand.Int64N(count))
	if err != nil {
		return nil, fmt.Errorf("service/question: fetching random question: %w", err)
	}

	err = s.repo.CreateRecord(ctx, userID, question.ID, day)
	if errors.Is(err, apperror.ErrConflict) {
		// A concurrent request for the same user won the day.
		return nil, alreadyAnswered()
	}
	if err != nil {
		return nil, fmt.Errorf("service/question: recording delivery: %w", err)
	}

	s.logger.Info("daily question delivered",
		slog.String("userID", userID),
		slog.String("questionID", question.ID),
		slog.String("day", day),
	)

	return question, nil
}

// AddQuestion inserts a prompt into the pool (seeding path).
func (s *QuestionService) AddQuestion(ctx context.Context, text string) (*model.Question, error) {
	if text == "" {
		return nil, apperror.ValidationFailed("question", "question text is required")
	}

	question := &model.Question{Text: text}
	if err := s.repo.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("service/question: creating question: %w", err)
	}
	return question, nil
}

func alreadyAnswered() error {
	return apperror.ValidationFailed("", "today's question was already delivered")
}
