package handler

import (
	"log/slog"
	"net/http"

	"github.com/harulog/harulog/internal/apperror"
	"github.com/harulog/harulog/internal/auth"
	"github.com/harulog/harulog/internal/service"
)

// QuestionHandler exposes the daily-question endpoint.
type QuestionHandler struct {
	svc    *service.QuestionService
	logger *slog.Logger
}

// NewQuestionHandler creates a QuestionHandler.
func NewQuestionHandler(svc *service.QuestionService, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{svc: svc, logger: logger}
}

type questionResponse struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
}

// HandleRandom delivers the caller's daily question.
//
// HTTP: GET /question/random (Bearer) → 200 with a question, 400 when one
// was already delivered this UTC day, 404 when the pool is empty.
func (h *QuestionHandler) HandleRandom(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	question, err := h.svc.Daily(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, questionResponse{
		QuestionID: question.ID,
		Question:   question.Text,
	})
}
