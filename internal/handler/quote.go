package handler

import (
	"log/slog"
	"net/http"

	"github.com/harulog/harulog/internal/apperror"
	"github.com/harulog/harulog/internal/auth"
	"github.com/harulog/harulog/internal/service"
)

// QuoteHandler exposes the quote and bookmark endpoints. Reading and
// creating quotes is public; bookmarks require authentication.
type QuoteHandler struct {
	svc    *service.QuoteService
	logger *slog.Logger
}

// NewQuoteHandler creates a QuoteHandler.
func NewQuoteHandler(svc *service.QuoteService, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{svc: svc, logger: logger}
}

// HandleRandom returns one uniformly random quote.
//
// HTTP: GET /quote/random → 200, 404 when the store is empty.
func (h *QuoteHandler) HandleRandom(w http.ResponseWriter, r *http.Request) {
	quote, err := h.svc.Random(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

type createQuoteRequest struct {
	Content string  `json:"content"`
	Author  *string `json:"author"`
}

// HandleCreate stores a quote, idempotently on (content, author).
//
// HTTP: POST /quote → 201 when newly inserted, 200 with the existing
// record when the pair was already stored.
func (h *QuoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createQuoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	quote, created, err := h.svc.Create(r.Context(), req.Content, req.Author)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, quote)
}

type bookmarkResponse struct {
	Message string `json:"message"`
}

// HandleBookmark bookmarks the quote for the caller, idempotently.
//
// HTTP: POST /quote/{id}/bookmark (Bearer) → 201 on a new bookmark, 200
// when it already existed, 404 for an unknown quote.
func (h *QuoteHandler) HandleBookmark(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	already, err := h.svc.Bookmark(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if already {
		writeJSON(w, http.StatusOK, bookmarkResponse{Message: "already bookmarked"})
		return
	}
	writeJSON(w, http.StatusCreated, bookmarkResponse{Message: "bookmarked"})
}

// HandleUnbookmark removes the caller's bookmark.
//
// HTTP: DELETE /quote/{id}/bookmark (Bearer) → 200, 404 when the bookmark
// does not exist.
func (h *QuoteHandler) HandleUnbookmark(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	if err := h.svc.Unbookmark(r.Context(), user.ID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookmarkResponse{Message: "bookmark removed"})
}

// HandleBookmarks lists the caller's bookmarked quotes.
//
// HTTP: GET /quote/bookmark (Bearer) → 200.
func (h *QuoteHandler) HandleBookmarks(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	quotes, err := h.svc.Bookmarks(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quotes)
}
