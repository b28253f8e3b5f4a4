package handler

import (
	"log/slog"
	"net/http"

	"github.com/harulog/harulog/internal/apperror"
	"github.com/harulog/harulog/internal/auth"
	"github.com/harulog/harulog/internal/service"
)

// DiaryHandler exposes the diary CRUD endpoints. All routes sit behind
// RequireAuth; the handler scopes every call to the resolved user.
type DiaryHandler struct {
	svc    *service.DiaryService
	logger *slog.Logger
}

// NewDiaryHandler creates a DiaryHandler.
func NewDiaryHandler(svc *service.DiaryService, logger *slog.Logger) *DiaryHandler {
	return &DiaryHandler{svc: svc, logger: logger}
}

type createDiaryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// HandleCreate saves a new entry for the caller.
//
// HTTP: POST /v1/diary (Bearer) → 201.
func (h *DiaryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	var req createDiaryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	diary, err := h.svc.Create(r.Context(), user.ID, req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, diary)
}

// HandleList returns the caller's entries, newest first.
//
// HTTP: GET /v1/diary (Bearer) → 200.
func (h *DiaryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	diaries, err := h.svc.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, diaries)
}

// HandleGet returns one entry owned by the caller.
//
// HTTP: GET /v1/diary/{id} (Bearer) → 200, 404 when missing or foreign.
func (h *DiaryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	diary, err := h.svc.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, diary)
}

type updateDiaryRequest struct {
	Title   string  `json:"title"`
	Content *string `json:"content"`
}

// HandleUpdate replaces the entry's title and optionally its content.
//
// HTTP: PUT /v1/diary/{id} (Bearer) → 200, 404 when missing or foreign.
func (h *DiaryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	var req updateDiaryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	diary, err := h.svc.Update(r.Context(), user.ID, r.PathValue("id"), req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, diary)
}

// HandleDelete removes an entry owned by the caller.
//
// HTTP: DELETE /v1/diary/{id} (Bearer) → 204, 404 when missing or foreign.
func (h *DiaryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	if err := h.svc.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
