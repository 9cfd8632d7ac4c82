package note

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Vinith1801/Growfinix-Tech/internal/auth"
	"github.com/Vinith1801/Growfinix-Tech/internal/httputil"
	"github.com/Vinith1801/Growfinix-Tech/internal/logging"
)

// Handler contains HTTP handlers for note endpoints. All routes sit behind
// the auth middleware, so the owner id is always present in the context.
// Logging goes through the request-scoped logger from the context.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles note creation
// @Summary      Create note
// @Description  Store a new note owned by the authenticated user.
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        request body Params true "Note fields"
// @Success      201 {object} Note
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/notes [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var params Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		httputil.RespondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), ownerID, params)
	if err != nil {
		logger.Error("failed to create note", "error", err.Error())
		httputil.RespondError(w, "failed to create note", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("note created", "note_id", created.ID)
	httputil.RespondJSON(w, created, http.StatusCreated)
}

// List handles note listing with optional tag filtering
// @Summary      List notes
// @Description  Return the authenticated user's notes, most recently updated first. The tags query param filters conjunctively and case-insensitively.
// @Tags         notes
// @Produce      json
// @Param        tags query string false "Comma-separated tag filter"
// @Success      200 {array} Note
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/notes [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	notes, err := h.service.List(r.Context(), ownerID, r.URL.Query().Get("tags"))
	if err != nil {
		logger.Error("failed to list notes", "error", err.Error())
		httputil.RespondError(w, "failed to fetch notes", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, notes, http.StatusOK)
}

// Get handles fetching a single note
// @Summary      Get note
// @Description  Return a single note. A note owned by another user is indistinguishable from a missing one.
// @Tags         notes
// @Produce      json
// @Param        id path string true "Note ID"
// @Success      200 {object} Note
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Failure      404 {object} httputil.ErrorResponse "Note not found"
// @Router       /api/notes/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, ok := noteIDFromRequest(w, r)
	if !ok {
		return
	}

	found, err := h.service.Get(r.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "note not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get note", "error", err.Error())
		httputil.RespondError(w, "failed to fetch note", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, found, http.StatusOK)
}

// Update handles note updates
// @Summary      Update note
// @Description  Update a note owned by the authenticated user and return the updated record.
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        id path string true "Note ID"
// @Param        request body Params true "Note fields"
// @Success      200 {object} Note
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Failure      404 {object} httputil.ErrorResponse "Note not found"
// @Router       /api/notes/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, ok := noteIDFromRequest(w, r)
	if !ok {
		return
	}

	var params Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		httputil.RespondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(r.Context(), ownerID, id, params)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "note not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to update note", "error", err.Error())
		httputil.RespondError(w, "failed to update note", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("note updated", "note_id", id)
	httputil.RespondJSON(w, updated, http.StatusOK)
}

// Delete handles note deletion
// @Summary      Delete note
// @Description  Delete a note owned by the authenticated user.
// @Tags         notes
// @Produce      json
// @Param        id path string true "Note ID"
// @Success      200 {object} httputil.MessageResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Failure      404 {object} httputil.ErrorResponse "Note not found"
// @Router       /api/notes/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, ok := noteIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), ownerID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "note not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete note", "error", err.Error())
		httputil.RespondError(w, "failed to delete note", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("note deleted", "note_id", id)
	httputil.RespondMessage(w, "Note deleted", http.StatusOK)
}

// noteIDFromRequest parses the id path param. An unparseable id cannot name
// an owned note, so it gets the same not-found response as a missing one.
func noteIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, "note not found", httputil.CodeNotFound, http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}
