package handler

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/board"
	"github.com/BuzzLyutic/taskboard/internal/repo"
	"github.com/BuzzLyutic/taskboard/internal/service"
	"github.com/BuzzLyutic/taskboard/internal/session"
	"github.com/BuzzLyutic/taskboard/pkg/respond"
)

func wrapGateway(err error) error {
	return fmt.Errorf("%w: %w", service.ErrGateway, err)
}

// handleErrors maps engine errors to responses. Order matters: a gateway
// failure that wraps a store not-found is still a not-found to the client.
func (h *BoardHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, session.ErrMissingIdentity):
		respond.Error(w, r, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrNotConfirmed):
		respond.Error(w, r, http.StatusPreconditionRequired, "not_confirmed", err.Error())
	case errors.Is(err, service.ErrInvalidState):
		respond.Error(w, r, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, service.ErrBusy):
		respond.Error(w, r, http.StatusConflict, "busy", err.Error())
	case errors.Is(err, service.ErrTrashed), errors.Is(err, board.ErrNotDraggable):
		respond.Error(w, r, http.StatusConflict, "trashed", err.Error())
	case errors.Is(err, repo.ErrorConflict):
		respond.Error(w, r, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, service.ErrGateway):
		respond.Error(w, r, http.StatusBadGateway, "gateway", err.Error())
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal", "internal error")
	}
}
