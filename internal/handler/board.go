package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/board"
	"github.com/BuzzLyutic/taskboard/internal/lane"
	"github.com/BuzzLyutic/taskboard/internal/session"
	"github.com/BuzzLyutic/taskboard/pkg/respond"
)

const (
	HeaderSession = "X-Session-ID"
	HeaderUser    = "X-User-ID"
)

type ctxKey struct{}

// BoardHandler serves one board per session over HTTP.
type BoardHandler struct {
	sessions *session.Manager
	logger   *zap.Logger
}

func NewBoardHandler(sessions *session.Manager, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Routes mounts the board API. Every route below a project needs the
// X-Session-ID header; X-User-ID is recorded as the creator of new tasks.
func (h *BoardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Delete("/session", h.CloseSession)

	r.Route("/projects/{projectID}", func(r chi.Router) {
		r.Use(h.withSession)

		r.Get("/board", h.Board)
		r.Post("/tasks", h.Create)
		r.Route("/tasks/{id}", func(r chi.Router) {
			r.Put("/title", h.Rename)
			r.Put("/priority", h.SetPriority)
			r.Put("/date", h.SetDate)
			r.Put("/status", h.ChangeStatus)
			r.Put("/description", h.SetDescription)
			r.Delete("/description", h.ClearDescription)
			r.Post("/trash", h.SoftDelete)
			r.Post("/restore", h.Restore)
			r.Delete("/", h.HardDelete)

			r.Get("/comments", h.Comments)
			r.Post("/comments", h.PostComment)
		})

		r.Post("/drag", h.BeginDrag)
		r.Post("/drop", h.Drop)
		r.Delete("/drag", h.CancelDrag)

		r.Get("/members", h.Members)
		r.Post("/members", h.Invite)
	})
	return r
}

func (h *BoardHandler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(HeaderSession)
		if sessionID == "" {
			respond.Error(w, r, http.StatusBadRequest, "validation", "missing "+HeaderSession+" header")
			return
		}

		s, err := h.sessions.Open(r.Context(), sessionID, chi.URLParam(r, "projectID"), r.Header.Get(HeaderUser))
		if err != nil {
			h.handleErrors(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, s)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(ctxKey{}).(*session.Session)
}

// Board returns the cached snapshot; ?refresh=true reloads it first.
func (h *BoardHandler) Board(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	if r.URL.Query().Get("refresh") == "true" {
		if err := s.Board.Refresh(r.Context()); err != nil {
			h.handleErrors(w, r, wrapGateway(err))
			return
		}
	}
	respond.JSON(w, r, http.StatusOK, s.Board.Snapshot())
}

func (h *BoardHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(HeaderSession)
	if sessionID == "" {
		respond.Error(w, r, http.StatusBadRequest, "validation", "missing "+HeaderSession+" header")
		return
	}
	h.sessions.Close(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

type dragRequest struct {
	TaskID string `json:"task_id"`
}

type dropRequest struct {
	Lane string `json:"lane"`
}

type dropResponse struct {
	Result board.DropResult `json:"result"`
	Board  board.Snapshot   `json:"board"`
}

func (h *BoardHandler) BeginDrag(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if !h.decode(w, r, &req) {
		return
	}
	s := sessionFrom(r)

	task, ok := s.Board.Task(req.TaskID)
	if !ok {
		respond.Error(w, r, http.StatusNotFound, "not_found", fmt.Sprintf("task %s not found", req.TaskID))
		return
	}
	if err := s.Drag.Begin(task); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

// Drop resolves the armed drag. A lane name that is not an active lane
// cancels the drag without a write.
func (h *BoardHandler) Drop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if !h.decode(w, r, &req) {
		return
	}
	s := sessionFrom(r)

	target, ok := lane.Parse(req.Lane)
	if !ok {
		target = lane.ID(req.Lane)
	}

	result, err := s.Drag.Drop(r.Context(), target)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, dropResponse{Result: result, Board: s.Board.Snapshot()})
}

func (h *BoardHandler) CancelDrag(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Drag.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// decode reads a JSON body into dst, answering 400 itself on failure.
func (h *BoardHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "validation", "empty request body")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Debug("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, "validation", fmt.Sprintf("invalid json: %v", err))
		return false
	}
	return true
}
