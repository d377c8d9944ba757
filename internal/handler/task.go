package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BuzzLyutic/taskboard/internal/model"
	"github.com/BuzzLyutic/taskboard/internal/service"
	"github.com/BuzzLyutic/taskboard/pkg/respond"
)

type createRequest struct {
	Title    string         `json:"title"`
	Priority model.Priority `json:"priority"`
	Date     string         `json:"date"`
}

type valueRequest struct {
	Value string `json:"value"`
}

func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !h.decode(w, r, &req) {
		return
	}
	s := sessionFrom(r)

	task, err := s.Tasks.Create(r.Context(), model.NewTask{
		Title:    req.Title,
		Priority: req.Priority,
		Date:     req.Date,
	})
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/projects/%s/tasks/%s", s.ProjectID, task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *BoardHandler) Rename(w http.ResponseWriter, r *http.Request) {
	h.withValue(w, r, func(ctx context.Context, s *service.TaskService, id, v string) error {
		return s.Rename(ctx, id, v)
	})
}

func (h *BoardHandler) SetPriority(w http.ResponseWriter, r *http.Request) {
	h.withValue(w, r, func(ctx context.Context, s *service.TaskService, id, v string) error {
		return s.SetPriority(ctx, id, model.Priority(v))
	})
}

func (h *BoardHandler) SetDate(w http.ResponseWriter, r *http.Request) {
	h.withValue(w, r, func(ctx context.Context, s *service.TaskService, id, v string) error {
		return s.SetDate(ctx, id, v)
	})
}

func (h *BoardHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	h.withValue(w, r, func(ctx context.Context, s *service.TaskService, id, v string) error {
		return s.ChangeStatus(ctx, id, model.Status(v))
	})
}

func (h *BoardHandler) SetDescription(w http.ResponseWriter, r *http.Request) {
	h.withValue(w, r, func(ctx context.Context, s *service.TaskService, id, v string) error {
		return s.SetDescription(ctx, id, v)
	})
}

// ClearDescription and HardDelete only proceed with ?confirm=true.
func (h *BoardHandler) ClearDescription(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, func(ctx context.Context, s *service.TaskService, id string) error {
		return s.ClearDescription(ctx, id, confirmFrom(r))
	})
}

func (h *BoardHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, func(ctx context.Context, s *service.TaskService, id string) error {
		return s.SoftDelete(ctx, id)
	})
}

func (h *BoardHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, func(ctx context.Context, s *service.TaskService, id string) error {
		return s.Restore(ctx, id)
	})
}

func (h *BoardHandler) HardDelete(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, func(ctx context.Context, s *service.TaskService, id string) error {
		return s.HardDelete(ctx, id, confirmFrom(r))
	})
}

func (h *BoardHandler) withValue(w http.ResponseWriter, r *http.Request, fn func(context.Context, *service.TaskService, string, string) error) {
	var req valueRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.command(w, r, func(ctx context.Context, s *service.TaskService, id string) error {
		return fn(ctx, s, id, req.Value)
	})
}

// command runs one task command and answers with the refreshed board.
func (h *BoardHandler) command(w http.ResponseWriter, r *http.Request, fn func(context.Context, *service.TaskService, string) error) {
	s := sessionFrom(r)
	if err := fn(r.Context(), s.Tasks, chi.URLParam(r, "id")); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, s.Board.Snapshot())
}

func confirmFrom(r *http.Request) service.Confirm {
	if r.URL.Query().Get("confirm") == "true" {
		return service.Confirmed
	}
	return service.Declined
}
