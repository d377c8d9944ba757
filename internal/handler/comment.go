package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BuzzLyutic/taskboard/pkg/respond"
)

type commentRequest struct {
	Text string `json:"text"`
}

func (h *BoardHandler) Comments(w http.ResponseWriter, r *http.Request) {
	comments, err := sessionFrom(r).Comments.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, comments)
}

func (h *BoardHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if !h.decode(w, r, &req) {
		return
	}
	comments, err := sessionFrom(r).Comments.Post(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusCreated, comments)
}
