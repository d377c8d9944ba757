package handler

import (
	"net/http"

	"github.com/BuzzLyutic/taskboard/pkg/respond"
)

type inviteRequest struct {
	Email string `json:"email"`
}

func (h *BoardHandler) Members(w http.ResponseWriter, r *http.Request) {
	members, err := sessionFrom(r).Members.List(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, members)
}

func (h *BoardHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if !h.decode(w, r, &req) {
		return
	}
	members, err := sessionFrom(r).Members.Invite(r.Context(), req.Email)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusCreated, members)
}
