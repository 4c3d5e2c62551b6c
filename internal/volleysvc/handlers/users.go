package handlers

import (
	"net/http"

	"github.com/go-chi/chi"
)

// Session resolves the signed-in principal to a stored user, creating a
// guest record on first sign-in.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	user, err := h.users.GetOrCreateUser(r.Context(), p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: user})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: users})
}

func (h *Handler) ListPendingUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListPendingUsers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: users})
}

func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	var body struct {
		Role string `json:"role"`
	}
	if !h.decode(w, r, &body) {
		return
	}

	user, err := h.users.ChangeRole(r.Context(), p.UserID, chi.URLParam(r, "userID"), body.Role)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: user})
}
