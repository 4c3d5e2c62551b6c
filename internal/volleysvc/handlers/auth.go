package handlers

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/jwtauth"

	"github.com/volleyhub/volley-services/internal/volleysvc/apperr"
	"github.com/volleyhub/volley-services/internal/volleysvc/models"
)

type ctxKey int

const principalKey ctxKey = iota

// InitAuth wires the HS256 verifier. The identity provider signs tokens
// with the shared secret and puts the profile in the standard claims.
func (h *Handler) InitAuth() {
	jwtKey := os.Getenv("JWT_SECRET_KEY")
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)
}

// WithPrincipal lifts the verified claims into a models.Principal. Only
// identity fields are trusted from the token; roles are read from the
// store by whoever needs them.
func (h *Handler) WithPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "invalid token"})
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "token missing subject"})
			return
		}

		p := models.Principal{UserID: sub}
		p.Email, _ = claims["email"].(string)
		p.Name, _ = claims["name"].(string)
		p.PhotoURL, _ = claims["picture"].(string)

		ctx := context.WithValue(r.Context(), principalKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func principalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(models.Principal)
	return p, ok
}

// RequireAdmin gates the admin-only routes on the stored role, not on
// anything the client sent.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFrom(r.Context())
		if !ok {
			h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "not authenticated"})
			return
		}

		u, err := h.users.GetUser(r.Context(), p.UserID)
		if err != nil {
			h.writeError(w, err)
			return
		}
		if u.Role != models.RoleAdmin {
			h.writeError(w, apperr.ErrPermissionDenied)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isAdmin reports whether the caller's stored role is admin, for routes
// that allow either the owner or an admin.
func (h *Handler) isAdmin(ctx context.Context, userID string) bool {
	u, err := h.users.GetUser(ctx, userID)
	return err == nil && u.Role == models.RoleAdmin
}
