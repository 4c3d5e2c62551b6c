package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	"github.com/volleyhub/volley-services/internal/volleysvc/apperr"
	"github.com/volleyhub/volley-services/internal/volleysvc/service"
)

type Handler struct {
	tokenAuth *jwtauth.JWTAuth
	games     *service.GameService
	users     *service.UserService
}

func NewHandler(games *service.GameService, users *service.UserService) *Handler {
	return &Handler{games: games, users: users}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

// writeError maps the error taxonomy onto HTTP codes. Store and broker
// failures get a generic retry prompt; the detail stays in the log.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsValidation(err):
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		h.CreateResponse(w, Response{Code: http.StatusNotFound, Error: err.Error()})
	case errors.Is(err, apperr.ErrPermissionDenied):
		h.CreateResponse(w, Response{Code: http.StatusForbidden, Error: "permission denied"})
	case errors.Is(err, apperr.ErrConflict):
		h.CreateResponse(w, Response{Code: http.StatusConflict, Error: "concurrent update, please retry"})
	case errors.Is(err, apperr.ErrUpstream):
		log.Errorf("upstream failure: %v", err)
		h.CreateResponse(w, Response{Code: http.StatusServiceUnavailable, Error: "temporary failure, please retry"})
	default:
		log.Errorf("unhandled error: %v", err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "internal error"})
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return false
	}
	return true
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "volley service is running at port " + os.Getenv("GAME_SERVICE_PORT"),
		Code:    200,
		Data:    nil,
	}
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("failed to encode health response: %v", err)
	}
}
