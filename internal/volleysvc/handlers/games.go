package handlers

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/volleyhub/volley-services/internal/volleysvc/apperr"
	"github.com/volleyhub/volley-services/internal/volleysvc/models"
	"github.com/volleyhub/volley-services/internal/volleysvc/roster"
	"github.com/volleyhub/volley-services/internal/volleysvc/service"
	"github.com/volleyhub/volley-services/internal/volleysvc/store"
)

// gameView pairs a game with its derived read-side summary.
type gameView struct {
	Game    *models.Game   `json:"game"`
	Summary roster.Summary `json:"summary"`
}

func view(g *models.Game) gameView {
	return gameView{Game: g, Summary: roster.Summarize(g)}
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	f := store.GameFilter{
		Status:    r.URL.Query().Get("status"),
		CreatedBy: r.URL.Query().Get("created_by"),
	}
	if f.Status != "" && f.Status != models.StatusUpcoming &&
		f.Status != models.StatusCancelled && f.Status != models.StatusArchived {
		h.writeError(w, apperr.Validationf("status", "unknown status %q", f.Status))
		return
	}

	games, err := h.games.ListGames(r.Context(), f)
	if err != nil {
		h.writeError(w, err)
		return
	}

	views := make([]gameView, 0, len(games))
	for _, g := range games {
		views = append(views, view(g))
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: views})
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.GetGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: view(game)})
}

// MyGames lists the upcoming games the caller is on, confirmed or waiting.
func (h *Handler) MyGames(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	games, err := h.games.ListUserUpcomingGames(r.Context(), p.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	views := make([]gameView, 0, len(games))
	for _, g := range games {
		views = append(views, view(g))
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: views})
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	var in service.CreateGameInput
	if !h.decode(w, r, &in) {
		return
	}

	game, err := h.games.CreateGame(r.Context(), in, p.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusCreated, Data: view(game)})
}

func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateGameInput
	if !h.decode(w, r, &in) {
		return
	}

	game, err := h.games.UpdateGame(r.Context(), chi.URLParam(r, "gameID"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: view(game)})
}

func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.games.DeleteGame(r.Context(), chi.URLParam(r, "gameID")); err != nil {
		h.writeError(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Message: "game deleted"})
}

// RegisterSelf puts the caller on the roster; the service decides which
// list receives them.
func (h *Handler) RegisterSelf(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	var body struct {
		WillBringBall    bool `json:"will_bring_ball"`
		WillBringSpeaker bool `json:"will_bring_speaker"`
	}
	if !h.decode(w, r, &body) {
		return
	}

	player := models.GamePlayer{
		UserID:           p.UserID,
		UserName:         p.Name,
		UserEmail:        p.Email,
		WillBringBall:    body.WillBringBall,
		WillBringSpeaker: body.WillBringSpeaker,
	}

	game, err := h.games.RegisterPlayer(r.Context(), chi.URLParam(r, "gameID"), player)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: view(game)})
}

// UnregisterPlayer removes a player; players remove themselves, admins can
// remove anyone.
func (h *Handler) UnregisterPlayer(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	userID := chi.URLParam(r, "userID")

	if userID != p.UserID && !h.isAdmin(r.Context(), p.UserID) {
		h.writeError(w, apperr.ErrPermissionDenied)
		return
	}

	game, err := h.games.UnregisterPlayer(r.Context(), chi.URLParam(r, "gameID"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: view(game)})
}

func (h *Handler) SetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		HasPaid bool `json:"has_paid"`
	}
	if !h.decode(w, r, &body) {
		return
	}

	game, err := h.games.SetPaymentStatus(r.Context(),
		chi.URLParam(r, "gameID"), chi.URLParam(r, "userID"), body.HasPaid)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: view(game)})
}
