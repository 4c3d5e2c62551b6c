package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/volleyhub/volley-services/internal/comm"
	"github.com/volleyhub/volley-services/internal/volleysvc/apperr"
	"github.com/volleyhub/volley-services/internal/volleysvc/models"
	"github.com/volleyhub/volley-services/internal/volleysvc/roster"
	"github.com/volleyhub/volley-services/internal/volleysvc/store"
)

// writeRetries bounds the replay loop when a conditional write loses to a
// concurrent writer.
const writeRetries = 3

// GameStore is the slice of the store layer the game service needs.
type GameStore interface {
	Create(ctx context.Context, game *models.Game) (string, error)
	GetByID(ctx context.Context, gameID string) (*models.Game, error)
	List(ctx context.Context, f store.GameFilter) ([]*models.Game, error)
	UpdateFields(ctx context.Context, gameID string, version int64, set bson.M) (bool, error)
	ReplaceRoster(ctx context.Context, gameID string, version int64, players, waiting []models.GamePlayer) (bool, error)
	Delete(ctx context.Context, gameID string) (bool, error)
}

// EventPublisher notifies the socket service after a successful mutation.
type EventPublisher interface {
	PublishGameEvent(eventType string, game *models.Game)
}

type GameService struct {
	gameStore GameStore
	events    EventPublisher
}

func NewGameService(gameStore GameStore, events EventPublisher) *GameService {
	return &GameService{gameStore: gameStore, events: events}
}

type CreateGameInput struct {
	Title        string          `json:"title"`
	Date         time.Time       `json:"date"`
	Location     models.Location `json:"location"`
	MaxPlayers   int             `json:"max_players"`
	Price        float64         `json:"price"`
	PaymentURL   string          `json:"payment_url"`
	NeedsBall    bool            `json:"needs_ball"`
	NeedsSpeaker bool            `json:"needs_speaker"`
}

// UpdateGameInput carries a partial admin edit; nil fields are untouched.
type UpdateGameInput struct {
	Title        *string          `json:"title"`
	Date         *time.Time       `json:"date"`
	Location     *models.Location `json:"location"`
	MaxPlayers   *int             `json:"max_players"`
	Price        *float64         `json:"price"`
	PaymentURL   *string          `json:"payment_url"`
	NeedsBall    *bool            `json:"needs_ball"`
	NeedsSpeaker *bool            `json:"needs_speaker"`
	Status       *string          `json:"status"`
}

func (s *GameService) CreateGame(ctx context.Context, in CreateGameInput, createdBy string) (*models.Game, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateLocation(in.Location); err != nil {
		return nil, err
	}
	if err := validateMaxPlayers(in.MaxPlayers); err != nil {
		return nil, err
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	if err := validateDate(in.Date); err != nil {
		return nil, err
	}

	now := time.Now()
	game := &models.Game{
		Title:        in.Title,
		Date:         in.Date,
		Location:     in.Location,
		MaxPlayers:   in.MaxPlayers,
		Price:        in.Price,
		PaymentURL:   in.PaymentURL,
		Players:      []models.GamePlayer{},
		WaitingList:  []models.GamePlayer{},
		Status:       models.StatusUpcoming,
		CreatedBy:    createdBy,
		NeedsBall:    in.NeedsBall,
		NeedsSpeaker: in.NeedsSpeaker,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.gameStore.Create(ctx, game); err != nil {
		return nil, apperr.Upstreamf("create game: %v", err)
	}

	s.events.PublishGameEvent(comm.EventGameCreated, game)
	return game, nil
}

func (s *GameService) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	game, err := s.gameStore.GetByID(ctx, gameID)
	if err != nil {
		return nil, apperr.Upstreamf("get game: %v", err)
	}
	if game == nil {
		return nil, apperr.NotFoundf("game %s", gameID)
	}
	return game, nil
}

func (s *GameService) ListGames(ctx context.Context, f store.GameFilter) ([]*models.Game, error) {
	games, err := s.gameStore.List(ctx, f)
	if err != nil {
		return nil, apperr.Upstreamf("list games: %v", err)
	}
	return games, nil
}

// ListUserUpcomingGames returns the upcoming games where the user holds a
// spot on either list.
func (s *GameService) ListUserUpcomingGames(ctx context.Context, userID string) ([]*models.Game, error) {
	games, err := s.ListGames(ctx, store.GameFilter{Status: models.StatusUpcoming})
	if err != nil {
		return nil, err
	}

	var mine []*models.Game
	for _, g := range games {
		if roster.Find(g, userID) != nil {
			mine = append(mine, g)
		}
	}
	return mine, nil
}

// UpdateGame applies a partial admin edit. The write is conditional on the
// version the guards were checked against, so a registration landing between
// the read and the write cannot slip under a capacity shrink; lost races
// replay against a fresh snapshot.
func (s *GameService) UpdateGame(ctx context.Context, gameID string, in UpdateGameInput) (*models.Game, error) {
	for attempt := 0; attempt < writeRetries; attempt++ {
		game, err := s.GetGame(ctx, gameID)
		if err != nil {
			return nil, err
		}

		set, err := buildGameUpdate(game, in)
		if err != nil {
			return nil, err
		}
		if len(set) == 0 {
			return game, nil
		}

		matched, err := s.gameStore.UpdateFields(ctx, gameID, game.Version, set)
		if err != nil {
			return nil, apperr.Upstreamf("update game: %v", err)
		}
		if !matched {
			continue // lost the version race, replay on a fresh snapshot
		}

		updated, err := s.GetGame(ctx, gameID)
		if err != nil {
			return nil, err
		}

		s.events.PublishGameEvent(comm.EventGameUpdated, updated)
		return updated, nil
	}

	return nil, apperr.ErrConflict
}

func buildGameUpdate(game *models.Game, in UpdateGameInput) (bson.M, error) {
	set := bson.M{}
	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return nil, err
		}
		set["title"] = *in.Title
	}
	if in.Date != nil {
		if err := validateDate(*in.Date); err != nil {
			return nil, err
		}
		set["date"] = in.Date.UTC().Truncate(time.Millisecond)
	}
	if in.Location != nil {
		if err := validateLocation(*in.Location); err != nil {
			return nil, err
		}
		set["location"] = *in.Location
	}
	if in.MaxPlayers != nil {
		if err := validateMaxPlayers(*in.MaxPlayers); err != nil {
			return nil, err
		}
		if *in.MaxPlayers < len(game.Players) {
			return nil, apperr.Validationf("max_players", "cannot shrink below the %d confirmed players", len(game.Players))
		}
		set["max_players"] = *in.MaxPlayers
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
		set["price"] = *in.Price
	}
	if in.PaymentURL != nil {
		set["payment_url"] = *in.PaymentURL
	}
	if in.NeedsBall != nil {
		set["needs_ball"] = *in.NeedsBall
	}
	if in.NeedsSpeaker != nil {
		set["needs_speaker"] = *in.NeedsSpeaker
	}
	if in.Status != nil {
		if !models.ValidStatusChange(game.Status, *in.Status) {
			return nil, apperr.Validationf("status", "cannot move game from %s to %s", game.Status, *in.Status)
		}
		set["status"] = *in.Status
	}

	return set, nil
}

func (s *GameService) DeleteGame(ctx context.Context, gameID string) error {
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return err
	}

	deleted, err := s.gameStore.Delete(ctx, gameID)
	if err != nil {
		return apperr.Upstreamf("delete game: %v", err)
	}
	if !deleted {
		return apperr.NotFoundf("game %s", gameID)
	}

	s.events.PublishGameEvent(comm.EventGameDeleted, game)
	return nil
}

// RegisterPlayer joins the caller to a game. The read-transition-write
// cycle is replayed on version conflicts so two racing registrations can
// never overshoot the cap or waste a seat.
func (s *GameService) RegisterPlayer(ctx context.Context, gameID string, player models.GamePlayer) (*models.Game, error) {
	if player.JoinedAt.IsZero() {
		player.JoinedAt = time.Now()
	}

	return s.mutateRoster(ctx, gameID, func(g *models.Game) error {
		if g.Status != models.StatusUpcoming {
			return apperr.Validationf("status", "game is %s, registration closed", g.Status)
		}
		return roster.Register(g, player)
	})
}

func (s *GameService) UnregisterPlayer(ctx context.Context, gameID, userID string) (*models.Game, error) {
	return s.mutateRoster(ctx, gameID, func(g *models.Game) error {
		return roster.Unregister(g, userID)
	})
}

func (s *GameService) SetPaymentStatus(ctx context.Context, gameID, userID string, hasPaid bool) (*models.Game, error) {
	return s.mutateRoster(ctx, gameID, func(g *models.Game) error {
		return roster.SetPaymentStatus(g, userID, hasPaid)
	})
}

func (s *GameService) mutateRoster(ctx context.Context, gameID string, transition func(*models.Game) error) (*models.Game, error) {
	for attempt := 0; attempt < writeRetries; attempt++ {
		game, err := s.GetGame(ctx, gameID)
		if err != nil {
			return nil, err
		}

		if err := transition(game); err != nil {
			return nil, err
		}

		ok, err := s.gameStore.ReplaceRoster(ctx, gameID, game.Version, game.Players, game.WaitingList)
		if err != nil {
			return nil, apperr.Upstreamf("write roster: %v", err)
		}
		if !ok {
			continue // lost the version race, replay on a fresh snapshot
		}

		game.Version++
		s.events.PublishGameEvent(comm.EventRosterChanged, game)
		return game, nil
	}

	return nil, apperr.ErrConflict
}

func validateTitle(title string) error {
	if title == "" {
		return apperr.Validationf("title", "must not be empty")
	}
	return nil
}

func validateLocation(loc models.Location) error {
	if loc.Name == "" {
		return apperr.Validationf("location", "name must not be empty")
	}
	return nil
}

func validateMaxPlayers(n int) error {
	if n < 2 || n > 50 {
		return apperr.Validationf("max_players", "must be between 2 and 50")
	}
	return nil
}

func validatePrice(p float64) error {
	if p < 0 || p > 100 {
		return apperr.Validationf("price", "must be between 0 and 100 euros")
	}
	return nil
}

func validateDate(d time.Time) error {
	if !d.After(time.Now()) {
		return apperr.Validationf("date", "must be in the future")
	}
	return nil
}
