package comm

import (
	"encoding/json"

	"github.com/volleyhub/volley-services/internal/volleysvc/models"
)

// TopicGameEvents carries a GameEvent per successful game mutation.
const TopicGameEvents = "game.events"

// Game event types.
const (
	EventGameCreated   = "game-created"
	EventGameUpdated   = "game-updated"
	EventGameDeleted   = "game-deleted"
	EventRosterChanged = "roster-changed"
)

// WSMessage is the frame exchanged with web clients over the socket.
type WSMessage struct {
	Type     string          `json:"type"` // e.g. "subscribe", "game-event"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"`
}

// GameFilter mirrors the list-query filters; a socket subscribes with one
// and only receives events whose snapshot matches it.
type GameFilter struct {
	Status    string `json:"status,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`
}

// Matches reports whether a game snapshot passes the filter. Empty fields
// match everything.
func (f GameFilter) Matches(g *models.Game) bool {
	if g == nil {
		return false
	}
	if f.Status != "" && f.Status != g.Status {
		return false
	}
	if f.CreatedBy != "" && f.CreatedBy != g.CreatedBy {
		return false
	}
	return true
}

// GameEvent is the whole-snapshot change notification. Deletes carry the
// last snapshot so subscribers can drop the right entry.
type GameEvent struct {
	ID   string       `json:"id"` // event id, unique per publish
	Type string       `json:"type"`
	Game *models.Game `json:"game"`
}
