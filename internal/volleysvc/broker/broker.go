package broker

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/volleyhub/volley-services/internal/comm"
	"github.com/volleyhub/volley-services/internal/volleysvc/models"
)

// Broker publishes game-change events for the socket service to fan out.
type Broker struct {
	Conn *nats.Conn
}

func NewBroker(nc *nats.Conn) *Broker {
	return &Broker{Conn: nc}
}

// PublishGameEvent sends the whole game snapshot on the events topic. A
// publish failure is logged, never surfaced: the mutation already
// committed and the subscriber reconciles from the list query anyway.
func (b *Broker) PublishGameEvent(eventType string, game *models.Game) {
	if b == nil || b.Conn == nil {
		return
	}

	evt := comm.GameEvent{
		ID:   uuid.New().String(),
		Type: eventType,
		Game: game,
	}

	bytes, err := json.Marshal(evt)
	if err != nil {
		log.Errorf("failed to marshal game event: %v", err)
		return
	}

	if err := b.Conn.Publish(comm.TopicGameEvents, bytes); err != nil {
		log.Errorf("failed to publish game event %s: %v", evt.ID, err)
	}
}
