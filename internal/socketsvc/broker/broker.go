package broker

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/volleyhub/volley-services/internal/comm"
)

// Broker consumes game events from the volley service and fans whole-game
// snapshots out to every subscribed socket whose filter matches. Delivery
// goes through the hub's Send so fan-out frames never interleave with the
// read loop's writes on the same connection.
type Broker struct {
	Conn               *nats.Conn
	Send               func(string, interface{}) error
	RangeSubscriptions func(func(string, comm.GameFilter) bool)
}

func NewBroker(conn *nats.Conn, fncSend func(string, interface{}) error,
	fncRangeSubscriptions func(func(string, comm.GameFilter) bool)) *Broker {
	return &Broker{
		Conn:               conn,
		Send:               fncSend,
		RangeSubscriptions: fncRangeSubscriptions,
	}
}

// Subscribe consumes the game events topic.
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) handleMessages(msgNats *nats.Msg) {
	event := &comm.GameEvent{}
	if err := json.Unmarshal(msgNats.Data, event); err != nil {
		log.Errorf("malformed game event: %s", err)
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Errorf("failed to marshal game event %s: %v", event.ID, err)
		return
	}

	b.RangeSubscriptions(func(socketId string, filter comm.GameFilter) bool {
		if !filter.Matches(event.Game) {
			return true
		}

		m := &comm.WSMessage{Type: "game-event", Data: payload, SocketId: socketId}
		if err := b.Send(socketId, m); err != nil {
			log.Errorf("failed to send game event to socket %s: %v", socketId, err)
		}
		return true
	})
}
