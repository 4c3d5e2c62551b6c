package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/volleyhub/volley-services/internal/comm"
)

// socket pairs a connection with its write lock. Frames reach a client from
// two goroutines (the read loop's acks and the NATS fan-out) and gorilla
// allows only one concurrent writer per connection.
type socket struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *socket) writeJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

type Ws struct {
	connMap sync.Map // socketId -> *socket
	subMap  sync.Map // socketId -> comm.GameFilter
}

func NewWs() *Ws {
	return &Ws{}
}

// SocketMessage handles a frame from a web client.
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case "subscribe":
		s.handleSubscribe(socketId, message)
	case "unsubscribe":
		s.subMap.Delete(socketId)
	default:
		log.Warnf("unknown event received: %s", message.Type)
	}
}

// handleSubscribe stores the client's game filter. A client holds at most
// one subscription; a new subscribe replaces the old filter.
func (s *Ws) handleSubscribe(socketId string, msg *comm.WSMessage) {
	filter := comm.GameFilter{}
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &filter); err != nil {
			log.Errorf("malformed subscribe payload from %s: %s", socketId, err)
			return
		}
	}

	s.subMap.Store(socketId, filter)
	log.Infof("socket %s subscribed (status=%q created_by=%q)", socketId, filter.Status, filter.CreatedBy)

	ack := &comm.WSMessage{Type: "subscribed", SocketId: socketId}
	if err := s.Send(socketId, ack); err != nil {
		log.Errorf("failed to ack subscribe for %s: %v", socketId, err)
	}
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, &socket{conn: conn})
}

// Send writes a frame to a socket, serialized against other writers. A
// missing socket disconnected mid-send; that is not an error.
func (s *Ws) Send(socketId string, v interface{}) error {
	val, ok := s.connMap.Load(socketId)
	if !ok {
		return nil
	}
	return val.(*socket).writeJSON(v)
}

// RangeSubscriptions visits every subscribed socket with its filter.
func (s *Ws) RangeSubscriptions(visit func(socketId string, filter comm.GameFilter) bool) {
	s.subMap.Range(func(key, value interface{}) bool {
		return visit(key.(string), value.(comm.GameFilter))
	})
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
	s.subMap.Delete(socketId)
}
