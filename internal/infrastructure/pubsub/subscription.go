package pubsub

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	sendBufferSize = 256
)

// Subscription is a websocket connection receiving the messages published
// for a set of topics.
type Subscription struct {
	ID     string
	Topics map[string]struct{}

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func newSubscription(hub *Hub, conn *websocket.Conn, topics []string) *Subscription {
	topicSet := make(map[string]struct{})
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if len(t) > 0 {
			topicSet[t] = struct{}{}
		}
	}
	if len(topicSet) <= 0 {
		topicSet[ports.AnyTopic] = struct{}{}
	}

	return &Subscription{
		ID:     uuid.New().String(),
		Topics: topicSet,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
}

func (s *Subscription) isSubscribedTo(topic string) bool {
	if _, ok := s.Topics[ports.AnyTopic]; ok {
		return true
	}
	_, ok := s.Topics[topic]
	return ok
}

// readPump only serves control frames, anything sent by the client is
// discarded. It returns once the connection is closed.
func (s *Subscription) readPump() {
	defer func() {
		s.hub.removeSubscription(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(
				err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			) {
				log.WithError(err).Debugf("subscription %s closed", s.ID)
			}
			return
		}
	}
}

func (s *Subscription) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
