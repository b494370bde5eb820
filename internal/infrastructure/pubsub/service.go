// Package pubsub implements the event publisher of the daemon as a hub of
// websocket subscriptions. Clients connect with an optional comma separated
// list of topics in the "topics" query parameter and receive every message
// published for those topics, or for all of them if none is given.
package pubsub

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type Hub struct {
	upgrader websocket.Upgrader

	lock          *sync.RWMutex
	subscriptions map[string]*Subscription
	closed        bool
}

// NewHub returns a hub whose websocket upgrader accepts connections from the
// given origins. An empty list or a "*" entry allows any origin.
func NewHub(allowedOrigins []string) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		lock:          &sync.RWMutex{},
		subscriptions: make(map[string]*Subscription),
	}
}

// Publish delivers the message to every subscription interested in the
// topic. Subscriptions too slow to keep up are dropped.
func (h *Hub) Publish(topic string, message string) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.closed {
		return fmt.Errorf("hub is closed")
	}

	msg := []byte(message)
	for id, sub := range h.subscriptions {
		if !sub.isSubscribedTo(topic) {
			continue
		}
		select {
		case sub.send <- msg:
		default:
			log.Warnf("dropping slow subscription %s", id)
			delete(h.subscriptions, id)
			close(sub.send)
		}
	}
	return nil
}

// ServeHTTP upgrades the request to a websocket connection and registers it
// as a new subscription.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("failed to upgrade websocket connection")
		return
	}

	topics := strings.Split(r.URL.Query().Get("topics"), ",")
	sub := newSubscription(h, conn, topics)
	if !h.addSubscription(sub) {
		conn.Close()
		return
	}

	go sub.writePump()
	go sub.readPump()
}

// NumOfSubscriptions returns the number of live subscriptions.
func (h *Hub) NumOfSubscriptions() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.subscriptions)
}

// Close drops every subscription and makes further publications fail.
func (h *Hub) Close() {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subscriptions {
		delete(h.subscriptions, id)
		close(sub.send)
	}
}

func (h *Hub) addSubscription(sub *Subscription) bool {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.closed {
		return false
	}
	h.subscriptions[sub.ID] = sub
	log.Debugf("added subscription %s", sub.ID)
	return true
}

func (h *Hub) removeSubscription(sub *Subscription) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if _, ok := h.subscriptions[sub.ID]; !ok {
		return
	}
	delete(h.subscriptions, sub.ID)
	close(sub.send)
	log.Debugf("removed subscription %s", sub.ID)
}

func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	allowAll := len(allowedOrigins) <= 0
	origins := make(map[string]struct{})
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		origins[o] = struct{}{}
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := origins[origin]
		return ok
	}
}
