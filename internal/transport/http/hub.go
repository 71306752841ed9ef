package http

import (
	"sync"
)

// Event types pushed to console clients.
const (
	EventState    = "state"
	EventFeedback = "feedback"
	EventNavigate = "navigate"
	EventAlert    = "alert"
	EventQuizzes  = "quizzes"
)

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type navigatePayload struct {
	Target string `json:"target"`
}

type alertPayload struct {
	Message string `json:"message"`
}

// Hub fans events out to websocket subscribers. A slow subscriber loses its
// oldest pending event instead of blocking the publisher.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan Event]struct{})}
}

// Subscribe returns a channel of events. The caller must invoke cancel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) Publish(eventType string, payload any) {
	ev := Event{Type: eventType, Payload: payload}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

// Navigate implements app.Navigator by telling clients to open target.
func (h *Hub) Navigate(target string) {
	h.Publish(EventNavigate, navigatePayload{Target: target})
}

// Alert implements app.Alerter.
func (h *Hub) Alert(message string) {
	h.Publish(EventAlert, alertPayload{Message: message})
}
