package http

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"quiz-admin/internal/app"
)

// WSHandler streams console events to a browser. The first message is always
// the current editor state.
type WSHandler struct {
	hub      *Hub
	flow     *app.AuthoringFlow
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *Hub, flow *app.AuthoringFlow, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		hub:  hub,
		flow: flow,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	events, cancel := h.hub.Subscribe()
	defer cancel()

	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	// Only this goroutine writes to conn.
	go func() {
		defer close(writerDone)
		if err := conn.WriteJSON(Event{Type: EventState, Payload: h.flow.Snapshot()}); err != nil {
			h.log.Debug("ws write error", zap.Error(err))
			return
		}
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := conn.WriteJSON(ev); err != nil {
					h.log.Debug("ws write error", zap.Error(err))
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	// The stream is one-way; reading only detects the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	close(closeSignals)
	<-writerDone
}
