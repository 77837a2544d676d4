package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/goliatone/go-onboarding/pkg/form"
)

const (
	eventsWriteWait  = 10 * time.Second
	eventsPongWait   = 60 * time.Second
	eventsPingPeriod = (eventsPongWait * 9) / 10
)

// handleEvents streams the session's controller view as JSON frames: the
// current view on connect, then one frame per change. Frames never go
// backwards in Version.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFor(r)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("events upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// One slot: a slow client only ever sees the latest view.
	updates := make(chan form.View, 1)
	cancel := session.Controller.Subscribe(func(view form.View) {
		for {
			select {
			case updates <- view:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(eventsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(eventsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(eventsPingPeriod)
	defer ping.Stop()

	var last uint64
	send := func(view form.View) error {
		if last != 0 && view.Version <= last {
			return nil
		}
		last = view.Version
		_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
		return conn.WriteJSON(newStatusView(view))
	}

	if err := send(session.Controller.View()); err != nil {
		return
	}
	for {
		select {
		case view := <-updates:
			if err := send(view); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}
