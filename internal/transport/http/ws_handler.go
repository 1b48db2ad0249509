package http

import (
	"net/http"

	"github.com/gorilla/websocket"

	"learnquest-service/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type outboundMessage struct {
	Type    string             `json:"type"`
	Payload domain.Leaderboard `json:"payload"`
}

// handleLeaderboardWS upgrades the connection and streams ranked snapshots:
// one primed snapshot on connect, then one per settlement.
func (s *Server) handleLeaderboardWS(w http.ResponseWriter, r *http.Request) {
	log := loggerFrom(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := s.leaderboard.Subscribe(r.Context())
	if err != nil {
		log.Error("ws subscribe failed", "error", err)
		return
	}
	defer cancel()

	readerDone := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: update}); err != nil {
					log.Debug("ws write error", "error", err)
					return
				}
			case <-readerDone:
				return
			}
		}
	}()

	// The reader exists to observe the close handshake; inbound payloads are
	// ignored.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	close(readerDone)
	<-writerDone
}
