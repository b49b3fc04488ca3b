package ws

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server upgrades HTTP connections to WebSockets for live charging status.
type Server struct {
	hub      *Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer builds ws server.
func NewServer(hub *Hub, logger *zap.Logger) *Server {
	return &Server{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// SessionTopic names the broadcast topic for one session.
func SessionTopic(sessionID int64) string {
	return fmt.Sprintf("charging/%d", sessionID)
}

// HandleCharging is the HTTP handler for /ws/charging?session_id=N.
func (s *Server) HandleCharging(w http.ResponseWriter, r *http.Request) {
	sessionIDStr := r.URL.Query().Get("session_id")
	sessionID, err := strconv.ParseInt(sessionIDStr, 10, 64)
	if err != nil || sessionID <= 0 {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	topic := SessionTopic(sessionID)
	sub := newSubscriber(topic, conn, s.logger)
	s.hub.add(topic, sub)
	s.logger.Info("status subscriber connected", zap.String("topic", topic))

	go sub.run(func() {
		s.hub.remove(topic, sub)
		s.logger.Info("status subscriber disconnected", zap.String("topic", topic))
	})
}
