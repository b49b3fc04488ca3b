package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendBuffer   = 16
	writeTimeout = 10 * time.Second
	readTimeout  = 60 * time.Second
)

// conn is the subset of *websocket.Conn the subscriber needs; tests provide
// fakes.
type conn interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
	Close() error
}

// subscriber is one websocket client attached to a topic.
type subscriber struct {
	topic  string
	ws     conn
	out    chan []byte
	done   chan struct{}
	logger *zap.Logger
}

func newSubscriber(topic string, ws conn, logger *zap.Logger) *subscriber {
	return &subscriber{
		topic:  topic,
		ws:     ws,
		out:    make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// send enqueues a payload without blocking; full buffers drop the message.
func (s *subscriber) send(data []byte) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("attempted to send on closed subscriber", zap.String("topic", s.topic))
		}
	}()
	select {
	case <-s.done:
	case s.out <- data:
	default:
		s.logger.Warn("dropping status update, subscriber buffer full", zap.String("topic", s.topic))
	}
}

func (s *subscriber) ping() {
	select {
	case <-s.done:
	default:
		s.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
		_ = s.ws.WriteMessage(websocket.PingMessage, []byte("ping"))
	}
}

// run pumps queued payloads to the socket and watches for client close.
// Returns when the client disconnects or onClose fires.
func (s *subscriber) run(onClose func()) {
	go s.readLoop()

	defer func() {
		close(s.done)
		_ = s.ws.Close()
		onClose()
	}()

	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-s.out:
			if !ok {
				return
			}
			s.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}

// readLoop discards inbound frames; clients only subscribe. It exists to
// process pongs and to notice the peer going away.
func (s *subscriber) readLoop() {
	s.ws.SetReadDeadline(time.Now().Add(readTimeout))
	s.ws.SetPongHandler(func(string) error {
		s.ws.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})
	for {
		if _, _, err := s.ws.ReadMessage(); err != nil {
			select {
			case <-s.done:
			default:
				close(s.out)
			}
			return
		}
	}
}
