package hub

import (
	"sync"
	"time"
)

// Conn is the transport-neutral view of one client connection. TCP and
// WebSocket transports each provide an implementation; WriteMessage sends one
// complete protocol message.
type Conn interface {
	WriteMessage(data []byte) error
	Close() error
	RemoteAddr() string
}

// session pairs a connection with its numeric identity and liveness
// timestamp. The write mutex keeps concurrent broadcasts from interleaving
// frames on the same connection.
type session struct {
	id            int
	conn          Conn
	mu            sync.Mutex
	lastHeartbeat time.Time
}

func (s *session) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(data)
}
