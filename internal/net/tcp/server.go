// Package tcp is the primary transport: one persistent connection per client
// carrying newline-delimited JSON messages in both directions.
package tcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"stalked/server/internal/hub"
	"stalked/server/internal/net/proto"
)

const (
	writeWait = 10 * time.Second

	// A single line must fit the full client envelope with room to spare.
	maxLineBytes = 64 * 1024
)

// Server accepts connections and binds each one to a hub session.
type Server struct {
	hub      *hub.Hub
	log      *logrus.Logger
	listener net.Listener
	closed   chan struct{}
}

// Listen binds the listening socket. Serve must be called to start accepting.
func Listen(addr string, h *hub.Hub, log *logrus.Logger) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}
	return &Server{hub: h, log: log, listener: listener, closed: make(chan struct{})}, nil
}

// Addr reports the bound listen address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve runs the blocking accept loop until Close is called.
func (s *Server) Serve() error {
	for {
		netConn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closed:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.WithField("error", err).Error("failed to accept connection")
			continue
		}
		go s.handle(netConn)
	}
}

// Close stops the accept loop and releases the listening socket. Live
// sessions are torn down by the hub, not here.
func (s *Server) Close() error {
	select {
	case <-s.closed:
		return nil
	default:
		close(s.closed)
	}
	return s.listener.Close()
}

func (s *Server) handle(netConn net.Conn) {
	conn := &lineConn{Conn: netConn}

	id, err := s.hub.Accept(conn)
	if errors.Is(err, hub.ErrServerFull) {
		s.log.WithField("remote_addr", netConn.RemoteAddr().String()).
			Info("rejected connection: server is full")
		rejection, _ := json.Marshal(proto.ConnectionRejected{
			Type:   "connection_rejected",
			Reason: "Server is full",
		})
		conn.WriteMessage(rejection)
		netConn.Close()
		return
	}
	if err != nil {
		netConn.Close()
		return
	}

	s.read(id, netConn)
}

// read pumps newline-delimited messages into the hub for the session's
// lifetime. Partial reads are buffered by the scanner; several messages may
// arrive in a single read.
func (s *Server) read(id int, netConn net.Conn) {
	defer s.hub.Disconnect(id)

	scanner := bufio.NewScanner(netConn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		s.hub.HandleMessage(id, line)
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.log.WithFields(logrus.Fields{
			"client_id": id,
			"error":     err,
		}).Warn("connection read failed")
	}
}

// lineConn frames hub messages as single newline-terminated lines.
type lineConn struct {
	net.Conn
}

func (c *lineConn) WriteMessage(data []byte) error {
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, data...)
	buf = append(buf, '\n')
	c.SetWriteDeadline(time.Now().Add(writeWait))
	_, err := c.Write(buf)
	return err
}

func (c *lineConn) RemoteAddr() string {
	return c.Conn.RemoteAddr().String()
}
