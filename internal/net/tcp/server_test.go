package tcp

import (
	"bufio"
	"encoding/json"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"stalked/server/internal/game"
	"stalked/server/internal/hub"
)

const testTimeout = 5 * time.Second

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func startServer(t *testing.T, maxPlayers int) (*hub.Hub, string) {
	t.Helper()
	h := hub.New(hub.Config{
		Description: "test server",
		MaxPlayers:  maxPlayers,
		Difficulty:  game.DifficultyMedium,
		Logger:      quietLogger(),
	})
	srv, err := Listen("127.0.0.1:0", h, quietLogger())
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go srv.Serve()
	t.Cleanup(func() {
		srv.Close()
		h.Stop()
	})
	return h, srv.Addr().String()
}

type testClient struct {
	conn    net.Conn
	scanner *bufio.Scanner
}

func dial(t *testing.T, addr string) *testClient {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &testClient{conn: conn, scanner: bufio.NewScanner(conn)}
}

// waitFor reads lines until a message of the wanted type arrives.
func (c *testClient) waitFor(t *testing.T, msgType string) map[string]any {
	t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(testTimeout))
	for c.scanner.Scan() {
		var msg map[string]any
		if err := json.Unmarshal(c.scanner.Bytes(), &msg); err != nil {
			t.Fatalf("malformed line %q: %v", c.scanner.Text(), err)
		}
		if msg["type"] == msgType {
			return msg
		}
	}
	t.Fatalf("connection ended while waiting for %q: %v", msgType, c.scanner.Err())
	return nil
}

func (c *testClient) send(t *testing.T, raw string) {
	t.Helper()
	if _, err := c.conn.Write([]byte(raw)); err != nil {
		t.Fatalf("send: %v", err)
	}
}

func TestCapacityScenario(t *testing.T) {
	_, addr := startServer(t, 2)

	c1 := dial(t, addr)
	if got := c1.waitFor(t, "connected"); got["client_id"] != float64(1) {
		t.Fatalf("first client_id = %v, want 1", got["client_id"])
	}

	c2 := dial(t, addr)
	if got := c2.waitFor(t, "connected"); got["client_id"] != float64(2) {
		t.Fatalf("second client_id = %v, want 2", got["client_id"])
	}

	c3 := dial(t, addr)
	if got := c3.waitFor(t, "connection_rejected"); got["reason"] != "Server is full" {
		t.Fatalf("rejection = %v", got)
	}

	c1.conn.Close()
	if got := c2.waitFor(t, "player_left"); got["player_id"] != float64(1) {
		t.Fatalf("player_left = %v", got)
	}

	// The freed id must be handed to the next connection.
	c4 := dial(t, addr)
	if got := c4.waitFor(t, "connected"); got["client_id"] != float64(1) {
		t.Fatalf("reconnect client_id = %v, want the freed 1", got["client_id"])
	}
}

func TestMultipleMessagesInOneWrite(t *testing.T) {
	h, addr := startServer(t, 4)

	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	go h.RunBroadcast(stop)

	c := dial(t, addr)
	c.waitFor(t, "connected")

	// Two complete messages and the start of a third in a single write; the
	// fragment must stay buffered until its newline arrives.
	c.send(t, `{"type":"player_update","data":{"x":123.5}}`+"\n"+
		`{"type":"player_action","action":"sword_attack"}`+"\n"+
		`{"type":"player_up`)

	attack := c.waitFor(t, "sword_attack")
	if attack["player_id"] != float64(1) {
		t.Fatalf("sword_attack = %v", attack)
	}

	deadline := time.Now().Add(testTimeout)
	for {
		snap := c.waitFor(t, "game_state")
		players, _ := snap["players"].([]any)
		if len(players) == 1 {
			p, _ := players[0].(map[string]any)
			if p["x"] == float64(123.5) {
				break
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("player_update never reflected in snapshot: %v", snap)
		}
	}

	// Complete the fragmented line; it merges like any other update.
	c.send(t, `date","data":{"y":77}}`+"\n")
	deadline = time.Now().Add(testTimeout)
	for {
		snap := c.waitFor(t, "game_state")
		players, _ := snap["players"].([]any)
		if len(players) == 1 {
			p, _ := players[0].(map[string]any)
			if p["y"] == float64(77) {
				break
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("fragmented update never applied: %v", snap)
		}
	}
}

func TestMalformedLineKeepsConnectionAlive(t *testing.T) {
	_, addr := startServer(t, 4)

	c := dial(t, addr)
	c.waitFor(t, "connected")

	c.send(t, "this is not json\n")
	c.send(t, `{"type":"info_request"}`+"\n")

	info := c.waitFor(t, "server_info")
	if info["description"] != "test server" {
		t.Fatalf("server_info = %v", info)
	}
}
