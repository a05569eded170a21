// Package hub owns the session registry and the shared world. Every mutation
// of either happens under one mutex; the simulation loop, the broadcast loop
// and the per-connection readers all serialize through it.
package hub

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"stalked/server/internal/game"
	"stalked/server/internal/net/proto"
)

const (
	tickRate         = 60
	broadcastRate    = 30
	heartbeatTimeout = 60 * time.Second
	autoStartDelay   = 3 * time.Second
)

// ErrServerFull rejects a connection attempt at capacity.
var ErrServerFull = errors.New("server is full")

type Config struct {
	Description string
	// MaxPlayers 0 means unbounded; the partnership gate for that mode runs
	// once at startup, before the hub exists.
	MaxPlayers int
	Difficulty game.Difficulty
	Logger     *logrus.Logger
	Rand       *rand.Rand
}

type Hub struct {
	mu       sync.Mutex
	cfg      Config
	log      *logrus.Logger
	sessions map[int]*session
	world    *game.World
	now      func() time.Time
}

func New(cfg Config) *Hub {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if !cfg.Difficulty.Valid() {
		cfg.Difficulty = game.DifficultyMedium
	}
	return &Hub{
		cfg:      cfg,
		log:      cfg.Logger,
		sessions: make(map[int]*session),
		world:    game.NewWorld(cfg.Difficulty, cfg.Rand),
		now:      time.Now,
	}
}

// Accept registers a connection, allocating the smallest free session id,
// creates its player, sends the welcome and announces the join. Returns
// ErrServerFull when a finite capacity is exhausted.
func (h *Hub) Accept(conn Conn) (int, error) {
	h.mu.Lock()
	if h.cfg.MaxPlayers != 0 && len(h.sessions) >= h.cfg.MaxPlayers {
		h.mu.Unlock()
		return 0, ErrServerFull
	}

	id := 1
	for {
		if _, used := h.sessions[id]; !used {
			break
		}
		id++
	}

	sess := &session{id: id, conn: conn, lastHeartbeat: h.now()}
	h.sessions[id] = sess
	snapshot := *h.world.AddPlayer(id)
	count := len(h.sessions)
	welcome := proto.Connected{
		Type:              "connected",
		ClientID:          id,
		MaxPlayers:        h.cfg.MaxPlayers,
		CurrentPlayers:    count,
		GameState:         int(h.world.Phase),
		ServerDescription: h.cfg.Description,
		Difficulty:        int(h.world.Difficulty),
	}
	h.mu.Unlock()

	if err := h.sendTo(sess, welcome); err != nil {
		h.Disconnect(id)
		return 0, err
	}

	h.broadcast(proto.PlayerJoined{Type: "player_joined", PlayerID: id, PlayerData: snapshot})

	h.log.WithFields(logrus.Fields{
		"client_id":   id,
		"remote_addr": conn.RemoteAddr(),
		"online":      h.occupancy(count),
	}).Info("client connected")

	return id, nil
}

// Disconnect removes a session and its player, closes the connection and
// announces the departure. Safe to call for ids that are already gone.
func (h *Hub) Disconnect(id int) {
	h.mu.Lock()
	sess, ok := h.sessions[id]
	if ok {
		delete(h.sessions, id)
		h.world.RemovePlayer(id)
	}
	count := len(h.sessions)
	h.mu.Unlock()

	if !ok {
		return
	}

	sess.conn.Close()
	h.broadcast(proto.PlayerLeft{Type: "player_left", PlayerID: id})

	h.log.WithFields(logrus.Fields{
		"client_id": id,
		"online":    h.occupancy(count),
	}).Info("client disconnected")
}

func (h *Hub) occupancy(count int) string {
	if h.cfg.MaxPlayers == 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d/%d", count, h.cfg.MaxPlayers)
}

// HandleMessage decodes one raw protocol line from a client and applies it.
// Malformed lines are logged and dropped; unknown types are ignored.
func (h *Hub) HandleMessage(id int, line []byte) {
	var msg proto.ClientMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		h.log.WithFields(logrus.Fields{
			"client_id": id,
			"error":     err,
		}).Warn("discarding malformed message")
		return
	}

	switch msg.Type {
	case "player_update":
		if msg.Data == nil {
			return
		}
		h.mu.Lock()
		h.world.ApplyPlayerUpdate(id, *msg.Data)
		h.mu.Unlock()

	case "player_action":
		if msg.Action != "sword_attack" {
			return
		}
		h.mu.Lock()
		ok := h.world.SetSwordAttacking(id)
		h.mu.Unlock()
		if ok {
			h.broadcast(proto.SwordAttack{Type: "sword_attack", PlayerID: id})
		}

	case "heartbeat":
		h.mu.Lock()
		if sess, ok := h.sessions[id]; ok {
			sess.lastHeartbeat = h.now()
		}
		h.mu.Unlock()

	case "start_game":
		h.StartGame()

	case "set_difficulty":
		h.mu.Lock()
		ok := h.world.SetDifficulty(game.Difficulty(msg.Difficulty))
		h.mu.Unlock()
		if ok {
			h.broadcast(proto.DifficultyChanged{Type: "difficulty_changed", Difficulty: msg.Difficulty})
		}

	case "info_request":
		info := h.ServerInfo()
		h.mu.Lock()
		sess, ok := h.sessions[id]
		h.mu.Unlock()
		if ok {
			h.sendTo(sess, info)
		}
	}
}

// StartGame runs the round reset when the server is still in the menu phase.
// Reports whether the game actually started.
func (h *Hub) StartGame() bool {
	h.mu.Lock()
	if h.world.Phase != game.PhaseMenu {
		h.mu.Unlock()
		return false
	}
	h.world.StartGame()
	difficulty := h.world.Difficulty
	h.mu.Unlock()

	h.log.WithField("difficulty", difficulty.String()).Info("game started")
	h.broadcast(proto.GameStarted{Type: "game_started", Difficulty: int(difficulty)})
	return true
}

// ServerInfo reports the metadata served to server-browser pings.
func (h *Hub) ServerInfo() proto.ServerInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return proto.ServerInfo{
		Type:        "server_info",
		Description: h.cfg.Description,
		MaxPlayers:  h.cfg.MaxPlayers,
		Difficulty:  int(h.world.Difficulty),
	}
}

// RunSimulation drives the fixed-rate tick loop until stop closes.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	last := h.now()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now := h.now()
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = 1.0 / tickRate
			}
			last = now
			h.tick(now, dt)
		}
	}
}

// tick sweeps timed-out sessions, then advances the world when a round is
// running. Timeout removal happens here, inside the tick, so disconnect side
// effects stay serialized with world mutation.
func (h *Hub) tick(now time.Time, dt float64) {
	var expired []*session
	var respawns []game.PlayerRespawn

	h.mu.Lock()
	for id, sess := range h.sessions {
		if now.Sub(sess.lastHeartbeat) > heartbeatTimeout {
			expired = append(expired, sess)
			delete(h.sessions, id)
			h.world.RemovePlayer(id)
		}
	}
	if h.world.Phase == game.PhasePlaying {
		respawns = h.world.Advance(now, dt)
	}
	h.mu.Unlock()

	for _, sess := range expired {
		sess.conn.Close()
		h.log.WithField("client_id", sess.id).Warn("client timed out")
		h.broadcast(proto.PlayerLeft{Type: "player_left", PlayerID: sess.id})
	}
	for _, r := range respawns {
		h.broadcast(proto.PlayerRespawned{Type: "player_respawned", PlayerID: r.ID, PlayerData: r.Player})
	}
}

// RunBroadcast streams world snapshots at the publish rate until stop closes.
func (h *Hub) RunBroadcast(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / broadcastRate)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			h.broadcastSnapshot()
		}
	}
}

func (h *Hub) broadcastSnapshot() {
	h.mu.Lock()
	if len(h.sessions) == 0 {
		h.mu.Unlock()
		return
	}
	snap := h.world.Snapshot()
	h.mu.Unlock()

	h.broadcast(proto.GameState{
		Type:        "game_state",
		State:       int(snap.Phase),
		Players:     snap.Players,
		Chasers:     snap.Chasers,
		Bullets:     snap.Bullets,
		Powerups:    snap.Powerups,
		GameTime:    snap.GameTime,
		Difficulty:  int(snap.Difficulty),
		GlobalScore: snap.GlobalScore,
	})
}

// RunAutoStart starts the round once, three seconds after launch, if no
// client has started it explicitly by then.
func (h *Hub) RunAutoStart(stop <-chan struct{}) {
	timer := time.NewTimer(autoStartDelay)
	defer timer.Stop()

	select {
	case <-stop:
	case <-timer.C:
		if h.StartGame() {
			h.log.Info("auto-started game")
		}
	}
}

// broadcast fans one message out to every session. Sends run outside the hub
// lock; sessions that fail are torn down after the pass so one broken client
// never blocks the others.
func (h *Hub) broadcast(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.WithField("error", err).Error("failed to marshal broadcast message")
		return
	}

	h.mu.Lock()
	targets := make([]*session, 0, len(h.sessions))
	for _, sess := range h.sessions {
		targets = append(targets, sess)
	}
	h.mu.Unlock()

	var failed []int
	for _, sess := range targets {
		if err := sess.write(data); err != nil {
			h.log.WithFields(logrus.Fields{
				"client_id": sess.id,
				"error":     err,
			}).Warn("failed to send to client")
			failed = append(failed, sess.id)
		}
	}
	for _, id := range failed {
		h.Disconnect(id)
	}
}

func (h *Hub) sendTo(sess *session, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return sess.write(data)
}

// Stop closes every live session. Safe to call when sessions are already
// gone; the loops are stopped separately via their stop channel.
func (h *Hub) Stop() {
	h.mu.Lock()
	targets := make([]*session, 0, len(h.sessions))
	for _, sess := range h.sessions {
		targets = append(targets, sess)
	}
	h.sessions = make(map[int]*session)
	h.mu.Unlock()

	for _, sess := range targets {
		sess.conn.Close()
	}
}
