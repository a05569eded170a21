package game

import (
	"math"
	"math/rand"
	"sort"
	"time"
)

// World is the shared mutable model: players, chasers, bullets, powerups and
// the round-level counters. It performs no locking and no I/O; the hub
// serializes every mutation behind its own mutex.
type World struct {
	Phase      Phase
	Difficulty Difficulty

	Players  map[int]*Player
	Chasers  []*Chaser
	Bullets  []Bullet
	Powerups []Powerup

	GameTime    float64
	GlobalScore int

	// Explicit timers; all are reset by StartGame so no code path depends on
	// lazy first-touch initialization.
	lastGlobalScoreAt float64
	lastBulletAt      float64
	scoreAt           map[int]float64
	damageAt          map[int]time.Time
	respawnAt         map[int]float64

	rng *rand.Rand
}

// NewWorld builds an empty world in the menu phase. A nil rng falls back to a
// time-seeded source; tests inject a seeded one.
func NewWorld(difficulty Difficulty, rng *rand.Rand) *World {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &World{
		Phase:      PhaseMenu,
		Difficulty: difficulty,
		Players:    make(map[int]*Player),
		Chasers:    make([]*Chaser, 0),
		Bullets:    make([]Bullet, 0),
		Powerups:   make([]Powerup, 0),
		scoreAt:    make(map[int]float64),
		damageAt:   make(map[int]time.Time),
		respawnAt:  make(map[int]float64),
		rng:        rng,
	}
}

// AddPlayer creates the player record for a new session at the world center.
func (w *World) AddPlayer(id int) *Player {
	p := newPlayer(id)
	w.Players[id] = p
	w.scoreAt[id] = w.GameTime
	return p
}

// RemovePlayer drops a session's player and its per-player timers. Idempotent.
func (w *World) RemovePlayer(id int) {
	delete(w.Players, id)
	delete(w.scoreAt, id)
	delete(w.damageAt, id)
}

// ApplyPlayerUpdate merges a client update into its player. Unknown ids are
// ignored.
func (w *World) ApplyPlayerUpdate(id int, upd PlayerUpdate) {
	if p, ok := w.Players[id]; ok {
		p.apply(upd)
	}
}

// SetSwordAttacking flags a player's pending sword swing; damage resolves in
// the next tick's collision pass.
func (w *World) SetSwordAttacking(id int) bool {
	p, ok := w.Players[id]
	if !ok {
		return false
	}
	p.SwordAttacking = true
	return true
}

// SetDifficulty updates the difficulty when the value is a known one.
func (w *World) SetDifficulty(d Difficulty) bool {
	if !d.Valid() {
		return false
	}
	w.Difficulty = d
	return true
}

// StartGame resets every round-scoped counter, returns all players to spawn
// and materializes the full chaser set for the current difficulty.
func (w *World) StartGame() {
	w.Phase = PhasePlaying
	w.GameTime = 0
	w.GlobalScore = 0
	w.lastGlobalScoreAt = 0
	w.lastBulletAt = 0
	w.Bullets = w.Bullets[:0]
	w.Powerups = w.Powerups[:0]

	w.damageAt = make(map[int]time.Time)
	w.respawnAt = make(map[int]float64)
	w.scoreAt = make(map[int]float64)

	for id, p := range w.Players {
		p.X = SpawnX
		p.Y = SpawnY
		p.Health = p.MaxHealth
		p.Score = 0
		p.SwordAttacking = false
		w.scoreAt[id] = 0
	}

	tuning := w.Difficulty.Tuning()
	w.Chasers = make([]*Chaser, 0, tuning.ChaserCount)
	for id := 0; id < tuning.ChaserCount; id++ {
		w.Chasers = append(w.Chasers, w.spawnChaser(id, tuning.ChaserSpeed))
	}
}

// spawnChaser rejection-samples a spawn point away from the world center and
// the playfield edges, keeping the last sample when no attempt qualifies.
func (w *World) spawnChaser(id int, speed float64) *Chaser {
	var x, y float64
	for attempt := 0; attempt < spawnMaxAttempts; attempt++ {
		x = float64(spawnMargin + w.rng.Intn(int(WorldWidth)-2*spawnMargin+1))
		y = float64(spawnMargin + w.rng.Intn(int(WorldHeight)-2*spawnMargin+1))
		if math.Hypot(x-SpawnX, y-SpawnY) >= spawnMinCenterDistance {
			break
		}
	}
	return &Chaser{ID: id, X: x, Y: y, Speed: speed, Health: 1}
}

// playerIDs returns the live player ids in ascending order so collision and
// scoring passes run in a stable order.
func (w *World) playerIDs() []int {
	ids := make([]int, 0, len(w.Players))
	for id := range w.Players {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// nearestPlayer finds the closest player to (x, y) by Euclidean distance.
func (w *World) nearestPlayer(x, y float64) (*Player, float64) {
	var nearest *Player
	min := math.Inf(1)
	for _, id := range w.playerIDs() {
		p := w.Players[id]
		if d := math.Hypot(p.X-x, p.Y-y); d < min {
			min = d
			nearest = p
		}
	}
	return nearest, min
}

// Snapshot is an immutable copy of the broadcastable world state.
type Snapshot struct {
	Phase       Phase
	Players     []Player
	Chasers     []Chaser
	Bullets     []Bullet
	Powerups    []Powerup
	GameTime    float64
	Difficulty  Difficulty
	GlobalScore int
}

// Snapshot deep-copies the entity lists so the caller can serialize and send
// outside the hub lock.
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:       w.Phase,
		Players:     make([]Player, 0, len(w.Players)),
		Chasers:     make([]Chaser, 0, len(w.Chasers)),
		Bullets:     make([]Bullet, len(w.Bullets)),
		Powerups:    make([]Powerup, len(w.Powerups)),
		GameTime:    w.GameTime,
		Difficulty:  w.Difficulty,
		GlobalScore: w.GlobalScore,
	}
	for _, id := range w.playerIDs() {
		snap.Players = append(snap.Players, *w.Players[id])
	}
	for _, c := range w.Chasers {
		snap.Chasers = append(snap.Chasers, *c)
	}
	copy(snap.Bullets, w.Bullets)
	copy(snap.Powerups, w.Powerups)
	return snap
}
