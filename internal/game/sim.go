package game

import (
	"math"
	"time"
)

// PlayerRespawn is emitted when a player dies and is returned to spawn; the
// hub broadcasts it after releasing the world lock.
type PlayerRespawn struct {
	ID     int
	Player Player
}

// Advance runs one simulation tick. Movement scales with dt measured on the
// wall clock; large delays simply apply a larger step. The pass order is
// fixed: AI, fire control, bullet motion, collisions, powerups, respawns,
// scoring. Callers must only invoke it while the phase is PLAYING.
func (w *World) Advance(now time.Time, dt float64) []PlayerRespawn {
	w.GameTime += dt

	w.updateChasers()
	w.fireBullets()
	w.moveBullets()
	respawns := w.collideBulletsPlayers(now)
	w.collideSwordsChasers()
	w.spawnPowerups()
	w.respawnChasers()
	w.accrueScores()

	return respawns
}

// updateChasers moves every chaser toward its nearest player unless that
// player's light radius pins it in place.
func (w *World) updateChasers() {
	if len(w.Players) == 0 {
		return
	}
	for _, c := range w.Chasers {
		target, dist := w.nearestPlayer(c.X, c.Y)
		if target == nil || dist < lightRadius {
			continue
		}
		dx := target.X - c.X
		dy := target.Y - c.Y
		if length := math.Hypot(dx, dy); length > 0 {
			dx /= length
			dy /= length
			c.X += dx * c.Speed
			c.Y += dy * c.Speed
			c.Angle = math.Atan2(dy, dx) * 180 / math.Pi
		}
	}
}

// fireBullets emits one volley on the difficulty cadence. The cadence clock
// is global across chasers; each unlit chaser with a player in range shoots
// one aimed bullet.
func (w *World) fireBullets() {
	tuning := w.Difficulty.Tuning()
	if w.GameTime-w.lastBulletAt < tuning.BulletInterval {
		return
	}
	if len(w.Players) > 0 {
		for _, c := range w.Chasers {
			target, dist := w.nearestPlayer(c.X, c.Y)
			if target == nil || dist >= bulletRange || dist < lightRadius {
				continue
			}
			dx := target.X - c.X
			dy := target.Y - c.Y
			length := math.Hypot(dx, dy)
			if length <= 0 {
				continue
			}
			w.Bullets = append(w.Bullets, Bullet{
				X:  c.X,
				Y:  c.Y,
				DX: dx / length * tuning.BulletSpeed,
				DY: dy / length * tuning.BulletSpeed,
			})
		}
	}
	w.lastBulletAt = w.GameTime
}

// moveBullets applies each bullet's per-tick delta and culls anything that
// left the playfield.
func (w *World) moveBullets() {
	kept := w.Bullets[:0]
	for _, b := range w.Bullets {
		b.X += b.DX
		b.Y += b.DY
		if b.X < 0 || b.X > WorldWidth || b.Y < 0 || b.Y > WorldHeight {
			continue
		}
		kept = append(kept, b)
	}
	w.Bullets = kept
}

// collideBulletsPlayers resolves bullet hits. A bullet is consumed on any
// collision, including hits blocked by immunity or the damage cooldown; the
// cooldown runs on the wall clock, not game time.
func (w *World) collideBulletsPlayers(now time.Time) []PlayerRespawn {
	var respawns []PlayerRespawn
	for _, id := range w.playerIDs() {
		p := w.Players[id]
		for i, b := range w.Bullets {
			if math.Hypot(p.X-b.X, p.Y-b.Y) >= bulletHitRadius {
				continue
			}
			if !p.ImmunityBoostActive {
				last, hit := w.damageAt[id]
				if !hit || now.Sub(last) >= damageCooldown {
					p.Health--
					w.damageAt[id] = now
					if p.Health <= 0 {
						p.Health = 0
						w.respawnPlayer(p)
						respawns = append(respawns, PlayerRespawn{ID: id, Player: *p})
					}
				}
			}
			w.Bullets = append(w.Bullets[:i], w.Bullets[i+1:]...)
			break
		}
	}
	return respawns
}

// respawnPlayer returns a dead player to the world center at full health.
// Players are never removed from the world on death.
func (w *World) respawnPlayer(p *Player) {
	p.X = SpawnX
	p.Y = SpawnY
	p.Health = p.MaxHealth
}

// collideSwordsChasers resolves pending sword swings. Each attacker lands at
// most one hit per pass: the struck chaser leaves the active set, its respawn
// is scheduled, and both the attacker and the global score gain five points.
func (w *World) collideSwordsChasers() {
	for _, id := range w.playerIDs() {
		p := w.Players[id]
		if !p.SwordAttacking {
			continue
		}
		for i, c := range w.Chasers {
			if math.Hypot(p.X-c.X, p.Y-c.Y) >= swordRadius {
				continue
			}
			w.respawnAt[c.ID] = w.GameTime + chaserRespawnDelay
			w.Chasers = append(w.Chasers[:i], w.Chasers[i+1:]...)
			p.Score += 5
			w.GlobalScore += 5
			p.SwordAttacking = false
			break
		}
	}
}

func (w *World) spawnPowerups() {
	if w.rng.Float64() >= powerupChance {
		return
	}
	w.Powerups = append(w.Powerups, Powerup{
		Type: powerupTypes[w.rng.Intn(len(powerupTypes))],
		X:    float64(50 + w.rng.Intn(701)),
		Y:    float64(50 + w.rng.Intn(501)),
	})
}

// respawnChasers re-materializes every chaser whose scheduled time arrived,
// at a fresh random position and the current difficulty speed.
func (w *World) respawnChasers() {
	tuning := w.Difficulty.Tuning()
	for id, at := range w.respawnAt {
		if w.GameTime < at {
			continue
		}
		w.Chasers = append(w.Chasers, w.spawnChaser(id, tuning.ChaserSpeed))
		delete(w.respawnAt, id)
	}
}

// accrueScores grants each player one point per ten game-time seconds, and
// the shared global score one point on its own ten-second clock.
func (w *World) accrueScores() {
	for _, id := range w.playerIDs() {
		p := w.Players[id]
		last, ok := w.scoreAt[id]
		if !ok {
			w.scoreAt[id] = w.GameTime
			continue
		}
		if w.GameTime-last >= scoreInterval {
			p.Score++
			w.scoreAt[id] = w.GameTime
		}
	}
	if w.GameTime-w.lastGlobalScoreAt >= scoreInterval {
		w.GlobalScore++
		w.lastGlobalScoreAt = w.GameTime
	}
}
