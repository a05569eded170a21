package game

// Player is the authoritative record for one connected client. The ID always
// equals the owning session's id.
type Player struct {
	ID                  int     `json:"id"`
	X                   float64 `json:"x"`
	Y                   float64 `json:"y"`
	Angle               float64 `json:"angle"`
	Health              int     `json:"health"`
	MaxHealth           int     `json:"max_health"`
	Score               int     `json:"score"`
	Character           int     `json:"character"`
	SwordAttacking      bool    `json:"sword_attacking"`
	SpeedBoostActive    bool    `json:"speed_boost_active"`
	ImmunityBoostActive bool    `json:"immunity_boost_active"`
}

func newPlayer(id int) *Player {
	return &Player{
		ID:        id,
		X:         SpawnX,
		Y:         SpawnY,
		Health:    PlayerMaxHealth,
		MaxHealth: PlayerMaxHealth,
	}
}

// PlayerUpdate carries the client-writable subset of Player. Absent fields
// leave the current value untouched; score and id are never client-writable.
type PlayerUpdate struct {
	X                   *float64 `json:"x,omitempty"`
	Y                   *float64 `json:"y,omitempty"`
	Angle               *float64 `json:"angle,omitempty"`
	Health              *int     `json:"health,omitempty"`
	Character           *int     `json:"character,omitempty"`
	SwordAttacking      *bool    `json:"sword_attacking,omitempty"`
	SpeedBoostActive    *bool    `json:"speed_boost_active,omitempty"`
	ImmunityBoostActive *bool    `json:"immunity_boost_active,omitempty"`
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// apply merges upd into p, clamping positions to the playfield and health to
// the valid range.
func (p *Player) apply(upd PlayerUpdate) {
	if upd.X != nil {
		p.X = clampFloat(*upd.X, 0, WorldWidth)
	}
	if upd.Y != nil {
		p.Y = clampFloat(*upd.Y, 0, WorldHeight)
	}
	if upd.Angle != nil {
		p.Angle = *upd.Angle
	}
	if upd.Health != nil {
		p.Health = clampInt(*upd.Health, 0, p.MaxHealth)
	}
	if upd.Character != nil {
		p.Character = *upd.Character
	}
	if upd.SwordAttacking != nil {
		p.SwordAttacking = *upd.SwordAttacking
	}
	if upd.SpeedBoostActive != nil {
		p.SpeedBoostActive = *upd.SpeedBoostActive
	}
	if upd.ImmunityBoostActive != nil {
		p.ImmunityBoostActive = *upd.ImmunityBoostActive
	}
}
