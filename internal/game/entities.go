package game

// Chaser is an AI pursuer. Its id is stable across respawns.
type Chaser struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Angle  float64 `json:"angle"`
	Speed  float64 `json:"speed"`
	Health int     `json:"health"`
}

// Bullet moves by a fixed per-tick delta until it leaves the playfield or
// hits a player.
type Bullet struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type PowerupType string

const (
	PowerupHealth   PowerupType = "health"
	PowerupSpeed    PowerupType = "speed"
	PowerupImmunity PowerupType = "immunity"
)

var powerupTypes = []PowerupType{PowerupHealth, PowerupSpeed, PowerupImmunity}

// Powerup is spawned by the simulation; pickup semantics are not part of the
// server rules yet, clients only render them.
type Powerup struct {
	Type PowerupType `json:"type"`
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
}
