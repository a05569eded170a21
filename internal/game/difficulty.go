package game

// Difficulty selects the chaser and bullet tuning for a round. The numeric
// values are part of the wire protocol.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota + 1
	DifficultyMedium
	DifficultyHard
)

// Settings groups every difficulty-derived tuning knob in one place.
type Settings struct {
	ChaserCount    int
	ChaserSpeed    float64
	BulletInterval float64 // seconds of game time between volleys
	BulletSpeed    float64
}

// Fewer but faster chasers on EASY is intentional: a lone unlit chaser is
// more dangerous than a slow pack.
var difficultyTable = map[Difficulty]Settings{
	DifficultyEasy:   {ChaserCount: 1, ChaserSpeed: 2.0, BulletInterval: 3.0, BulletSpeed: 3.0},
	DifficultyMedium: {ChaserCount: 2, ChaserSpeed: 1.0, BulletInterval: 2.0, BulletSpeed: 5.0},
	DifficultyHard:   {ChaserCount: 3, ChaserSpeed: 0.5, BulletInterval: 1.0, BulletSpeed: 7.0},
}

func (d Difficulty) Valid() bool {
	_, ok := difficultyTable[d]
	return ok
}

// Tuning returns the settings for d, falling back to MEDIUM for unknown values.
func (d Difficulty) Tuning() Settings {
	if s, ok := difficultyTable[d]; ok {
		return s
	}
	return difficultyTable[DifficultyMedium]
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "EASY"
	case DifficultyMedium:
		return "MEDIUM"
	case DifficultyHard:
		return "HARD"
	default:
		return "UNKNOWN"
	}
}

// ParseDifficulty maps a config-file name to a difficulty.
func ParseDifficulty(name string) (Difficulty, bool) {
	switch name {
	case "EASY":
		return DifficultyEasy, true
	case "MEDIUM":
		return DifficultyMedium, true
	case "HARD":
		return DifficultyHard, true
	default:
		return 0, false
	}
}
