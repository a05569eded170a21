package game

// Phase is the coarse lifecycle of a round. The numeric values are part of
// the wire protocol and must not be reordered.
type Phase int

const (
	PhaseMenu Phase = iota + 1
	PhasePlaying
	PhasePaused
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "MENU"
	case PhasePlaying:
		return "PLAYING"
	case PhasePaused:
		return "PAUSED"
	case PhaseGameOver:
		return "GAME_OVER"
	default:
		return "UNKNOWN"
	}
}
