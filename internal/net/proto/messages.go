// Package proto defines the newline-delimited JSON message catalogue spoken
// on every transport. One object per line (TCP) or per text frame (WebSocket).
package proto

import "stalked/server/internal/game"

// ClientMessage is the envelope for everything a client can send; the Type
// field selects which of the remaining fields are meaningful.
type ClientMessage struct {
	Type       string             `json:"type"`
	Data       *game.PlayerUpdate `json:"data,omitempty"`
	Action     string             `json:"action,omitempty"`
	Difficulty int                `json:"difficulty,omitempty"`
}

// Connected is the welcome sent to a freshly accepted client.
type Connected struct {
	Type              string `json:"type"`
	ClientID          int    `json:"client_id"`
	MaxPlayers        int    `json:"max_players"`
	CurrentPlayers    int    `json:"current_players"`
	GameState         int    `json:"game_state"`
	ServerDescription string `json:"server_description"`
	Difficulty        int    `json:"difficulty"`
}

type ConnectionRejected struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// ServerInfo answers server-browser pings.
type ServerInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	MaxPlayers  int    `json:"max_players"`
	Difficulty  int    `json:"difficulty"`
}

type PlayerJoined struct {
	Type       string      `json:"type"`
	PlayerID   int         `json:"player_id"`
	PlayerData game.Player `json:"player_data"`
}

type PlayerLeft struct {
	Type     string `json:"type"`
	PlayerID int    `json:"player_id"`
}

type PlayerRespawned struct {
	Type       string      `json:"type"`
	PlayerID   int         `json:"player_id"`
	PlayerData game.Player `json:"player_data"`
}

type GameStarted struct {
	Type       string `json:"type"`
	Difficulty int    `json:"difficulty"`
}

type DifficultyChanged struct {
	Type       string `json:"type"`
	Difficulty int    `json:"difficulty"`
}

type SwordAttack struct {
	Type     string `json:"type"`
	PlayerID int    `json:"player_id"`
}

// GameState is the periodic full-world snapshot. Entity lists are always
// present, even when empty, so clients never have to special-case null.
type GameState struct {
	Type        string         `json:"type"`
	State       int            `json:"state"`
	Players     []game.Player  `json:"players"`
	Chasers     []game.Chaser  `json:"chasers"`
	Bullets     []game.Bullet  `json:"bullets"`
	Powerups    []game.Powerup `json:"powerups"`
	GameTime    float64        `json:"game_time"`
	Difficulty  int            `json:"difficulty"`
	GlobalScore int            `json:"global_score"`
}
