// Command schema reflects the wire-protocol message structs into a JSON
// schema artifact for client authors.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"stalked/server/internal/net/proto"
)

// catalogue lists every message either side can send; the generated schema
// documents one definition per message type.
type catalogue struct {
	Client             proto.ClientMessage      `json:"client"`
	Connected          proto.Connected          `json:"connected"`
	ConnectionRejected proto.ConnectionRejected `json:"connection_rejected"`
	ServerInfo         proto.ServerInfo         `json:"server_info"`
	PlayerJoined       proto.PlayerJoined       `json:"player_joined"`
	PlayerLeft         proto.PlayerLeft         `json:"player_left"`
	PlayerRespawned    proto.PlayerRespawned    `json:"player_respawned"`
	GameStarted        proto.GameStarted        `json:"game_started"`
	DifficultyChanged  proto.DifficultyChanged  `json:"difficulty_changed"`
	SwordAttack        proto.SwordAttack        `json:"sword_attack"`
	GameState          proto.GameState          `json:"game_state"`
}

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	if err := writeSchema(outPath, buildSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(catalogue))
	schema.Title = "Stalked Wire Protocol"
	schema.Description = "Newline-delimited JSON messages exchanged between the game server and its clients."
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
