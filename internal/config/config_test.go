package config

import (
	"os"
	"path/filepath"
	"testing"

	"stalked/server/internal/game"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "serverconfig.ini")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serverconfig.ini")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default file not written: %v", err)
	}

	// Loading again must reparse the file it just wrote.
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again != cfg {
		t.Fatalf("reload = %+v, want %+v", again, cfg)
	}
}

func TestLoadParsesValues(t *testing.T) {
	path := writeConfig(t, `[Server]
Description = Midnight Arena
MaxPlayers = 2
Difficulty = hard
Port = 7777
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Description != "Midnight Arena" {
		t.Fatalf("description = %q", cfg.Description)
	}
	if cfg.MaxPlayers != 2 {
		t.Fatalf("max players = %d", cfg.MaxPlayers)
	}
	if cfg.Difficulty != game.DifficultyHard {
		t.Fatalf("difficulty = %v", cfg.Difficulty)
	}
	if cfg.Port != 7777 {
		t.Fatalf("port = %d", cfg.Port)
	}
}

func TestLoadClampsMaxPlayers(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"9", 4},
		{"-3", 0},
		{"0", 0},
		{"3", 3},
	}
	for _, tc := range cases {
		path := writeConfig(t, "[Server]\nMaxPlayers = "+tc.raw+"\n")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("load (MaxPlayers=%s): %v", tc.raw, err)
		}
		if cfg.MaxPlayers != tc.want {
			t.Fatalf("MaxPlayers=%s clamped to %d, want %d", tc.raw, cfg.MaxPlayers, tc.want)
		}
	}
}

func TestLoadFallsBackOnUnknownDifficulty(t *testing.T) {
	path := writeConfig(t, "[Server]\nDifficulty = NIGHTMARE\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Difficulty != game.DifficultyMedium {
		t.Fatalf("difficulty = %v, want MEDIUM fallback", cfg.Difficulty)
	}
}
