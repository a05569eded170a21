// Package config loads serverconfig.ini, creating it with defaults when the
// file does not exist yet.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"

	"stalked/server/internal/game"
)

const (
	DefaultDescription = "Stalked Game Server"
	DefaultMaxPlayers  = 4
	DefaultPort        = 5555

	// MaxPlayers above this is clamped; 0 means unlimited and requires the
	// partnership token at startup.
	maxPlayerCap = 4
)

type Config struct {
	Description string
	MaxPlayers  int
	Difficulty  game.Difficulty
	Port        int
}

func Default() Config {
	return Config{
		Description: DefaultDescription,
		MaxPlayers:  DefaultMaxPlayers,
		Difficulty:  game.DifficultyMedium,
		Port:        DefaultPort,
	}
}

// Load reads the INI file at path, writing a default one first when it is
// missing. Malformed or out-of-range values fall back to defaults.
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeDefault(path); err != nil {
			return Config{}, fmt.Errorf("create default config: %w", err)
		}
	}

	file, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	section := file.Section("Server")
	cfg := Config{
		Description: section.Key("Description").MustString(DefaultDescription),
		MaxPlayers:  section.Key("MaxPlayers").MustInt(DefaultMaxPlayers),
		Port:        section.Key("Port").MustInt(DefaultPort),
	}

	if cfg.MaxPlayers < 0 {
		cfg.MaxPlayers = 0
	}
	if cfg.MaxPlayers > maxPlayerCap {
		cfg.MaxPlayers = maxPlayerCap
	}

	name := strings.ToUpper(section.Key("Difficulty").MustString("MEDIUM"))
	difficulty, ok := game.ParseDifficulty(name)
	if !ok {
		difficulty = game.DifficultyMedium
	}
	cfg.Difficulty = difficulty

	return cfg, nil
}

func writeDefault(path string) error {
	file := ini.Empty()
	section, err := file.NewSection("Server")
	if err != nil {
		return err
	}
	section.Key("Description").SetValue(DefaultDescription)
	section.Key("MaxPlayers").SetValue(fmt.Sprintf("%d", DefaultMaxPlayers))
	section.Key("Difficulty").SetValue("MEDIUM")
	section.Key("Port").SetValue(fmt.Sprintf("%d", DefaultPort))
	return file.SaveTo(path)
}
