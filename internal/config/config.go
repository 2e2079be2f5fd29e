// Package config reads game settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable of a game process.
type Config struct {
	Tick               time.Duration `env:"HERD_TICK" envDefault:"16ms"`
	KeyHold            time.Duration `env:"HERD_KEY_HOLD" envDefault:"450ms"`
	CharacterSpeed     float64       `env:"HERD_CHARACTER_SPEED" envDefault:"6"`
	CameraDistance     float64       `env:"HERD_CAMERA_DISTANCE" envDefault:"18"`
	CollectableColumns int           `env:"HERD_COLLECTABLE_COLUMNS" envDefault:"11"`
	CollectableRows    int           `env:"HERD_COLLECTABLE_ROWS" envDefault:"5"`
	RunLogDir          string        `env:"HERD_RUNLOG_DIR"`
	LogLevel           string        `env:"HERD_LOG_LEVEL" envDefault:"info"`
	LogFile            string        `env:"HERD_LOG_FILE"`
	SSHPort            int           `env:"HERD_SSH_PORT" envDefault:"2222"`
	SSHHostKey         string        `env:"HERD_SSH_HOST_KEY" envDefault:"server_host_key"`
}

// Load parses the environment.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Default returns the settings used when no environment is set.
func Default() Config {
	return Config{
		Tick:               16 * time.Millisecond,
		KeyHold:            450 * time.Millisecond,
		CharacterSpeed:     6,
		CameraDistance:     18,
		CollectableColumns: 11,
		CollectableRows:    5,
		LogLevel:           "info",
		SSHPort:            2222,
		SSHHostKey:         "server_host_key",
	}
}

// Logger builds a text logger at the configured level writing to out.
func (c Config) Logger(out io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), nil
}

// RunLogPath returns where finished games are recorded. It follows the XDG
// Base Directory spec unless HERD_RUNLOG_DIR is set.
func (c Config) RunLogPath() (string, error) {
	dir := c.RunLogDir
	if dir == "" {
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataHome = filepath.Join(home, ".local", "share")
		}
		dir = filepath.Join(dataHome, "partyherd")
	}
	return filepath.Join(dir, "runs.jsonl"), nil
}
