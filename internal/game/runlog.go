package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// RunLog records one finished game.
type RunLog struct {
	Session   uuid.UUID `json:"session"`
	EndedAt   time.Time `json:"ended_at"`
	Duration  float64   `json:"duration_seconds"`
	Score     int       `json:"score"`
	Despawned int       `json:"despawned"`
	FullClear bool      `json:"full_clear"`
}

// saveRunLog appends entry as a single JSON line to path, creating the
// directory if needed.
func saveRunLog(path string, entry RunLog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create run log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode run log: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write run log: %w", err)
	}
	return nil
}
