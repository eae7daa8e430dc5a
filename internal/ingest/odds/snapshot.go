package odds

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Snapshot is one day's event list as written to disk.
type Snapshot struct {
	GameDay   string    `json:"game_day"`
	FetchedAt time.Time `json:"fetched_at"`
	Events    []Event   `json:"events"`
}

// GameDay maps a fetch timestamp to the US game date it covers. Morning
// fetches run after UTC midnight has rolled past the previous evening's
// games, so the snapshot files under the prior UTC day.
func GameDay(now time.Time) time.Time {
	d := now.UTC().AddDate(0, 0, -1)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// SnapshotPath returns the snapshot file path for a game day.
func SnapshotPath(dataDir string, day time.Time) string {
	return filepath.Join(dataDir, fmt.Sprintf("odds_%s.json", day.Format("2006-01-02")))
}

// WriteSnapshot files events under the game day derived from now.
// Returns the path written.
func WriteSnapshot(dataDir string, now time.Time, events []Event) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("creating snapshot dir: %w", err)
	}

	day := GameDay(now)
	snap := Snapshot{
		GameDay:   day.Format("2006-01-02"),
		FetchedAt: now.UTC(),
		Events:    events,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	path := SnapshotPath(dataDir, day)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return path, nil
}

// ReadSnapshot loads the snapshot for a game day. Returns nil with no
// error when the day has no snapshot.
func ReadSnapshot(dataDir string, day time.Time) (*Snapshot, error) {
	path := SnapshotPath(dataDir, day)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	return &snap, nil
}
