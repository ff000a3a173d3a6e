package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	checkInterval = 24 * time.Hour
	lastCheckFile = "last-update-check.json"
)

// LastCheck is what the last successful check found.
type LastCheck struct {
	CheckedAt     time.Time `json:"checked_at"`
	LatestVersion string    `json:"latest_version"`
	ReleaseURL    string    `json:"release_url"`
	Available     bool      `json:"available"`
}

// ShouldCheck reports whether the last check in dataDir is missing or older
// than a day.
func ShouldCheck(dataDir string) bool {
	last, err := LoadLastCheck(dataDir)
	if err != nil {
		return true
	}
	return time.Since(last.CheckedAt) > checkInterval
}

// SaveLastCheck records info in dataDir.
func SaveLastCheck(dataDir string, info *Info) error {
	data, err := json.MarshalIndent(LastCheck{
		CheckedAt:     time.Now(),
		LatestVersion: info.LatestVersion,
		ReleaseURL:    info.ReleaseURL,
		Available:     info.Available,
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dataDir, lastCheckFile), data, 0o644)
}

func LoadLastCheck(dataDir string) (*LastCheck, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, lastCheckFile))
	if err != nil {
		return nil, err
	}
	var last LastCheck
	if err := json.Unmarshal(data, &last); err != nil {
		return nil, err
	}
	return &last, nil
}

// CheckAsync checks in the background at most once a day and sends the
// result when an update is available. The channel is closed when done.
func (c *Checker) CheckAsync(ctx context.Context, dataDir string) <-chan *Info {
	ch := make(chan *Info, 1)
	go func() {
		defer close(ch)
		if !ShouldCheck(dataDir) {
			return
		}
		info, err := c.Check(ctx)
		if err != nil {
			slog.Debug("Failed to check for updates", "error", err)
			return
		}
		if err := SaveLastCheck(dataDir, info); err != nil {
			slog.Debug("Failed to save update check", "error", err)
		}
		if info.Available {
			ch <- info
		}
	}()
	return ch
}
