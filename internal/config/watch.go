package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 150 * time.Millisecond

// ReloadedMsg is sent when one of the config files changed.
type ReloadedMsg struct {
	Config *Config
	Err    error
}

// Watch reports changes to the files c was loaded from until ctx is done.
// Directories are watched rather than files so editors that replace the
// file on save are picked up too.
func (c *Config) Watch(ctx context.Context) (<-chan ReloadedMsg, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}

	var dirs []string
	for _, path := range c.loadPaths {
		dir := filepath.Dir(path)
		if slices.Contains(dirs, dir) {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			slog.Debug("Not watching config directory", "dir", dir, "error", err)
			continue
		}
		dirs = append(dirs, dir)
	}
	if len(dirs) == 0 {
		watcher.Close()
		return nil, fmt.Errorf("no config directory to watch")
	}

	ch := make(chan ReloadedMsg, 1)
	go func() {
		defer close(ch)
		defer watcher.Close()

		timer := time.NewTimer(reloadDebounce)
		timer.Stop()
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !c.watches(event.Name) {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					timer.Reset(reloadDebounce)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("Config watcher error", "error", err)
			case <-timer.C:
				cfg, err := c.Reload()
				if err != nil {
					slog.Error("Failed to reload config", "error", err)
				} else {
					slog.Info("Config reloaded", "source", cfg.Source)
				}
				select {
				case ch <- ReloadedMsg{Config: cfg, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

func (c *Config) watches(name string) bool {
	name = filepath.Clean(name)
	for _, path := range c.loadPaths {
		if filepath.Clean(path) == name {
			return true
		}
	}
	return false
}
