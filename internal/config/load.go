package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/qjebbs/go-jsons"
)

// Load reads the global config, the project config in workingDir and, when
// set, configFile, in increasing order of precedence.
func Load(workingDir, configFile string, debug bool) (*Config, error) {
	paths := []string{
		GlobalConfig(),
		filepath.Join(workingDir, fmt.Sprintf(".%s.json", appName)),
		filepath.Join(workingDir, fmt.Sprintf("%s.json", appName)),
	}
	if configFile != "" {
		paths = append(paths, configFile)
	}

	cfg, err := loadFromConfigPaths(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from paths %v: %w", paths, err)
	}
	cfg.workingDir = workingDir
	cfg.configPath = GlobalConfig()
	cfg.loadPaths = paths
	cfg.debug = debug
	cfg.setDefaults(workingDir)
	if debug {
		cfg.Options.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Reload reads the same files Load read for c.
func (c *Config) Reload() (*Config, error) {
	cfg, err := loadFromConfigPaths(c.loadPaths)
	if err != nil {
		return nil, fmt.Errorf("failed to reload config: %w", err)
	}
	cfg.workingDir = c.workingDir
	cfg.configPath = c.configPath
	cfg.loadPaths = c.loadPaths
	cfg.debug = c.debug
	cfg.setDefaults(c.workingDir)
	if c.debug {
		cfg.Options.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadFromConfigPaths(configPaths []string) (*Config, error) {
	var readers []io.Reader

	for _, path := range configPaths {
		fd, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
		}
		defer fd.Close()

		readers = append(readers, fd)
	}

	return loadFromReaders(readers)
}

func loadFromReaders(readers []io.Reader) (*Config, error) {
	if len(readers) == 0 {
		return &Config{}, nil
	}

	merged, err := jsons.Merge(readers)
	if err != nil {
		return nil, fmt.Errorf("failed to merge configuration readers: %w", err)
	}

	return loadFromBytes(merged)
}

func loadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// GlobalConfig returns the global configuration file path for the application.
func GlobalConfig() string {
	if p := os.Getenv("TAMARACK_GLOBAL_CONFIG"); p != "" {
		return filepath.Join(p, fmt.Sprintf("%s.json", appName))
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName, fmt.Sprintf("%s.json", appName))
	}

	// return the path to the main config directory
	// for windows, it should be in `%LOCALAPPDATA%/tamarack/`
	// for linux and macOS, it should be in `$HOME/.config/tamarack/`
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName, fmt.Sprintf("%s.json", appName))
	}

	return filepath.Join(homeDir(), ".config", appName, fmt.Sprintf("%s.json", appName))
}

// GlobalDataDir returns the directory for state shared across projects.
func GlobalDataDir() string {
	if p := os.Getenv("TAMARACK_GLOBAL_DATA"); p != "" {
		return p
	}
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName)
	}

	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName)
	}

	return filepath.Join(homeDir(), ".local", "share", appName)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}
