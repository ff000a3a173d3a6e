package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/sjson"
)

const (
	appName              = "tamarack"
	defaultDataDirectory = ".tamarack"
	defaultSource        = "generated"

	defaultRunwayItems         = 50
	defaultRunwayItemsOpposite = 10
	defaultRunwayExtraLength   = 800
	defaultPlaceholderLines    = 2
	defaultWheelStep           = 3
)

// ScrollerOptions tunes the infinite list.
type ScrollerOptions struct {
	RunwayItems         int  `json:"runway_items,omitempty" jsonschema:"description=Items rendered past the viewport in the scroll direction,minimum=0,default=50"`
	RunwayItemsOpposite int  `json:"runway_items_opposite,omitempty" jsonschema:"description=Items rendered past the viewport against the scroll direction,minimum=0,default=10"`
	RunwayExtraLength   int  `json:"runway_extra_length,omitempty" jsonschema:"description=Rows the list can scroll past the last rendered item,minimum=0,default=800"`
	PlaceholderLines    int  `json:"placeholder_lines,omitempty" jsonschema:"description=Height of the placeholder shown for items still loading,minimum=1,default=2"`
	WheelStep           int  `json:"wheel_step,omitempty" jsonschema:"description=Rows scrolled per mouse wheel notch,minimum=1,default=3"`
	HideScrollbar       bool `json:"hide_scrollbar,omitempty" jsonschema:"description=Hide the scrollbar"`
}

type Options struct {
	Debug         bool   `json:"debug,omitempty" jsonschema:"description=Enable debug logging"`
	DataDirectory string `json:"data_directory,omitempty" jsonschema:"description=Directory for logs and local databases, relative to the working directory,default=.tamarack"` // Relative to the cwd
	Markdown      bool   `json:"markdown,omitempty" jsonschema:"description=Render entry bodies as markdown"`
}

// Config holds the configuration for tamarack.
type Config struct {
	// Source is the default source, see `tamarack --help` for the syntax.
	Source string `json:"source,omitempty" jsonschema:"description=Default source to browse,example=generated,example=file:logs/*.log,example=http:https://example.com/feed"`

	Scroller *ScrollerOptions `json:"scroller,omitempty" jsonschema:"description=Infinite list tuning"`

	Options *Options `json:"options,omitempty" jsonschema:"description=General options"`

	// Internal
	workingDir string   `json:"-"`
	configPath string   `json:"-"`
	loadPaths  []string `json:"-"`
	debug      bool     `json:"-"`
}

func (c *Config) WorkingDir() string {
	return c.workingDir
}

// Path returns the file SetConfigField writes to.
func (c *Config) Path() string {
	return c.configPath
}

// LogFile returns the path of the log file inside the data directory.
func (c *Config) LogFile() string {
	return filepath.Join(c.Options.DataDirectory, "logs", fmt.Sprintf("%s.log", appName))
}

func (c *Config) setDefaults(workingDir string) {
	if c.Source == "" {
		c.Source = defaultSource
	}
	if c.Scroller == nil {
		c.Scroller = &ScrollerOptions{}
	}
	if c.Scroller.RunwayItems == 0 {
		c.Scroller.RunwayItems = defaultRunwayItems
	}
	if c.Scroller.RunwayItemsOpposite == 0 {
		c.Scroller.RunwayItemsOpposite = defaultRunwayItemsOpposite
	}
	if c.Scroller.RunwayExtraLength == 0 {
		c.Scroller.RunwayExtraLength = defaultRunwayExtraLength
	}
	if c.Scroller.PlaceholderLines == 0 {
		c.Scroller.PlaceholderLines = defaultPlaceholderLines
	}
	if c.Scroller.WheelStep == 0 {
		c.Scroller.WheelStep = defaultWheelStep
	}
	if c.Options == nil {
		c.Options = &Options{}
	}
	if c.Options.DataDirectory == "" {
		c.Options.DataDirectory = defaultDataDirectory
	}
	if !filepath.IsAbs(c.Options.DataDirectory) {
		c.Options.DataDirectory = filepath.Join(workingDir, c.Options.DataDirectory)
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	s := c.Scroller
	if s.RunwayItems < 0 {
		errs = append(errs, fmt.Errorf("scroller.runway_items must not be negative, got %d", s.RunwayItems))
	}
	if s.RunwayItemsOpposite < 0 {
		errs = append(errs, fmt.Errorf("scroller.runway_items_opposite must not be negative, got %d", s.RunwayItemsOpposite))
	}
	if s.RunwayExtraLength < 0 {
		errs = append(errs, fmt.Errorf("scroller.runway_extra_length must not be negative, got %d", s.RunwayExtraLength))
	}
	if s.PlaceholderLines < 1 {
		errs = append(errs, fmt.Errorf("scroller.placeholder_lines must be at least 1, got %d", s.PlaceholderLines))
	}
	if s.WheelStep < 1 {
		errs = append(errs, fmt.Errorf("scroller.wheel_step must be at least 1, got %d", s.WheelStep))
	}
	return errors.Join(errs...)
}

func (c *Config) SetConfigField(key string, value any) error {
	// read the data
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte("{}")
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	newValue, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("failed to set config field %s: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.configPath, []byte(newValue), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
