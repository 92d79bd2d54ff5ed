// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// FileName is the user config file in the home directory.
const FileName = ".heelos.toml"

// Config holds the full configuration for heelos.
type Config struct {
	// SaveDirectory is where layouts and exports go when given a bare name.
	SaveDirectory string `toml:"save_directory"`
	// StartMenu shows the key help when the board opens.
	StartMenu bool `toml:"start_menu"`
	// Confirmations asks before quitting and resetting.
	Confirmations bool `toml:"confirmations"`
	DarkMode      bool `toml:"dark_mode"`

	// Schedules is the schedule file offered by the task picker.
	Schedules string `toml:"schedules"`

	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level"`

	Board  BoardConfig  `toml:"board"`
	Export ExportConfig `toml:"export"`
}

// BoardConfig holds board geometry, in terminal cells.
type BoardConfig struct {
	GridSize    float64 `toml:"grid_size"`
	CascadeStep float64 `toml:"cascade_step"`
	ShowGrid    bool    `toml:"show_grid"`
}

// ExportConfig sizes one board unit in exported images, in pixels.
type ExportConfig struct {
	UnitWidth  float64 `toml:"unit_width"`
	UnitHeight float64 `toml:"unit_height"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StartMenu:     true,
		Confirmations: true,
		LogLevel:      "info",
		Board: BoardConfig{
			GridSize:    1,
			CascadeStep: 2,
			ShowGrid:    true,
		},
		Export: ExportConfig{
			UnitWidth:  8,
			UnitHeight: 16,
		},
	}
}

// DefaultPath returns ~/.heelos.toml, or "" when there is no home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, FileName)
}

// Load builds the configuration from defaults, then the file at path, then
// HEELOS_* environment variables. An empty path means DefaultPath, which
// may be missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	cfg.SaveDirectory = expandPath(cfg.SaveDirectory)
	cfg.Schedules = expandPath(cfg.Schedules)
	cfg.LogFile = expandPath(cfg.LogFile)
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("HEELOS_SAVE_DIR"); v != "" {
		cfg.SaveDirectory = v
	}
	if v := os.Getenv("HEELOS_SCHEDULES"); v != "" {
		cfg.Schedules = v
	}
	if v := os.Getenv("HEELOS_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("HEELOS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HEELOS_CONFIRMATIONS"); v != "" {
		cfg.Confirmations = boolFromString(v)
	}
	if v := os.Getenv("HEELOS_DARK_MODE"); v != "" {
		cfg.DarkMode = boolFromString(v)
	}
	if v := os.Getenv("HEELOS_GRID_SIZE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: HEELOS_GRID_SIZE=%q: %v", ErrInvalid, v, err)
		}
		cfg.Board.GridSize = f
	}
	return nil
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// expandPath expands ~ and environment variables and makes relative paths
// absolute.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return p
}

// Validate reports settings the board cannot run with.
func (c *Config) Validate() error {
	if !(c.Board.GridSize > 0) {
		return fmt.Errorf("%w: board.grid_size must be positive, got %v", ErrInvalid, c.Board.GridSize)
	}
	if c.Board.CascadeStep < 0 {
		return fmt.Errorf("%w: board.cascade_step must not be negative", ErrInvalid)
	}
	if !(c.Export.UnitWidth > 0) || !(c.Export.UnitHeight > 0) {
		return fmt.Errorf("%w: export units must be positive", ErrInvalid)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

// SavePath places a bare file name in SaveDirectory, creating it if needed.
// Paths with a directory part are returned unchanged.
func (c *Config) SavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) || strings.ContainsRune(filename, filepath.Separator) {
		return filename
	}
	_ = os.MkdirAll(c.SaveDirectory, 0o755)
	return filepath.Join(c.SaveDirectory, filename)
}
