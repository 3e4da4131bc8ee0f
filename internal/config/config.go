// Package config loads and saves the dayplan YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/dayplan/internal/log"
)

const (
	appDir           = "dayplan"
	DefaultListen    = "127.0.0.1:8089"
	DefaultMCPPath   = "/mcp"
	TransportStdio   = "stdio"
	TransportHTTP    = "http"
	defaultLogLevel  = "info"
	defaultTimezone  = "Local"
	configFileName   = "config.yaml"
	databaseFileName = "dayplan.db"
)

// MCPConfig controls the MCP server started by `dayplan mcp`.
type MCPConfig struct {
	// Transport is stdio or http.
	Transport string `yaml:"transport"`
	// Listen is the HTTP address used by the http transport.
	Listen string `yaml:"listen"`
	// Path is the HTTP endpoint path.
	Path string `yaml:"path"`
}

type Config struct {
	// DBPath is the SQLite database. A leading ~/ is expanded.
	DBPath string `yaml:"db_path"`

	// Timezone is an IANA zone name or Local. It decides what "today" and
	// "now" mean for the planner.
	Timezone string `yaml:"timezone"`

	LogLevel string `yaml:"log_level"`

	// LogFile receives log output while the TUI owns the terminal. Empty
	// discards TUI logs.
	LogFile string `yaml:"log_file"`

	// ExportDir is where exports are written. Empty means the current
	// directory.
	ExportDir string `yaml:"export_dir"`

	MCP MCPConfig `yaml:"mcp"`
}

// DefaultPath returns <UserConfigDir>/dayplan/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, configFileName), nil
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return databaseFileName
	}
	return filepath.Join(dir, appDir, databaseFileName)
}

func DefaultConfig() *Config {
	return &Config{
		DBPath:   defaultDBPath(),
		Timezone: defaultTimezone,
		LogLevel: defaultLogLevel,
		MCP: MCPConfig{
			Transport: TransportStdio,
			Listen:    DefaultListen,
			Path:      DefaultMCPPath,
		},
	}
}

// Normalize fills in missing values and resets unknown ones so partially
// written files still behave.
func (c *Config) Normalize() {
	if c.DBPath == "" {
		c.DBPath = defaultDBPath()
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	switch strings.ToLower(c.MCP.Transport) {
	case TransportStdio, TransportHTTP:
		c.MCP.Transport = strings.ToLower(c.MCP.Transport)
	default:
		c.MCP.Transport = TransportStdio
	}
	if c.MCP.Listen == "" {
		c.MCP.Listen = DefaultListen
	}
	if c.MCP.Path == "" {
		c.MCP.Path = DefaultMCPPath
	}
	if !strings.HasPrefix(c.MCP.Path, "/") {
		c.MCP.Path = "/" + c.MCP.Path
	}
}

// Location resolves Timezone. Local and empty map to time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, defaultTimezone) {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DatabasePath returns DBPath with a leading ~/ expanded.
func (c *Config) DatabasePath() (string, error) {
	return ExpandPath(c.DBPath)
}

// ExpandPath replaces a leading ~/ with the user's home directory.
func ExpandPath(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// Load reads the YAML file at path. On first run the file does not exist:
// a default config is written with 0600 permissions and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			log.Info("created default config", "path", path)
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg to path atomically: a temp file in the same directory is
// renamed over the target.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".dayplan-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (c *Config) Save(path string) error {
	return Save(path, c)
}
