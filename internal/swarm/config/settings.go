package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings holds the ambient (non-persisted) tool configuration: where to
// find binaries and directories, logging, and probe tuning. The per-node
// record lives in NodeConfig, not here.
type Settings struct {
	ConfigDir    string `mapstructure:"config_dir"`
	IPFSBin      string `mapstructure:"ipfs_bin"`
	IPFSPath     string `mapstructure:"ipfs_path"`
	TailscaleBin string `mapstructure:"tailscale_bin"`
	PollSeconds  int    `mapstructure:"poll_seconds"`
	StartTimeout int    `mapstructure:"start_timeout"`
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
}

// RecordPath returns the path of the persisted node record.
func (s Settings) RecordPath() string {
	return filepath.Join(s.ConfigDir, "config.json")
}

// SwarmKeyDefaultPath returns where a generated swarm key is placed.
func (s Settings) SwarmKeyDefaultPath() string {
	return filepath.Join(s.ConfigDir, "swarm.key")
}

// Loader handles settings loading from multiple sources.
type Loader struct {
	v    *viper.Viper
	file string
}

// NewLoader creates a new settings loader.
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// WithFile makes Load read the given settings file instead of searching
// the default paths. The file must exist.
func (l *Loader) WithFile(path string) *Loader {
	l.file = path
	return l
}

// Load loads settings from an optional config file and environment
// variables, falling back to defaults.
func (l *Loader) Load() (*Settings, error) {
	l.setDefaults()
	if l.file != "" {
		l.v.SetConfigFile(expandPath(l.file))
	} else {
		l.setupConfigPaths()
	}
	l.setupEnvVars()

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading settings file: %w", err)
		}
		// No settings file is fine, defaults + env apply.
	}

	var s Settings
	if err := l.v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if err := l.validate(&s); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}

	s.ConfigDir = expandPath(s.ConfigDir)
	s.IPFSPath = expandPath(s.IPFSPath)

	return &s, nil
}

func (l *Loader) setDefaults() {
	l.v.SetDefault("config_dir", "~/.swarmctl")
	l.v.SetDefault("ipfs_bin", "ipfs")
	l.v.SetDefault("ipfs_path", "~/.ipfs")
	l.v.SetDefault("tailscale_bin", "tailscale")
	l.v.SetDefault("poll_seconds", 1)
	l.v.SetDefault("start_timeout", 20)
	l.v.SetDefault("log_level", "info")
	l.v.SetDefault("log_format", "text")
}

func (l *Loader) setupConfigPaths() {
	l.v.SetConfigName("settings")
	l.v.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".swarmctl"))
	}
	l.v.AddConfigPath(".")
}

func (l *Loader) setupEnvVars() {
	l.v.SetEnvPrefix("SWARMCTL")
	l.v.AutomaticEnv()
}

func (l *Loader) validate(s *Settings) error {
	if s.ConfigDir == "" {
		return fmt.Errorf("config_dir is required")
	}
	if s.IPFSBin == "" {
		return fmt.Errorf("ipfs_bin is required")
	}
	if s.PollSeconds < 1 {
		return fmt.Errorf("poll_seconds must be at least 1")
	}
	if s.StartTimeout < s.PollSeconds {
		return fmt.Errorf("start_timeout must be at least poll_seconds")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[s.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", s.LogLevel)
	}

	if s.LogFormat != "text" && s.LogFormat != "json" {
		return fmt.Errorf("invalid log_format: %s (must be text or json)", s.LogFormat)
	}

	return nil
}

// expandPath expands ~ to home directory in file paths.
func expandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return home
	}

	return filepath.Join(home, path[1:])
}
