package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	APIKey         string `toml:"api_key"`
	Source         string `toml:"source"`
	BaseURL        string `toml:"base_url"`
	StatusURL      string `toml:"status_url"`
	Proxy          string `toml:"proxy"`
	Stealth        *bool  `toml:"stealth"`
	Debug          *bool  `toml:"debug"`
	ConnectTimeout string `toml:"connect_timeout"`
	ReadTimeout    string `toml:"read_timeout"`
	PollTimeout    string `toml:"poll_timeout"`
	PollInterval   string `toml:"poll_interval"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.captcha9kw/config.toml, or "" without a home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".captcha9kw", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("api-key", fc.APIKey, &cfg.APIKey)
	s.setString("source", fc.Source, &cfg.Source)
	s.setString("base-url", fc.BaseURL, &cfg.BaseURL)
	s.setString("status-url", fc.StatusURL, &cfg.StatusURL)
	s.setString("proxy", fc.Proxy, &cfg.Proxy)
	s.setBool("stealth", fc.Stealth, &cfg.Stealth)
	s.setBool("debug", fc.Debug, &cfg.Debug)

	if err := s.setDuration("connect-timeout", fc.ConnectTimeout, &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("read-timeout", fc.ReadTimeout, &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("poll-timeout", fc.PollTimeout, &cfg.PollTimeout); err != nil {
		return err
	}
	return s.setDuration("poll-interval", fc.PollInterval, &cfg.PollInterval)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
