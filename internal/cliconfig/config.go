package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	captcha9kw "github.com/anatolykoptev/go-captcha9kw"
)

// Config holds CLI configuration for captcha9kw.
type Config struct {
	APIKey string
	Source string

	BaseURL   string
	StatusURL string

	Proxy   string
	Stealth bool
	Debug   bool

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	// PollTimeout bounds "answer --wait". Zero waits until the service answers.
	PollTimeout  time.Duration
	PollInterval time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Source:         captcha9kw.DefaultSource,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
		PollTimeout:    10 * time.Minute,
		PollInterval:   2 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.PollTimeout < 0 {
		return fmt.Errorf("poll timeout must not be negative")
	}
	return nil
}

// ClientConfig converts the CLI configuration into a library configuration.
func (c Config) ClientConfig() captcha9kw.ClientConfig {
	return captcha9kw.ClientConfig{
		APIKey:         c.APIKey,
		Source:         c.Source,
		BaseURL:        c.BaseURL,
		StatusURL:      c.StatusURL,
		ConnectTimeout: c.ConnectTimeout,
		ReadTimeout:    c.ReadTimeout,
		Stealth:        c.Stealth,
		Proxy:          c.Proxy,
		Debug:          c.Debug,
		Poll: captcha9kw.PollPolicy{
			Interval: c.PollInterval,
			Timeout:  c.PollTimeout,
		},
	}
}

// Masked returns a copy safe for logging.
func (c Config) Masked() Config {
	if c.APIKey != "" {
		c.APIKey = "*****"
	}
	return c
}

// configSetter applies values while respecting flag precedence.
// A value is only applied when its flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}
