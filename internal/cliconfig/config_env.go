package cliconfig

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by the CLI.
const EnvPrefix = "CAPTCHA9KW"

// EnvConfig is the raw environment view of Config (CAPTCHA9KW_*).
// Values stay strings so that unset and empty are the same.
type EnvConfig struct {
	APIKey         string `envconfig:"API_KEY"`
	Source         string `envconfig:"SOURCE"`
	BaseURL        string `envconfig:"BASE_URL"`
	StatusURL      string `envconfig:"STATUS_URL"`
	Proxy          string `envconfig:"PROXY"`
	Stealth        string `envconfig:"STEALTH"`
	Debug          string `envconfig:"DEBUG"`
	ConnectTimeout string `envconfig:"CONNECT_TIMEOUT"`
	ReadTimeout    string `envconfig:"READ_TIMEOUT"`
	PollTimeout    string `envconfig:"POLL_TIMEOUT"`
	PollInterval   string `envconfig:"POLL_INTERVAL"`
}

// ApplyEnvConfig applies CAPTCHA9KW_* environment variables to cfg.
// These override file config but are overridden by flags (checked via changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	var ec EnvConfig
	if err := envconfig.Process(EnvPrefix, &ec); err != nil {
		return fmt.Errorf("process environment: %w", err)
	}

	s := newConfigSetter(changed)
	s.setString("api-key", ec.APIKey, &cfg.APIKey)
	s.setString("source", ec.Source, &cfg.Source)
	s.setString("base-url", ec.BaseURL, &cfg.BaseURL)
	s.setString("status-url", ec.StatusURL, &cfg.StatusURL)
	s.setString("proxy", ec.Proxy, &cfg.Proxy)

	if err := s.setBoolFromString("stealth", ec.Stealth, &cfg.Stealth); err != nil {
		return err
	}
	if err := s.setBoolFromString("debug", ec.Debug, &cfg.Debug); err != nil {
		return err
	}
	if err := s.setDuration("connect-timeout", ec.ConnectTimeout, &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("read-timeout", ec.ReadTimeout, &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("poll-timeout", ec.PollTimeout, &cfg.PollTimeout); err != nil {
		return err
	}
	return s.setDuration("poll-interval", ec.PollInterval, &cfg.PollInterval)
}
