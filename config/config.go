// Package config loads the YAML configuration of the star ledger.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/alexsserban/starledger/ledger"
	"github.com/alexsserban/starledger/ownership"
)

// Config represents the YAML configuration structure
type Config struct {
	Ledger struct {
		Hash         string `yaml:"hash"`
		StrictAppend bool   `yaml:"strict_append"`
	} `yaml:"ledger"`

	Ownership struct {
		Scheme        string `yaml:"scheme"`
		DomainTag     string `yaml:"domain_tag"`
		WindowSeconds int    `yaml:"window_seconds"`
	} `yaml:"ownership"`

	Archive struct {
		Path string `yaml:"path"`
	} `yaml:"archive"`

	Server struct {
		ListenAddress string `yaml:"listen_address"`
		TLS           bool   `yaml:"tls"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the configuration from filename and fills in defaults.
func Load(filename string) (*Config, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, errors.Wrap(err, "error getting absolute path for config file")
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file %s", absPath)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "error parsing config file")
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Ledger.Hash == "" {
		c.Ledger.Hash = ledger.SHA256.Name()
	}
	if c.Ownership.Scheme == "" {
		c.Ownership.Scheme = string(ownership.SchemeEthereum)
	}
	if c.Ownership.DomainTag == "" {
		c.Ownership.DomainTag = ownership.DefaultDomainTag
	}
	if c.Ownership.WindowSeconds == 0 {
		c.Ownership.WindowSeconds = int(ownership.DefaultWindow / time.Second)
	}
	if c.Archive.Path == "" {
		c.Archive.Path = "starledger.db"
	}
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = "127.0.0.1:8000"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that every value can be turned into a component.
func (c *Config) Validate() error {
	if _, err := ledger.HasherByName(c.Ledger.Hash); err != nil {
		return errors.Wrap(err, "ledger.hash")
	}
	if _, err := ownership.ParseScheme(c.Ownership.Scheme); err != nil {
		return errors.Wrap(err, "ownership.scheme")
	}
	if strings.Contains(c.Ownership.DomainTag, ":") {
		return errors.Errorf("ownership.domain_tag %q must not contain ':'", c.Ownership.DomainTag)
	}
	if c.Ownership.WindowSeconds < 1 {
		return errors.Errorf("ownership.window_seconds must be positive, got %d", c.Ownership.WindowSeconds)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// Hasher returns the configured ledger hasher.
func (c *Config) Hasher() ledger.Hasher {
	h, err := ledger.HasherByName(c.Ledger.Hash)
	if err != nil {
		return ledger.SHA256
	}
	return h
}

// Scheme returns the configured signature scheme.
func (c *Config) Scheme() ownership.Scheme {
	s, err := ownership.ParseScheme(c.Ownership.Scheme)
	if err != nil {
		return ownership.SchemeEthereum
	}
	return s
}

// Window returns the challenge validity window.
func (c *Config) Window() time.Duration {
	return time.Duration(c.Ownership.WindowSeconds) * time.Second
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return level, errors.Wrapf(err, "log.level %q", c.Log.Level)
	}
	return level, nil
}
