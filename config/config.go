// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package config loads client settings from defaults, an optional file and
// the environment.
package config // import "mellium.im/imclient/config"

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"mellium.im/imclient"
	"mellium.im/imclient/jid"
)

// EnvPrefix is the prefix of environment variables that override settings,
// for example IMCLIENT_PASSWORD.
const EnvPrefix = "IMCLIENT"

// Config holds the settings of the command line client.
type Config struct {
	// Account
	JID      string `mapstructure:"jid"`
	Password string `mapstructure:"password"`
	Resource string `mapstructure:"resource"`

	// Connection
	Server         string        `mapstructure:"server"`
	Lang           string        `mapstructure:"lang"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	CloseTimeout   time.Duration `mapstructure:"close_timeout"`

	// HistoryPath is the SQLite database holding conversations. If empty,
	// conversations are only kept in memory.
	HistoryPath string `mapstructure:"history_path"`
}

func defaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "imclient", "history.db")
}

// DefaultConfig returns a Config with the default settings.
func DefaultConfig() *Config {
	return &Config{
		Lang:           imclient.DefaultLang,
		ConnectTimeout: 30 * time.Second,
		CloseTimeout:   imclient.DefaultCloseTimeout,
		HistoryPath:    defaultHistoryPath(),
	}
}

// LoadConfig loads the configuration.
// Environment variables take precedence over the file at configPath, which
// takes precedence over the defaults. A missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("jid", defaults.JID)
	v.SetDefault("password", defaults.Password)
	v.SetDefault("resource", defaults.Resource)
	v.SetDefault("server", defaults.Server)
	v.SetDefault("lang", defaults.Lang)
	v.SetDefault("connect_timeout", defaults.ConnectTimeout)
	v.SetDefault("close_timeout", defaults.CloseTimeout)
	v.SetDefault("history_path", defaults.HistoryPath)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration can be used to connect.
func (c *Config) Validate() error {
	addr, err := c.Address()
	if err != nil {
		return err
	}
	if addr.Localpart() == "" {
		return fmt.Errorf("config: jid %s has no localpart", addr)
	}
	if c.Password == "" {
		return errors.New("config: password is required")
	}
	if _, err := language.Parse(c.Lang); err != nil {
		return fmt.Errorf("config: invalid lang %q: %w", c.Lang, err)
	}
	if c.ConnectTimeout <= 0 {
		return errors.New("config: connect timeout must be positive")
	}
	if c.CloseTimeout <= 0 {
		return errors.New("config: close timeout must be positive")
	}
	return nil
}

// Address returns the bare JID of the account.
func (c *Config) Address() (jid.JID, error) {
	if c.JID == "" {
		return jid.JID{}, errors.New("config: jid is required")
	}
	addr, err := jid.Parse(c.JID)
	if err != nil {
		return jid.JID{}, fmt.Errorf("config: invalid jid %q: %w", c.JID, err)
	}
	return addr.Bare(), nil
}

// Client returns the connection settings.
// Stores, loggers and listeners are left for the caller to fill in.
func (c *Config) Client() imclient.Config {
	return imclient.Config{
		Lang:         c.Lang,
		Resource:     c.Resource,
		Server:       c.Server,
		CloseTimeout: c.CloseTimeout,
	}
}
