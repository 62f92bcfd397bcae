// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "en", cfg.Lang)
	assert.Equal(t, 30*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 3*time.Second, cfg.CloseTimeout)
	assert.Empty(t, cfg.JID)
	assert.Empty(t, cfg.Server)
	if dir, err := os.UserConfigDir(); err == nil {
		assert.Equal(t, filepath.Join(dir, "imclient", "history.db"), cfg.HistoryPath)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "imclient.yaml")
	configContent := `
jid: juliet@example.com
password: r0m30
resource: balcony
server: xmpp.example.com:5223
lang: it
connect_timeout: 10s
close_timeout: 500ms
history_path: /var/lib/imclient/history.db
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0600))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "juliet@example.com", cfg.JID)
	assert.Equal(t, "r0m30", cfg.Password)
	assert.Equal(t, "balcony", cfg.Resource)
	assert.Equal(t, "xmpp.example.com:5223", cfg.Server)
	assert.Equal(t, "it", cfg.Lang)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.CloseTimeout)
	assert.Equal(t, "/var/lib/imclient/history.db", cfg.HistoryPath)
	require.NoError(t, cfg.Validate())

	client := cfg.Client()
	assert.Equal(t, "it", client.Lang)
	assert.Equal(t, "balcony", client.Resource)
	assert.Equal(t, "xmpp.example.com:5223", client.Server)
	assert.Equal(t, 500*time.Millisecond, client.CloseTimeout)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "imclient.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("jid: juliet@example.com\npassword: fromfile\n"), 0600))

	t.Setenv("IMCLIENT_PASSWORD", "fromenv")
	t.Setenv("IMCLIENT_CLOSE_TIMEOUT", "1s")

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "juliet@example.com", cfg.JID)
	assert.Equal(t, "fromenv", cfg.Password)
	assert.Equal(t, time.Second, cfg.CloseTimeout)
}

func TestLoadConfig_NoFile(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Lang)

	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.ConnectTimeout)
}

func TestLoadConfig_BadFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "imclient.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("jid: [unterminated\n"), 0600))

	_, err := LoadConfig(configPath)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid",
			modify: func(c *Config) {},
		},
		{
			name:    "missing jid",
			modify:  func(c *Config) { c.JID = "" },
			wantErr: true,
		},
		{
			name:    "invalid jid",
			modify:  func(c *Config) { c.JID = "juliet@" },
			wantErr: true,
		},
		{
			name:    "domain only",
			modify:  func(c *Config) { c.JID = "example.com" },
			wantErr: true,
		},
		{
			name:    "missing password",
			modify:  func(c *Config) { c.Password = "" },
			wantErr: true,
		},
		{
			name:    "invalid lang",
			modify:  func(c *Config) { c.Lang = "not a tag" },
			wantErr: true,
		},
		{
			name:    "zero connect timeout",
			modify:  func(c *Config) { c.ConnectTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "negative close timeout",
			modify:  func(c *Config) { c.CloseTimeout = -time.Second },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.JID = "juliet@example.com/balcony"
			cfg.Password = "r0m30"
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Address(t *testing.T) {
	cfg := &Config{JID: "juliet@example.com/balcony"}
	addr, err := cfg.Address()
	require.NoError(t, err)
	assert.Equal(t, "juliet@example.com", addr.String())
}
