// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mail "github.com/mimesmtp/go-mimesmtp"
	"github.com/mimesmtp/go-mimesmtp/log"
)

const testConfig = `
server:
  host: smtp.example.com
  port: 2525
  connection: STARTTLS
  client_host: client.example.com
auth:
  mechanism: scram-sha-256
  username: toni
  password: secret
timeouts:
  connect: 5s
  response: 10s
  send: 1m
logging:
  level: debug
  format: json
  traffic_log: true
max_message_size: 10MiB
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mimesmtp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com", cfg.Server.Host)
	assert.Equal(t, 2525, cfg.Server.Port)
	assert.Equal(t, "starttls", cfg.Server.Connection)
	assert.Equal(t, "toni", cfg.Auth.Username)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Connect)
	assert.Equal(t, time.Minute, cfg.Timeouts.Send)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Logging.TrafficLog)

	size, err := cfg.maxMessageSize()
	require.NoError(t, err)
	assert.Equal(t, int64(10*1024*1024), size)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvPrefix+"HOST", "mail.example.com")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "tls", cfg.Server.Connection)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Zero(t, cfg.Server.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"HOST", "relay.example.com")
	t.Setenv(EnvPrefix+"PORT", "465")
	t.Setenv(EnvPrefix+"CONNECTION", "ssl")
	t.Setenv(EnvPrefix+"PASSWORD", "from-env")
	t.Setenv(EnvPrefix+"SEND_TIMEOUT", "30s")
	t.Setenv(EnvPrefix+"TRAFFIC_LOG", "false")

	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "relay.example.com", cfg.Server.Host)
	assert.Equal(t, 465, cfg.Server.Port)
	assert.Equal(t, "ssl", cfg.Server.Connection)
	assert.Equal(t, "from-env", cfg.Auth.Password)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Send)
	assert.False(t, cfg.Logging.TrafficLog)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "server: [host"))
		assert.ErrorContains(t, err, "failed to parse config file")
	})
	t.Run("malformed port", func(t *testing.T) {
		t.Setenv(EnvPrefix+"PORT", "smtp")
		_, err := Load(writeConfig(t, testConfig))
		assert.ErrorContains(t, err, "MIMESMTP_PORT")
	})
	t.Run("malformed timeout", func(t *testing.T) {
		t.Setenv(EnvPrefix+"CONNECT_TIMEOUT", "soon")
		_, err := Load(writeConfig(t, testConfig))
		assert.ErrorContains(t, err, "MIMESMTP_CONNECT_TIMEOUT")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"missing host", func(c *Config) { c.Server.Host = "" }},
		{"invalid host", func(c *Config) { c.Server.Host = "smtp example com" }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown connection", func(c *Config) { c.Server.Connection = "pigeon" }},
		{"password without username", func(c *Config) { c.Auth.Username = "" }},
		{"username without password", func(c *Config) { c.Auth.Password = "" }},
		{"negative timeout", func(c *Config) { c.Timeouts.Response = -time.Second }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "trace" }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"unknown mechanism", func(c *Config) { c.Auth.Mechanism = "xoauth2" }},
		{"malformed size", func(c *Config) { c.MaxMessageSize = "ten megabytes" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			require.NoError(t, cfg.Validate())
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func validConfig() *Config {
	cfg := Default()
	cfg.Server.Host = "smtp.example.com"
	cfg.Auth = AuthConfig{Mechanism: "login", Username: "toni", Password: "secret"}
	cfg.MaxMessageSize = "25MB"
	return cfg
}

func TestConfig_Logger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Format = "json"
		cfg.Logging.Level = "info"
		buf := &bytes.Buffer{}
		logger, err := cfg.Logger(buf)
		require.NoError(t, err)
		logger.Infof(log.Log{Direction: log.DirInternal, Format: "hello"})
		logger.Debugf(log.Log{Direction: log.DirInternal, Format: "filtered"})

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.NotContains(t, buf.String(), "filtered")
	})
	t.Run("zerolog", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Format = "zerolog"
		buf := &bytes.Buffer{}
		logger, err := cfg.Logger(buf)
		require.NoError(t, err)
		logger.Warnf(log.Log{Direction: log.DirInternal, Format: "careful"})
		assert.Contains(t, buf.String(), `"message":"careful"`)
	})
	t.Run("text", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger, err := validConfig().Logger(buf)
		require.NoError(t, err)
		logger.Warnf(log.Log{Direction: log.DirInternal, Format: "careful"})
		assert.True(t, strings.Contains(buf.String(), "WARN: C: careful"), buf.String())
	})
	t.Run("invalid level", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Level = "loud"
		_, err := cfg.Logger(&bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestConfig_NewClient(t *testing.T) {
	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	client, err := cfg.NewClient(nil)
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", client.Host())
	assert.Equal(t, 2525, client.Port())
	assert.Equal(t, "client.example.com", client.ClientHost())
	assert.Equal(t, mail.ConnectionTLS, client.ConnectionType())
	assert.Equal(t, mail.SMTPAuthSCRAMSHA256, client.SMTPAuth())
	assert.False(t, client.IsConnected())
}

func TestConfig_ClientOptions_DefaultsToPlain(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.Mechanism = ""
	client, err := cfg.NewClient(nil)
	require.NoError(t, err)
	assert.Equal(t, mail.SMTPAuthPlain, client.SMTPAuth())
	assert.Equal(t, mail.DefaultPortTLS, client.Port())
}
