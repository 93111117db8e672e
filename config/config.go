// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

// Package config loads client settings from a YAML file and MIMESMTP_*
// environment variables and turns them into mail.Option values.
package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	mail "github.com/mimesmtp/go-mimesmtp"
	"github.com/mimesmtp/go-mimesmtp/log"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MIMESMTP_"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete client configuration.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Auth     AuthConfig    `yaml:"auth"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
	Logging  LoggingConfig `yaml:"logging"`

	// MaxMessageSize is a size string such as "25MiB". Empty means unlimited.
	MaxMessageSize string `yaml:"max_message_size"`
}

// ServerConfig describes the SMTP server and how to reach it.
type ServerConfig struct {
	Host               string `yaml:"host" validate:"required,hostname_rfc1123"`
	Port               int    `yaml:"port" validate:"omitempty,min=1,max=65535"`
	Connection         string `yaml:"connection" validate:"required,oneof=tcp plain none ssl smtps tls-implicit tls starttls"`
	ClientHost         string `yaml:"client_host" validate:"omitempty,hostname_rfc1123"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// AuthConfig holds the SMTP AUTH settings.
type AuthConfig struct {
	Mechanism string `yaml:"mechanism"`
	Username  string `yaml:"username" validate:"required_with=Password"`
	Password  string `yaml:"password" validate:"required_with=Username"`
}

// TimeoutConfig overrides the client timeouts. Zero keeps the default.
type TimeoutConfig struct {
	Connect  time.Duration `yaml:"connect" validate:"gte=0"`
	Response time.Duration `yaml:"response" validate:"gte=0"`
	Send     time.Duration `yaml:"send" validate:"gte=0"`
}

// LoggingConfig selects the log backend.
type LoggingConfig struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=error warn warning info debug"`
	Format     string `yaml:"format" validate:"omitempty,oneof=text json zerolog"`
	TrafficLog bool   `yaml:"traffic_log"`
}

var validate = validator.New()

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Connection: "tls"},
		Logging: LoggingConfig{Level: "warn", Format: "text"},
	}
}

// Load reads the YAML file at path on top of Default, applies the
// environment overrides and validates the result. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := cfg.applyEnvVars(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvVars overrides the configuration with non-empty MIMESMTP_*
// variables.
func (c *Config) applyEnvVars() error {
	strVars := map[string]*string{
		"HOST":             &c.Server.Host,
		"CONNECTION":       &c.Server.Connection,
		"CLIENT_HOST":      &c.Server.ClientHost,
		"AUTH":             &c.Auth.Mechanism,
		"USERNAME":         &c.Auth.Username,
		"PASSWORD":         &c.Auth.Password,
		"MAX_MESSAGE_SIZE": &c.MaxMessageSize,
		"LOG_LEVEL":        &c.Logging.Level,
		"LOG_FORMAT":       &c.Logging.Format,
	}
	for name, field := range strVars {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*field = v
		}
	}

	if v := os.Getenv(EnvPrefix + "PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to parse %sPORT: %w", EnvPrefix, err)
		}
		c.Server.Port = port
	}
	durVars := map[string]*time.Duration{
		"CONNECT_TIMEOUT":  &c.Timeouts.Connect,
		"RESPONSE_TIMEOUT": &c.Timeouts.Response,
		"SEND_TIMEOUT":     &c.Timeouts.Send,
	}
	for name, field := range durVars {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("failed to parse %s%s: %w", EnvPrefix, name, err)
			}
			*field = d
		}
	}
	for name, field := range map[string]*bool{
		"TRAFFIC_LOG":          &c.Logging.TrafficLog,
		"INSECURE_SKIP_VERIFY": &c.Server.InsecureSkipVerify,
	} {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("failed to parse %s%s: %w", EnvPrefix, name, err)
			}
			*field = b
		}
	}
	return nil
}

// Validate checks the struct tags and every value that is parsed later on.
func (c *Config) Validate() error {
	c.Server.Connection = strings.ToLower(strings.TrimSpace(c.Server.Connection))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	var authType mail.SMTPAuthType
	if err := authType.UnmarshalString(c.Auth.Mechanism); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.maxMessageSize(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) maxMessageSize() (int64, error) {
	if c.MaxMessageSize == "" {
		return 0, nil
	}
	size, err := units.RAMInBytes(c.MaxMessageSize)
	if err != nil {
		return 0, fmt.Errorf("failed to parse max message size: %w", err)
	}
	if size < 0 {
		return 0, mail.ErrInvalidSize
	}
	return size, nil
}

// Logger returns the log.Logger selected by the logging section.
func (c *Config) Logger(w io.Writer) (log.Logger, error) {
	level, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	switch c.Logging.Format {
	case "", "text":
		return log.New(w, level), nil
	case "json":
		return log.NewJSON(w, level), nil
	case "zerolog":
		return log.NewZerolog(w, level), nil
	}
	return nil, fmt.Errorf("unsupported log format: %s", c.Logging.Format)
}

// ClientOptions translates the configuration into mail.Option values. A nil
// logger keeps the client default.
func (c *Config) ClientOptions(logger log.Logger) ([]mail.Option, error) {
	var connType mail.ConnectionType
	if err := connType.UnmarshalString(c.Server.Connection); err != nil {
		return nil, err
	}
	var authType mail.SMTPAuthType
	if err := authType.UnmarshalString(c.Auth.Mechanism); err != nil {
		return nil, err
	}
	size, err := c.maxMessageSize()
	if err != nil {
		return nil, err
	}

	opts := []mail.Option{
		mail.WithConnectionType(connType),
		mail.WithSMTPAuth(authType),
		mail.WithMaxMessageSize(size),
	}
	if c.Server.Port != 0 {
		opts = append(opts, mail.WithPort(c.Server.Port))
	}
	if c.Server.ClientHost != "" {
		opts = append(opts, mail.WithClientHost(c.Server.ClientHost))
	}
	if c.Server.InsecureSkipVerify {
		opts = append(opts, mail.WithTLSConfig(&tls.Config{
			InsecureSkipVerify: true,
			MinVersion:         mail.DefaultTLSMinVersion,
		}))
	}
	if c.Auth.Username != "" {
		opts = append(opts, mail.WithUsername(c.Auth.Username), mail.WithPassword(c.Auth.Password))
	}
	if c.Timeouts.Connect > 0 {
		opts = append(opts, mail.WithConnectTimeout(c.Timeouts.Connect))
	}
	if c.Timeouts.Response > 0 {
		opts = append(opts, mail.WithResponseTimeout(c.Timeouts.Response))
	}
	if c.Timeouts.Send > 0 {
		opts = append(opts, mail.WithSendTimeout(c.Timeouts.Send))
	}
	if c.Logging.TrafficLog {
		opts = append(opts, mail.WithTrafficLog())
	}
	if logger != nil {
		opts = append(opts, mail.WithLogger(logger))
	}
	return opts, nil
}

// NewClient returns a mail.Client for the configured server. extra options
// are applied after the configured ones.
func (c *Config) NewClient(logger log.Logger, extra ...mail.Option) (*mail.Client, error) {
	opts, err := c.ClientOptions(logger)
	if err != nil {
		return nil, err
	}
	return mail.NewClient(c.Server.Host, append(opts, extra...)...)
}
