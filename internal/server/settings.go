// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

const (
	// DefaultHost is the interface used when no host is configured.
	DefaultHost = "127.0.0.1"
	// DefaultPort matches the port the web client expects.
	DefaultPort = 5000
	// DefaultMaxBodyBytes limits request payloads to 1 MB.
	DefaultMaxBodyBytes int64 = 1 << 20
	DefaultReadTimeout        = 15 * time.Second
	DefaultWriteTimeout       = 30 * time.Second
	DefaultIdleTimeout        = 60 * time.Second
	DefaultAllowOrigin        = "*"
)

// Settings captures runtime configuration for the HTTP server.
type Settings struct {
	Host         string
	Port         int
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	AllowOrigin  string
}

// SettingsFromConfig fills unset fields of cfg with defaults.
func SettingsFromConfig(cfg types.ServerConfig) Settings {
	s := Settings{
		Host:         DefaultHost,
		Port:         DefaultPort,
		MaxBodyBytes: DefaultMaxBodyBytes,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
		AllowOrigin:  DefaultAllowOrigin,
	}
	if host := strings.TrimSpace(cfg.Host); host != "" {
		s.Host = host
	}
	if cfg.Port > 0 && cfg.Port <= 65535 {
		s.Port = cfg.Port
	}
	if cfg.MaxBodyBytes > 0 {
		s.MaxBodyBytes = cfg.MaxBodyBytes
	}
	if cfg.ReadTimeout > 0 {
		s.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		s.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.IdleTimeout > 0 {
		s.IdleTimeout = cfg.IdleTimeout
	}
	if origin := strings.TrimSpace(cfg.AllowOrigin); origin != "" {
		s.AllowOrigin = origin
	}
	return s
}

// Address returns host:port for net.Listen.
func (s Settings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
