package poolserver

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/kingrea/league-pool/internal/config"
)

const (
	// DefaultReadTimeout guards hung clients.
	DefaultReadTimeout = 15 * time.Second
	// DefaultWriteTimeout bounds handler writes.
	DefaultWriteTimeout = 15 * time.Second
	// DefaultIdleTimeout bounds keep-alive connections.
	DefaultIdleTimeout = 60 * time.Second
)

// Settings captures runtime configuration for the pool server.
type Settings struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// DefaultRole answers /champion-pool when no champion names a role.
	DefaultRole    string
	MaxPoolSize    int
	MaxSuggestions int
}

// SettingsFromConfig builds Settings from the project's server section.
// Environment overrides are already applied by config.NewConfig.
func SettingsFromConfig(cfg *config.Config) Settings {
	settings := Settings{
		Host:           config.DefaultServerHost,
		Port:           config.DefaultServerPort,
		ReadTimeout:    DefaultReadTimeout,
		WriteTimeout:   DefaultWriteTimeout,
		IdleTimeout:    DefaultIdleTimeout,
		MaxPoolSize:    config.DefaultMaxPoolSize,
		MaxSuggestions: config.DefaultMaxSuggestions,
	}
	if cfg != nil {
		srv := cfg.Server()
		if host := strings.TrimSpace(srv.Host); host != "" {
			settings.Host = host
		}
		if isValidPort(srv.Port) {
			settings.Port = srv.Port
		}
		if srv.MaxPoolSize > 0 {
			settings.MaxPoolSize = srv.MaxPoolSize
		}
		if srv.MaxSuggestions > 0 {
			settings.MaxSuggestions = srv.MaxSuggestions
		}
		if roles := cfg.Roles(); len(roles) > 0 {
			settings.DefaultRole = roles[0]
		}
	}
	settings.normalize()
	return settings
}

func (s *Settings) normalize() {
	if s == nil {
		return
	}
	s.Host = strings.TrimSpace(s.Host)
	if s.Host == "" {
		s.Host = config.DefaultServerHost
	}
	if !isValidPort(s.Port) {
		s.Port = config.DefaultServerPort
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
}

// Address returns the TCP bind address in host:port form.
func (s Settings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// URL returns the HTTP base URL for the server.
func (s Settings) URL() string {
	return "http://" + s.Address()
}

func isValidPort(port int) bool {
	return port > 0 && port <= 65535
}
