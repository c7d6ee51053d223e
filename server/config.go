package server

import (
	"errors"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/funnelhttp/funnel/cors"
	"github.com/funnelhttp/funnel/session"
)

// ErrNoAddr is returned when a config file does not set the listen address.
var ErrNoAddr = errors.New("server: config is missing addr")

// Config is the file-backed configuration surface. Everything here is
// applied during the build phase, before serving starts.
type Config struct {
	// Addr is the listen address, e.g. "127.0.0.1:8080". Required.
	Addr string `yaml:"addr"`

	// MaxConnections bounds concurrently served connections.
	MaxConnections int `yaml:"max_connections"`

	// ChannelCapacity is the submission channel capacity.
	ChannelCapacity int `yaml:"channel_capacity"`

	// CORS enables the CORS policy when present.
	CORS *CORSPolicy `yaml:"cors"`

	// Session enables a session store when present.
	Session *SessionPolicy `yaml:"session"`
}

// CORSPolicy mirrors cors.Config in config-file form. Empty lists fall back
// to the defaults of cors.Default.
type CORSPolicy struct {
	Origins          []string `yaml:"origins"`
	Methods          []string `yaml:"methods"`
	Headers          []string `yaml:"headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
}

func (p *CORSPolicy) config() *cors.Config {
	cfg := cors.Default()
	if len(p.Origins) > 0 {
		cfg.AllowedOrigins = p.Origins
	}
	if len(p.Methods) > 0 {
		cfg.AllowedMethods = p.Methods
	}
	if len(p.Headers) > 0 {
		cfg.AllowedHeaders = p.Headers
	}
	cfg.AllowCredentials = p.AllowCredentials
	if p.MaxAge > 0 {
		cfg.MaxAge = p.MaxAge
	}
	return cfg
}

// SessionPolicy selects and configures the session store. With a redis
// address the store is Redis-backed, otherwise in-memory.
type SessionPolicy struct {
	CookieName string `yaml:"cookie_name"`
	MaxAge     int    `yaml:"max_age"`
	Secure     bool   `yaml:"secure"`
	Redis      string `yaml:"redis"`
}

// LoadConfig reads and decodes a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server: read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("server: parse config: %w", err)
	}
	if cfg.Addr == "" {
		return nil, ErrNoAddr
	}

	return &cfg, nil
}

// NewServer builds a Server from the config. Routers, catchers, and app
// data are attached by the caller afterwards, still within the build phase.
func (c *Config) NewServer() *Server {
	s := New(c.Addr)
	s.MaxConnections(c.MaxConnections)
	s.ChannelCapacity(c.ChannelCapacity)

	if c.CORS != nil {
		s.CORS(c.CORS.config())
	}

	if c.Session != nil {
		opts := session.Options{
			CookieName: c.Session.CookieName,
			MaxAge:     c.Session.MaxAge,
			Secure:     c.Session.Secure,
		}
		if c.Session.Redis != "" {
			client := redis.NewClient(&redis.Options{Addr: c.Session.Redis})
			s.SessionStore(session.NewRedisStore(client, session.RedisConfig{Cookie: opts}))
		} else {
			s.SessionStore(session.NewMemoryStore(opts))
		}
	}

	return s
}
