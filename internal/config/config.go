// internal/config/config.go
//
// This package handles configuration and the .leaguepool directory structure.
// Every directory the picker runs in gets a .leaguepool/ folder holding the
// config file, logs and the reference server's dataset.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DirName is the name of the directory we create in each project
	DirName = ".leaguepool"

	DefaultCandidateURL      = "http://127.0.0.1:5000/champion-list"
	DefaultRecommendationURL = "http://127.0.0.1:5000/champion-pool"
	DefaultTimeout           = 10 * time.Second

	DefaultServerHost     = "127.0.0.1"
	DefaultServerPort     = 5000
	DefaultMaxPoolSize    = 4
	DefaultMaxSuggestions = 10

	StoreYAML   = "yaml"
	StoreBadger = "badger"
)

// DefaultRoles is the role picker's option list when the config names none.
var DefaultRoles = []string{"top", "jungle", "mid", "adc", "support"}

const defaultProjectConfigYAML = `# league-pool configuration
version: 1

# Remote services the picker talks to.
services:
  candidate_url: http://127.0.0.1:5000/champion-list
  recommendation_url: http://127.0.0.1:5000/champion-pool
  timeout: 10s

# Options offered by the role picker.
roles:
  - top
  - jungle
  - mid
  - adc
  - support

# Reference server started by "leaguepool serve".
server:
  host: 127.0.0.1
  port: 5000
  # store: yaml reads the dataset file on start; badger reads the store seeded by "leaguepool seed".
  store: yaml
  dataset: data/champions.yaml
  store_path: data/store
  max_pool_size: 4
  max_suggestions: 10
`

// ServicesConfig locates the candidate and recommendation services.
type ServicesConfig struct {
	CandidateURL      string        `yaml:"candidate_url"`
	RecommendationURL string        `yaml:"recommendation_url"`
	Timeout           time.Duration `yaml:"timeout,omitempty"`
}

// ServerConfig configures the reference pool server.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Store          string `yaml:"store"`
	Dataset        string `yaml:"dataset,omitempty"`
	StorePath      string `yaml:"store_path,omitempty"`
	MaxPoolSize    int    `yaml:"max_pool_size,omitempty"`
	MaxSuggestions int    `yaml:"max_suggestions,omitempty"`
}

// ProjectConfig models .leaguepool/config.yaml.
type ProjectConfig struct {
	Version  int            `yaml:"version"`
	Services ServicesConfig `yaml:"services"`
	Roles    []string       `yaml:"roles"`
	Server   ServerConfig   `yaml:"server"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the directory where the user ran `leaguepool` from
	ProjectDir string

	// Dir is ProjectDir/.leaguepool
	Dir string

	Project ProjectConfig
}

// InitProjectDir creates the .leaguepool directory structure in the given
// project directory and writes a default config.yaml when none exists.
//
// Structure created:
// .leaguepool/
// ├── config.yaml
// ├── logs/         <- session.log (picker) and server.log (serve)
// └── data/         <- reference server dataset and badger store
func InitProjectDir(projectDir string) error {
	dir := filepath.Join(projectDir, DirName)
	for _, sub := range []string{
		filepath.Join(dir, "logs"),
		filepath.Join(dir, "data"),
	} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", sub, err)
		}
	}
	return ensureProjectConfig(filepath.Join(dir, "config.yaml"))
}

// NewConfig loads .leaguepool/config.yaml (defaults when absent) and applies
// environment overrides.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		Dir:        filepath.Join(projectDir, DirName),
		Project:    defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Project.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.Dir, "logs")
}

// DataDir returns the path to the data directory
func (c *Config) DataDir() string {
	return filepath.Join(c.Dir, "data")
}

// ProjectConfigPath returns the on-disk location for the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.Dir, "config.yaml")
}

// Roles returns the role picker options.
func (c *Config) Roles() []string {
	out := make([]string, len(c.Project.Roles))
	copy(out, c.Project.Roles)
	return out
}

// Services returns the remote service settings.
func (c *Config) Services() ServicesConfig {
	return c.Project.Services
}

// Server returns the reference server settings with relative paths resolved
// against the .leaguepool directory.
func (c *Config) Server() ServerConfig {
	srv := c.Project.Server
	srv.Dataset = resolvePath(c.Dir, srv.Dataset)
	srv.StorePath = resolvePath(c.Dir, srv.StorePath)
	return srv
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func (c *Config) applyEnvOverrides() error {
	svc := &c.Project.Services
	if value := strings.TrimSpace(os.Getenv("LEAGUEPOOL_CANDIDATE_URL")); value != "" {
		svc.CandidateURL = value
	}
	if value := strings.TrimSpace(os.Getenv("LEAGUEPOOL_RECOMMENDATION_URL")); value != "" {
		svc.RecommendationURL = value
	}
	if value := strings.TrimSpace(os.Getenv("LEAGUEPOOL_TIMEOUT")); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("config: LEAGUEPOOL_TIMEOUT: %w", err)
		}
		svc.Timeout = d
	}
	srv := &c.Project.Server
	if host := strings.TrimSpace(os.Getenv("LEAGUEPOOL_SERVER_HOST")); host != "" {
		srv.Host = host
	}
	if port := strings.TrimSpace(os.Getenv("LEAGUEPOOL_SERVER_PORT")); port != "" {
		parsed, err := strconv.Atoi(port)
		if err != nil || !isValidPort(parsed) {
			return fmt.Errorf("config: LEAGUEPOOL_SERVER_PORT %q is not a valid port", port)
		}
		srv.Port = parsed
	}
	return nil
}

func defaultProjectConfig() ProjectConfig {
	pc := ProjectConfig{}
	pc.applyDefaults()
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Services.CandidateURL == "" {
		pc.Services.CandidateURL = DefaultCandidateURL
	}
	if pc.Services.RecommendationURL == "" {
		pc.Services.RecommendationURL = DefaultRecommendationURL
	}
	if pc.Services.Timeout <= 0 {
		pc.Services.Timeout = DefaultTimeout
	}
	if len(pc.Roles) == 0 {
		pc.Roles = append([]string(nil), DefaultRoles...)
	}
	if pc.Server.Host == "" {
		pc.Server.Host = DefaultServerHost
	}
	if pc.Server.Port == 0 {
		pc.Server.Port = DefaultServerPort
	}
	if pc.Server.Store == "" {
		pc.Server.Store = StoreYAML
	}
	if pc.Server.Dataset == "" {
		pc.Server.Dataset = filepath.Join("data", "champions.yaml")
	}
	if pc.Server.StorePath == "" {
		pc.Server.StorePath = filepath.Join("data", "store")
	}
	if pc.Server.MaxPoolSize <= 0 {
		pc.Server.MaxPoolSize = DefaultMaxPoolSize
	}
	if pc.Server.MaxSuggestions <= 0 {
		pc.Server.MaxSuggestions = DefaultMaxSuggestions
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Services.CandidateURL = strings.TrimSpace(pc.Services.CandidateURL)
	pc.Services.RecommendationURL = strings.TrimSpace(pc.Services.RecommendationURL)
	seen := map[string]struct{}{}
	roles := make([]string, 0, len(pc.Roles))
	for _, role := range pc.Roles {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		roles = append(roles, role)
	}
	pc.Roles = roles
	pc.Server.Host = strings.TrimSpace(pc.Server.Host)
	pc.Server.Store = strings.ToLower(strings.TrimSpace(pc.Server.Store))
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if err := validateURL(pc.Services.CandidateURL); err != nil {
		return fmt.Errorf("services.candidate_url: %w", err)
	}
	if err := validateURL(pc.Services.RecommendationURL); err != nil {
		return fmt.Errorf("services.recommendation_url: %w", err)
	}
	if len(pc.Roles) == 0 {
		return fmt.Errorf("roles must not be empty")
	}
	if !isValidPort(pc.Server.Port) {
		return fmt.Errorf("server.port %d is out of range", pc.Server.Port)
	}
	switch pc.Server.Store {
	case StoreYAML, StoreBadger:
	default:
		return fmt.Errorf("server.store must be '%s' or '%s'", StoreYAML, StoreBadger)
	}
	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if parsed.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

func isValidPort(port int) bool {
	return port > 0 && port <= 65535
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
