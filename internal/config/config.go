// Package config loads jobdesk settings from config.yaml, a .env file and the
// environment, in that order of precedence (environment wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
)

// Environment variables that override the file
const (
	EnvAPIURL      = "JOBDESK_API_URL"
	EnvWebUsername = "WEB_USERNAME"
	EnvWebPassword = "WEB_PASSWORD"
	EnvWebPort     = "WEB_PORT"
)

// Config is the application configuration
type Config struct {
	API     APIConfig     `yaml:"api"`
	Board   BoardConfig   `yaml:"board"`
	Web     WebConfig     `yaml:"web"`
	Import  ImportConfig  `yaml:"import"`
	Tagging TaggingConfig `yaml:"tagging"`
}

type APIConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	Proxy       string        `yaml:"proxy"`
	InsecureTLS bool          `yaml:"insecure_tls"`
}

type BoardConfig struct {
	PerPage       int           `yaml:"per_page"`
	ToastDuration time.Duration `yaml:"toast_duration"`
}

type WebConfig struct {
	Port     int    `yaml:"port"`
	Username string `yaml:"username"` // Prefer WEB_USERNAME env var
	Password string `yaml:"password"` // Prefer WEB_PASSWORD env var
}

// AuthEnabled reports whether the mutating web routes require basic auth
func (w WebConfig) AuthEnabled() bool {
	return w.Username != "" && w.Password != ""
}

type ImportConfig struct {
	Workers          int      `yaml:"workers"`
	RequestsPerSec   float64  `yaml:"requests_per_second"`
	Burst            int      `yaml:"burst"`
	GreenhouseBoards []string `yaml:"greenhouse_boards"`
	LeverCompanies   []string `yaml:"lever_companies"`
	RemoteOnly       bool     `yaml:"remote_only"`
}

// TaggingConfig drives the keyword tagging of imported postings
type TaggingConfig struct {
	Categories []KeywordRule `yaml:"categories"`
	Levels     []LevelRule   `yaml:"levels"`
}

// KeywordRule adds Tag when any keyword appears in a title
type KeywordRule struct {
	Tag      string   `yaml:"tag"`
	Keywords []string `yaml:"keywords"`
}

// LevelRule sets Level when any keyword appears in a title. Rules are tried in order.
type LevelRule struct {
	Level    models.ExperienceLevel `yaml:"level"`
	Keywords []string               `yaml:"keywords"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000/api",
			Timeout: 10 * time.Second,
		},
		Board: BoardConfig{
			PerPage:       models.DefaultPerPage,
			ToastDuration: 5 * time.Second,
		},
		Web: WebConfig{
			Port: 8080,
		},
		Import: ImportConfig{
			Workers:        4,
			RequestsPerSec: 5,
			Burst:          1,
		},
		Tagging: TaggingConfig{
			Categories: []KeywordRule{
				{Tag: "Life", Keywords: []string{"life", "annuity", "annuities"}},
				{Tag: "Health", Keywords: []string{"health", "medical"}},
				{Tag: "P&C", Keywords: []string{"property", "casualty", "p&c", "general insurance"}},
				{Tag: "Pricing", Keywords: []string{"pricing", "rating"}},
				{Tag: "Reserving", Keywords: []string{"reserving", "reserve", "valuation"}},
				{Tag: "Pensions", Keywords: []string{"pension", "retirement"}},
				{Tag: "Reinsurance", Keywords: []string{"reinsurance"}},
				{Tag: "Analytics", Keywords: []string{"analyst", "analytics", "data", "modeling"}},
			},
			Levels: []LevelRule{
				{Level: models.ExperienceExecutive, Keywords: []string{"chief", "vp", "vice president", "head of", "director"}},
				{Level: models.ExperienceSenior, Keywords: []string{"senior", "sr.", "sr ", "lead", "principal", "manager", "fsa", "fia"}},
				{Level: models.ExperienceEntry, Keywords: []string{"intern", "entry", "junior", "jr.", "assistant", "graduate", "trainee"}},
				{Level: models.ExperienceMid, Keywords: []string{"associate", " ii", " iii", "asa", "aca"}},
			},
		},
	}
}

// Load reads the configuration. An empty path searches the usual locations;
// a missing file yields the defaults. A .env file in the working directory is
// loaded into the environment before overrides are applied.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigPath() string {
	paths := []string{
		"config.yaml",
		"jobdesk.yaml",
		"/etc/jobdesk/config.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home+"/.config/jobdesk/config.yaml")
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvWebUsername); v != "" {
		c.Web.Username = v
	}
	if v := os.Getenv(EnvWebPassword); v != "" {
		c.Web.Password = v
	}
	if v := os.Getenv(EnvWebPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWebPort, v, err)
		}
		c.Web.Port = port
	}
	return nil
}

// Validate checks values that would otherwise fail later in obscure ways
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.Board.PerPage <= 0 {
		c.Board.PerPage = models.DefaultPerPage
	}
	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		return fmt.Errorf("web.port out of range: %d", c.Web.Port)
	}
	if c.Import.Workers <= 0 {
		c.Import.Workers = 1
	}
	for _, rule := range c.Tagging.Levels {
		if !rule.Level.Valid() || rule.Level == "" {
			return fmt.Errorf("tagging level %q is not a known experience level", rule.Level)
		}
	}
	return nil
}
