// Package config loads the settings shared by the CLI and the render server:
// defaults, then an optional YAML file, then DONATE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Execution modes accepted in Config.Mode.
const (
	ModeServer  = "server"
	ModeBrowser = "browser"
)

// ErrInvalid wraps validation failures.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all donate configuration.
type Config struct {
	// Mode selects the client lifecycle: "server" (one client per request)
	// or "browser" (one long-lived client).
	Mode string `yaml:"mode" validate:"oneof=server browser"`

	// Server identity, sent only from server mode.
	Environment  string `yaml:"environment" validate:"required"`
	SharedSecret string `yaml:"shared_secret"`
	AppID        string `yaml:"app_id"`
	UserAgent    string `yaml:"user_agent"`

	// Debug logs the timing of every server-mode request.
	Debug bool `yaml:"debug"`

	API API `yaml:"api"`

	Log   LogConfig   `yaml:"log"`
	Cache CacheConfig `yaml:"cache"`

	// Listen is the render server's address.
	Listen string `yaml:"listen" validate:"required"`
	// CORSOrigins lists the browser origins allowed to call the render server.
	CORSOrigins []string `yaml:"cors_origins"`
}

// API configures the upstream GraphQL endpoints.
type API struct {
	V1URL string `yaml:"v1_url" validate:"required,url"`
	V2URL string `yaml:"v2_url" validate:"required,url"`
	// Endpoint, when set, pins all traffic to one URL regardless of version.
	Endpoint        string        `yaml:"endpoint" validate:"omitempty,url"`
	Timeout         time.Duration `yaml:"timeout" validate:"gte=0"`
	ForceFetchDelay time.Duration `yaml:"force_fetch_delay" validate:"gte=0"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// CacheConfig configures snapshot persistence between CLI runs.
type CacheConfig struct {
	Dir string        `yaml:"dir"`
	TTL time.Duration `yaml:"ttl" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Mode:        ModeBrowser,
		Environment: "development",
		AppID:       "donate-web",
		UserAgent:   "donate-ssr",
		API: API{
			V1URL:           "https://api.donate.example/graphql",
			V2URL:           "https://api.donate.example/v2/graphql",
			Timeout:         30 * time.Second,
			ForceFetchDelay: 100 * time.Millisecond,
		},
		Log:         LogConfig{Level: "info"},
		Cache:       CacheConfig{TTL: 24 * time.Hour},
		Listen:      ":8080",
		CORSOrigins: []string{"http://localhost:3000"},
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty or the file does not exist) and the environment.
// lookupEnv defaults to os.LookupEnv.
func Load(path string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	if err := cfg.applyEnv(lookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"DONATE_MODE":          &c.Mode,
		"DONATE_ENV":           &c.Environment,
		"DONATE_SHARED_SECRET": &c.SharedSecret,
		"DONATE_APP_ID":        &c.AppID,
		"DONATE_USER_AGENT":    &c.UserAgent,
		"DONATE_API_V1_URL":    &c.API.V1URL,
		"DONATE_API_V2_URL":    &c.API.V2URL,
		"DONATE_ENDPOINT":      &c.API.Endpoint,
		"DONATE_LOG_LEVEL":     &c.Log.Level,
		"DONATE_CACHE_DIR":     &c.Cache.Dir,
		"DONATE_LISTEN":        &c.Listen,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("DONATE_DEBUG"); ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing DONATE_DEBUG: %w", err)
		}
		c.Debug = debug
	}
	if v, ok := lookup("DONATE_CORS_ORIGINS"); ok && v != "" {
		c.CORSOrigins = c.CORSOrigins[:0:0]
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.CORSOrigins = append(c.CORSOrigins, origin)
			}
		}
	}
	if v, ok := lookup("DONATE_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing DONATE_TIMEOUT: %w", err)
		}
		c.API.Timeout = d
	}
	return nil
}

// Validate checks field constraints. Production deployments must also carry
// the shared secret the upstream API expects from server renders.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.IsProduction() && c.Mode == ModeServer && c.SharedSecret == "" {
		return fmt.Errorf("%w: DONATE_SHARED_SECRET is required in production server mode", ErrInvalid)
	}
	return nil
}

// IsProduction reports whether the environment tag is "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
