// Package config loads server settings from the process environment.
package config

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	DefaultAPIURL  = "https://api.bitbucket.org/2.0"
	DefaultTimeout = 30 * time.Second
	defaultAppEnv  = "bitbucket-mcp-dev"
)

// ErrMissingSetting is returned when a required environment variable is unset or empty.
var ErrMissingSetting = errors.New("missing required environment variable(s)")

// Config holds everything the server reads from the environment.
type Config struct {
	Username    string
	AppPassword string
	Workspace   string

	APIURL     string
	Timeout    time.Duration
	MaxRetries int

	LogLevel    string
	DatabaseURL string
	Loki        LokiConfig
}

// LokiConfig configures the optional Grafana Loki log sink.
type LokiConfig struct {
	URL      string
	Username string
	APIKey   string
	AppName  string
	Instance string
	Region   string
}

// Enabled reports whether all Loki credentials are present.
func (c LokiConfig) Enabled() bool {
	return c.URL != "" && c.Username != "" && c.APIKey != ""
}

// Load reads envFile (if it exists) and then the environment.
// Variables already set in the environment take precedence over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Username:    strings.TrimSpace(getenv("BITBUCKET_USERNAME")),
		AppPassword: getenv("BITBUCKET_APP_PASSWORD"),
		Workspace:   strings.TrimSpace(getenv("BITBUCKET_WORKSPACE")),
		APIURL:      strings.TrimRight(firstNonEmpty(getenv("BITBUCKET_API_URL"), DefaultAPIURL), "/"),
		Timeout:     DefaultTimeout,
		LogLevel:    firstNonEmpty(getenv("LOG_LEVEL"), "info"),
		DatabaseURL: getenv("DATABASE_URL"),
		Loki: LokiConfig{
			URL:      strings.TrimRight(getenv("GRAFANA_LOKI_URL"), "/"),
			Username: getenv("GRAFANA_LOKI_USER"),
			APIKey:   getenv("GRAFANA_LOKI_API_KEY"),
			AppName:  firstNonEmpty(getenv("APP_ENV"), defaultAppEnv),
			Instance: firstNonEmpty(getenv("INSTANCE_ID"), "local"),
			Region:   firstNonEmpty(getenv("INSTANCE_REGION"), "local"),
		},
	}

	if cast.ToBool(getenv("DEBUG")) {
		cfg.LogLevel = "debug"
	}

	if v := getenv("BITBUCKET_TIMEOUT"); v != "" {
		d, err := parseTimeout(v)
		if err != nil || d <= 0 {
			return nil, errors.Errorf("BITBUCKET_TIMEOUT: invalid duration %q", v)
		}
		cfg.Timeout = d
	}

	if v := getenv("BITBUCKET_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return nil, errors.Errorf("BITBUCKET_MAX_RETRIES: invalid retry count %q", v)
		}
		cfg.MaxRetries = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the three Bitbucket credentials are present.
func (c *Config) Validate() error {
	var missing []string
	if c.Username == "" {
		missing = append(missing, "BITBUCKET_USERNAME")
	}
	if c.AppPassword == "" {
		missing = append(missing, "BITBUCKET_APP_PASSWORD")
	}
	if c.Workspace == "" {
		missing = append(missing, "BITBUCKET_WORKSPACE")
	}
	if len(missing) > 0 {
		return errors.Wrap(ErrMissingSetting, strings.Join(missing, ", "))
	}
	return nil
}

// parseTimeout reads a Go duration ("45s", "1m30s"); a bare number is taken as seconds.
func parseTimeout(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) || secs > math.MaxInt64/float64(time.Second) {
			return 0, errors.Errorf("timeout %q out of range", v)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	return cast.ToDurationE(v)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
