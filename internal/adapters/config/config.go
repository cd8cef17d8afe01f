// Package config loads the tabworker configuration from a YAML file and the environment.
package config

import (
	"errors"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendS3     = "s3"
	BackendMemory = "memory"
)

const (
	// DefaultPath is the config file read when TABWORKER_CONFIG is unset.
	DefaultPath = "tabworker.yaml"

	// EnvConfigPath names the environment variable overriding DefaultPath.
	EnvConfigPath = "TABWORKER_CONFIG"

	maxPageSize = 1000
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Config is the complete tabworker configuration.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Browser   BrowserConfig   `yaml:"browser"`
	Manifests ManifestsConfig `yaml:"manifests"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// StorageConfig configures the BlobStore.
type StorageConfig struct {
	Backend   string `yaml:"backend"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
	// ObjectURLBase prefixes the redirect locations of routed assets.
	ObjectURLBase string `yaml:"objectURLBase"`
	PageSize      int    `yaml:"pageSize"`
}

// BrowserConfig configures the BrowserDriver.
type BrowserConfig struct {
	// RemoteURL is the DevTools websocket of an already running browser.
	// When empty, a local browser is started from ExecPath.
	RemoteURL  string   `yaml:"remoteURL"`
	ExecPath   string   `yaml:"execPath"`
	Headless   bool     `yaml:"headless"`
	Entrypoint string   `yaml:"entrypoint"`
	Flags      []string `yaml:"flags"`
}

// ManifestsConfig configures the manifest hit cache.
type ManifestsConfig struct {
	CacheSize int           `yaml:"cacheSize"`
	CacheTTL  time.Duration `yaml:"cacheTTL"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	JSON bool `yaml:"json"`
}

// TelemetryConfig configures tracing.
type TelemetryConfig struct {
	Stdout bool `yaml:"stdout"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:       BackendS3,
			Endpoint:      "s3.us-west-2.amazonaws.com",
			Region:        "us-west-2",
			UseSSL:        true,
			ObjectURLBase: "https://s3-us-west-2.amazonaws.com",
			PageSize:      maxPageSize,
		},
		Browser: BrowserConfig{
			Headless:   true,
			Entrypoint: "setTest",
		},
		Manifests: ManifestsConfig{
			CacheSize: 128,
			CacheTTL:  5 * time.Minute,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// LoadFromEnv loads .env, then the file named by TABWORKER_CONFIG (or DefaultPath).
func LoadFromEnv() (*Config, error) {
	_ = godotenv.Load()

	path := strings.TrimSpace(os.Getenv(EnvConfigPath))
	if path == "" {
		path = DefaultPath
	}
	return Load(path)
}

// Load reads the YAML file at path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by the operator
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), domain.MetaPath, path)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), domain.MetaPath, path)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendS3:
		if strings.TrimSpace(c.Storage.Endpoint) == "" {
			return invalid("storage.endpoint", "is required for the s3 backend")
		}
	case BackendMemory:
	default:
		return zerr.With(zerr.Wrap(domain.ErrUnknownBackend, "unsupported backend"), "backend", c.Storage.Backend)
	}
	if c.Storage.PageSize <= 0 || c.Storage.PageSize > maxPageSize {
		return invalid("storage.pageSize", "must be between 1 and 1000")
	}
	if strings.TrimSpace(c.Storage.ObjectURLBase) == "" {
		return invalid("storage.objectURLBase", "is required")
	}
	if !identifierRe.MatchString(c.Browser.Entrypoint) {
		return invalid("browser.entrypoint", "must be a JavaScript identifier")
	}
	if c.Manifests.CacheSize <= 0 {
		return invalid("manifests.cacheSize", "must be positive")
	}
	if c.Manifests.CacheTTL < 0 {
		return invalid("manifests.cacheTTL", "must not be negative")
	}
	return nil
}

func invalid(field, reason string) error {
	return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, field+" "+reason), "field", field)
}

type lookupFunc func(key string) (string, bool)

// applyEnv overlays the TABWORKER_* environment variables onto cfg.
func applyEnv(cfg *Config, lookup lookupFunc) error {
	strs := map[string]*string{
		"TABWORKER_STORAGE_BACKEND": &cfg.Storage.Backend,
		"TABWORKER_S3_ENDPOINT":     &cfg.Storage.Endpoint,
		"TABWORKER_S3_REGION":       &cfg.Storage.Region,
		"TABWORKER_S3_ACCESS_KEY":   &cfg.Storage.AccessKey,
		"TABWORKER_S3_SECRET_KEY":   &cfg.Storage.SecretKey,
		"TABWORKER_OBJECT_URL_BASE": &cfg.Storage.ObjectURLBase,
		"TABWORKER_BROWSER_URL":     &cfg.Browser.RemoteURL,
		"TABWORKER_CHROME_PATH":     &cfg.Browser.ExecPath,
		"TABWORKER_ADDR":            &cfg.Server.Addr,
	}
	for key, target := range strs {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*target = strings.TrimSpace(v)
		}
	}

	bools := map[string]*bool{
		"TABWORKER_S3_USE_SSL":   &cfg.Storage.UseSSL,
		"TABWORKER_HEADLESS":     &cfg.Browser.Headless,
		"TABWORKER_LOG_JSON":     &cfg.Logging.JSON,
		"TABWORKER_TRACE_STDOUT": &cfg.Telemetry.Stdout,
	}
	for key, target := range bools {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "not a boolean"), "env", key)
		}
		*target = parsed
	}
	return nil
}
