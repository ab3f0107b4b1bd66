// Package config provides configuration management for the metadata
// aggregation service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the metadata aggregation service.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `mapstructure:"server"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
	// Aggregator contains result-set bounds for aggregated calls.
	Aggregator AggregatorConfig `mapstructure:"aggregator"`
	// Contact is the operator contact advertised to polite-pool APIs.
	Contact ContactConfig `mapstructure:"contact"`
	// Sources contains the per-source API configurations.
	Sources SourcesConfig `mapstructure:"sources"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	// Host is the address to bind the server to (default: 0.0.0.0).
	Host string `mapstructure:"host"`
	// HTTPPort is the HTTP server port (default: 8080).
	HTTPPort int `mapstructure:"http_port"`
	// MetricsPort is the metrics server port (default: 9091).
	MetricsPort int `mapstructure:"metrics_port"`
	// ReadTimeout is the maximum duration for reading request body.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing response.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr, file path).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and exposure.
	Enabled bool `mapstructure:"enabled"`
	// Path is the HTTP path for metrics endpoint.
	Path string `mapstructure:"path"`
	// Namespace is the metric name prefix.
	Namespace string `mapstructure:"namespace"`
}

// AggregatorConfig holds result-set bounds for aggregated calls.
type AggregatorConfig struct {
	// DefaultLimit is the result bound when a caller omits one.
	DefaultLimit int `mapstructure:"default_limit"`
	// MaxLimit caps the caller-supplied result bound.
	MaxLimit int `mapstructure:"max_limit"`
}

// ContactConfig identifies the operator to upstream APIs that ask for it.
type ContactConfig struct {
	// Email is sent as the mailto parameter to Crossref and OpenAlex and
	// as the email parameter to NCBI E-utilities.
	Email string `mapstructure:"email"`
}

// SourcesConfig holds configuration for all bibliographic source APIs.
type SourcesConfig struct {
	// Crossref contains Crossref REST API settings.
	Crossref SourceConfig `mapstructure:"crossref"`
	// OpenAlex contains OpenAlex API settings.
	OpenAlex SourceConfig `mapstructure:"openalex"`
	// SemanticScholar contains Semantic Scholar Graph API settings.
	SemanticScholar SourceConfig `mapstructure:"semantic_scholar"`
	// EuropePMC contains Europe PMC REST API settings.
	EuropePMC SourceConfig `mapstructure:"europepmc"`
	// PubMed contains NCBI E-utilities settings.
	PubMed PubMedConfig `mapstructure:"pubmed"`
	// PLOS contains PLOS Solr search API settings.
	PLOS SourceConfig `mapstructure:"plos"`
	// OSF contains OSF preprints API settings.
	OSF OSFConfig `mapstructure:"osf"`
	// DOAJ contains DOAJ articles API settings.
	DOAJ SourceConfig `mapstructure:"doaj"`
	// BioRxiv contains bioRxiv detail API settings.
	BioRxiv SourceConfig `mapstructure:"biorxiv"`
	// MedRxiv contains medRxiv detail API settings.
	MedRxiv SourceConfig `mapstructure:"medrxiv"`
}

// SourceConfig holds configuration for a single source API. Zero values
// for BaseURL, Timeout and MinInterval mean the source client's own
// defaults apply.
type SourceConfig struct {
	// Enabled controls whether this source is used.
	Enabled bool `mapstructure:"enabled"`
	// APIKey is the API key (loaded from an environment variable, e.g.
	// LITAGG_SOURCES_SEMANTIC_SCHOLAR_API_KEY).
	APIKey string `mapstructure:"-"`
	// BaseURL is the API base URL.
	BaseURL string `mapstructure:"base_url"`
	// Timeout is the per-request timeout.
	Timeout time.Duration `mapstructure:"timeout"`
	// MinInterval is the minimum spacing between requests to this source.
	MinInterval time.Duration `mapstructure:"min_interval"`
}

// PubMedConfig holds NCBI E-utilities settings.
type PubMedConfig struct {
	SourceConfig `mapstructure:",squash"`

	// Tool is the tool name reported to NCBI.
	Tool string `mapstructure:"tool"`
}

// OSFConfig holds OSF preprints settings.
type OSFConfig struct {
	SourceConfig `mapstructure:",squash"`

	// Provider is the preprint provider to filter on (default: psyarxiv).
	Provider string `mapstructure:"provider"`
}

// HTTPAddress returns the HTTP server address.
func (c *ServerConfig) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// MetricsAddress returns the metrics server address.
func (c *ServerConfig) MetricsAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.MetricsPort)
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("LITAGG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if present
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/metadata-aggregator")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Load secrets exclusively from environment variables.
	// These fields use mapstructure:"-" to prevent loading from config files.
	loadSecrets(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadSecrets populates secret fields exclusively from environment variables.
// These fields are tagged with mapstructure:"-" to prevent loading from config files.
func loadSecrets(cfg *Config) {
	cfg.Sources.SemanticScholar.APIKey = os.Getenv("LITAGG_SOURCES_SEMANTIC_SCHOLAR_API_KEY")
	cfg.Sources.PubMed.APIKey = os.Getenv("LITAGG_SOURCES_PUBMED_API_KEY")
	cfg.Sources.PLOS.APIKey = os.Getenv("LITAGG_SOURCES_PLOS_API_KEY")
	cfg.Sources.DOAJ.APIKey = os.Getenv("LITAGG_SOURCES_DOAJ_API_KEY")
}

// setDefaults sets default configuration values. Per-source base URLs,
// timeouts and pacing intervals are deliberately left at zero so the
// source clients apply their own defaults; keys exist here only so
// operators can override them.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.metrics_port", 9091)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "litagg")

	// Aggregator defaults
	v.SetDefault("aggregator.default_limit", 5)
	v.SetDefault("aggregator.max_limit", 50)

	// Contact defaults
	v.SetDefault("contact.email", "")

	// Source defaults. API keys are loaded exclusively from environment
	// variables (see loadSecrets).
	for _, name := range []string{
		"crossref", "openalex", "semantic_scholar", "europepmc",
		"pubmed", "plos", "osf", "doaj", "biorxiv", "medrxiv",
	} {
		v.SetDefault("sources."+name+".enabled", true)
		v.SetDefault("sources."+name+".base_url", "")
		v.SetDefault("sources."+name+".timeout", "0s")
		v.SetDefault("sources."+name+".min_interval", "0s")
	}
	v.SetDefault("sources.pubmed.tool", "")
	v.SetDefault("sources.osf.provider", "")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}
	if c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", c.Server.MetricsPort)
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Aggregator.DefaultLimit <= 0 {
		return fmt.Errorf("aggregator default_limit must be positive")
	}
	if c.Aggregator.MaxLimit < c.Aggregator.DefaultLimit {
		return fmt.Errorf("aggregator max_limit (%d) must be >= default_limit (%d)",
			c.Aggregator.MaxLimit, c.Aggregator.DefaultLimit)
	}

	if !c.anySourceEnabled() {
		return fmt.Errorf("at least one source must be enabled")
	}

	return nil
}

func (c *Config) anySourceEnabled() bool {
	enabled := []bool{
		c.Sources.Crossref.Enabled,
		c.Sources.OpenAlex.Enabled,
		c.Sources.SemanticScholar.Enabled,
		c.Sources.EuropePMC.Enabled,
		c.Sources.PubMed.Enabled,
		c.Sources.PLOS.Enabled,
		c.Sources.OSF.Enabled,
		c.Sources.DOAJ.Enabled,
		c.Sources.BioRxiv.Enabled,
		c.Sources.MedRxiv.Enabled,
	}
	for _, e := range enabled {
		if e {
			return true
		}
	}
	return false
}
