// Package config provides configuration management for the join pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"cfpipe/pkg/utils"
)

// Configuration validation errors.
var (
	ErrMissingFeedbackURL = errors.New("sources.feedback_url is required")
	ErrMissingCustomerURL = errors.New("sources.customer_url is required")
	ErrInvalidFeedbackURL = errors.New("sources.feedback_url must be an absolute http(s) URL")
	ErrInvalidCustomerURL = errors.New("sources.customer_url must be an absolute http(s) URL")
	ErrInvalidTimeout     = errors.New("http.timeout_seconds must be positive")
	ErrMissingOutputDir   = errors.New("output.dir is required")
	ErrMissingOutputCSV   = errors.New("output.csv is required")
	ErrInvalidLogLevel    = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Built-in defaults, matching the hosted sources the pipeline was built for.
const (
	DefaultFeedbackURL = "https://undsicdm3f.execute-api.us-east-2.amazonaws.com/prod/feedback"
	DefaultCustomerURL = "https://undsicdm3f.execute-api.us-east-2.amazonaws.com/prod/customers"

	DefaultTimeoutSeconds = 15.0
	DefaultOutputDir      = "output"
	DefaultOutputCSV      = "customer_feedback.csv"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Sources SourcesConfig `yaml:"sources"`
	HTTP    HTTPConfig    `yaml:"http"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourcesConfig holds the two dataset endpoints.
type SourcesConfig struct {
	FeedbackURL string `yaml:"feedback_url"`
	CustomerURL string `yaml:"customer_url"`
}

// HTTPConfig bounds the network calls. There is no retry policy.
type HTTPConfig struct {
	TimeoutSeconds float64 `yaml:"timeout_seconds"`
}

// OutputConfig defines where the CSV and diagnostics land.
type OutputConfig struct {
	Dir string `yaml:"dir"`
	CSV string `yaml:"csv"`
}

// LoggingConfig controls log detail only; it has no functional effect.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Sources: SourcesConfig{
			FeedbackURL: DefaultFeedbackURL,
			CustomerURL: DefaultCustomerURL,
		},
		HTTP:    HTTPConfig{TimeoutSeconds: DefaultTimeoutSeconds},
		Output:  OutputConfig{Dir: DefaultOutputDir, CSV: DefaultOutputCSV},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML configuration file over the defaults, so partial files
// only override what they mention.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays the environment variables the original deployment used.
// Unset variables leave the current values alone.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("FEEDBACK_URL"); v != "" {
		c.Sources.FeedbackURL = v
	}

	if v := os.Getenv("CUSTOMER_URL"); v != "" {
		c.Sources.CustomerURL = v
	}

	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			c.HTTP.TimeoutSeconds = secs
		}
	}

	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}

	if v := os.Getenv("OUTPUT_CSV"); v != "" {
		c.Output.CSV = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Timeout returns the HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds * float64(time.Second))
}

// Validate checks the configuration for completeness.
func (c *Config) Validate() error {
	httpHelper := utils.NewHTTPHelper()

	if c.Sources.FeedbackURL == "" {
		return ErrMissingFeedbackURL
	}

	if !httpHelper.IsValidURL(c.Sources.FeedbackURL) {
		return ErrInvalidFeedbackURL
	}

	if c.Sources.CustomerURL == "" {
		return ErrMissingCustomerURL
	}

	if !httpHelper.IsValidURL(c.Sources.CustomerURL) {
		return ErrInvalidCustomerURL
	}

	if c.HTTP.TimeoutSeconds <= 0 {
		return ErrInvalidTimeout
	}

	if c.Output.Dir == "" {
		return ErrMissingOutputDir
	}

	if c.Output.CSV == "" {
		return ErrMissingOutputCSV
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	return nil
}
