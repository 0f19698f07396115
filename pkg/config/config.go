package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEndpointTemplate is instantiated with the operation name ("search" or "counts")
const DefaultEndpointTemplate = "https://api.twitter.com/2/tweets/%s/all"

// Config holds all configuration options for twsearch
type Config struct {
	// API access
	API APIConfig `yaml:"api" json:"api"`

	// Pagination behaviour
	Search SearchConfig `yaml:"search" json:"search"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Cursor checkpointing
	Checkpoint CheckpointConfig `yaml:"checkpoint" json:"checkpoint"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds the search API connection settings
type APIConfig struct {
	BearerToken      string            `yaml:"bearer_token" json:"bearer_token"`
	EndpointTemplate string            `yaml:"endpoint_template" json:"endpoint_template"`
	UserAgent        string            `yaml:"user_agent" json:"user_agent"`
	Timeout          time.Duration     `yaml:"timeout" json:"timeout"`
	ExtraHeaders     map[string]string `yaml:"extra_headers" json:"extra_headers"`
}

// SearchConfig holds pagination settings
type SearchConfig struct {
	// Interval is the pause between pages in seconds. Values below 1 disable the pause.
	Interval float64 `yaml:"interval" json:"interval"`
	// MaxResults is the page-size hint sent to the API
	MaxResults int `yaml:"max_results" json:"max_results"`
	// Limit stops the run once this many records were reported; 0 means no limit
	Limit int `yaml:"limit" json:"limit"`
	// ProgressInterval is the minimum time between two progress log lines
	ProgressInterval time.Duration `yaml:"progress_interval" json:"progress_interval"`
}

// OutputConfig holds output file configuration
type OutputConfig struct {
	File string `yaml:"file" json:"file"`
}

// CheckpointConfig holds cursor checkpoint configuration
type CheckpointConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Directory string `yaml:"directory" json:"directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"`
	File       string `yaml:"file" json:"file"`
	MaxSize    int    `yaml:"max_size" json:"max_size"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAge     int    `yaml:"max_age" json:"max_age"`
	Compress   bool   `yaml:"compress" json:"compress"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			EndpointTemplate: DefaultEndpointTemplate,
			UserAgent:        "twsearch/1.0",
			Timeout:          30 * time.Second,
			ExtraHeaders:     map[string]string{},
		},
		Search: SearchConfig{
			Interval:         1,
			MaxResults:       100,
			Limit:            0,
			ProgressInterval: 10 * time.Second,
		},
		Checkpoint: CheckpointConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "auto",
			File:       "",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   false,
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// BEARER_TOKEN is the historical name and wins over the prefixed one
	if token := os.Getenv("TWSEARCH_BEARER_TOKEN"); token != "" {
		c.API.BearerToken = token
	}
	if token := os.Getenv("BEARER_TOKEN"); token != "" {
		c.API.BearerToken = token
	}
	if endpoint := os.Getenv("TWSEARCH_ENDPOINT"); endpoint != "" {
		c.API.EndpointTemplate = endpoint
	}
	if userAgent := os.Getenv("TWSEARCH_USER_AGENT"); userAgent != "" {
		c.API.UserAgent = userAgent
	}

	if interval := os.Getenv("TWSEARCH_INTERVAL"); interval != "" {
		val, err := strconv.ParseFloat(interval, 64)
		if err != nil {
			return fmt.Errorf("invalid TWSEARCH_INTERVAL %q: %w", interval, err)
		}
		c.Search.Interval = val
	}

	if outputFile := os.Getenv("TWSEARCH_OUTPUT_FILE"); outputFile != "" {
		c.Output.File = outputFile
	}
	if dir := os.Getenv("TWSEARCH_CHECKPOINT_DIR"); dir != "" {
		c.Checkpoint.Directory = dir
	}

	if logLevel := os.Getenv("TWSEARCH_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("TWSEARCH_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".twsearch.yaml",
		".twsearch.yml",
		filepath.Join(home, ".config", "twsearch", "config.yaml"),
		filepath.Join(home, ".config", "twsearch", "config.yml"),
		filepath.Join(home, ".twsearch.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is usable.
// Interval, limit and max_results are deliberately left unchecked: a
// non-positive interval means "no pause" and counts mode ignores the rest.
func (c *Config) Validate() error {
	var errs []error

	if c.API.EndpointTemplate == "" {
		errs = append(errs, errors.New("endpoint template is required"))
	} else if strings.Count(c.API.EndpointTemplate, "%s") != 1 {
		errs = append(errs, errors.New("endpoint template must contain exactly one %s placeholder"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("API timeout must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "warning": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	validFormats := map[string]bool{"auto": true, "console": true, "json": true, "": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Errorf("invalid log format %q", c.Logging.Format))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map are applied.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if endpoint, ok := flags["endpoint"].(string); ok && endpoint != "" {
		c.API.EndpointTemplate = endpoint
	}
	if headers, ok := flags["extra-headers"].(map[string]string); ok {
		if c.API.ExtraHeaders == nil {
			c.API.ExtraHeaders = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			c.API.ExtraHeaders[k] = v
		}
	}
	if interval, ok := flags["interval"].(float64); ok {
		c.Search.Interval = interval
	}
	if maxResults, ok := flags["max-results"].(int); ok {
		c.Search.MaxResults = maxResults
	}
	if limit, ok := flags["limit"].(int); ok {
		c.Search.Limit = limit
	}
	if outputFile, ok := flags["output-file"].(string); ok && outputFile != "" {
		c.Output.File = outputFile
	}
	if enabled, ok := flags["checkpoint"].(bool); ok {
		c.Checkpoint.Enabled = enabled
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".twsearch.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
