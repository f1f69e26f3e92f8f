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

const (
	// DefaultBaseURL is the site serving both the listing pages and the audio
	DefaultBaseURL = "http://hypem.com"

	// DefaultUsername is the listing scraped when no username is given
	DefaultUsername = "popular"

	// DefaultOutputDirectory is where tracks are written when no directory is given
	DefaultOutputDirectory = "mp3s"

	// DefaultMaxPages is the number of listing pages walked by default
	DefaultMaxPages = 1
)

// Config holds all configuration options for hypedump
type Config struct {
	// Remote site settings
	Site SiteConfig `yaml:"site" json:"site"`

	// What to scrape
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SiteConfig holds the remote endpoints and HTTP client settings.
// An empty ServeBaseURL means audio is served from BaseURL.
type SiteConfig struct {
	BaseURL      string        `yaml:"base_url" json:"base_url"`
	ServeBaseURL string        `yaml:"serve_base_url,omitempty" json:"serve_base_url,omitempty"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
}

// ScrapeConfig selects the listing to walk. MaxPages of 0 means every page.
type ScrapeConfig struct {
	Username string `yaml:"username" json:"username"`
	MaxPages int    `yaml:"max_pages" json:"max_pages"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	File    string `yaml:"file" json:"file"`
	NoColor bool   `yaml:"no_color" json:"no_color"`
}

// AudioBaseURL returns the base URL audio is requested from
func (s *SiteConfig) AudioBaseURL() string {
	if s.ServeBaseURL != "" {
		return s.ServeBaseURL
	}
	return s.BaseURL
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL:   DefaultBaseURL,
			UserAgent: "hypedump/1.0",
			Timeout:   0, // no timeout
		},
		Scrape: ScrapeConfig{
			Username: DefaultUsername,
			MaxPages: DefaultMaxPages,
		},
		Output: OutputConfig{
			Directory: DefaultOutputDirectory,
		},
		Logging: LoggingConfig{
			Level: "error",
		},
	}
}

// LoadFromEnv loads configuration from HYPEDUMP_* environment variables
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("HYPEDUMP_BASE_URL"); baseURL != "" {
		c.Site.BaseURL = baseURL
	}
	if serveURL := os.Getenv("HYPEDUMP_SERVE_BASE_URL"); serveURL != "" {
		c.Site.ServeBaseURL = serveURL
	}
	if userAgent := os.Getenv("HYPEDUMP_USER_AGENT"); userAgent != "" {
		c.Site.UserAgent = userAgent
	}
	if timeout := os.Getenv("HYPEDUMP_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid HYPEDUMP_TIMEOUT: %w", err)
		}
		c.Site.Timeout = d
	}

	if username := os.Getenv("HYPEDUMP_USERNAME"); username != "" {
		c.Scrape.Username = username
	}
	if maxPages := os.Getenv("HYPEDUMP_MAX_PAGES"); maxPages != "" {
		val, err := strconv.Atoi(maxPages)
		if err != nil {
			return fmt.Errorf("invalid HYPEDUMP_MAX_PAGES: %w", err)
		}
		c.Scrape.MaxPages = val
	}

	if outputDir := os.Getenv("HYPEDUMP_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}

	if logLevel := os.Getenv("HYPEDUMP_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("HYPEDUMP_LOG_FILE"); logFile != "" {
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
			return nil // No config file found, not an error
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
		".hypedump.yaml",
		".hypedump.yml",
		filepath.Join(home, ".config", "hypedump", "config.yaml"),
		filepath.Join(home, ".config", "hypedump", "config.yml"),
		filepath.Join(home, ".hypedump.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Site.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	}
	if c.Site.Timeout < 0 {
		errs = append(errs, errors.New("timeout cannot be negative"))
	}

	if strings.TrimSpace(c.Scrape.Username) == "" {
		errs = append(errs, errors.New("username is required"))
	}
	if c.Scrape.MaxPages < 0 {
		errs = append(errs, errors.New("max pages cannot be negative"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
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

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map override; the CLI adds a key when the user
// changed the corresponding flag.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if username, ok := flags["username"].(string); ok && username != "" {
		c.Scrape.Username = username
	}
	if maxPages, ok := flags["max-pages"].(int); ok {
		c.Scrape.MaxPages = maxPages
	}
	if outputDir, ok := flags["output-directory"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if userAgent, ok := flags["user-agent"].(string); ok && userAgent != "" {
		c.Site.UserAgent = userAgent
	}
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.Site.BaseURL = baseURL
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if noColor, ok := flags["no-color"].(bool); ok {
		c.Logging.NoColor = noColor
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".hypedump.env"))

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
