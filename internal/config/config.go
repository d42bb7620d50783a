package config

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vnode/internal/errors"
)

// FileNames are the configuration files looked up by Load, in order.
var FileNames = []string{"vnode.yaml", "vnode.yml", "vnode.json"}

const (
	// DefaultPort is the default preview server port.
	DefaultPort = 3000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultPollInterval is how often the preview server checks the
	// document for changes.
	DefaultPollInterval = 300 * time.Millisecond

	// DefaultContentType is the content type used when publishing.
	DefaultContentType = "text/html; charset=utf-8"
)

// Config represents vnode.yaml / vnode.json.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Render controls how documents are turned into markup.
	Render RenderConfig `json:"render" yaml:"render"`

	// Dev contains preview server configuration.
	Dev DevConfig `json:"dev" yaml:"dev"`

	// Publish contains output configuration.
	Publish PublishConfig `json:"publish" yaml:"publish"`

	// Log configures structured logging.
	Log LogConfig `json:"log" yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RenderConfig controls rendering.
type RenderConfig struct {
	// Static selects RenderToStaticMarkup over RenderToString.
	Static bool `json:"static,omitempty" yaml:"static,omitempty"`

	// Page wraps the rendered document in a full HTML page.
	Page bool `json:"page,omitempty" yaml:"page,omitempty"`

	// Title is the page title when Page is set.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Lang is the html lang attribute when Page is set.
	Lang string `json:"lang,omitempty" yaml:"lang,omitempty"`

	StyleSheets []string `json:"styleSheets,omitempty" yaml:"styleSheets,omitempty"`
	Scripts     []string `json:"scripts,omitempty" yaml:"scripts,omitempty"`
}

// DevConfig contains preview server settings.
type DevConfig struct {
	// Port is the port to run the preview server on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// PollInterval is a Go duration string, e.g. "300ms".
	PollInterval string `json:"pollInterval,omitempty" yaml:"pollInterval,omitempty"`

	// HotReload injects the reload client and pushes reloads on change.
	HotReload *bool `json:"hotReload,omitempty" yaml:"hotReload,omitempty"`

	// Metrics exposes /metrics on the preview server.
	Metrics bool `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// PublishConfig contains output settings.
type PublishConfig struct {
	// Target is "-", a file path or s3://bucket/key.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	// Region is the AWS region for s3 targets.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (for S3-compatible stores).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	ContentType  string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	CacheControl string `json:"cacheControl,omitempty" yaml:"cacheControl,omitempty"`

	// History is a SQLite database recording every publish. Empty disables
	// the ledger.
	History string `json:"history,omitempty" yaml:"history,omitempty"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the first configuration file found in dir. A directory without
// one yields the defaults.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E102").Wrap(err).
			WithSuggestion("Check the path and file permissions of " + path)
	}

	cfg := &Config{}
	if isJSON(path) {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E100").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid JSON")
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, errors.New("E100").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid YAML and uses known keys")
		}
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// SaveTo writes the configuration to path in the format its extension names.
func (c *Config) SaveTo(path string) error {
	var data []byte
	var err error
	if isJSON(path) {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return errors.New("E100").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E102").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Render.Lang == "" {
		c.Render.Lang = "en"
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.PollInterval == "" {
		c.Dev.PollInterval = DefaultPollInterval.String()
	}
	if c.Dev.HotReload == nil {
		on := true
		c.Dev.HotReload = &on
	}
	if c.Publish.Target == "" {
		c.Publish.Target = "-"
	}
	if c.Publish.ContentType == "" {
		c.Publish.ContentType = DefaultContentType
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 1 || c.Dev.Port > 65535 {
		return c.invalid("dev.port", "Port must be between 1 and 65535, got "+strconv.Itoa(c.Dev.Port))
	}
	if d, err := time.ParseDuration(c.Dev.PollInterval); err != nil || d <= 0 {
		return c.invalid("dev.pollInterval", "pollInterval must be a positive duration such as \"300ms\"")
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return c.invalid("log.level", "level must be one of debug, info, warn, error")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return c.invalid("log.format", "format must be \"text\" or \"json\"")
	}
	return nil
}

func (c *Config) invalid(field, detail string) error {
	err := errors.New("E101").WithDetail(detail).WithSuggestion("Fix " + field)
	if c.configPath != "" {
		err.Location = &errors.Location{File: c.configPath}
	}
	return err
}

// DevAddress returns the listen address for the preview server.
func (c *Config) DevAddress() string {
	return net.JoinHostPort(c.Dev.Host, strconv.Itoa(c.Dev.Port))
}

// DevURL returns the preview server URL.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// PollInterval returns the parsed poll interval.
func (c *Config) PollInterval() time.Duration {
	d, err := time.ParseDuration(c.Dev.PollInterval)
	if err != nil || d <= 0 {
		return DefaultPollInterval
	}
	return d
}

// HotReload reports whether live reload is enabled.
func (c *Config) HotReload() bool {
	return c.Dev.HotReload == nil || *c.Dev.HotReload
}

// Logger builds a slog.Logger writing to w as configured.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// FindProjectRoot walks up from startDir to the first directory holding a
// configuration file. ok is false when none is found.
func FindProjectRoot(startDir string) (dir string, ok bool, err error) {
	dir, err = filepath.Abs(startDir)
	if err != nil {
		return "", false, err
	}
	for {
		for _, name := range FileNames {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, true, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
