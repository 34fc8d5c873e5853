package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the server settings. Values are layered: defaults, then an
// optional YAML file, then BODYFIT_* environment variables. Command flags
// are applied on top by the caller.
type Config struct {
	Port           string        `yaml:"port"`
	AnalysisDelay  time.Duration `yaml:"analysis_delay"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	MaxUploadMB    int64         `yaml:"max_upload_mb"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
	ContentPath    string        `yaml:"content_path"`
	RejectFeedback bool          `yaml:"reject_feedback"`
}

func Default() Config {
	return Config{
		Port:          "8888",
		AnalysisDelay: 3 * time.Second,
		SessionTTL:    30 * time.Minute,
		MaxUploadMB:   10,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// MaxUploadBytes is the upload limit in bytes
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.AnalysisDelay < 0 {
		return fmt.Errorf("analysis_delay must not be negative")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log_format %q (text or json)", c.LogFormat)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("BODYFIT_PORT"); ok && v != "" {
		c.Port = v
	}
	if v, ok := lookup("BODYFIT_LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup("BODYFIT_LOG_FORMAT"); ok && v != "" {
		c.LogFormat = v
	}
	if v, ok := lookup("BODYFIT_CONTENT"); ok {
		c.ContentPath = v
	}

	if v, ok := lookup("BODYFIT_ANALYSIS_DELAY"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid BODYFIT_ANALYSIS_DELAY: %w", err)
		}
		c.AnalysisDelay = d
	}
	if v, ok := lookup("BODYFIT_SESSION_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid BODYFIT_SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}
	if v, ok := lookup("BODYFIT_MAX_UPLOAD_MB"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid BODYFIT_MAX_UPLOAD_MB: %w", err)
		}
		c.MaxUploadMB = n
	}
	if v, ok := lookup("BODYFIT_REJECT_FEEDBACK"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid BODYFIT_REJECT_FEEDBACK: %w", err)
		}
		c.RejectFeedback = b
	}
	return nil
}
