// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Engine    EngineConfig    `mapstructure:"engine" yaml:"engine"`
	Backends  BackendsConfig  `mapstructure:"backends" yaml:"backends"`
	Reasoning ReasoningConfig `mapstructure:"reasoning" yaml:"reasoning"`
	Ingest    IngestConfig    `mapstructure:"ingest" yaml:"ingest"`
}

// LoggerConfig controls the global zap logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"` // "console" or "json"
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"` // Megabytes before rotation.
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"` // Days.
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for console log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// EngineConfig controls the generation engine and its response gate. The
// sampling parameters are deliberately fixed here rather than exposed per
// request; the fallback chain depends on attempts being comparable.
type EngineConfig struct {
	Temperature       float64       `mapstructure:"temperature" yaml:"temperature"`
	MaxOutputTokens   int           `mapstructure:"max_output_tokens" yaml:"max_output_tokens"`
	MinQualityLength  int           `mapstructure:"min_quality_length" yaml:"min_quality_length"`   // Trimmed length below this fails the quality gate.
	RefusalScanWindow int           `mapstructure:"refusal_scan_window" yaml:"refusal_scan_window"` // Refusal phrases only match within this prefix.
	InitTimeout       time.Duration `mapstructure:"init_timeout" yaml:"init_timeout"`
	GenerateTimeout   time.Duration `mapstructure:"generate_timeout" yaml:"generate_timeout"`
}

// BackendsConfig groups per-substrate connection settings.
type BackendsConfig struct {
	Ollama OllamaConfig `mapstructure:"ollama" yaml:"ollama"`
	Gemini GeminiConfig `mapstructure:"gemini" yaml:"gemini"`
}

// OllamaConfig points the local-model adapter at an Ollama daemon.
type OllamaConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
}

// GeminiConfig configures the hosted Gemini adapter. The API key is bound to
// the GEMINI_API_KEY environment variable, never stored in the config file.
type GeminiConfig struct {
	APIKey            string  `mapstructure:"api_key" yaml:"-"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `mapstructure:"burst" yaml:"burst"`
}

// ReasoningConfig tunes the heuristic analyzers.
type ReasoningConfig struct {
	LargeRepoThreshold int `mapstructure:"large_repo_threshold" yaml:"large_repo_threshold"` // File count above which the macro view applies.
}

// IngestConfig controls repository snapshot building.
type IngestConfig struct {
	MaxFileSize int64    `mapstructure:"max_file_size" yaml:"max_file_size"` // Bytes; larger files keep their tree entry but drop content.
	SkipDirs    []string `mapstructure:"skip_dirs" yaml:"skip_dirs"`
	CloneDepth  int      `mapstructure:"clone_depth" yaml:"clone_depth"` // Shallow clone depth for remote repositories.
}

// NewDefaultConfig creates a configuration struct populated with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with the defaults below, but fail loudly if it does.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "repomind")
	v.SetDefault("logger.log_file", "repomind.log")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Engine --
	v.SetDefault("engine.temperature", 0.2)
	v.SetDefault("engine.max_output_tokens", 2048)
	v.SetDefault("engine.min_quality_length", 10)
	v.SetDefault("engine.refusal_scan_window", 100)
	v.SetDefault("engine.init_timeout", "2m")
	v.SetDefault("engine.generate_timeout", "90s")

	// -- Backends --
	v.SetDefault("backends.ollama.host", "http://localhost:11434")
	v.SetDefault("backends.gemini.requests_per_second", 1.0)
	v.SetDefault("backends.gemini.burst", 2)

	// -- Reasoning --
	v.SetDefault("reasoning.large_repo_threshold", 100)

	// -- Ingest --
	v.SetDefault("ingest.max_file_size", 256*1024)
	v.SetDefault("ingest.skip_dirs", []string{".git", "node_modules", "vendor", "dist", "build", "target", "__pycache__"})
	v.SetDefault("ingest.clone_depth", 1)
}

// NewConfigFromViper creates a validated configuration from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Bind environment variables for sensitive data.
	v.BindEnv("backends.gemini.api_key", "GEMINI_API_KEY")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Fall back to the raw environment if Unmarshal did not pick the key up.
	if cfg.Backends.Gemini.APIKey == "" {
		cfg.Backends.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Engine.Temperature < 0 || c.Engine.Temperature > 2 {
		return fmt.Errorf("engine.temperature must be in [0, 2]")
	}
	if c.Engine.MaxOutputTokens <= 0 {
		return fmt.Errorf("engine.max_output_tokens must be a positive integer")
	}
	if c.Engine.MinQualityLength < 0 {
		return fmt.Errorf("engine.min_quality_length must not be negative")
	}
	if c.Engine.RefusalScanWindow <= 0 {
		return fmt.Errorf("engine.refusal_scan_window must be a positive integer")
	}
	if c.Reasoning.LargeRepoThreshold <= 0 {
		return fmt.Errorf("reasoning.large_repo_threshold must be a positive integer")
	}
	if c.Ingest.MaxFileSize <= 0 {
		return fmt.Errorf("ingest.max_file_size must be a positive integer")
	}
	return nil
}

// DefaultConfigDir returns the per-user configuration directory
// (~/.repomind). Used as a secondary config search path.
func DefaultConfigDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".repomind"), nil
}
