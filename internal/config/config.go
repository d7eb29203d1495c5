// File: internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Model   ModelConfig   `mapstructure:"model" yaml:"model"`
	Capture CaptureConfig `mapstructure:"capture" yaml:"capture"`
	Agent   AgentConfig   `mapstructure:"agent" yaml:"agent"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
}

// LoggerConfig controls the global zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// ModelConfig points the agent at an OpenAI-compatible chat completion
// endpoint.
type ModelConfig struct {
	Endpoint    string        `mapstructure:"endpoint" yaml:"endpoint"`
	Name        string        `mapstructure:"name" yaml:"name"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Temperature float64       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// CaptureConfig controls screenshot encoding and the on-disk dump.
type CaptureConfig struct {
	TargetWidth  int    `mapstructure:"target_width" yaml:"target_width"`
	TargetHeight int    `mapstructure:"target_height" yaml:"target_height"`
	DumpDir      string `mapstructure:"dump_dir" yaml:"dump_dir"`
	DumpPrefix   string `mapstructure:"dump_prefix" yaml:"dump_prefix"`
	DumpStart    int    `mapstructure:"dump_start" yaml:"dump_start"`
}

// AgentConfig bounds the control loop.
type AgentConfig struct {
	MaxSteps        int           `mapstructure:"max_steps" yaml:"max_steps"`
	StepDelay       time.Duration `mapstructure:"step_delay" yaml:"step_delay"`
	KeepScreenshots int           `mapstructure:"keep_screenshots" yaml:"keep_screenshots"`
	KeepThinks      int           `mapstructure:"keep_thinks" yaml:"keep_thinks"`
	ExchangeLog     string        `mapstructure:"exchange_log" yaml:"exchange_log"`
}

// BrowserConfig controls the Chrome instance the driver attaches to.
type BrowserConfig struct {
	Headless bool     `mapstructure:"headless" yaml:"headless"`
	StartURL string   `mapstructure:"start_url" yaml:"start_url"`
	ExecArgs []string `mapstructure:"exec_args" yaml:"exec_args"`
}

// SetDefaults establishes the default values for the application.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "deskpilot")
	v.SetDefault("logger.log_file", "deskpilot.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Model --
	v.SetDefault("model.endpoint", "http://localhost:1234/v1/chat/completions")
	v.SetDefault("model.name", "qwen3-vl-8b-instruct")
	v.SetDefault("model.timeout", "240s")
	v.SetDefault("model.temperature", 0.6)
	v.SetDefault("model.max_tokens", 2048)

	// -- Capture --
	v.SetDefault("capture.target_width", 1536)
	v.SetDefault("capture.target_height", 864)
	v.SetDefault("capture.dump_dir", "dumps")
	v.SetDefault("capture.dump_prefix", "screen_")
	v.SetDefault("capture.dump_start", 1)

	// -- Agent --
	v.SetDefault("agent.max_steps", 10)
	v.SetDefault("agent.step_delay", "400ms")
	v.SetDefault("agent.keep_screenshots", 2)
	v.SetDefault("agent.keep_thinks", 2)
	// One exchange log per run; set agent.exchange_log to "" to disable.
	v.SetDefault("agent.exchange_log",
		fmt.Sprintf("deskpilot_run_%s.log", time.Now().Format("20060102_150405")))

	// -- Browser --
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.start_url", "")
	v.SetDefault("browser.exec_args", []string{})
}

// NewConfigFromViper unmarshals and validates the effective configuration.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.Model.Endpoint); err != nil {
		return fmt.Errorf("model.endpoint is not a valid URL: %w", err)
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model.name is a required configuration field")
	}
	if c.Model.Timeout <= 0 {
		return fmt.Errorf("model.timeout must be a positive duration")
	}
	if c.Model.MaxTokens <= 0 {
		return fmt.Errorf("model.max_tokens must be a positive integer")
	}
	if c.Capture.TargetWidth <= 0 || c.Capture.TargetHeight <= 0 {
		return fmt.Errorf("capture.target_width and capture.target_height must be positive")
	}
	if c.Capture.DumpStart < 0 {
		return fmt.Errorf("capture.dump_start must not be negative")
	}
	if c.Agent.MaxSteps <= 0 {
		return fmt.Errorf("agent.max_steps must be a positive integer")
	}
	if c.Agent.StepDelay < 0 {
		return fmt.Errorf("agent.step_delay must not be negative")
	}
	if c.Agent.KeepScreenshots < 1 {
		return fmt.Errorf("agent.keep_screenshots must be at least 1")
	}
	if c.Agent.KeepThinks < 0 {
		return fmt.Errorf("agent.keep_thinks must not be negative")
	}
	return nil
}
