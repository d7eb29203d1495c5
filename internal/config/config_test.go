// File: internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestDefaultsProduceValidConfig(t *testing.T) {
	cfg, err := NewConfigFromViper(newDefaultViper())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:1234/v1/chat/completions", cfg.Model.Endpoint)
	assert.Equal(t, "qwen3-vl-8b-instruct", cfg.Model.Name)
	assert.Equal(t, 240*time.Second, cfg.Model.Timeout)
	assert.InDelta(t, 0.6, cfg.Model.Temperature, 1e-9)
	assert.Equal(t, 2048, cfg.Model.MaxTokens)

	assert.Equal(t, 1536, cfg.Capture.TargetWidth)
	assert.Equal(t, 864, cfg.Capture.TargetHeight)
	assert.Equal(t, "dumps", cfg.Capture.DumpDir)
	assert.Equal(t, "screen_", cfg.Capture.DumpPrefix)
	assert.Equal(t, 1, cfg.Capture.DumpStart)

	assert.Equal(t, 10, cfg.Agent.MaxSteps)
	assert.Equal(t, 400*time.Millisecond, cfg.Agent.StepDelay)
	assert.Equal(t, 2, cfg.Agent.KeepScreenshots)
	assert.Equal(t, 2, cfg.Agent.KeepThinks)

	assert.Regexp(t, `^deskpilot_run_\d{8}_\d{6}\.log$`, cfg.Agent.ExchangeLog)
}

func TestExchangeLogCanBeDisabled(t *testing.T) {
	v := newDefaultViper()
	v.Set("agent.exchange_log", "")

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Empty(t, cfg.Agent.ExchangeLog)
}

func TestOverridesAreRespected(t *testing.T) {
	v := newDefaultViper()
	v.Set("model.endpoint", "http://10.0.0.5:8080/v1/chat/completions")
	v.Set("agent.max_steps", 25)
	v.Set("browser.headless", true)

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:8080/v1/chat/completions", cfg.Model.Endpoint)
	assert.Equal(t, 25, cfg.Agent.MaxSteps)
	assert.True(t, cfg.Browser.Headless)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"bad endpoint", "model.endpoint", "not a url"},
		{"empty model name", "model.name", ""},
		{"zero timeout", "model.timeout", "0s"},
		{"zero max tokens", "model.max_tokens", 0},
		{"zero target width", "capture.target_width", 0},
		{"negative dump start", "capture.dump_start", -1},
		{"zero max steps", "agent.max_steps", 0},
		{"negative step delay", "agent.step_delay", "-1s"},
		{"zero screenshot retention", "agent.keep_screenshots", 0},
		{"negative think retention", "agent.keep_thinks", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newDefaultViper()
			v.Set(tt.key, tt.value)
			_, err := NewConfigFromViper(v)
			assert.Error(t, err)
		})
	}
}
