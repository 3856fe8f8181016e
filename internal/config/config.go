// Package config provides the validated generation configuration for
// claudechat sessions, backed by an embedded model catalog.
package config

import (
	"fmt"

	"claudechat/pkg/chattypes"
)

// Bounds for generation parameters. Out-of-range values are rejected at
// construction rather than clamped.
const (
	MinTemperature = 0.0
	MaxTemperature = 1.0
	MinMaxTokens   = 100
	MaxMaxTokens   = 4000
)

// Default generation parameters for new sessions.
const (
	DefaultModelID      = "claude-3-sonnet-20240229"
	DefaultTemperature  = 0.7
	DefaultMaxTokens    = 1000
	DefaultSystemPrompt = "You are a helpful AI assistant. You are knowledgeable, friendly, " +
		"and aim to provide accurate and helpful responses. You can engage in " +
		"conversations on a wide variety of topics."
)

// Config holds the validated generation parameters for a session. It is an
// immutable value object: reconfiguration produces a new Config via
// WithOverrides, never in-place mutation.
type Config struct {
	// ModelID is the catalog identifier of the model to use.
	ModelID string `json:"model_id"`

	// Temperature controls sampling randomness, in [0.0, 1.0].
	Temperature float64 `json:"temperature"`

	// MaxTokens caps the response length, in [100, 4000].
	MaxTokens int `json:"max_tokens"`

	// SystemPrompt is the model's behavioral instruction. May be empty. It is
	// re-applied from the active Config on every request rather than stored
	// in history.
	SystemPrompt string `json:"system_prompt"`

	// HistoryWindow bounds how many trailing messages are sent per request.
	// 0 sends the full history.
	HistoryWindow int `json:"history_window"`
}

// Overrides selects Config fields to replace. Nil fields keep the current
// value.
type Overrides struct {
	ModelID       *string
	Temperature   *float64
	MaxTokens     *int
	SystemPrompt  *string
	HistoryWindow *int
}

// New creates a validated Config. Invalid values fail with a classified
// invalid-configuration error naming the offending field and constraint.
func New(modelID string, temperature float64, maxTokens int, systemPrompt string) (Config, error) {
	cfg := Config{
		ModelID:      modelID,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
		SystemPrompt: systemPrompt,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when the caller supplies nothing.
func Default() Config {
	return Config{
		ModelID:      DefaultModelID,
		Temperature:  DefaultTemperature,
		MaxTokens:    DefaultMaxTokens,
		SystemPrompt: DefaultSystemPrompt,
	}
}

// WithOverrides returns a new Config with the given fields replaced and the
// whole result re-validated. The receiver is never mutated.
func (c Config) WithOverrides(o Overrides) (Config, error) {
	next := c
	if o.ModelID != nil {
		next.ModelID = *o.ModelID
	}
	if o.Temperature != nil {
		next.Temperature = *o.Temperature
	}
	if o.MaxTokens != nil {
		next.MaxTokens = *o.MaxTokens
	}
	if o.SystemPrompt != nil {
		next.SystemPrompt = *o.SystemPrompt
	}
	if o.HistoryWindow != nil {
		next.HistoryWindow = *o.HistoryWindow
	}

	if err := next.Validate(); err != nil {
		return Config{}, err
	}
	return next, nil
}

// Validate checks every field against its constraint. It is also used by the
// session to re-check externally constructed values before accepting them.
func (c Config) Validate() error {
	if c.ModelID == "" {
		return chattypes.NewError(chattypes.ErrInvalidConfiguration,
			"model_id must not be empty")
	}
	if _, _, err := LookupModel(c.ModelID); err != nil {
		return &chattypes.Error{
			Kind:    chattypes.ErrInvalidConfiguration,
			Message: fmt.Sprintf("model_id '%s' is not a supported model", c.ModelID),
			Cause:   err,
		}
	}
	if c.Temperature < MinTemperature || c.Temperature > MaxTemperature {
		return chattypes.NewError(chattypes.ErrInvalidConfiguration,
			fmt.Sprintf("temperature %g out of range [%g, %g]", c.Temperature, MinTemperature, MaxTemperature))
	}
	if c.MaxTokens < MinMaxTokens || c.MaxTokens > MaxMaxTokens {
		return chattypes.NewError(chattypes.ErrInvalidConfiguration,
			fmt.Sprintf("max_tokens %d out of range [%d, %d]", c.MaxTokens, MinMaxTokens, MaxMaxTokens))
	}
	if c.HistoryWindow < 0 {
		return chattypes.NewError(chattypes.ErrInvalidConfiguration,
			fmt.Sprintf("history_window %d must be >= 0", c.HistoryWindow))
	}
	return nil
}

// Provider returns the catalog provider serving this Config's model.
func (c Config) Provider() (string, error) {
	return ProviderForModel(c.ModelID)
}
