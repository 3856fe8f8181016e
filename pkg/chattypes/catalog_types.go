// Package chattypes defines the shared value types for claudechat.
// This file contains the embedded model catalog types.
package chattypes

// CatalogEntry represents a model entry in the embedded model catalog.
type CatalogEntry struct {
	// Name is the provider's model identifier (e.g., "claude-3-sonnet-20240229")
	Name string `yaml:"name" json:"name"`

	// DisplayName is a human-readable name for the model (e.g., "Claude 3 Sonnet")
	DisplayName string `yaml:"display_name" json:"display_name"`

	// Description provides a brief description of the model
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// ContextWindow is the maximum number of tokens the model can process
	ContextWindow int `yaml:"context_window" json:"context_window"`

	// Deprecated indicates the model should not be used for new sessions
	Deprecated bool `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
}

// CatalogProvider represents a provider's model catalog loaded from YAML.
type CatalogProvider struct {
	// Provider is the provider name (e.g., "anthropic", "openai", "gemini")
	Provider string `yaml:"provider" json:"provider"`

	// Models is the list of models available from this provider
	Models []CatalogEntry `yaml:"models" json:"models"`
}
