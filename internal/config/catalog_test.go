package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_LoadsEmbeddedProviders(t *testing.T) {
	providers, err := Catalog()
	require.NoError(t, err)
	require.NotEmpty(t, providers)

	names := make([]string, 0, len(providers))
	for _, provider := range providers {
		names = append(names, provider.Provider)
		assert.NotEmpty(t, provider.Models, "provider %s has no models", provider.Provider)
	}
	assert.Contains(t, names, "anthropic")
	assert.Contains(t, names, "openai")
	assert.Contains(t, names, "gemini")
}

func TestLookupModel(t *testing.T) {
	entry, provider, err := LookupModel("claude-3-haiku-20240307")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", provider)
	assert.Equal(t, "Claude 3 Haiku", entry.DisplayName)
	assert.Greater(t, entry.ContextWindow, 0)
}

func TestLookupModel_Unknown(t *testing.T) {
	_, _, err := LookupModel("no-such-model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in catalog")
}

func TestSupportedModels_ExcludesNothingByDefault(t *testing.T) {
	models := SupportedModels()
	require.NotEmpty(t, models)
	assert.Contains(t, models, DefaultModelID)
	assert.Contains(t, models, "gemini-1.5-pro")
}
