package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyForProvider(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test-key")

	key, err := APIKeyForProvider("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-test-key", key)
}

func TestAPIKeyForProvider_Missing(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := APIKeyForProvider("openai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestAPIKeyForProvider_EmptyProvider(t *testing.T) {
	_, err := APIKeyForProvider("")
	require.Error(t, err)
}
