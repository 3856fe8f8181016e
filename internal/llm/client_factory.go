package llm

import (
	"fmt"
	"sync"

	"claudechat/internal/config"
	"claudechat/internal/logger"
	"claudechat/pkg/chattypes"
)

// ClientFactory manages the creation and caching of LLM clients. Clients
// are cached per provider and API key so repeated sessions against the same
// provider reuse one client.
type ClientFactory struct {
	clients map[string]chattypes.LLMClient
	mutex   sync.RWMutex
}

// NewClientFactory creates an empty client factory.
func NewClientFactory() *ClientFactory {
	return &ClientFactory{
		clients: make(map[string]chattypes.LLMClient),
	}
}

// GetClientForProvider returns an LLM client for the specified provider and
// API key, creating and caching one if needed.
func (f *ClientFactory) GetClientForProvider(provider, apiKey string) (chattypes.LLMClient, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key cannot be empty for provider '%s'", provider)
	}

	cacheKey := fmt.Sprintf("%s:%s", provider, apiKey)

	f.mutex.RLock()
	if client, exists := f.clients[cacheKey]; exists {
		f.mutex.RUnlock()
		logger.Debug("Returning cached provider client", "provider", provider)
		return client, nil
	}
	f.mutex.RUnlock()

	f.mutex.Lock()
	defer f.mutex.Unlock()

	// Double-check pattern
	if client, exists := f.clients[cacheKey]; exists {
		return client, nil
	}

	var client chattypes.LLMClient
	switch provider {
	case "anthropic":
		client = NewAnthropicClient(apiKey)
	case "openai":
		client = NewOpenAIClient(apiKey)
	case "gemini":
		client = NewGeminiClient(apiKey)
	default:
		return nil, fmt.Errorf("unsupported provider '%s'. Supported providers: anthropic, openai, gemini", provider)
	}

	f.clients[cacheKey] = client
	logger.Debug("Created new provider client", "provider", provider)
	return client, nil
}

// GetClientForModel resolves the catalog provider for the given model,
// looks up the provider's API key from the environment, and returns the
// matching client.
func (f *ClientFactory) GetClientForModel(modelID string) (chattypes.LLMClient, error) {
	provider, err := config.ProviderForModel(modelID)
	if err != nil {
		return nil, err
	}

	apiKey, err := config.APIKeyForProvider(provider)
	if err != nil {
		return nil, err
	}

	return f.GetClientForProvider(provider, apiKey)
}

// CachedClientCount returns the number of cached clients.
func (f *ClientFactory) CachedClientCount() int {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return len(f.clients)
}

// ClearCache removes all cached clients.
func (f *ClientFactory) ClearCache() {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.clients = make(map[string]chattypes.LLMClient)
	logger.Debug("Client cache cleared")
}
