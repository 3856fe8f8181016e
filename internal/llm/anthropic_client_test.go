package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"claudechat/pkg/chattypes"
)

func testMessages() []chattypes.Message {
	now := time.Now()
	return []chattypes.Message{
		{ID: "1", Role: chattypes.RoleUser, Content: "Hello", Sequence: 0, Timestamp: now},
		{ID: "2", Role: chattypes.RoleAssistant, Content: "Hi!", Sequence: 1, Timestamp: now},
		{ID: "3", Role: chattypes.RoleSystem, Content: "Stay formal.", Sequence: 2, Timestamp: now},
		{ID: "4", Role: chattypes.RoleUser, Content: "How are you?", Sequence: 3, Timestamp: now},
	}
}

func TestAnthropicClient_Configuration(t *testing.T) {
	client := NewAnthropicClient("sk-ant-test")
	assert.Equal(t, "anthropic", client.ProviderName())
	assert.True(t, client.IsConfigured())

	empty := NewAnthropicClient("")
	assert.False(t, empty.IsConfigured())
}

func TestAnthropicClient_ConvertMessages(t *testing.T) {
	client := NewAnthropicClient("sk-ant-test")

	messages, systemInstructions := client.convertMessages(testMessages())

	// System turns are hoisted out of the message array.
	assert.Len(t, messages, 3)
	assert.Equal(t, "Stay formal.", systemInstructions)
}

func TestAnthropicClient_ConvertMessages_MultipleSystemTurns(t *testing.T) {
	client := NewAnthropicClient("sk-ant-test")

	msgs := []chattypes.Message{
		{Role: chattypes.RoleSystem, Content: "First rule."},
		{Role: chattypes.RoleUser, Content: "Hi"},
		{Role: chattypes.RoleSystem, Content: "Second rule."},
	}

	messages, systemInstructions := client.convertMessages(msgs)
	assert.Len(t, messages, 1)
	assert.Equal(t, "First rule.\n\nSecond rule.", systemInstructions)
}

func TestOpenAIClient_Configuration(t *testing.T) {
	client := NewOpenAIClient("sk-test")
	assert.Equal(t, "openai", client.ProviderName())
	assert.True(t, client.IsConfigured())
	assert.False(t, NewOpenAIClient("").IsConfigured())
}

func TestOpenAIClient_ConvertMessages(t *testing.T) {
	client := NewOpenAIClient("sk-test")
	messages := client.convertMessages(testMessages())

	// OpenAI keeps system turns inline.
	assert.Len(t, messages, 4)
}

func TestGeminiClient_Configuration(t *testing.T) {
	client := NewGeminiClient("test-key")
	assert.Equal(t, "gemini", client.ProviderName())
	assert.True(t, client.IsConfigured())
	assert.False(t, NewGeminiClient("").IsConfigured())
}

func TestGeminiClient_ConvertMessages(t *testing.T) {
	client := NewGeminiClient("test-key")
	contents := client.convertMessages(testMessages())

	assert.Len(t, contents, 4)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	// System turns ride as prefixed user turns.
	assert.Equal(t, "user", contents[2].Role)
	assert.Equal(t, "System: Stay formal.", contents[2].Parts[0].Text)
}

func TestGeminiClient_ConvertMessages_EmptyHistory(t *testing.T) {
	client := NewGeminiClient("test-key")
	contents := client.convertMessages(nil)

	// Gemini requires at least one content entry.
	assert.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].Role)
}
