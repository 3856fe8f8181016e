package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"claudechat/internal/logger"
	"claudechat/pkg/chattypes"
)

// AnthropicClient implements the LLMClient interface for Anthropic's API.
// It provides lazy initialization of the Anthropic client and handles all
// Anthropic-specific communication logic.
type AnthropicClient struct {
	apiKey string
	client *anthropic.Client
}

// NewAnthropicClient creates a new Anthropic client with lazy initialization.
// The actual Anthropic client is created only when the first request is made.
func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{
		apiKey: apiKey,
		client: nil, // Will be initialized lazily
	}
}

// ProviderName returns the provider name for this client.
func (c *AnthropicClient) ProviderName() string {
	return "anthropic"
}

// IsConfigured returns true if the client has a valid API key.
func (c *AnthropicClient) IsConfigured() bool {
	return c.apiKey != ""
}

// initializeClientIfNeeded initializes the Anthropic client if it hasn't
// been initialized yet.
func (c *AnthropicClient) initializeClientIfNeeded() error {
	if c.client != nil {
		return nil
	}

	if c.apiKey == "" {
		return chattypes.NewError(chattypes.ErrAuthentication, "anthropic API key not configured")
	}

	client := anthropic.NewClient(option.WithAPIKey(c.apiKey))
	c.client = &client

	logger.Debug("Anthropic client initialized", "provider", "anthropic")
	return nil
}

// SendChatCompletion sends a chat completion request to Anthropic.
func (c *AnthropicClient) SendChatCompletion(ctx context.Context, req *chattypes.CompletionRequest) (string, error) {
	logger.Debug("Anthropic SendChatCompletion starting", "model", req.ModelID)

	if err := c.initializeClientIfNeeded(); err != nil {
		return "", err
	}

	messages, additionalSystemInstructions := c.convertMessages(req.Messages)
	logger.Debug("Messages converted", "message_count", len(messages))

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.ModelID),
		MaxTokens:   int64(req.MaxTokens),
		Messages:    messages,
		Temperature: anthropic.Float(req.Temperature),
	}

	// Conversation-level system messages ride along with the configured
	// system prompt.
	systemPrompt := req.SystemPrompt
	if additionalSystemInstructions != "" {
		if systemPrompt != "" {
			systemPrompt += "\n\n" + additionalSystemInstructions
		} else {
			systemPrompt = additionalSystemInstructions
		}
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemPrompt},
		}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", c.classifyError(err)
	}

	if len(message.Content) == 0 {
		return "", &chattypes.Error{
			Kind:     chattypes.ErrUnknown,
			Provider: "anthropic",
			Message:  "no response content returned",
		}
	}

	// Concatenate all text blocks
	var content string
	for _, block := range message.Content {
		content += block.Text
	}

	if content == "" {
		return "", &chattypes.Error{
			Kind:     chattypes.ErrUnknown,
			Provider: "anthropic",
			Message:  "empty response content",
		}
	}

	logger.Debug("Anthropic response received", "content_length", len(content))
	return content, nil
}

// convertMessages converts claudechat messages to Anthropic format. System
// messages cannot appear inside the messages array, so they are returned
// separately for merging into the system parameter.
func (c *AnthropicClient) convertMessages(msgs []chattypes.Message) ([]anthropic.MessageParam, string) {
	messages := make([]anthropic.MessageParam, 0, len(msgs))
	var systemInstructions string

	for _, msg := range msgs {
		switch msg.Role {
		case chattypes.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case chattypes.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		case chattypes.RoleSystem:
			if systemInstructions != "" {
				systemInstructions += "\n\n"
			}
			systemInstructions += msg.Content
		default:
			continue
		}
	}

	return messages, systemInstructions
}

// classifyError maps Anthropic SDK errors into the shared taxonomy.
func (c *AnthropicClient) classifyError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		cerr := classifyStatusError("anthropic", apierr.StatusCode, err)
		logger.Error("Anthropic request failed", "status", apierr.StatusCode, "kind", cerr.Kind.String())
		return cerr
	}
	logger.Error("Anthropic request failed", "error", fmt.Sprintf("%T", err))
	return classifyTransportError("anthropic", err)
}
