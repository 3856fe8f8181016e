package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"claudechat/internal/logger"
	"claudechat/pkg/chattypes"
)

// OpenAIClient implements the LLMClient interface for OpenAI's API.
// It provides lazy initialization of the OpenAI client and handles all
// OpenAI-specific communication logic.
type OpenAIClient struct {
	apiKey string
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client with lazy initialization.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		apiKey: apiKey,
		client: nil, // Will be initialized lazily
	}
}

// ProviderName returns the provider name for this client.
func (c *OpenAIClient) ProviderName() string {
	return "openai"
}

// IsConfigured returns true if the client has a valid API key.
func (c *OpenAIClient) IsConfigured() bool {
	return c.apiKey != ""
}

// initializeClientIfNeeded initializes the OpenAI client if it hasn't been
// initialized yet.
func (c *OpenAIClient) initializeClientIfNeeded() error {
	if c.client != nil {
		return nil
	}

	if c.apiKey == "" {
		return chattypes.NewError(chattypes.ErrAuthentication, "openai API key not configured")
	}

	client := openai.NewClient(option.WithAPIKey(c.apiKey))
	c.client = &client

	logger.Debug("OpenAI client initialized", "provider", "openai")
	return nil
}

// SendChatCompletion sends a chat completion request to OpenAI.
func (c *OpenAIClient) SendChatCompletion(ctx context.Context, req *chattypes.CompletionRequest) (string, error) {
	logger.Debug("OpenAI SendChatCompletion starting", "model", req.ModelID)

	if err := c.initializeClientIfNeeded(); err != nil {
		return "", err
	}

	messages := c.convertMessages(req.Messages)
	if req.SystemPrompt != "" {
		systemMsg := openai.SystemMessage(req.SystemPrompt)
		messages = append([]openai.ChatCompletionMessageParamUnion{systemMsg}, messages...)
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.ModelID),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", c.classifyError(err)
	}

	if len(completion.Choices) == 0 {
		return "", &chattypes.Error{
			Kind:     chattypes.ErrUnknown,
			Provider: "openai",
			Message:  "no response choices returned",
		}
	}

	content := completion.Choices[0].Message.Content
	if content == "" {
		return "", &chattypes.Error{
			Kind:     chattypes.ErrUnknown,
			Provider: "openai",
			Message:  "empty response content",
		}
	}

	logger.Debug("OpenAI response received", "content_length", len(content))
	return content, nil
}

// convertMessages converts claudechat messages to OpenAI format.
func (c *OpenAIClient) convertMessages(msgs []chattypes.Message) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))

	for _, msg := range msgs {
		switch msg.Role {
		case chattypes.RoleUser:
			messages = append(messages, openai.UserMessage(msg.Content))
		case chattypes.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		case chattypes.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		default:
			continue
		}
	}

	return messages
}

// classifyError maps OpenAI SDK errors into the shared taxonomy.
func (c *OpenAIClient) classifyError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		cerr := classifyStatusError("openai", apierr.StatusCode, err)
		logger.Error("OpenAI request failed", "status", apierr.StatusCode, "kind", cerr.Kind.String())
		return cerr
	}
	logger.Error("OpenAI request failed", "error", fmt.Sprintf("%T", err))
	return classifyTransportError("openai", err)
}
