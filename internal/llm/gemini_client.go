package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"claudechat/internal/logger"
	"claudechat/pkg/chattypes"
)

// GeminiClient implements the LLMClient interface for the Google Gemini API.
// It provides lazy initialization of the Gemini client and handles all
// Gemini-specific communication logic.
type GeminiClient struct {
	apiKey string
	client *genai.Client
}

// NewGeminiClient creates a new Gemini client with lazy initialization.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey: apiKey,
		client: nil, // Will be initialized lazily
	}
}

// ProviderName returns the provider name for this client.
func (c *GeminiClient) ProviderName() string {
	return "gemini"
}

// IsConfigured returns true if the client has a valid API key.
func (c *GeminiClient) IsConfigured() bool {
	return c.apiKey != ""
}

// initializeClientIfNeeded initializes the Gemini client if it hasn't been
// initialized yet.
func (c *GeminiClient) initializeClientIfNeeded(ctx context.Context) error {
	if c.client != nil {
		return nil
	}

	if c.apiKey == "" {
		return chattypes.NewError(chattypes.ErrAuthentication, "google API key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: c.apiKey,
	})
	if err != nil {
		return &chattypes.Error{
			Kind:     chattypes.ErrUnknown,
			Provider: "gemini",
			Message:  "failed to create Gemini client",
			Cause:    err,
		}
	}

	c.client = client
	logger.Debug("Gemini client initialized", "provider", "gemini")
	return nil
}

// SendChatCompletion sends a chat completion request to Google Gemini.
func (c *GeminiClient) SendChatCompletion(ctx context.Context, req *chattypes.CompletionRequest) (string, error) {
	logger.Debug("Gemini SendChatCompletion starting", "model", req.ModelID)

	if err := c.initializeClientIfNeeded(ctx); err != nil {
		return "", err
	}

	contents := c.convertMessages(req.Messages)
	config := c.buildGenerationConfig(req)

	result, err := c.client.Models.GenerateContent(ctx, req.ModelID, contents, config)
	if err != nil {
		return "", c.classifyError(err)
	}

	content := c.extractText(result)
	if content == "" {
		return "", &chattypes.Error{
			Kind:     chattypes.ErrUnknown,
			Provider: "gemini",
			Message:  "no text content in response",
		}
	}

	logger.Debug("Gemini response received", "content_length", len(content))
	return content, nil
}

// convertMessages converts claudechat messages to Gemini format. The system
// prompt is handled separately via SystemInstruction in the generation
// config; Gemini uses "model" instead of "assistant".
func (c *GeminiClient) convertMessages(msgs []chattypes.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(msgs))

	for _, msg := range msgs {
		var role genai.Role
		content := msg.Content

		switch msg.Role {
		case chattypes.RoleUser:
			role = genai.RoleUser
		case chattypes.RoleAssistant:
			role = genai.RoleModel
		case chattypes.RoleSystem:
			// Mid-conversation system messages ride as user turns.
			role = genai.RoleUser
			content = "System: " + content
		default:
			continue
		}

		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: content}},
			Role:  string(role),
		})
	}

	if len(contents) == 0 {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: ""}},
			Role:  string(genai.RoleUser),
		})
	}

	return contents
}

// buildGenerationConfig creates a Gemini generation config from the request
// parameters.
func (c *GeminiClient) buildGenerationConfig(req *chattypes.CompletionRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}

	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	temperature := float32(req.Temperature)
	config.Temperature = &temperature
	config.MaxOutputTokens = int32(req.MaxTokens)

	return config
}

// extractText concatenates the text parts of the first candidate.
func (c *GeminiClient) extractText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 {
		return ""
	}

	var content string
	candidate := result.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		content += part.Text
	}
	return content
}

// classifyError maps Gemini SDK errors into the shared taxonomy.
func (c *GeminiClient) classifyError(err error) error {
	var apierr genai.APIError
	if errors.As(err, &apierr) {
		cerr := classifyStatusError("gemini", apierr.Code, err)
		logger.Error("Gemini request failed", "status", apierr.Code, "kind", cerr.Kind.String())
		return cerr
	}
	logger.Error("Gemini request failed", "error", fmt.Sprintf("%T", err))
	return classifyTransportError("gemini", err)
}
