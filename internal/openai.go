package internal

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"
)

// SupportedModels lists the chat models accepted for report insights
var SupportedModels = []string{"gpt-4o", "gpt-4o-mini", "o4-mini", "gpt-4.1-nano"}

// OpenAIClientInterface defines the interface for OpenAI client operations
type OpenAIClientInterface interface {
	CreateChatCompletion(ctx context.Context, model, prompt string) (string, error)
}

// OpenAIClient wraps the official OpenAI Go SDK
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(apiKey string, opts ...option.RequestOption) *OpenAIClient {
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIClient{client: &client}
}

// CreateChatCompletion implements the chat completion method
func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, model, prompt string) (string, error) {
	var oaiModel openai.ChatModel
	switch model {
	case "gpt-4o":
		oaiModel = openai.ChatModelGPT4o
	case "gpt-4o-mini":
		oaiModel = openai.ChatModelGPT4oMini
	case "o4-mini":
		oaiModel = openai.ChatModelO4Mini
	case "gpt-4.1-nano":
		oaiModel = openai.ChatModelGPT4_1Nano
	default:
		return "", fmt.Errorf("unsupported model: %s", model)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: oaiModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// AI writes the optional insights section of run reports
type AI struct {
	client     OpenAIClientInterface
	model      string
	timeout    time.Duration
	apiKey     string
	clientOnce sync.Once
}

// NewAI creates an AI helper around an existing client
func NewAI(client OpenAIClientInterface, model string, timeout time.Duration) *AI {
	return &AI{
		client:  client,
		model:   model,
		timeout: timeout,
	}
}

// NewAIWithKey creates an AI helper that builds its client on first use
func NewAIWithKey(apiKey, model string, timeout time.Duration) *AI {
	return &AI{
		model:   model,
		timeout: timeout,
		apiKey:  apiKey,
	}
}

func (ai *AI) ensureClient() error {
	if ai.client != nil {
		return nil
	}
	if ai.apiKey == "" {
		return ErrOpenAIKeyMissing
	}

	ai.clientOnce.Do(func() {
		ai.client = NewOpenAIClient(ai.apiKey)
	})
	return nil
}

// Insights sends a prepared prompt to the chat model
func (ai *AI) Insights(ctx context.Context, prompt string) (string, error) {
	if err := ValidateModel(ai.model); err != nil {
		return "", err
	}
	if err := ai.ensureClient(); err != nil {
		return "", err
	}

	if ai.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ai.timeout)
		defer cancel()
	}

	start := time.Now()
	content, err := ai.client.CreateChatCompletion(ctx, ai.model, prompt)
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}
	logger.Debug("insights generated",
		zap.String("model", ai.model),
		zap.Duration("elapsed", time.Since(start)))

	return content, nil
}

// ValidateModel checks if the model is supported
func ValidateModel(model string) error {
	if slices.Contains(SupportedModels, model) {
		return nil
	}
	return fmt.Errorf("unsupported model: %s (supported: %s)", model, strings.Join(SupportedModels, ", "))
}
