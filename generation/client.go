package generation

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// SystemInstruction is sent ahead of every prompt.
const SystemInstruction = "You are a professional study mentor."

// Defaults for a local Ollama server, which speaks the OpenAI chat API.
const (
	DefaultBaseURL = "http://localhost:11434/v1"
	DefaultModel   = "tinyllama"
	DefaultAPIKey  = "ollama"
)

// Config selects the inference endpoint and model.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
}

// Client sends prompts to a chat model and returns the generated text.
type Client struct {
	chatModel model.BaseChatModel
	modelName string
}

// NewClient creates a Client backed by an OpenAI-compatible endpoint.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.APIKey == "" {
		cfg.APIKey = DefaultAPIKey
	}

	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		log.Printf("Error creating chat model: %v", err)
		return nil, err
	}
	return &Client{chatModel: cm, modelName: cfg.Model}, nil
}

// New wraps an existing chat model.
func New(cm model.BaseChatModel, modelName string) *Client {
	return &Client{chatModel: cm, modelName: modelName}
}

// Model returns the model name the client was configured with.
func (c *Client) Model() string {
	return c.modelName
}

// Generate blocks until the model has answered the prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := c.chatModel.Generate(ctx, Messages(prompt))
	if err != nil {
		return "", fmt.Errorf("generate with %s: %w", c.modelName, err)
	}
	if msg == nil {
		return "", errors.New("model returned no message")
	}
	return msg.Content, nil
}

// Messages is the two-message exchange sent for a prompt.
func Messages(prompt string) []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage(SystemInstruction),
		schema.UserMessage(prompt),
	}
}
