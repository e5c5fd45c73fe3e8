package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/SAP-F-2025/learning-service/internal/config"
)

var (
	ErrAIUnavailable     = errors.New("AI service unavailable")
	ErrAIInvalidResponse = errors.New("AI returned an invalid response")
)

const (
	RoleSystem    = openai.ChatMessageRoleSystem
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

type Message struct {
	Role    string
	Content string
}

// Client is the subset of chat and image generation the services need
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	ChatJSON(ctx context.Context, messages []Message, dest interface{}) error
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

type openAIClient struct {
	client     *openai.Client
	chatModel  string
	imageModel string
	logger     *slog.Logger
}

// NewClient returns nil when no API key is configured
func NewClient(cfg config.AIConfig, logger *slog.Logger) Client {
	if !cfg.Enabled() {
		return nil
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &openAIClient{
		client:     openai.NewClientWithConfig(clientCfg),
		chatModel:  cfg.ChatModel,
		imageModel: cfg.ImageModel,
		logger:     logger,
	}
}

func (c *openAIClient) Chat(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: 0.7,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.WarnContext(ctx, "Chat completion failed", "model", c.chatModel, "error", err)
		return "", fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrAIInvalidResponse)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty reply", ErrAIInvalidResponse)
	}
	return content, nil
}

func (c *openAIClient) ChatJSON(ctx context.Context, messages []Message, dest interface{}) error {
	reply, err := c.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return DecodeJSONReply(reply, dest)
}

func (c *openAIClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          c.imageModel,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		c.logger.WarnContext(ctx, "Image generation failed", "model", c.imageModel, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("%w: no image returned", ErrAIInvalidResponse)
	}

	img, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: image is not base64: %v", ErrAIInvalidResponse, err)
	}
	return img, nil
}

// DecodeJSONReply parses the JSON document inside a model reply
func DecodeJSONReply(reply string, dest interface{}) error {
	raw := ExtractJSON(reply)
	if raw == "" {
		return fmt.Errorf("%w: no JSON found", ErrAIInvalidResponse)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("%w: %v", ErrAIInvalidResponse, err)
	}
	return nil
}

// ExtractJSON strips markdown code fences and surrounding prose
func ExtractJSON(reply string) string {
	s := strings.TrimSpace(reply)

	if start := strings.Index(s, "```"); start >= 0 {
		rest := s[start+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			// drop the language tag line
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		s = strings.TrimSpace(rest)
	}

	open := strings.IndexAny(s, "{[")
	if open < 0 {
		return ""
	}
	closer := byte('}')
	if s[open] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < open {
		return ""
	}
	return s[open : end+1]
}
