package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	gocache "github.com/patrickmn/go-cache"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// Completion is the text returned by the model plus the provider's full
// response, kept opaque for transcripts and API responses.
type Completion struct {
	Content string
	Raw     any
}

// CompletionClient sends one chat-style request to a language model.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (Completion, error)
}

// OpenAICompletionClient talks to any OpenAI-compatible chat endpoint, such
// as DeepSeek served by SiliconFlow.
type OpenAICompletionClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAICompletionClient(apiKey, baseURL, model string, timeout time.Duration) *OpenAICompletionClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAICompletionClient{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

func (c *OpenAICompletionClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (Completion, error) {
	ctx, cancel := withOptionalTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return Completion{}, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Completion{Raw: resp}, fmt.Errorf("openai: %w: no choices", ErrUnexpectedBehaviorOfAI)
	}
	return Completion{Content: resp.Choices[0].Message.Content, Raw: resp}, nil
}

type GeminiCompletionClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiCompletionClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiCompletionClient, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiCompletionClient{client: client, model: model, timeout: timeout}, nil
}

func (c *GeminiCompletionClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (Completion, error) {
	ctx, cancel := withOptionalTimeout(ctx, c.timeout)
	defer cancel()

	m := c.client.GenerativeModel(c.model)
	m.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.3)

	resp, err := m.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return Completion{}, fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Completion{Raw: resp}, fmt.Errorf("gemini: %w: no candidates", ErrUnexpectedBehaviorOfAI)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return Completion{Content: b.String(), Raw: resp}, nil
}

func (c *GeminiCompletionClient) Close() error {
	return c.client.Close()
}

// UnconfiguredCompletionClient is used when no API key is set. Every call
// fails with ErrLLMNotConfigured so callers take their offline path.
type UnconfiguredCompletionClient struct{}

func (UnconfiguredCompletionClient) Complete(context.Context, string, string) (Completion, error) {
	return Completion{}, ErrLLMNotConfigured
}

// CachedCompletionClient memoizes successful completions per prompt pair.
type CachedCompletionClient struct {
	next  CompletionClient
	cache *gocache.Cache
}

func NewCachedCompletionClient(next CompletionClient, ttl time.Duration) *CachedCompletionClient {
	return &CachedCompletionClient{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

type bypassCacheKey struct{}

// WithoutCache marks ctx so a CachedCompletionClient always asks the model.
// The fresh completion still replaces the cached one.
func WithoutCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassCacheKey{}, true)
}

func cacheBypassed(ctx context.Context) bool {
	bypass, _ := ctx.Value(bypassCacheKey{}).(bool)
	return bypass
}

func (c *CachedCompletionClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (Completion, error) {
	key := completionKey(systemPrompt, userPrompt)
	if !cacheBypassed(ctx) {
		if cached, ok := c.cache.Get(key); ok {
			return cached.(Completion), nil
		}
	}

	completion, err := c.next.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return completion, err
	}
	c.cache.SetDefault(key, completion)
	return completion, nil
}

func completionKey(systemPrompt, userPrompt string) string {
	h := sha256.New()
	h.Write([]byte(systemPrompt))
	h.Write([]byte{0})
	h.Write([]byte(userPrompt))
	return hex.EncodeToString(h.Sum(nil))
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
