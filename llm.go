package romind

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/atomic"

	"github.com/scentunivers/romind-go/logging"
)

// ──────────────────────────────────────────────
// External model collaborator
// ──────────────────────────────────────────────

// Message is one role-tagged history item handed to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer is the contract with the external language model: a system
// prompt, the prior history and the latest user message in — one reply
// string out. Any error means the caller falls back to the offline path.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, history []Message, userMessage string) (string, error)
}

// OpenAICompleter talks to the OpenAI chat completions API.
type OpenAICompleter struct {
	client   openai.Client
	model    string
	timeout  time.Duration
	degraded atomic.Bool
	log      *slog.Logger
}

const (
	defaultModel      = "gpt-4.1-mini"
	defaultLLMTimeout = 30 * time.Second
)

// NewOpenAICompleter creates a completer with the given API key. Empty
// model selects the default economical one.
func NewOpenAICompleter(apiKey, model string) *OpenAICompleter {
	if model == "" {
		model = defaultModel
	}
	return &OpenAICompleter{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		timeout: defaultLLMTimeout,
		log:     logging.New("llm.openai"),
	}
}

// NewOpenAICompleterFromEnv builds a completer from OPENAI_API_KEY and
// ROMIND_MODEL. It returns nil when no key is configured — the engine
// then runs fully offline.
func NewOpenAICompleterFromEnv() *OpenAICompleter {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil
	}
	return NewOpenAICompleter(key, os.Getenv("ROMIND_MODEL"))
}

// Complete sends the system prompt, history and user message and returns
// the model's reply.
func (c *OpenAICompleter) Complete(ctx context.Context, systemPrompt string, history []Message, userMessage string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, h := range history {
		switch h.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(h.Content))
		default:
			messages = append(messages, openai.UserMessage(h.Content))
		}
	}
	messages = append(messages, openai.UserMessage(userMessage))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		if c.degraded.CompareAndSwap(false, true) {
			c.log.Warn("model unreachable, offline replies until it recovers", "error", err)
		}
		return "", fmt.Errorf("romind: model call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("romind: model returned no choices")
	}
	if c.degraded.CompareAndSwap(true, false) {
		c.log.Info("model reachable again")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Degraded reports whether the last model call failed.
func (c *OpenAICompleter) Degraded() bool {
	return c.degraded.Load()
}
