package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var (
	// ErrLLMUnavailable covers transport failures and an open breaker.
	ErrLLMUnavailable = errors.New("llm unavailable")

	// ErrBadLLMReply means the model answered but the reply failed JSON
	// decoding or schema validation. Retryable, and distinct from
	// transport failures.
	ErrBadLLMReply = errors.New("llm reply failed validation")
)

// Turn is one message of a conversation passed to the model.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Completer is the slice of the LLM the services need. Tests substitute a
// scripted fake.
type Completer interface {
	Complete(ctx context.Context, system string, turns []Turn) (string, error)
	CompleteJSON(ctx context.Context, system, user string, out interface{}) error
}

// OpenAIClient wraps the chat-completions API behind a circuit breaker so
// a failing upstream sheds load instead of stacking timeouts.
type OpenAIClient struct {
	client   *openai.Client
	model    string
	breaker  *gobreaker.CircuitBreaker
	validate *validator.Validate
	logger   *zap.Logger
}

func NewOpenAIClient(apiKey, model string, logger *zap.Logger) *OpenAIClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openai",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &OpenAIClient{
		client:   openai.NewClient(apiKey),
		model:    model,
		breaker:  breaker,
		validate: validator.New(),
		logger:   logger,
	}
}

func (c *OpenAIClient) chat(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("completion returned no choices")
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: circuit open", ErrLLMUnavailable)
		}
		return "", fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
	}
	return result.(string), nil
}

func (c *OpenAIClient) Complete(ctx context.Context, system string, turns []Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, turn := range turns {
		role := openai.ChatMessageRoleUser
		if turn.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}

	return c.chat(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
}

// CompleteJSON asks for a JSON-object reply, decodes it into out, and
// validates out's struct tags. A decode or validation failure gets one
// retry before surfacing as ErrBadLLMReply, so a transient malformed reply
// does not fail the whole request.
func (c *OpenAIClient) CompleteJSON(ctx context.Context, system, user string, out interface{}) error {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		reply, err := c.chat(ctx, req)
		if err != nil {
			return err // transport failures are not retried here
		}
		if err := json.Unmarshal([]byte(reply), out); err != nil {
			lastErr = fmt.Errorf("%w: decode: %v", ErrBadLLMReply, err)
			c.logger.Warn("llm reply was not valid JSON, retrying", zap.Error(err))
			continue
		}
		if err := c.validate.Struct(out); err != nil {
			lastErr = fmt.Errorf("%w: schema: %v", ErrBadLLMReply, err)
			c.logger.Warn("llm reply failed schema validation, retrying", zap.Error(err))
			continue
		}
		return nil
	}
	return lastErr
}
