package provider

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sethvargo/go-retry"
)

// Defaults of the OpenAI-compatible binding: a local vLLM server hosting
// gpt-oss-20b, which accepts any non-empty key.
const (
	DefaultOpenAIBaseURL   = "http://localhost:8000/v1"
	DefaultOpenAIModel     = "openai/gpt-oss-20b"
	DefaultOpenAIAPIKey    = "Empty"
	DefaultOpenAIMaxTokens = 8192
)

// OpenAI talks to any endpoint implementing the chat completions API.
type OpenAI struct {
	name        string
	model       string
	maxTokens   int
	maxRetries  int
	backoffBase time.Duration
	client      *openai.Client
}

// NewOpenAI creates an OpenAI-compatible provider from cfg, filling in the
// vLLM defaults for anything left empty.
func NewOpenAI(cfg Config) *OpenAI {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = DefaultOpenAIAPIKey
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultOpenAIMaxTokens
	}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = baseURL
	clientCfg.HTTPClient = makeHTTPClient(cfg.Proxy, cfg.effectiveTimeout())

	return &OpenAI{
		name:        cfg.Name,
		model:       model,
		maxTokens:   maxTokens,
		maxRetries:  cfg.effectiveMaxRetries(),
		backoffBase: time.Second,
		client:      openai.NewClientWithConfig(clientCfg),
	}
}

// Name implements Provider.
func (p *OpenAI) Name() string { return p.name }

// Model returns the model identifier sent with each call.
func (p *OpenAI) Model() string { return p.model }

// Complete sends the prompt as a single user message.
func (p *OpenAI) Complete(ctx context.Context, req Request) (*Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = p.maxTokens
	}

	chatReq := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: wireTemperature(req.Temperature),
	}

	backoff := retry.WithMaxRetries(uint64(p.maxRetries), retry.NewExponential(p.backoffBase)) // #nosec G115 -- maxRetries is positive

	var resp openai.ChatCompletionResponse
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var callErr error
		resp, callErr = p.client.CreateChatCompletion(ctx, chatReq)
		if callErr != nil && isRetryableStatus(callErr) {
			return retry.RetryableError(callErr)
		}
		return callErr
	})
	if err != nil {
		if isRejection(ctx, err) {
			return nil, fmt.Errorf("%s: %w: %v", p.name, ErrRejected, err)
		}
		return nil, fmt.Errorf("%s: chat completion: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s: %w: no choices returned", p.name, ErrRejected)
	}
	choice := resp.Choices[0]

	var finish string
	switch choice.FinishReason {
	case openai.FinishReasonStop:
		finish = FinishStop
	case openai.FinishReasonLength:
		finish = FinishLength
	default:
		return nil, fmt.Errorf("%s: %w: finish reason %q", p.name, ErrRejected, choice.FinishReason)
	}

	usage := Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		FinishReason: finish,
	}
	if details := resp.Usage.CompletionTokensDetails; details != nil {
		usage.ThinkingTokens = details.ReasoningTokens
	}

	return &Response{Text: choice.Message.Content, Usage: usage}, nil
}

// wireTemperature maps a requested temperature onto the client field.
// The client drops a zero temperature from the request body, which would let
// the server apply its own default, so zero is sent as the smallest float.
func wireTemperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

// statusCode extracts the HTTP status from a client error, or 0.
func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func isRetryableStatus(err error) bool {
	code := statusCode(err)
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// isRejection reports errors that mean "no answer for this request": a bad
// request or a timed-out call. Cancellation by the caller is not a rejection.
func isRejection(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if statusCode(err) == http.StatusBadRequest {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
