// Package provider defines the contract every translation backend implements
// and ships the concrete bindings: an OpenAI-compatible chat completion
// client (vLLM, OpenAI, Groq, Ollama) and Google's Gemini API.
//
// A provider call has three outcomes besides a normal response:
//
//   - ErrRejected: the backend refused or gave up on this request (bad
//     request, timeout, unknown finish reason). Callers try another strategy.
//   - ErrUnsupportedLanguage: the backend cannot translate into the target
//     language at all. Callers stop working on the language pair.
//   - any other error: unexpected, the caller logs it and gives up on the
//     document.
package provider

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"
)

// Finish reasons reported in Usage.
const (
	FinishStop   = "stop"
	FinishLength = "length"
)

// Provider kinds accepted by New.
const (
	KindOpenAI = "openai"
	KindGemini = "gemini"
)

var (
	// ErrRejected marks a call that produced no usable answer.
	ErrRejected = errors.New("provider rejected the request")
	// ErrUnsupportedLanguage marks a language the provider cannot translate into.
	ErrUnsupportedLanguage = errors.New("unsupported_language")
)

// Request is a single completion call. Temperature zero means deterministic
// decoding; MaxTokens zero means the provider default.
type Request struct {
	Prompt         string
	SourceLanguage string
	TargetLanguage string
	Temperature    float64
	MaxTokens      int
}

// Usage reports token accounting for one or more calls.
type Usage struct {
	InputTokens    int    `json:"input_tokens"`
	OutputTokens   int    `json:"output_tokens"`
	ThinkingTokens int    `json:"thinking_tokens"`
	FinishReason   string `json:"finish_reason"`
}

// Add sums the token counters of other into u. The finish reason is left
// untouched; aggregated results decide it themselves.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.ThinkingTokens += other.ThinkingTokens
}

// Response is a successful completion.
type Response struct {
	Text  string
	Usage Usage
}

// Truncated reports whether the answer was cut off by the token limit.
func (r *Response) Truncated() bool {
	return r != nil && r.Usage.FinishReason == FinishLength
}

// Provider is a translation backend.
type Provider interface {
	// Name is the system name used in logs, cache namespaces and output files.
	Name() string
	// Complete runs one completion.
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Config describes one configured system.
type Config struct {
	// Name is the system name (e.g. "GPT-OSS-20B").
	Name string
	// Kind selects the binding: "openai" or "gemini".
	Kind string
	// BaseURL is the API endpoint. Empty uses the binding default.
	BaseURL string
	// APIKey authenticates against the endpoint.
	APIKey string
	// Model is the model identifier sent with every call.
	Model string
	// MaxTokens caps the answer length when a request does not set its own.
	MaxTokens int
	// Timeout bounds a single HTTP call.
	Timeout time.Duration
	// MaxRetries is how often rate-limited or 5xx calls are retried.
	MaxRetries int
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Languages, when non-empty, is the allowlist of target languages.
	Languages []string
	// Breaker configures the circuit breaker. Zero disables it.
	Breaker BreakerConfig
}

func (c Config) effectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 10 * time.Minute
}

func (c Config) effectiveMaxRetries() int {
	if c.MaxRetries > 0 {
		return c.MaxRetries
	}
	return 3
}

// makeHTTPClient builds a client honouring an explicit proxy or, without one,
// the HTTP_PROXY/HTTPS_PROXY environment.
func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL != "" {
		if parsed, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
