package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when a gemini system does not name a model.
const DefaultGeminiModel = "gemini-2.5-flash"

// finishLanguage is reported when the model refuses to answer in an
// unsupported language.
const finishLanguage genai.FinishReason = "LANGUAGE"

// Gemini calls the Gemini API through the genai SDK.
type Gemini struct {
	name      string
	model     string
	maxTokens int
	client    *genai.Client
}

// NewGemini creates a Gemini provider. The API key is required.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini system %q requires an API key", cfg.Name)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: makeHTTPClient(cfg.Proxy, cfg.effectiveTimeout()),
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		name:      cfg.Name,
		model:     model,
		maxTokens: cfg.MaxTokens,
		client:    client,
	}, nil
}

// Name implements Provider.
func (p *Gemini) Name() string { return p.name }

// Model returns the model identifier sent with each call.
func (p *Gemini) Model() string { return p.model }

// Complete sends the prompt as a single text content.
func (p *Gemini) Complete(ctx context.Context, req Request) (*Response, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = p.maxTokens
	}
	if maxTokens > 0 {
		genCfg.MaxOutputTokens = int32(maxTokens) // #nosec G115 -- token limits fit in int32
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), genCfg)
	if err != nil {
		if isGeminiRejection(ctx, err) {
			return nil, fmt.Errorf("%s: %w: %v", p.name, ErrRejected, err)
		}
		return nil, fmt.Errorf("%s: generate content: %w", p.name, err)
	}

	out, err := geminiResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}
	return out, nil
}

// geminiResponse maps an SDK response onto Response.
func geminiResponse(resp *genai.GenerateContentResponse) (*Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates returned", ErrRejected)
	}

	var finish string
	switch reason := resp.Candidates[0].FinishReason; reason {
	case genai.FinishReasonStop:
		finish = FinishStop
	case genai.FinishReasonMaxTokens:
		finish = FinishLength
	case finishLanguage:
		return nil, ErrUnsupportedLanguage
	default:
		return nil, fmt.Errorf("%w: finish reason %q", ErrRejected, reason)
	}

	usage := Usage{FinishReason: finish}
	if meta := resp.UsageMetadata; meta != nil {
		usage.InputTokens = int(meta.PromptTokenCount)
		usage.OutputTokens = int(meta.CandidatesTokenCount)
		usage.ThinkingTokens = int(meta.ThoughtsTokenCount)
	}

	return &Response{Text: resp.Text(), Usage: usage}, nil
}

func isGeminiRejection(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusBadRequest
	}
	return isRejection(ctx, err)
}
