package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// New builds the provider for one system, wrapped with the configured
// language allowlist and circuit breaker.
func New(cfg Config) (Provider, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("system name is required")
	}

	var p Provider
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", KindOpenAI:
		p = NewOpenAI(cfg)
	case KindGemini:
		g, err := NewGemini(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		p = g
	default:
		return nil, fmt.Errorf("unknown provider kind %q (want %s or %s)", cfg.Kind, KindOpenAI, KindGemini)
	}

	if len(cfg.Languages) > 0 {
		p = WithLanguages(p, cfg.Languages)
	}
	if cfg.Breaker.ConsecutiveFailures > 0 {
		p = WithBreaker(p, cfg.Breaker)
	}
	return p, nil
}

// ---------------------------------------------------------------------------
// Language allowlist
// ---------------------------------------------------------------------------

type languageGate struct {
	Provider
	allowed map[string]struct{}
}

// WithLanguages restricts p to the given target languages. Requests for any
// other target fail with ErrUnsupportedLanguage without reaching p.
func WithLanguages(p Provider, languages []string) Provider {
	allowed := make(map[string]struct{}, len(languages))
	for _, lang := range languages {
		if lang = normalizeLanguage(lang); lang != "" {
			allowed[lang] = struct{}{}
		}
	}
	return &languageGate{Provider: p, allowed: allowed}
}

func (g *languageGate) Complete(ctx context.Context, req Request) (*Response, error) {
	if _, ok := g.allowed[normalizeLanguage(req.TargetLanguage)]; !ok {
		return nil, fmt.Errorf("%s: %w: %s", g.Name(), ErrUnsupportedLanguage, req.TargetLanguage)
	}
	return g.Provider.Complete(ctx, req)
}

func normalizeLanguage(lang string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lang), "-", "_"))
}

// ---------------------------------------------------------------------------
// Circuit breaker
// ---------------------------------------------------------------------------

// BreakerConfig configures WithBreaker.
type BreakerConfig struct {
	// ConsecutiveFailures opens the breaker. Zero disables the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

type breaker struct {
	Provider
	cb *gobreaker.CircuitBreaker
}

// WithBreaker stops calling p after a run of unexpected failures, so a dead
// endpoint fails fast instead of timing out on every remaining document.
// Rejections and unsupported languages are answers, not failures.
func WithBreaker(p Provider, cfg BreakerConfig) Provider {
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}
	settings := gobreaker.Settings{
		Name:    p.Name(),
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRejected) || errors.Is(err, ErrUnsupportedLanguage) ||
				errors.Is(err, context.Canceled)
		},
	}
	return &breaker{Provider: p, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *breaker) Complete(ctx context.Context, req Request) (*Response, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.Provider.Complete(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	if err != nil {
		return nil, err
	}
	return out.(*Response), nil
}

// State reports the breaker state ("closed", "half-open", "open").
func (b *breaker) State() string {
	return b.cb.State().String()
}
