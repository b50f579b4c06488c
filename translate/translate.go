// Package translate turns one source document into a validated translation
// by walking a cascade of strategies: the whole document as plain text,
// wrapped in a code fence, marked up with <br> paragraph markers, and
// finally paragraph by paragraph with line-by-line escalation.
//
// A strategy answer is accepted only when it keeps the source's paragraph
// count. A strategy that hits the token limit rules out the remaining
// whole-document variants, since they would hit it as well.
package translate

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/minios-linux/mtcollect/provider"
	"github.com/minios-linux/mtcollect/textutil"
)

// ErrNoTranslation is returned when every strategy failed for a document.
var ErrNoTranslation = errors.New("no strategy produced an aligned translation")

// Options controls the translation behavior.
type Options struct {
	// MaxTokens overrides the provider's answer limit on every call (0 = provider default).
	MaxTokens int
	// Logger receives per-strategy diagnostics. Nil discards them.
	Logger *zerolog.Logger
}

// Translator runs the strategy cascade against one provider.
type Translator struct {
	provider provider.Provider
	opts     Options
	log      zerolog.Logger
}

// New creates a Translator for p.
func New(p provider.Provider, opts Options) *Translator {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Translator{
		provider: p,
		opts:     opts,
		log:      log.With().Str("system", p.Name()).Logger(),
	}
}

// System returns the provider's system name.
func (t *Translator) System() string {
	return t.provider.Name()
}

// Translate runs the cascade for req.
//
// It returns ErrNoTranslation when every strategy was rejected, truncated or
// misaligned, and an error matching provider.ErrUnsupportedLanguage as soon
// as the provider refuses the target language. Any other error aborts the
// cascade and is returned as is.
func (t *Translator) Translate(ctx context.Context, req Request) (*Result, error) {
	attemptDocumentLevel := true

	for _, step := range Cascade {
		if !attemptDocumentLevel && step != GranularityParagraph {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var a *attempt
		var err error
		if step == GranularityParagraph {
			a, err = t.paragraphLevel(ctx, req)
		} else {
			a, err = t.documentLevel(ctx, req, step)
		}

		switch {
		case errors.Is(err, provider.ErrUnsupportedLanguage):
			return nil, err
		case errors.Is(err, provider.ErrRejected):
			t.log.Info().Str("doc_id", req.DocID).Str("granularity", step).Err(err).
				Msg("no answer, trying next strategy")
			continue
		case err != nil:
			return nil, err
		}

		if a.truncated() {
			t.log.Info().Str("doc_id", req.DocID).Str("granularity", a.granularity).
				Msg("answer hit the token limit, skipping remaining document-level strategies")
			attemptDocumentLevel = false
			continue
		}

		translation := strings.TrimSpace(a.text)
		if textutil.ParagraphsMatch(req.Segment, translation) {
			return &Result{
				DocID:       req.DocID,
				Translation: translation,
				Granularity: a.granularity,
				Tokens:      a.usage,
			}, nil
		}

		t.log.Warn().Str("doc_id", req.DocID).Str("granularity", a.granularity).
			Int("source_paragraphs", textutil.ParagraphCount(req.Segment)).
			Int("translated_paragraphs", textutil.ParagraphCount(translation)).
			Msg("paragraph alignment failed")
	}

	return nil, ErrNoTranslation
}
