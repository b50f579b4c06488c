package translate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minios-linux/mtcollect/provider"
)

const instruction = "Please translate the following English text into Czech."

// ---------------------------------------------------------------------------
// Scripted provider
// ---------------------------------------------------------------------------

type reply struct {
	text   string
	finish string
	err    error
}

func stop(text string) reply   { return reply{text: text, finish: provider.FinishStop} }
func length(text string) reply { return reply{text: text, finish: provider.FinishLength} }
func fail(err error) reply     { return reply{err: err} }

func repeat(r reply, n int) []reply {
	out := make([]reply, n)
	for i := range out {
		out[i] = r
	}
	return out
}

// scriptedProvider answers calls in order from script and records them.
type scriptedProvider struct {
	t      *testing.T
	script []reply
	calls  []provider.Request
}

func newScripted(t *testing.T, replies ...reply) *scriptedProvider {
	return &scriptedProvider{t: t, script: replies}
}

func (s *scriptedProvider) Name() string { return "test-system" }

func (s *scriptedProvider) Complete(_ context.Context, req provider.Request) (*provider.Response, error) {
	s.calls = append(s.calls, req)
	if len(s.calls) > len(s.script) {
		s.t.Fatalf("unexpected call #%d with prompt %q", len(s.calls), req.Prompt)
	}
	r := s.script[len(s.calls)-1]
	if r.err != nil {
		return nil, r.err
	}
	return &provider.Response{
		Text:  r.text,
		Usage: provider.Usage{InputTokens: 3, OutputTokens: 2, FinishReason: r.finish},
	}, nil
}

func (s *scriptedProvider) temperatures() []float64 {
	out := make([]float64, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.Temperature
	}
	return out
}

func request(segment string) Request {
	return Request{
		DocID:             "doc-1",
		SourceLanguage:    "en",
		TargetLanguage:    "cs_CZ",
		Segment:           segment,
		PromptInstruction: instruction,
	}
}

func rejected() reply {
	return fail(fmt.Errorf("test: %w", provider.ErrRejected))
}

// ---------------------------------------------------------------------------
// Document level
// ---------------------------------------------------------------------------

func TestTranslateDocumentLevel(t *testing.T) {
	p := newScripted(t, stop("  X\n\nY \n"))
	res, err := New(p, Options{}).Translate(context.Background(), request("A\n\nB"))
	require.NoError(t, err)

	assert.Equal(t, "doc-1", res.DocID)
	assert.Equal(t, "X\n\nY", res.Translation)
	assert.Equal(t, GranularityDocument, res.Granularity)
	assert.Equal(t, provider.Usage{InputTokens: 3, OutputTokens: 2, FinishReason: provider.FinishStop}, res.Tokens)

	require.Len(t, p.calls, 1)
	assert.Equal(t, instruction+"\n\nA\n\nB", p.calls[0].Prompt)
	assert.Equal(t, "cs_CZ", p.calls[0].TargetLanguage)
	assert.Zero(t, p.calls[0].Temperature)
}

func TestTranslateWrappedVariantStripsFence(t *testing.T) {
	p := newScripted(t,
		stop("X Y"),
		stop("Here it is:\n```X\n\nY```"),
	)
	res, err := New(p, Options{}).Translate(context.Background(), request("A\n\nB"))
	require.NoError(t, err)

	assert.Equal(t, "X\n\nY", res.Translation)
	assert.Equal(t, GranularityDocumentWrapped, res.Granularity)
	assert.Equal(t, instruction+"\n\n```A\n\nB```", p.calls[1].Prompt)
}

func TestTranslateHTMLVariant(t *testing.T) {
	p := newScripted(t,
		stop("X Y"),
		stop("X Y"),
		stop("X\n<br>\n\nY"),
	)
	res, err := New(p, Options{}).Translate(context.Background(), request("A\n\nB"))
	require.NoError(t, err)

	assert.Equal(t, "X\n\nY", res.Translation)
	assert.Equal(t, GranularityDocumentHTML, res.Granularity)
	assert.Equal(t,
		"Keep HTML tags in the answer. Please translate the following English text into Czech.\n\nA\n<br>\n\nB",
		p.calls[2].Prompt)
}

func TestTranslateHTMLVariantRequiresAnchor(t *testing.T) {
	p := newScripted(t, stop("X Y"), stop("X Y"))
	req := request("A\n\nB")
	req.PromptInstruction = "Translate into Czech."

	_, err := New(p, Options{}).Translate(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingInstructionAnchor)
	assert.Len(t, p.calls, 2)
}

// ---------------------------------------------------------------------------
// Fallback to paragraph level
// ---------------------------------------------------------------------------

func TestTranslateFallsBackToParagraphs(t *testing.T) {
	p := newScripted(t,
		stop("X Y"),
		rejected(),
		stop("X Y"),
		stop("X\n\n\nZ "),
		stop("Y"),
	)
	res, err := New(p, Options{}).Translate(context.Background(), request("A\n\nB"))
	require.NoError(t, err)

	assert.Equal(t, "X\nZ\n\nY", res.Translation)
	assert.Equal(t, GranularityParagraph, res.Granularity)
	assert.Equal(t, provider.Usage{InputTokens: 6, OutputTokens: 4, FinishReason: provider.FinishStop}, res.Tokens)
	assert.Equal(t, instruction+"\n\nA", p.calls[3].Prompt)
	assert.Equal(t, instruction+"\n\nB", p.calls[4].Prompt)
}

func TestTranslateLengthSkipsDocumentVariants(t *testing.T) {
	p := newScripted(t,
		length("X"),
		stop("X"),
		stop("Y"),
	)
	res, err := New(p, Options{}).Translate(context.Background(), request("A\n\nB"))
	require.NoError(t, err)

	assert.Equal(t, GranularityParagraph, res.Granularity)
	assert.Equal(t, "X\n\nY", res.Translation)
	assert.Len(t, p.calls, 3, "wrapped and html variants must be skipped")
}

func TestTranslateEscalatesLongParagraphToLines(t *testing.T) {
	script := []reply{length("..."), length("...")}
	script = append(script, repeat(stop("ignored"), 5)...)
	script = append(script, stop("first\n\nline"))
	script = append(script, repeat(stop("ignored"), 5)...)
	script = append(script, stop("\nsecond\n"))

	p := newScripted(t, script...)
	res, err := New(p, Options{}).Translate(context.Background(), request("L1\nL2"))
	require.NoError(t, err)

	assert.Equal(t, "first line\n second", res.Translation)
	assert.Equal(t, "line-level-0.5", res.Granularity)
	assert.Equal(t, provider.Usage{InputTokens: 6, OutputTokens: 4, FinishReason: provider.FinishStop}, res.Tokens)

	require.Len(t, p.calls, 14)
	assert.Equal(t,
		[]float64{0, 0, 0, 0.1, 0.2, 0.3, 0.4, 0.5, 0, 0.1, 0.2, 0.3, 0.4, 0.5},
		p.temperatures())
	assert.Equal(t, instruction+"\n\nL1", p.calls[2].Prompt)
	assert.Equal(t, instruction+"\n\nL2", p.calls[13].Prompt)
}

func TestTranslateLineLevelKeepsOnlyLastRung(t *testing.T) {
	// An earlier success does not help when the last rung is rejected.
	script := []reply{length("..."), length("...")}
	script = append(script, repeat(stop("fine"), 5)...)
	script = append(script, rejected())

	p := newScripted(t, script...)
	_, err := New(p, Options{}).Translate(context.Background(), request("only line"))
	assert.ErrorIs(t, err, ErrNoTranslation)
	assert.Len(t, p.calls, 8)
}

func TestTranslateLineLevelRecoversFromEarlyRejections(t *testing.T) {
	script := []reply{length("..."), length("...")}
	script = append(script, repeat(rejected(), 5)...)
	script = append(script, stop("ok"))

	p := newScripted(t, script...)
	res, err := New(p, Options{}).Translate(context.Background(), request("only line"))
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Translation)
	assert.Equal(t, "line-level-0.5", res.Granularity)
}

// ---------------------------------------------------------------------------
// Failures
// ---------------------------------------------------------------------------

func TestTranslateAllRejected(t *testing.T) {
	p := newScripted(t, repeat(rejected(), 4)...)
	res, err := New(p, Options{}).Translate(context.Background(), request("A\n\nB"))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrNoTranslation)
	assert.Len(t, p.calls, 4, "paragraph level stops at the first rejected paragraph")
}

func TestTranslateAllMisaligned(t *testing.T) {
	// An empty last paragraph is trimmed away and loses a paragraph.
	p := newScripted(t, stop("X"), stop("X"), stop("X"), stop("X"), stop("  "))
	_, err := New(p, Options{}).Translate(context.Background(), request("A\n\nB"))
	assert.ErrorIs(t, err, ErrNoTranslation)
}

func TestTranslateUnsupportedLanguageStopsImmediately(t *testing.T) {
	p := newScripted(t, fail(fmt.Errorf("gate: %w", provider.ErrUnsupportedLanguage)))
	_, err := New(p, Options{}).Translate(context.Background(), request("A\n\nB"))
	assert.ErrorIs(t, err, provider.ErrUnsupportedLanguage)
	assert.Len(t, p.calls, 1)
}

func TestTranslateUnexpectedErrorAborts(t *testing.T) {
	boom := errors.New("connection reset")
	p := newScripted(t, stop("X"), fail(boom))
	_, err := New(p, Options{}).Translate(context.Background(), request("A\n\nB"))
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrNoTranslation))
	assert.Len(t, p.calls, 2)
}

func TestTranslateCancelledContext(t *testing.T) {
	p := newScripted(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(p, Options{}).Translate(ctx, request("A"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, p.calls)
}

func TestTranslatePassesMaxTokens(t *testing.T) {
	p := newScripted(t, stop("X"))
	_, err := New(p, Options{MaxTokens: 512}).Translate(context.Background(), request("A"))
	require.NoError(t, err)
	assert.Equal(t, 512, p.calls[0].MaxTokens)
}

func TestRequestIsNotMutated(t *testing.T) {
	p := newScripted(t, stop("X"), stop("X"), stop("X"), stop("P"), stop("Q"))
	req := request("A\n\nB")
	before := req

	_, err := New(p, Options{}).Translate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, before, req)
}

func TestLineLabel(t *testing.T) {
	assert.Equal(t, "line-level-0.5", lineLabel(0.5))
	assert.Equal(t, "line-level-0.1", lineLabel(0.1))
}
