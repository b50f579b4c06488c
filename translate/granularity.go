package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minios-linux/mtcollect/provider"
	"github.com/minios-linux/mtcollect/textutil"
)

// InstructionAnchor must appear in the prompt instruction for the HTML
// variant, which splices a keep-the-tags hint in front of it.
const InstructionAnchor = "Please translate the following"

const htmlHint = "Keep HTML tags in the answer. "

// ErrMissingInstructionAnchor is returned when the HTML variant cannot place
// its hint because the instruction lacks InstructionAnchor.
var ErrMissingInstructionAnchor = errors.New("prompt instruction should contain '" + InstructionAnchor + "'")

// complete sends req at the given temperature.
func (t *Translator) complete(ctx context.Context, req Request, temperature float64) (*provider.Response, error) {
	return t.provider.Complete(ctx, provider.Request{
		Prompt:         req.Prompt,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		Temperature:    temperature,
		MaxTokens:      t.opts.MaxTokens,
	})
}

// ---------------------------------------------------------------------------
// Document level
// ---------------------------------------------------------------------------

// documentPrompt builds the prompt of a document-level variant.
func documentPrompt(req Request, variant string) (Request, error) {
	switch variant {
	case GranularityDocument:
		return req.withPrompt(req.PromptInstruction + textutil.ParagraphDelimiter + req.Segment), nil
	case GranularityDocumentWrapped:
		return req.withPrompt(req.PromptInstruction + textutil.ParagraphDelimiter +
			textutil.FenceMarker + req.Segment + textutil.FenceMarker), nil
	case GranularityDocumentHTML:
		if !strings.Contains(req.PromptInstruction, InstructionAnchor) {
			return req, fmt.Errorf("doc %s: %w", req.DocID, ErrMissingInstructionAnchor)
		}
		instruction := strings.ReplaceAll(req.PromptInstruction, InstructionAnchor, htmlHint+InstructionAnchor)
		return req.withPrompt(instruction + textutil.ParagraphDelimiter + textutil.InsertHTMLBreaks(req.Segment)), nil
	default:
		return req, fmt.Errorf("unknown document variant %q", variant)
	}
}

// documentLevel translates the whole segment in one call.
func (t *Translator) documentLevel(ctx context.Context, req Request, variant string) (*attempt, error) {
	prompted, err := documentPrompt(req, variant)
	if err != nil {
		return nil, err
	}

	resp, err := t.complete(ctx, prompted, 0)
	if err != nil {
		return nil, err
	}

	text := resp.Text
	switch variant {
	case GranularityDocumentWrapped:
		text = textutil.StripCodeFence(text)
	case GranularityDocumentHTML:
		text = textutil.NormalizeHTMLBreaks(text)
	}

	return &attempt{text: text, usage: resp.Usage, granularity: variant}, nil
}

// ---------------------------------------------------------------------------
// Paragraph level
// ---------------------------------------------------------------------------

// paragraphLevel translates paragraph by paragraph. A paragraph that hits
// the token limit is retried line by line, and the label records how far
// that escalation went.
func (t *Translator) paragraphLevel(ctx context.Context, req Request) (*attempt, error) {
	label := GranularityParagraph
	highest := 0.0

	paragraphs := textutil.SplitParagraphs(req.Segment)
	parts := make([]string, 0, len(paragraphs))
	var usage provider.Usage

	for _, paragraph := range paragraphs {
		sub := req.withSegment(paragraph)

		resp, err := t.complete(ctx, sub, 0)
		if err != nil {
			return nil, err
		}
		text, partUsage := resp.Text, resp.Usage

		if resp.Truncated() {
			t.log.Debug().Str("doc_id", req.DocID).Int("chars", len(paragraph)).
				Msg("paragraph hit the token limit, translating line by line")

			lined, temperature, err := t.lineLevel(ctx, sub)
			if label == GranularityParagraph {
				label = GranularityLine
			}
			if err != nil {
				return nil, err
			}
			if temperature > highest {
				highest = temperature
				label = lineLabel(highest)
			}
			text, partUsage = lined.text, lined.usage
		}

		parts = append(parts, strings.TrimSpace(textutil.CollapseBlankLines(text)))
		usage.Add(partUsage)
	}

	usage.FinishReason = provider.FinishStop
	return &attempt{
		text:        strings.Join(parts, textutil.ParagraphDelimiter),
		usage:       usage,
		granularity: label,
	}, nil
}

// ---------------------------------------------------------------------------
// Line level
// ---------------------------------------------------------------------------

// lineLevel translates a paragraph line by line. Every line walks the whole
// temperature ladder and keeps the answer of the last rung. It returns the
// highest temperature used, or zero when the attempt failed.
func (t *Translator) lineLevel(ctx context.Context, req Request) (*attempt, float64, error) {
	highest := 0.0
	lines := textutil.SplitLines(req.Segment)
	parts := make([]string, 0, len(lines))
	var usage provider.Usage

	for _, line := range lines {
		sub := req.withSegment(line)

		var resp *provider.Response
		var err error
		for _, temperature := range TemperatureLadder {
			resp, err = t.complete(ctx, sub, temperature)
			if temperature > highest {
				highest = temperature
			}
			if err != nil && !errors.Is(err, provider.ErrRejected) {
				return nil, 0, err
			}
		}
		if err != nil {
			return nil, 0, err
		}

		parts = append(parts, strings.Trim(textutil.CollapseNewlines(resp.Text), "\n"))
		usage.Add(resp.Usage)
	}

	usage.FinishReason = provider.FinishStop
	return &attempt{
		text:        strings.Join(parts, textutil.LineDelimiter),
		usage:       usage,
		granularity: GranularityLine,
	}, highest, nil
}
