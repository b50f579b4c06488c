package translate

import (
	"strconv"

	"github.com/minios-linux/mtcollect/provider"
	"github.com/minios-linux/mtcollect/textutil"
)

// Granularity labels recorded with every result.
const (
	GranularityDocument        = "document-level"
	GranularityDocumentWrapped = "document-level-wrapped"
	GranularityDocumentHTML    = "document-level-html"
	GranularityParagraph       = "paragraph-level"
	GranularityLine            = "line-level"
)

// Cascade is the order in which strategies are tried for a document.
var Cascade = []string{
	GranularityDocument,
	GranularityDocumentWrapped,
	GranularityDocumentHTML,
	GranularityParagraph,
}

// TemperatureLadder is walked for every line of a paragraph that was too
// long to translate in one call.
var TemperatureLadder = []float64{0.0, 0.1, 0.2, 0.3, 0.4, 0.5}

// Request is one document to translate. Values are never modified in place:
// every attempt and every paragraph or line works on its own copy.
type Request struct {
	DocID             string
	SourceLanguage    string
	TargetLanguage    string
	Segment           string
	PromptInstruction string
	// Prompt is the text actually sent for this attempt.
	Prompt string
}

// withPrompt returns a copy of r carrying prompt.
func (r Request) withPrompt(prompt string) Request {
	r.Prompt = prompt
	return r
}

// withSegment returns a copy of r narrowed to segment, prompted with the
// plain instruction.
func (r Request) withSegment(segment string) Request {
	r.Segment = segment
	r.Prompt = r.PromptInstruction + textutil.ParagraphDelimiter + segment
	return r
}

// Result is a validated translation of one document.
type Result struct {
	DocID       string         `json:"doc_id"`
	Translation string         `json:"translation"`
	Granularity string         `json:"translation_granularity"`
	Tokens      provider.Usage `json:"tokens"`
}

// attempt is the outcome of one strategy before validation.
type attempt struct {
	text        string
	usage       provider.Usage
	granularity string
}

func (a *attempt) truncated() bool {
	return a.usage.FinishReason == provider.FinishLength
}

// lineLabel names a line-level escalation that reached temperature t.
func lineLabel(t float64) string {
	return GranularityLine + "-" + strconv.FormatFloat(t, 'f', -1, 64)
}
