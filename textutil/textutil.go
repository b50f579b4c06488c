// Package textutil holds the pure text transforms used around translation
// calls: paragraph splitting and alignment, code-fence stripping, and the
// <br> marker round trip used by the HTML document variant.
package textutil

import (
	"regexp"
	"strings"
)

const (
	// ParagraphDelimiter separates paragraphs in source and translated text.
	ParagraphDelimiter = "\n\n"
	// LineDelimiter separates lines (sentences) inside a paragraph.
	LineDelimiter = "\n"
	// FenceMarker is the triple backtick used by the wrapped document variant.
	FenceMarker = "```"
	// BreakMarker is the explicit paragraph marker used by the HTML variant.
	BreakMarker = "<br>"
	// FailedMarker is the placeholder written for every untranslated paragraph.
	FailedMarker = "FAILED"
)

var (
	reBreakSpacing = regexp.MustCompile(`\n*\s*<br>\s*\n*`)
	reBlankLines   = regexp.MustCompile(`\n{2,}`)
	reNewlines     = regexp.MustCompile(`\n+`)
)

// SplitParagraphs splits text on the paragraph delimiter. Like the
// delimiter itself, an empty string yields a single empty paragraph.
func SplitParagraphs(text string) []string {
	return strings.Split(text, ParagraphDelimiter)
}

// SplitLines splits a paragraph into its lines.
func SplitLines(text string) []string {
	return strings.Split(text, LineDelimiter)
}

// ParagraphCount returns the number of paragraphs in text.
func ParagraphCount(text string) int {
	return strings.Count(text, ParagraphDelimiter) + 1
}

// ParagraphsMatch reports whether source and translated text have the same
// number of paragraphs.
func ParagraphsMatch(source, translated string) bool {
	return ParagraphCount(source) == ParagraphCount(translated)
}

// StripCodeFence removes the code fence a model wraps its answer in.
// With exactly two fences only the text between them is kept; afterwards a
// leading and a trailing fence are each removed once.
func StripCodeFence(text string) string {
	if strings.Count(text, FenceMarker) == 2 {
		text = strings.Split(text, FenceMarker)[1]
	}
	text = strings.TrimPrefix(text, FenceMarker)
	text = strings.TrimSuffix(text, FenceMarker)
	return text
}

// InsertHTMLBreaks marks every paragraph boundary with an explicit <br>.
func InsertHTMLBreaks(segment string) string {
	return strings.ReplaceAll(segment, ParagraphDelimiter, "\n"+BreakMarker+ParagraphDelimiter)
}

// NormalizeHTMLBreaks turns <br> markers back into paragraph boundaries.
// Whitespace around a marker is absorbed first, then any blank-line run the
// model produced is collapsed so that only markers start new paragraphs.
func NormalizeHTMLBreaks(text string) string {
	text = reBreakSpacing.ReplaceAllString(text, BreakMarker)
	text = reBlankLines.ReplaceAllString(text, LineDelimiter)
	return strings.ReplaceAll(text, BreakMarker, ParagraphDelimiter)
}

// CollapseBlankLines replaces every run of two or more newlines with one.
func CollapseBlankLines(text string) string {
	return reBlankLines.ReplaceAllString(text, LineDelimiter)
}

// CollapseNewlines replaces every run of newlines with a single space.
func CollapseNewlines(text string) string {
	return reNewlines.ReplaceAllString(text, " ")
}

// FailedPlaceholder returns the hypothesis written for a document whose
// translation failed: one FAILED marker per source paragraph.
func FailedPlaceholder(paragraphs int) string {
	if paragraphs < 1 {
		paragraphs = 1
	}
	markers := make([]string, paragraphs)
	for i := range markers {
		markers[i] = FailedMarker
	}
	return strings.Join(markers, ParagraphDelimiter)
}
