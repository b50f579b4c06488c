package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParagraphsMatch(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		translated string
		want       bool
	}{
		{name: "both single", source: "A", translated: "X", want: true},
		{name: "same count", source: "A\n\nB", translated: "X\n\nY", want: true},
		{name: "missing paragraph", source: "A\n\nB", translated: "X Y", want: false},
		{name: "extra paragraph", source: "A", translated: "X\n\nY", want: false},
		{name: "empty texts", source: "", translated: "", want: true},
		{name: "single newline does not split", source: "A\nB", translated: "X", want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParagraphsMatch(tc.source, tc.translated))
		})
	}
}

func TestParagraphCountMatchesSplit(t *testing.T) {
	for _, text := range []string{"", "a", "a\n\nb", "a\n\n\nb", "\n\n\n\n", "a\n\nb\n\nc"} {
		assert.Equal(t, len(SplitParagraphs(text)), ParagraphCount(text), "text %q", text)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "two fences keep middle", in: "Sure:\n```Hola```\nbye", want: "Hola"},
		{name: "leading fence only", in: "```Hola", want: "Hola"},
		{name: "trailing fence only", in: "Hola```", want: "Hola"},
		{name: "no fences", in: "Hola", want: "Hola"},
		{name: "three fences strip ends", in: "```a```b```", want: "a```b"},
		{name: "middle of exactly two", in: "```x\n\ny```", want: "x\n\ny"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripCodeFence(tc.in))
		})
	}
}

func TestHTMLBreakRoundTrip(t *testing.T) {
	segment := "A\n\nB\n\nC"
	marked := InsertHTMLBreaks(segment)
	assert.Equal(t, "A\n<br>\n\nB\n<br>\n\nC", marked)
	assert.Equal(t, segment, NormalizeHTMLBreaks(marked))
}

func TestNormalizeHTMLBreaks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "spaces around marker", in: "X \n <br> \n\nY", want: "X\n\nY"},
		{name: "blank lines without marker collapse", in: "X\n\n\nY<br>Z", want: "X\nY\n\nZ"},
		{name: "no markers", in: "X\nY", want: "X\nY"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeHTMLBreaks(tc.in))
		})
	}
}

func TestCollapse(t *testing.T) {
	assert.Equal(t, "a\nb\nc", CollapseBlankLines("a\n\n\nb\nc"))
	assert.Equal(t, "a b c", CollapseNewlines("a\n\nb\nc"))
}

func TestFailedPlaceholder(t *testing.T) {
	assert.Equal(t, "FAILED", FailedPlaceholder(1))
	assert.Equal(t, "FAILED\n\nFAILED\n\nFAILED", FailedPlaceholder(3))
	assert.Equal(t, "FAILED", FailedPlaceholder(0))
}
