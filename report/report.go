// Package report computes failure statistics over collected answers and
// drops target languages whose failure rate is too high to submit.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/minios-linux/mtcollect/collect"
	"github.com/minios-linux/mtcollect/langmeta"
	"github.com/minios-linux/mtcollect/textutil"
)

// DefaultThreshold is the largest failure share a target language may have
// and still be kept in the output.
const DefaultThreshold = 0.25

// LanguageRate is the failure count of one target language.
type LanguageRate struct {
	Lang   string
	Total  int
	Failed int
}

// Rate returns the failed share of the group.
func (r LanguageRate) Rate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Failed) / float64(r.Total)
}

// Unreliable reports whether the group exceeds threshold.
func (r LanguageRate) Unreliable(threshold float64) bool {
	return float64(r.Failed) > threshold*float64(r.Total)
}

// IsFailed reports whether a hypothesis is, or contains, a failure marker.
func IsFailed(hypothesis string) bool {
	return strings.Contains(hypothesis, textutil.FailedMarker)
}

// CountFailed counts answers whose hypothesis contains a failure marker.
func CountFailed(answers []collect.Answer) int {
	n := 0
	for _, a := range answers {
		if IsFailed(a.Hypothesis) {
			n++
		}
	}
	return n
}

// FailureRates groups answers by tgt_lang in order of first appearance.
func FailureRates(answers []collect.Answer) []LanguageRate {
	index := make(map[string]int)
	var rates []LanguageRate
	for _, a := range answers {
		i, ok := index[a.TgtLang]
		if !ok {
			i = len(rates)
			index[a.TgtLang] = i
			rates = append(rates, LanguageRate{Lang: a.TgtLang})
		}
		rates[i].Total++
		if IsFailed(a.Hypothesis) {
			rates[i].Failed++
		}
	}
	return rates
}

// DropUnreliable removes every answer of a target language whose failed
// count exceeds threshold times the group size. It returns the remaining
// answers in their original order and the dropped languages.
func DropUnreliable(answers []collect.Answer, threshold float64) ([]collect.Answer, []string) {
	drop := make(map[string]bool)
	var dropped []string
	for _, r := range FailureRates(answers) {
		if r.Unreliable(threshold) {
			drop[r.Lang] = true
			dropped = append(dropped, r.Lang)
		}
	}
	if len(dropped) == 0 {
		return answers, nil
	}

	kept := make([]collect.Answer, 0, len(answers))
	for _, a := range answers {
		if !drop[a.TgtLang] {
			kept = append(kept, a)
		}
	}
	return kept, dropped
}

// WriteTable prints one line per language: display name, counts, failure
// share and whether the language is dropped at threshold.
func WriteTable(w io.Writer, rates []LanguageRate, threshold float64) error {
	width := len("Lang")
	for _, r := range rates {
		if len(r.Lang) > width {
			width = len(r.Lang)
		}
	}

	if _, err := fmt.Fprintf(w, "%-*s  %-22s %8s %8s %8s\n", width, "Lang", "Name", "Total", "Failed", "Rate"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("─", width+52)); err != nil {
		return err
	}
	for _, r := range rates {
		status := ""
		if r.Unreliable(threshold) {
			status = "  dropped"
		}
		meta := langmeta.Resolve(r.Lang)
		if _, err := fmt.Fprintf(w, "%-*s  %-22s %8d %8d %7.1f%%%s\n",
			width, r.Lang, meta.Name, r.Total, r.Failed, r.Rate()*100, status); err != nil {
			return err
		}
	}
	return nil
}
