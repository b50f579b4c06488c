// Package collect drives a translator over a blindset with a persistent,
// content-addressed cache, producing one answer record per document.
//
// A document is translated at most once per distinct request: successful
// results are cached and reused, failures are cached as null and retried on
// the next run. Language pairs the system cannot translate are skipped for
// the rest of the run.
package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/minios-linux/mtcollect/cache"
	"github.com/minios-linux/mtcollect/dataset"
	"github.com/minios-linux/mtcollect/provider"
	"github.com/minios-linux/mtcollect/textutil"
	"github.com/minios-linux/mtcollect/translate"
)

// DefaultDatasetID is the benchmark identifier written into every answer.
const DefaultDatasetID = "wmttest2025"

// Translator translates one document. *translate.Translator implements it.
type Translator interface {
	Translate(ctx context.Context, req translate.Request) (*translate.Result, error)
}

// Answer is one record of the submission file.
type Answer struct {
	DocID       string          `json:"doc_id"`
	Granularity *string         `json:"translation_granularity"`
	Tokens      *provider.Usage `json:"tokens,omitempty"`
	DatasetID   string          `json:"dataset_id"`
	TgtLang     string          `json:"tgt_lang"`
	Hypothesis  string          `json:"hypothesis"`
}

// Failed reports whether the answer is a failure placeholder.
func (a Answer) Failed() bool {
	return a.Granularity == nil
}

// Stats counts what happened to the rows of one run.
type Stats struct {
	Total      int
	Cached     int
	Translated int
	Failed     int
	Errored    int
	Skipped    int
}

// Collector translates rows through a cache.
type Collector struct {
	// Translator produces translations for cache misses.
	Translator Translator
	// Store persists results across runs.
	Store cache.Store
	// Logger receives per-document diagnostics. Nil discards them.
	Logger *zerolog.Logger
	// DatasetID is written into every answer (default DefaultDatasetID).
	DatasetID string
	// OnProgress is called after each row.
	OnProgress func(done, total int)
}

type languagePair struct {
	src, tgt string
}

// Request builds the translation request of a row.
func Request(row dataset.Row) translate.Request {
	return translate.Request{
		DocID:             row.DocID,
		SourceLanguage:    row.SrcLang,
		TargetLanguage:    row.TgtLang,
		Segment:           row.SrcText,
		PromptInstruction: row.PromptInstruction,
	}
}

// CacheKey identifies a request in the cache: the MD5 hex digest of its
// fields joined with underscores.
func CacheKey(req translate.Request) string {
	return cache.Hash(req.DocID + "_" + req.SourceLanguage + "_" + req.TargetLanguage + "_" +
		req.Segment + "_" + req.PromptInstruction)
}

// Collect translates rows in order and returns one answer per row, except
// for rows of language pairs the system does not support. A store failure or
// cancellation of ctx aborts the run; rows finished before that are cached.
func (c *Collector) Collect(ctx context.Context, rows []dataset.Row) ([]Answer, Stats, error) {
	log := zerolog.Nop()
	if c.Logger != nil {
		log = *c.Logger
	}
	datasetID := c.DatasetID
	if datasetID == "" {
		datasetID = DefaultDatasetID
	}

	stats := Stats{Total: len(rows)}
	answers := make([]Answer, 0, len(rows))
	unsupported := make(map[languagePair]struct{})

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return answers, stats, err
		}

		pair := languagePair{row.SrcLang, row.TgtLang}
		if _, skip := unsupported[pair]; skip {
			stats.Skipped++
			c.progress(i+1, len(rows))
			continue
		}

		req := Request(row)
		key := CacheKey(req)

		result, hit, err := c.lookup(key)
		if err != nil {
			return answers, stats, err
		}

		if hit && result != nil {
			stats.Cached++
		} else {
			result, err = c.Translator.Translate(ctx, req)
			switch {
			case errors.Is(err, provider.ErrUnsupportedLanguage):
				log.Warn().Str("doc_id", row.DocID).Str("pair", row.Pair()).
					Msg("language pair not supported, skipping its remaining documents")
				unsupported[pair] = struct{}{}
				stats.Skipped++
				c.progress(i+1, len(rows))
				continue
			case ctx.Err() != nil:
				return answers, stats, ctx.Err()
			case errors.Is(err, translate.ErrNoTranslation):
				log.Warn().Str("doc_id", row.DocID).Str("pair", row.Pair()).Msg("all strategies failed")
				result = nil
			case err != nil:
				log.Error().Str("doc_id", row.DocID).Str("pair", row.Pair()).Err(err).
					Msgf("error processing %s", row.DocID)
				stats.Errored++
				result = nil
			}

			if err := c.store(key, result); err != nil {
				return answers, stats, err
			}
			if result != nil {
				stats.Translated++
			}
		}

		answer := Answer{
			DocID:     row.DocID,
			DatasetID: datasetID,
			TgtLang:   row.TgtLang,
		}
		if result != nil {
			granularity := result.Granularity
			tokens := result.Tokens
			answer.Granularity = &granularity
			answer.Tokens = &tokens
			answer.Hypothesis = result.Translation
		} else {
			stats.Failed++
			answer.Hypothesis = textutil.FailedPlaceholder(textutil.ParagraphCount(row.SrcText))
		}
		answers = append(answers, answer)
		c.progress(i+1, len(rows))
	}

	return answers, stats, nil
}

// lookup reads a cache entry. The result is nil for a miss, a cached null
// and an undecodable entry alike.
func (c *Collector) lookup(key string) (*translate.Result, bool, error) {
	data, ok, err := c.Store.Get(key)
	if err != nil {
		return nil, false, fmt.Errorf("reading cache: %w", err)
	}
	if !ok || cache.IsNull(data) {
		return nil, ok, nil
	}

	var result translate.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, nil
	}
	return &result, true, nil
}

func (c *Collector) store(key string, result *translate.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	if err := c.Store.Set(key, data); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

func (c *Collector) progress(done, total int) {
	if c.OnProgress != nil {
		c.OnProgress(done, total)
	}
}
