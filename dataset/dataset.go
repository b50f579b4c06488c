// Package dataset reads the benchmark blindset and writes JSON Lines files.
//
// The blindset is one JSON object per line:
//
//	{"doc_id": "...", "src_lang": "en", "tgt_lang": "cs_CZ",
//	 "src_text": "...", "prompt_instruction": "..."}
//
// Unknown fields are kept verbatim so that split files carry every field of
// the original record.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultInput is the blindset file name used when none is given.
const DefaultInput = "wmt25-genmt.jsonl"

// maxLineSize bounds a single record; documents can be long.
const maxLineSize = 64 * 1024 * 1024

// Row is one source document of the blindset.
type Row struct {
	DocID             string `json:"doc_id"`
	SrcLang           string `json:"src_lang"`
	TgtLang           string `json:"tgt_lang"`
	SrcText           string `json:"src_text"`
	PromptInstruction string `json:"prompt_instruction"`

	raw json.RawMessage
}

// Pair returns the "<src>--<tgt>" language pair label.
func (r Row) Pair() string {
	return r.SrcLang + "--" + r.TgtLang
}

// Raw returns the record as it was read, or the encoded known fields for
// rows built in code.
func (r Row) Raw() json.RawMessage {
	if len(r.raw) > 0 {
		return r.raw
	}
	data, _ := json.Marshal(r)
	return data
}

func (r Row) validate() error {
	var missing []string
	if r.DocID == "" {
		missing = append(missing, "doc_id")
	}
	if r.SrcLang == "" {
		missing = append(missing, "src_lang")
	}
	if r.TgtLang == "" {
		missing = append(missing, "tgt_lang")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Reading
// ---------------------------------------------------------------------------

// ReadRows reads a JSON Lines blindset from path.
func ReadRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	rows, err := DecodeRows(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// DecodeRows decodes JSON Lines rows from r. Blank lines are skipped.
func DecodeRows(r io.Reader) ([]Row, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), maxLineSize)

	var rows []Row
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var row Row
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := row.validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		row.raw = append(json.RawMessage(nil), line...)
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
	}
	return rows, nil
}

// ReadJSONL reads a JSON Lines file of records of any shape.
func ReadJSONL[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := DecodeJSONL[T](f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// DecodeJSONL decodes one record per non-blank line.
func DecodeJSONL[T any](r io.Reader) ([]T, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), maxLineSize)

	var records []T
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec T
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
	}
	return records, nil
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// EncodeJSONL writes one JSON document per record. Non-ASCII text and HTML
// characters are written as is.
func EncodeJSONL[T any](w io.Writer, records []T) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding record %d: %w", i+1, err)
		}
	}
	return bw.Flush()
}

// WriteJSONL writes records to path, creating parent directories.
func WriteJSONL[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := EncodeJSONL(f, records); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
