package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blindset = `{"doc_id": "d1", "src_lang": "en", "tgt_lang": "cs_CZ", "src_text": "Hello\n\nWorld", "prompt_instruction": "Translate", "domain": "news"}

{"doc_id": "d2", "src_lang": "en", "tgt_lang": "ja_JP", "src_text": "Hi", "prompt_instruction": "Translate"}
{"doc_id": "d3", "src_lang": "en", "tgt_lang": "cs_CZ", "src_text": "Bye", "prompt_instruction": "Translate"}
`

func TestDecodeRows(t *testing.T) {
	rows, err := DecodeRows(strings.NewReader(blindset))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "d1", rows[0].DocID)
	assert.Equal(t, "Hello\n\nWorld", rows[0].SrcText)
	assert.Equal(t, "Translate", rows[0].PromptInstruction)
	assert.Equal(t, "en--cs_CZ", rows[0].Pair())
	assert.Contains(t, string(rows[0].Raw()), `"domain": "news"`)
}

func TestDecodeRowsErrors(t *testing.T) {
	_, err := DecodeRows(strings.NewReader("{\"doc_id\": \"d1\", \"src_lang\": \"en\", \"tgt_lang\": \"de\"}\nnot json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = DecodeRows(strings.NewReader(`{"doc_id": "d1", "src_text": "x"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "src_lang, tgt_lang")
}

func TestReadRowsMissingFile(t *testing.T) {
	_, err := ReadRows(filepath.Join(t.TempDir(), "missing.jsonl"))
	require.Error(t, err)
}

func TestEncodeJSONLKeepsText(t *testing.T) {
	type rec struct {
		Text string `json:"text"`
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeJSONL(&buf, []rec{{Text: "Příliš <b>žluťoučký</b>"}, {Text: "b"}}))
	assert.Equal(t, "{\"text\":\"Příliš <b>žluťoučký</b>\"}\n{\"text\":\"b\"}\n", buf.String())
}

func TestSplitByPair(t *testing.T) {
	rows, err := DecodeRows(strings.NewReader(blindset))
	require.NoError(t, err)

	splits := SplitByPair(rows)
	require.Len(t, splits, 2)
	assert.Equal(t, "en--cs_CZ.jsonl", splits[0].File)
	assert.Len(t, splits[0].Rows, 2)
	assert.Equal(t, "en--ja_JP.jsonl", splits[1].File)
	assert.Len(t, splits[1].Rows, 1)
}

func TestWriteSplits(t *testing.T) {
	rows, err := DecodeRows(strings.NewReader(blindset))
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), DefaultSplitDir)
	splits, err := WriteSplits(dir, rows)
	require.NoError(t, err)
	require.Len(t, splits, 2)

	data, err := os.ReadFile(filepath.Join(dir, "en--cs_CZ.jsonl"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"domain":"news"`)

	back, err := ReadRows(filepath.Join(dir, "en--cs_CZ.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, "d1", back[0].DocID)
	assert.Equal(t, "d3", back[1].DocID)
}

func TestWriteAndReadJSONL(t *testing.T) {
	type rec struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}
	path := filepath.Join(t.TempDir(), "out", "answers.jsonl")
	want := []rec{{ID: "a", Text: "Ahoj"}, {ID: "b", Text: "日本語"}}
	require.NoError(t, WriteJSONL(path, want))

	got, err := ReadJSONL[rec](path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = DecodeJSONL[rec](strings.NewReader("{}\n{oops\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
