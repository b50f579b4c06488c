package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/minios-linux/mtcollect/config"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		percent int
		width   int
		want    string
	}{
		{
			name:    "clamps below zero",
			percent: -10,
			width:   4,
			want:    colorRed + "░░░░" + colorReset + "   0%",
		},
		{
			name:    "mid range uses yellow",
			percent: 50,
			width:   4,
			want:    colorYellow + "██░░" + colorReset + "  50%",
		},
		{
			name:    "clamps above hundred",
			percent: 120,
			width:   4,
			want:    colorGreen + "████" + colorReset + " 100%",
		},
	}

	for _, tc := range tests {
		if got := progressBar(tc.percent, tc.width); got != tc.want {
			t.Fatalf("%s: progressBar() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestLangHelpers(t *testing.T) {
	if got := langFlag("cs_CZ"); got != "🇨🇿" {
		t.Fatalf("langFlag(cs_CZ) = %q, want %q", got, "🇨🇿")
	}
	if got := langFlag("invalid"); got != "" {
		t.Fatalf("langFlag(invalid) = %q, want empty", got)
	}

	langs := []string{"ja_JP", "cs_CZ", "sr_Cyrl_RS"}
	if got := langColumnWidth(langs); got != len("sr_Cyrl_RS") {
		t.Fatalf("langColumnWidth() = %d, want %d", got, len("sr_Cyrl_RS"))
	}

	cell := langCell("ja_JP", 10)
	if !strings.HasPrefix(cell, "🇯🇵 ") || !strings.Contains(cell, "ja_JP     ") {
		t.Fatalf("langCell() = %q, want flag and padded language code", cell)
	}
	if got := langCell("zz", 4); got != "zz  " {
		t.Fatalf("langCell(zz) = %q, want padded code without flag", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "  ", "b", "c"); got != "b" {
		t.Fatalf("firstNonEmpty() = %q, want b", got)
	}
	if got := firstNonEmpty(); got != "" {
		t.Fatalf("firstNonEmpty() = %q, want empty", got)
	}
}

func TestApplySystemOverrides(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	proj, err := loadProjectFrom(t.TempDir())
	if err != nil {
		t.Fatalf("loadProject() error: %v", err)
	}
	s, err := proj.System("")
	if err != nil {
		t.Fatalf("System() error: %v", err)
	}

	applySystemOverrides(&s, collectArgs{model: "other/model", maxTokens: 0, maxTokensSet: true, timeout: time.Minute, timeoutSet: true})
	if s.Model != "other/model" {
		t.Fatalf("Model = %q, want override", s.Model)
	}
	if s.MaxTokens != 0 {
		t.Fatalf("MaxTokens = %d, want explicit zero", s.MaxTokens)
	}
	if s.Timeout != time.Minute {
		t.Fatalf("Timeout = %v, want 1m", s.Timeout)
	}
	if s.BaseURL != "http://localhost:8000/v1" {
		t.Fatalf("BaseURL = %q, want config value", s.BaseURL)
	}
}

func TestProjectPath(t *testing.T) {
	old := rootDir
	t.Cleanup(func() { rootDir = old })
	rootDir = "/work"

	if got := projectPath("cache"); got != filepath.Join("/work", "cache") {
		t.Fatalf("projectPath(relative) = %q", got)
	}
	if got := projectPath("/abs/data.jsonl"); got != "/abs/data.jsonl" {
		t.Fatalf("projectPath(absolute) = %q", got)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(filePath, []byte("ok"), 0644); err != nil {
		t.Fatalf("os.WriteFile() error: %v", err)
	}

	if !fileExists(filePath) {
		t.Fatalf("fileExists(file) = false, want true")
	}
	if fileExists(dir) {
		t.Fatalf("fileExists(directory) = true, want false")
	}
	if fileExists(filepath.Join(dir, "missing.txt")) {
		t.Fatalf("fileExists(missing) = true, want false")
	}
}

// loadProjectFrom runs loadProject with --root set to dir.
func loadProjectFrom(dir string) (*config.File, error) {
	oldRoot, oldConfig := rootDir, configPath
	defer func() { rootDir, configPath = oldRoot, oldConfig }()
	rootDir, configPath = dir, ""
	return loadProject()
}

func TestRunCollectEndToEnd(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if len(req.Messages) == 0 || !strings.Contains(req.Messages[0].Content, "Hello") {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": {"message": "rejected", "type": "invalid_request_error"}}`))
			return
		}
		_, _ = fmt.Fprintf(w, `{"id": "1", "object": "chat.completion", "choices": [{"index": 0, "message": {"role": "assistant", "content": %q}, "finish_reason": "stop"}], "usage": {"prompt_tokens": 3, "completion_tokens": 2}}`, "Ahoj\n\nSvete")
	}))
	defer srv.Close()

	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("MTCOLLECT_API_KEY", "")
	t.Setenv("MTCOLLECT_ENVIRONMENT", "production")
	t.Setenv("MTCOLLECT_LOG_LEVEL", "error")

	cfg := fmt.Sprintf("systems:\n  - name: Test-System\n    base_url: %s/v1\n    timeout: 5s\n", srv.URL)
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(cfg), 0644); err != nil {
		t.Fatalf("WriteFile config: %v", err)
	}
	instruction := "Please translate the following text."
	blindset := fmt.Sprintf(`{"doc_id": "d1", "src_lang": "en", "tgt_lang": "cs_CZ", "src_text": "Hello\n\nWorld", "prompt_instruction": %q}
{"doc_id": "d2", "src_lang": "en", "tgt_lang": "ja_JP", "src_text": "Bye", "prompt_instruction": %q}
`, instruction, instruction)
	if err := os.WriteFile(filepath.Join(dir, "wmt25-genmt.jsonl"), []byte(blindset), 0644); err != nil {
		t.Fatalf("WriteFile dataset: %v", err)
	}

	oldRoot, oldConfig := rootDir, configPath
	t.Cleanup(func() { rootDir, configPath = oldRoot, oldConfig })
	rootDir, configPath = dir, ""

	if err := runCollect(collectArgs{}); err != nil {
		t.Fatalf("runCollect() error: %v", err)
	}
	// d1 succeeds document-level; d2 is rejected by all four strategies.
	if got := calls.Load(); got != 5 {
		t.Fatalf("provider calls = %d, want 5", got)
	}

	data, err := os.ReadFile(filepath.Join(dir, "wmt_translations", "Test-System.jsonl"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("output has %d lines, want only cs_CZ:\n%s", len(lines), data)
	}
	var answer map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &answer); err != nil {
		t.Fatalf("decoding answer: %v", err)
	}
	if answer["doc_id"] != "d1" || answer["hypothesis"] != "Ahoj\n\nSvete" || answer["translation_granularity"] != "document-level" {
		t.Fatalf("unexpected answer: %v", answer)
	}

	// The second run reuses d1 from the cache and retries d2.
	if err := runCollect(collectArgs{}); err != nil {
		t.Fatalf("second runCollect() error: %v", err)
	}
	if got := calls.Load(); got != 9 {
		t.Fatalf("provider calls after second run = %d, want 9", got)
	}
}
