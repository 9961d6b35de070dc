package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/quill/pkg/quill/config"
	"github.com/cognicore/quill/pkg/quill/report"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "warn", "json")
	l.Info("hidden")
	l.Warn("shown", slog.String("doc", "a.txt"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "shown" || entry["doc"] != "a.txt" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestReadInputs(t *testing.T) {
	items, err := readInputs(strings.NewReader("Hello there."), nil)
	if err != nil {
		t.Fatalf("readInputs(stdin): %v", err)
	}
	if len(items) != 1 || items[0].URL != "stdin" || items[0].Body != "Hello there." {
		t.Errorf("unexpected stdin item: %+v", items)
	}

	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(a, []byte("One."), 0o644); err != nil {
		t.Fatal(err)
	}
	items, err = readInputs(nil, []string{a})
	if err != nil || len(items) != 1 || items[0].Body != "One." {
		t.Errorf("readInputs(file) = %+v, %v", items, err)
	}

	if _, err := readInputs(nil, []string{filepath.Join(dir, "missing.txt")}); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestWriteSentences(t *testing.T) {
	loader := config.Loader{}
	comp, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	doc, err := comp.Segmenter.Segment(context.Background(), "Dr. Smith left. She was tired.\n\nThe end")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := writeSentences(&buf, doc); err != nil {
		t.Fatal(err)
	}
	want := "Dr. Smith left .\nShe was tired .\n\nThe end .\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWriteTemplates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cliches.yaml")
	yaml := "cliches:\n  - id: small-world\n    template: \"small/s world .\"\n  - id: bad\n    template: \"word/z\"\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	loader := config.Loader{ClichesPath: path}
	comp, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := writeTemplates(&buf, comp.Hunter.Templates(), comp.Rejected); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"small-world", "small/s[JJ adjective]", "world/e[NN noun]", "rejected (1)", "bad"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteReports(t *testing.T) {
	reports := []report.Report{{ID: "01A", DocURL: "a"}, {ID: "01B", DocURL: "b"}}

	var buf bytes.Buffer
	if err := writeReports(&buf, reports, false); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected one line per report, got %q", buf.String())
	}
	var got report.Report
	if err := json.Unmarshal([]byte(lines[1]), &got); err != nil || got.ID != "01B" {
		t.Errorf("second line = %q (%v)", lines[1], err)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	if err := Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "quill "+Version) {
		t.Errorf("unexpected version output %q", out.String())
	}
}

func TestSegmentCommandStdin(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader("Wait. The dog ran."))
	rootCmd.SetArgs([]string{"segment", "--log-level", "error"})
	defer rootCmd.SetArgs(nil)

	if err := Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out.String() != "Wait .\nThe dog ran .\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestHuntCommandFailsOnBadConfig(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader("text"))
	rootCmd.SetArgs([]string{"hunt", "--cliches", filepath.Join(t.TempDir(), "missing.yaml"), "--log-level", "error"})
	defer func() {
		rootCmd.SetArgs(nil)
		_ = rootCmd.PersistentFlags().Set("cliches", "")
	}()

	err := Execute()
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected missing file error, got %v", err)
	}
}
