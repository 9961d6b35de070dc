package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromJSONL(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stories.jsonl", strings.Join([]string{
		`{"url": "https://example.com/1", "title": "One", "text": "A small world."}`,
		`not json`,
		``,
		`{"url": "https://example.com/2", "title": "Two", "source": "zine", "text": "At last."}`,
	}, "\n"))

	items, err := LoadFromJSONL(path)
	if err != nil {
		t.Fatalf("LoadFromJSONL: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Source != "stories.jsonl" || items[1].Source != "zine" {
		t.Errorf("unexpected sources: %q, %q", items[0].Source, items[1].Source)
	}
	doc := items[0].Doc()
	if doc.URL != "https://example.com/1" || doc.BodyText != "A small world." {
		t.Errorf("unexpected doc: %+v", doc)
	}
}

func TestLoadFromJSONLNoItems(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.jsonl", "garbage\n\n")
	if _, err := LoadFromJSONL(path); err == nil {
		t.Error("expected error for a file with no valid items")
	}
	if _, err := LoadFromJSONL(filepath.Join(dir, "missing.jsonl")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestLoadFileText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "chapter-one.txt", "It was a dark night.\n\nThe end.")

	item, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if item.Title != "chapter-one" || item.Body != "It was a dark night.\n\nThe end." {
		t.Errorf("unexpected item: %+v", item)
	}
	if !strings.HasPrefix(item.URL, "file://") || !strings.HasSuffix(item.URL, "chapter-one.txt") {
		t.Errorf("unexpected URL %q", item.URL)
	}
	if item.PublishedAt.IsZero() {
		t.Error("expected modification time")
	}
}

func TestLoadFileHTML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "story.html", `<html><head><title>Night</title>
<style>p { color: red }</style></head>
<body><h1>Night</h1><p>It was a <em>dark</em>
   and stormy night.</p><script>alert(1)</script><p>The end.</p></body></html>`)

	item, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if item.Title != "Night" {
		t.Errorf("title = %q", item.Title)
	}
	want := "Night\n\nIt was a dark and stormy night.\n\nThe end."
	if item.Body != want {
		t.Errorf("body = %q, want %q", item.Body, want)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<p>one</p><p>two</p>", "one\n\ntwo"},
		{"a<br>b", "a\n\nb"},
		{"<b>bold</b> move", "bold move"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripHTML(tt.in); got != tt.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
