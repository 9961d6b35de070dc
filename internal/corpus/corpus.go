// Package corpus loads prose for analysis from JSONL corpora and plain
// text or HTML files.
package corpus

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cognicore/quill/pkg/quill/ingest"
)

// Item represents one piece of prose
type Item struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Body        string    `json:"text"`
}

// Doc converts the item for analysis.
func (it Item) Doc() ingest.Doc {
	return ingest.Doc{
		URL:         it.URL,
		Title:       it.Title,
		Author:      it.Author,
		Source:      it.Source,
		PublishedAt: it.PublishedAt,
		BodyText:    it.Body,
	}
}

// LoadFromJSONL loads items from a JSONL file, skipping malformed lines
func LoadFromJSONL(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var items []Item
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		if item.Source == "" {
			item.Source = filepath.Base(path)
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid items found in %s", path)
	}

	return items, nil
}

// LoadFile reads a single prose file. Files ending in .html or .htm have
// their markup stripped; anything else is read as plain text. The URL is a
// file:// URL of the absolute path.
func LoadFile(path string) (Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Item{}, fmt.Errorf("read file %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	base := filepath.Base(path)
	item := Item{
		URL:    "file://" + filepath.ToSlash(abs),
		Title:  strings.TrimSuffix(base, filepath.Ext(base)),
		Source: filepath.Base(filepath.Dir(abs)),
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		title, body := extractHTML(string(data))
		if title != "" {
			item.Title = title
		}
		item.Body = body
	default:
		item.Body = string(data)
	}

	if info, err := os.Stat(path); err == nil {
		item.PublishedAt = info.ModTime().UTC()
	}
	return item, nil
}
