// Package report turns analysis results into explainable, storable reports.
package report

import (
	"crypto/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/quill/pkg/quill/ingest"
	"github.com/cognicore/quill/pkg/quill/match"
	"github.com/cognicore/quill/pkg/quill/tagclass"
)

// Builder constructs reports with monotonic ULID identifiers.
// It is safe for concurrent use.
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates a new report builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Report is the outcome of analyzing one document.
type Report struct {
	ID          string         `json:"id"`
	DocURL      string         `json:"doc_url"`
	Title       string         `json:"title,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	Stats       Stats          `json:"stats"`
	ClassTotals map[string]int `json:"class_totals"`
	Findings    []Finding      `json:"findings"`
}

// Stats counts the structure of the analyzed text.
type Stats struct {
	Paragraphs int `json:"paragraphs"`
	Sentences  int `json:"sentences"`
	Dialogue   int `json:"dialogue"`
	Tokens     int `json:"tokens"`
}

// Finding is one cliché occurrence, with enough context to explain it.
type Finding struct {
	TemplateID string   `json:"template_id"`
	Sentence   int      `json:"sentence"`
	Start      int      `json:"start"`
	End        int      `json:"end"`
	Phrase     string   `json:"phrase"`
	Words      []string `json:"words"`
	Noise      []string `json:"noise,omitempty"`
}

// Build creates a report for doc from its processed form and the matches
// found in it. Matches keep their order.
func (b *Builder) Build(doc ingest.Doc, processed ingest.Processed, matches []match.Match) Report {
	b.mu.Lock()
	now := b.now()
	id := ulid.MustNew(ulid.Timestamp(now), b.entropy).String()
	b.mu.Unlock()

	rep := Report{
		ID:          id,
		DocURL:      doc.URL,
		Title:       doc.Title,
		CreatedAt:   now.UTC(),
		ClassTotals: make(map[string]int),
		Findings:    make([]Finding, 0, len(matches)),
		Stats: Stats{
			Paragraphs: len(processed.Document.Paragraphs),
			Sentences:  len(processed.Tagged),
			Dialogue:   len(processed.Document.Dialogue),
			Tokens:     processed.Document.TokenCount(),
		},
	}

	for class, n := range tagclass.Group(processed.TagTotals) {
		rep.ClassTotals[class.String()] += n
	}

	for _, m := range matches {
		f := Finding{
			TemplateID: m.TemplateID,
			Sentence:   m.Sentence,
			Start:      m.Start,
			End:        m.End,
			Words:      m.Words,
		}
		if m.Sentence >= 0 && m.Sentence < len(processed.Tagged) {
			sentence := processed.Tagged[m.Sentence]
			f.Phrase = m.Phrase(sentence)
			if len(m.Noise) > 0 {
				f.Noise = m.NoiseWords(sentence)
			}
		}
		rep.Findings = append(rep.Findings, f)
	}
	return rep
}

// TemplateCount is the number of findings for one template.
type TemplateCount struct {
	TemplateID string `json:"template_id"`
	Count      int    `json:"count"`
}

// TemplateCounts tallies findings per template, most frequent first; ties
// are ordered by template ID.
func (r Report) TemplateCounts() []TemplateCount {
	counts := make(map[string]int)
	for _, f := range r.Findings {
		counts[f.TemplateID]++
	}
	out := make([]TemplateCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, TemplateCount{TemplateID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].TemplateID < out[j].TemplateID
	})
	return out
}
