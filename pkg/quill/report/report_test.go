package report

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/cognicore/quill/pkg/quill/abbrev"
	"github.com/cognicore/quill/pkg/quill/ingest"
	"github.com/cognicore/quill/pkg/quill/match"
	"github.com/cognicore/quill/pkg/quill/pattern"
	"github.com/cognicore/quill/pkg/quill/tagger"
)

func process(t *testing.T, text string) ingest.Processed {
	t.Helper()
	rt := tagger.NewRuleTagger(nil)
	p := ingest.NewPipeline(ingest.NewSegmenter(abbrev.NewResolver(nil, rt)), rt)
	out, err := p.Process(context.Background(), text)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	return out
}

func TestBuilderEmptyDoc(t *testing.T) {
	rep := New().Build(ingest.Doc{URL: "file://empty"}, process(t, ""), nil)

	if rep.ID == "" {
		t.Error("report should have an ID")
	}
	if len(rep.Findings) != 0 || rep.Stats != (Stats{}) {
		t.Errorf("empty doc should produce empty report, got %+v", rep)
	}
	if rep.Findings == nil {
		t.Error("findings should be an empty slice, not nil")
	}
}

func TestBuilderFindings(t *testing.T) {
	processed := process(t, "It is a small beautiful world. \"Hello,\" she said quietly.")

	rt := tagger.NewRuleTagger(nil)
	h := match.NewHunter(pattern.NewCompiler(rt, nil), 1)
	if err := h.Register(context.Background(), "small-world", "small/s world/s ."); err != nil {
		t.Fatalf("Register: %v", err)
	}
	matches, err := h.Hunt(context.Background(), processed.Tagged)
	if err != nil {
		t.Fatalf("Hunt: %v", err)
	}

	doc := ingest.Doc{URL: "file://story", Title: "Story"}
	rep := New().Build(doc, processed, matches)

	if rep.DocURL != doc.URL || rep.Title != doc.Title {
		t.Errorf("doc info not copied: %+v", rep)
	}
	if rep.Stats.Paragraphs != 1 || rep.Stats.Sentences != 2 || rep.Stats.Dialogue != 1 {
		t.Errorf("unexpected stats: %+v", rep.Stats)
	}
	if rep.Stats.Tokens == 0 {
		t.Error("token count should be set")
	}
	if rep.ClassTotals["ly-adverb"] != 1 {
		t.Errorf("expected one ly-adverb, got %v", rep.ClassTotals)
	}

	if len(rep.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %+v", rep.Findings)
	}
	f := rep.Findings[0]
	if f.Phrase != "small beautiful world ." || !reflect.DeepEqual(f.Noise, []string{"beautiful"}) {
		t.Errorf("unexpected finding: %+v", f)
	}
}

func TestBuilderULIDUniqueness(t *testing.T) {
	builder := New()
	processed := process(t, "One line.")

	ids := make(map[string]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				rep := builder.Build(ingest.Doc{URL: "x"}, processed, nil)
				mu.Lock()
				if ids[rep.ID] {
					t.Errorf("duplicate ULID generated: %s", rep.ID)
				}
				ids[rep.ID] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(ids) != 1000 {
		t.Errorf("expected 1000 unique IDs, got %d", len(ids))
	}
}

func TestBuilderCreatedAt(t *testing.T) {
	b := New()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	b.now = func() time.Time { return fixed }

	rep := b.Build(ingest.Doc{URL: "x"}, process(t, "Hi."), nil)
	if !rep.CreatedAt.Equal(fixed) || rep.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt = %v, want %v in UTC", rep.CreatedAt, fixed)
	}
}

func TestTemplateCounts(t *testing.T) {
	rep := Report{Findings: []Finding{
		{TemplateID: "b"}, {TemplateID: "a"}, {TemplateID: "b"}, {TemplateID: "c"},
	}}
	got := rep.TemplateCounts()
	want := []TemplateCount{{"b", 2}, {"a", 1}, {"c", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TemplateCounts = %v, want %v", got, want)
	}
}
