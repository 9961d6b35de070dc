package ingest

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/quill/pkg/quill/abbrev"
	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/tagger"
)

func newSegmenter() *Segmenter {
	return NewSegmenter(abbrev.NewResolver(nil, tagger.NewRuleTagger(nil)))
}

func segment(t *testing.T, text string) Document {
	t.Helper()
	doc, err := newSegmenter().Segment(context.Background(), text)
	if err != nil {
		t.Fatalf("Segment(%q): %v", text, err)
	}
	return doc
}

func sentenceWords(doc Document) [][]string {
	var out [][]string
	for _, s := range doc.Sentences() {
		out = append(out, s.Words())
	}
	return out
}

func TestSegmentTitleAbbreviation(t *testing.T) {
	doc := segment(t, "Dr. Smith left. She was tired.")
	got := sentenceWords(doc)
	want := [][]string{
		{"Dr.", "Smith", "left", "."},
		{"She", "was", "tired", "."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sentences = %v, want %v", got, want)
	}
	if len(doc.Paragraphs) != 1 {
		t.Errorf("expected 1 paragraph, got %d", len(doc.Paragraphs))
	}
}

func TestSegmentTerminators(t *testing.T) {
	doc := segment(t, "Run! Now? Yes.")
	got := sentenceWords(doc)
	want := [][]string{{"Run", "!"}, {"Now", "?"}, {"Yes", "."}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sentences = %v, want %v", got, want)
	}
}

func TestSegmentInteriorPeriod(t *testing.T) {
	doc := segment(t, "Pi is 3.14 today.")
	got := sentenceWords(doc)
	want := [][]string{{"Pi", "is", "3.14", "today", "."}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sentences = %v, want %v", got, want)
	}
}

func TestSegmentSynthesizesTerminator(t *testing.T) {
	doc := segment(t, "No terminator here")
	sentences := doc.Sentences()
	if len(sentences) != 1 {
		t.Fatalf("expected 1 sentence, got %d", len(sentences))
	}
	last := sentences[0].Tokens[len(sentences[0].Tokens)-1]
	if last.Text != "." || last.Start != last.End || last.Start != len(sentences[0].Text) {
		t.Errorf("expected zero-width period at end, got %+v", last)
	}
}

func TestSegmentClitics(t *testing.T) {
	doc := segment(t, "They don't know it's late.")
	got := sentenceWords(doc)
	want := [][]string{{"They", "do", "n't", "know", "it", "'s", "late", "."}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sentences = %v, want %v", got, want)
	}
}

func TestSegmentParagraphs(t *testing.T) {
	doc := segment(t, "First line.\n  continued here.\nSecond para.")
	if len(doc.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(doc.Paragraphs))
	}
	if doc.Paragraphs[0].Text != "First line.\n  continued here." {
		t.Errorf("paragraph 0 text = %q", doc.Paragraphs[0].Text)
	}
	if n := len(doc.Paragraphs[0].Sentences); n != 2 {
		t.Errorf("expected 2 sentences in paragraph 0, got %d", n)
	}
	if s := doc.Paragraphs[0].Sentences[1]; s.Text != "continued here." {
		t.Errorf("continuation sentence should be left-trimmed, got %q", s.Text)
	}
}

func TestSegmentSceneBreaks(t *testing.T) {
	doc := segment(t, "Before.\n\n* * *\n\nAfter.\n----\n#")
	if len(doc.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(doc.Paragraphs))
	}

	doc = segment(t, "The end. ***")
	if n := len(doc.Sentences()); n != 1 {
		t.Errorf("trailing scene mark should not form a sentence, got %d sentences", n)
	}
}

func TestSegmentEmpty(t *testing.T) {
	for _, text := range []string{"", "   \n\t\n"} {
		doc := segment(t, text)
		if len(doc.Paragraphs) != 0 || len(doc.Dialogue) != 0 {
			t.Errorf("Segment(%q) should be empty, got %+v", text, doc)
		}
	}
}

func TestSegmentDialogue(t *testing.T) {
	doc := segment(t, `She said "Go home" and "Stay".`)
	if len(doc.Dialogue) != 2 {
		t.Fatalf("expected 2 dialogue spans, got %+v", doc.Dialogue)
	}
	if doc.Dialogue[0].Text != "Go home" || doc.Dialogue[1].Text != "Stay" {
		t.Errorf("unexpected dialogue: %+v", doc.Dialogue)
	}
	p := doc.Paragraphs[0].Text
	d := doc.Dialogue[0]
	if p[d.Offset:d.Offset+len(d.Text)] != d.Text {
		t.Errorf("dialogue offset %d does not point at %q", d.Offset, d.Text)
	}

	doc = segment(t, `He said "Wait and left.`)
	if len(doc.Dialogue) != 0 {
		t.Errorf("unclosed quote should yield no dialogue, got %+v", doc.Dialogue)
	}
}

func TestSegmentOffsets(t *testing.T) {
	text := "Mr. Jones arrived at 3.5 p.m. The rain, as usual, fell.\n" +
		"\"Don't,\" he said. It was late"
	doc := segment(t, text)
	for pi, p := range doc.Paragraphs {
		for _, s := range p.Sentences {
			if p.Text[s.Offset:s.Offset+len(s.Text)] != s.Text {
				t.Errorf("paragraph %d: sentence offset %d does not point at %q", pi, s.Offset, s.Text)
			}
			for _, tok := range s.Tokens {
				if tok.Start == tok.End {
					continue
				}
				if s.Text[tok.Start:tok.End] != tok.Text {
					t.Errorf("token %+v does not match %q", tok, s.Text[tok.Start:tok.End])
				}
			}
		}
	}
}

func TestSegmentResolverFailure(t *testing.T) {
	seg := NewSegmenter(abbrev.NewResolver(nil, brokenTagger{}))
	_, err := seg.Segment(context.Background(), "Jr. Smith arrived.")
	if !errors.Is(err, internalerr.ErrTaggingUnavailable) {
		t.Errorf("expected ErrTaggingUnavailable, got %v", err)
	}
}

func TestSegmentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newSegmenter().Segment(ctx, strings.Repeat("A line.\n", 3))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestTokenizeKeptPeriod(t *testing.T) {
	text := "e.g. St. Louis"
	kept := map[int]bool{3: true, 7: true}
	var got []string
	for _, tok := range Tokenize(text, 0, kept) {
		got = append(got, tok.Text)
	}
	want := []string{"e.g.", "St.", "Louis"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}

	// Without the kept offsets the trailing periods are separate.
	got = got[:0]
	for _, tok := range Tokenize(text, 0, nil) {
		got = append(got, tok.Text)
	}
	want = []string{"e.g", ".", "St", ".", "Louis"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}
