package abbrev

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/tagger"
)

type failingTagger struct{}

func (failingTagger) Tag(ctx context.Context, tokens []string) ([]tagger.Pair, error) {
	return nil, errors.New("connection refused")
}

// recordingTagger remembers the token slices it was asked to tag.
type recordingTagger struct {
	next tagger.Tagger
	seen [][]string
}

func (r *recordingTagger) Tag(ctx context.Context, tokens []string) ([]tagger.Pair, error) {
	r.seen = append(r.seen, append([]string(nil), tokens...))
	return r.next.Tag(ctx, tokens)
}

func newResolver() *Resolver {
	return NewResolver(nil, tagger.NewRuleTagger(nil))
}

func TestTitlesKeepBeforeProperNoun(t *testing.T) {
	r := newResolver()
	for _, title := range DefaultTitles {
		text := title + ". Smith"
		res, err := r.Resolve(context.Background(), text)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", text, err)
		}
		kept := KeptOffsets(res)
		if !kept[len(title)] {
			t.Errorf("Resolve(%q): period after title should be kept, got %+v", text, res)
		}
	}
}

func TestDecide(t *testing.T) {
	r := newResolver()
	tests := []struct {
		name      string
		candidate string
		next      string
		want      Decision
	}{
		{"end of input", "Dr", "", Split},
		{"title before lowercase", "Dr", "who", Keep},
		{"title before common noun", "Mr", "The", Keep},
		{"non-title before lowercase", "etc", "and", Split},
		{"non-title before determiner", "Wait", "The", Split},
		{"non-title before common noun", "Inc", "World", Split},
		{"non-title before proper noun", "Jr", "Smith", Keep},
		{"trailing punctuation on next word", "St", "Paul's,", Keep},
		{"quoted next word", "etc", `"London"`, Keep},
		{"title is case-sensitive", "DR", "The", Split},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Decide(context.Background(), tt.candidate, tt.next)
			if err != nil {
				t.Fatalf("Decide: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decide(%q, %q) = %v, want %v", tt.candidate, tt.next, got, tt.want)
			}
		})
	}
}

func TestResolveSentence(t *testing.T) {
	r := newResolver()
	text := "Dr. Smith met Mr. Jones at 3.5 p.m. The talk ended etc. and so on."
	res, err := r.Resolve(context.Background(), text)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	kept := KeptOffsets(res)

	wantKept := []int{
		strings.Index(text, "Dr.") + 2,
		strings.Index(text, "Mr.") + 2,
		strings.Index(text, "3.5") + 1,
		strings.Index(text, "p.m.") + 1,
	}
	for _, off := range wantKept {
		if !kept[off] {
			t.Errorf("expected period at %d (%q) to be kept", off, text[off-2:off+1])
		}
	}

	wantSplit := []int{
		strings.Index(text, "p.m.") + 3,
		strings.Index(text, "etc.") + 3,
	}
	for _, off := range wantSplit {
		if kept[off] {
			t.Errorf("expected period at %d to split", off)
		}
	}
}

func TestResolveEmptyAndPlain(t *testing.T) {
	r := newResolver()
	for _, text := range []string{"", "Wait. The dog ran.", "no abbreviations here"} {
		res, err := r.Resolve(context.Background(), text)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", text, err)
		}
		if len(res) != 0 {
			t.Errorf("Resolve(%q) = %+v, want none", text, res)
		}
	}
}

func TestResolveAdvancesPastEveryPeriod(t *testing.T) {
	r := newResolver()
	text := strings.Repeat("Dr. Dr. etc. e.g. ", 50)
	res, err := r.Resolve(context.Background(), text)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i := 1; i < len(res); i++ {
		if res[i].Offset <= res[i-1].Offset {
			t.Fatalf("resolutions not strictly increasing at %d: %d then %d", i, res[i-1].Offset, res[i].Offset)
		}
	}
	if len(res) != 50*5 {
		t.Errorf("expected %d resolutions, got %d", 50*5, len(res))
	}
}

func TestResolveLongText(t *testing.T) {
	r := newResolver()
	const n = 4000
	text := strings.Repeat("We saw it, e.g. the cat ran. ", n)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	began := time.Now()
	res, err := r.Resolve(ctx, text)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res) != 2*n {
		t.Errorf("expected %d resolutions, got %d", 2*n, len(res))
	}
	for i := 1; i < len(res); i++ {
		if res[i].Offset <= res[i-1].Offset {
			t.Fatalf("resolutions not strictly increasing at %d", i)
		}
	}
	if elapsed := time.Since(began); elapsed > 5*time.Second {
		t.Errorf("Resolve over %d bytes took %v", len(text), elapsed)
	}
}

func TestResolveCanceled(t *testing.T) {
	r := newResolver()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Resolve(ctx, strings.Repeat("Dr. Smith came. ", 100))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestResolveTagsNextWordInContext(t *testing.T) {
	rec := &recordingTagger{next: tagger.NewRuleTagger(nil)}
	r := NewResolver(nil, rec)
	text := "apples, pears, etc. Bananas were gone. Nothing else."
	res, err := r.Resolve(context.Background(), text)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res) != 1 || res[0].NextWord != "Bananas" {
		t.Fatalf("unexpected resolutions: %+v", res)
	}
	want := [][]string{{"Bananas", "were", "gone"}}
	if !reflect.DeepEqual(rec.seen, want) {
		t.Errorf("tagger saw %q, want %q", rec.seen, want)
	}
}

func TestResolveWithProse(t *testing.T) {
	r := NewResolver(nil, tagger.NewProse(nil))
	tests := []struct {
		text string
		want Decision
	}{
		{"We bought apples, etc. Bananas were gone.", Split},
		{"He met Smith Jr. Smith arrived later.", Keep},
		{"Call me at 5 p.m. tomorrow.", Split},
	}
	for _, tt := range tests {
		res, err := r.Resolve(context.Background(), tt.text)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.text, err)
		}
		if len(res) == 0 {
			t.Fatalf("Resolve(%q): no resolutions", tt.text)
		}
		if got := res[len(res)-1].Decision; got != tt.want {
			t.Errorf("Resolve(%q): last period %v, want %v (%+v)", tt.text, got, tt.want, res)
		}
	}
}

func TestWordsAfter(t *testing.T) {
	tests := []struct {
		text string
		from int
		want []string
	}{
		{"etc. Bananas were gone. Later", 4, []string{"were", "gone"}},
		{"etc. Bananas!", 4, nil},
		{"etc. A b c d e", 4, []string{"b", "c", "d"}},
		{"etc. (Paris) \"is\" big", 4, []string{"is", "big"}},
		{"etc.", 4, nil},
	}
	for _, tt := range tests {
		if got := wordsAfter(tt.text, tt.from, contextWords); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("wordsAfter(%q, %d) = %q, want %q", tt.text, tt.from, got, tt.want)
		}
	}
}

func TestResolveTerminatesOnEmptyShape(t *testing.T) {
	table, err := NewTable([]string{"Dr"}, []string{`x*`, `dr\.`})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	r := NewResolver(table, tagger.NewRuleTagger(nil))
	res, err := r.Resolve(context.Background(), "Dr. Who")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res) != 1 || res[0].Decision != Keep {
		t.Errorf("unexpected resolutions: %+v", res)
	}
}

func TestResolveTaggerFailure(t *testing.T) {
	r := NewResolver(nil, failingTagger{})

	_, err := r.Resolve(context.Background(), "Jr. Smith arrived.")
	if !errors.Is(err, internalerr.ErrTaggingUnavailable) {
		t.Fatalf("expected ErrTaggingUnavailable, got %v", err)
	}

	// Titles never consult the tagger.
	if _, err := r.Resolve(context.Background(), "Dr. Smith arrived."); err != nil {
		t.Errorf("title resolution should not need the tagger: %v", err)
	}
}

func TestNewTableInvalidShape(t *testing.T) {
	_, err := NewTable(nil, []string{`(`})
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestTableTitles(t *testing.T) {
	table := DefaultTable()
	if !table.IsTitle("Dr") || table.IsTitle("dr") {
		t.Error("titles should be case-sensitive")
	}
	titles := table.Titles()
	if len(titles) != len(DefaultTitles) {
		t.Errorf("expected %d titles, got %d", len(DefaultTitles), len(titles))
	}
	if table.ShapeCount() != len(DefaultShapes) {
		t.Errorf("expected %d shapes, got %d", len(DefaultShapes), table.ShapeCount())
	}
}
