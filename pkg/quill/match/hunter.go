package match

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/quill/internal/worker"
	"github.com/cognicore/quill/pkg/quill/ingest"
	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/pattern"
)

// Hunter holds the registered templates and runs them over documents.
// It is safe for concurrent use.
type Hunter struct {
	compiler *pattern.Compiler
	workers  int

	mu        sync.RWMutex
	templates []*pattern.Template
	ids       map[string]struct{}
}

// NewHunter creates a hunter. workers > 1 spreads sentences over a pool.
func NewHunter(c *pattern.Compiler, workers int) *Hunter {
	return &Hunter{
		compiler: c,
		workers:  workers,
		ids:      make(map[string]struct{}),
	}
}

// Register compiles src and adds it under id. On any error the registry is
// left unchanged.
func (h *Hunter) Register(ctx context.Context, id, src string) error {
	tpl, err := h.compiler.Compile(ctx, id, src)
	if err != nil {
		return err
	}
	return h.Add(tpl)
}

// Add registers an already compiled template.
func (h *Hunter) Add(tpl *pattern.Template) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, dup := h.ids[tpl.ID]; dup {
		return fmt.Errorf("%w: template %q already registered", internalerr.ErrInvalidInput, tpl.ID)
	}
	h.ids[tpl.ID] = struct{}{}
	h.templates = append(h.templates, tpl)
	return nil
}

// Templates returns the registered templates in registration order.
func (h *Hunter) Templates() []*pattern.Template {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*pattern.Template, len(h.templates))
	copy(out, h.templates)
	return out
}

// Hunt runs every template over every sentence. Matches are ordered by
// sentence index, then start token, then template registration order,
// however many workers are used.
func (h *Hunter) Hunt(ctx context.Context, sentences [][]ingest.TaggedToken) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	templates := h.Templates()
	if len(templates) == 0 || len(sentences) == 0 {
		return nil, nil
	}

	var out []Match
	if h.workers <= 1 || len(sentences) == 1 {
		for i, s := range sentences {
			out = append(out, huntSentence(i, s, templates)...)
		}
	} else {
		pool := worker.NewPool(ctx, h.workers)
		pool.Start()
		for i, s := range sentences {
			i, s := i, s
			pool.Submit(worker.Func(func(ctx context.Context) worker.Result {
				return &sentenceResult{matches: huntSentence(i, s, templates)}
			}))
		}
		for _, r := range pool.Wait() {
			out = append(out, r.(*sentenceResult).matches...)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Sentence != out[b].Sentence {
			return out[a].Sentence < out[b].Sentence
		}
		return out[a].Start < out[b].Start
	})
	return out, nil
}

func huntSentence(index int, sentence []ingest.TaggedToken, templates []*pattern.Template) []Match {
	var out []Match
	for _, tpl := range templates {
		for _, m := range Find(sentence, tpl) {
			m.Sentence = index
			out = append(out, m)
		}
	}
	return out
}

type sentenceResult struct {
	matches []Match
}

func (r *sentenceResult) GetError() error { return nil }
