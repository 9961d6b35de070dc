package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/report"
	"github.com/cognicore/quill/pkg/quill/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	docs     map[int64]store.Doc
	urlIndex map[string]int64
	reports  map[string]report.Report
	byDoc    map[string][]string // doc URL -> report IDs
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		nextID:   1,
		docs:     make(map[int64]store.Doc),
		urlIndex: make(map[string]int64),
		reports:  make(map[string]report.Report),
		byDoc:    make(map[string][]string),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertDoc inserts or updates a document, keyed by URL.
func (s *Store) UpsertDoc(ctx context.Context, d store.Doc) error {
	if d.URL == "" {
		return fmt.Errorf("%w: doc URL is required", internalerr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.urlIndex[d.URL]
	if !ok {
		id = s.nextID
		s.nextID++
		s.urlIndex[d.URL] = id
	}
	d.ID = id
	s.docs[id] = d
	return nil
}

// GetDocByURL returns a document by URL.
func (s *Store) GetDocByURL(ctx context.Context, url string) (store.Doc, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.urlIndex[url]; ok {
		if doc, exists := s.docs[id]; exists {
			return doc, true, nil
		}
	}
	return store.Doc{}, false, nil
}

// SaveReport inserts or replaces a report.
func (s *Store) SaveReport(ctx context.Context, r report.Report) error {
	if r.ID == "" {
		return fmt.Errorf("%w: report ID is required", internalerr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, exists := s.reports[r.ID]; exists {
		s.byDoc[old.DocURL] = without(s.byDoc[old.DocURL], r.ID)
	}
	s.reports[r.ID] = copyReport(r)
	s.byDoc[r.DocURL] = append(s.byDoc[r.DocURL], r.ID)
	return nil
}

// GetReport returns a report by ID.
func (s *Store) GetReport(ctx context.Context, id string) (report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return report.Report{}, fmt.Errorf("report %q: %w", id, internalerr.ErrNotFound)
	}
	return copyReport(r), nil
}

// ReportsForDoc returns up to k reports for url, newest first.
func (s *Store) ReportsForDoc(ctx context.Context, url string, k int) ([]report.Report, error) {
	if k <= 0 {
		k = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := append([]string(nil), s.byDoc[url]...)
	// ULIDs sort by creation time.
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	if len(ids) > k {
		ids = ids[:k]
	}

	out := make([]report.Report, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyReport(s.reports[id]))
	}
	return out, nil
}

// TopTemplates returns the templates with the most findings.
func (s *Store) TopTemplates(ctx context.Context, k int) ([]report.TemplateCount, error) {
	if k <= 0 {
		k = 10
	}

	s.mu.RLock()
	counts := make(map[string]int)
	for _, r := range s.reports {
		for _, f := range r.Findings {
			counts[f.TemplateID]++
		}
	}
	s.mu.RUnlock()

	out := make([]report.TemplateCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, report.TemplateCount{TemplateID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].TemplateID < out[j].TemplateID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func copyReport(r report.Report) report.Report {
	out := r
	out.ClassTotals = make(map[string]int, len(r.ClassTotals))
	for k, v := range r.ClassTotals {
		out.ClassTotals[k] = v
	}
	out.Findings = make([]report.Finding, len(r.Findings))
	for i, f := range r.Findings {
		f.Words = append([]string(nil), f.Words...)
		f.Noise = append([]string(nil), f.Noise...)
		out.Findings[i] = f
	}
	return out
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

var _ store.Store = (*Store)(nil)
