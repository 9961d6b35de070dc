// Package quill finds stock phrases in prose. It ties together the
// normalizer, segmenter, tagger, template hunter, report builder and store.
package quill

import (
	"context"
	"fmt"

	"github.com/cognicore/quill/internal/worker"
	"github.com/cognicore/quill/pkg/quill/ingest"
	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/match"
	"github.com/cognicore/quill/pkg/quill/report"
	"github.com/cognicore/quill/pkg/quill/store"
	"github.com/cognicore/quill/pkg/quill/tagger"
)

// Quill is the main analysis facade
type Quill struct {
	pipeline *ingest.Pipeline
	hunter   *match.Hunter
	store    store.Store
	builder  *report.Builder
	workers  int
}

// Options configures a Quill instance. Store is optional; without it reports
// are returned but not persisted.
type Options struct {
	Segmenter *ingest.Segmenter
	Tagger    tagger.Tagger
	Hunter    *match.Hunter
	Store     store.Store
	Builder   *report.Builder
	Workers   int
}

// New creates a Quill instance with the given dependencies
func New(opts Options) *Quill {
	builder := opts.Builder
	if builder == nil {
		builder = report.New()
	}
	return &Quill{
		pipeline: ingest.NewPipeline(opts.Segmenter, opts.Tagger),
		hunter:   opts.Hunter,
		store:    opts.Store,
		builder:  builder,
		workers:  opts.Workers,
	}
}

// Close cleanly shuts down the Quill instance
func (q *Quill) Close() error {
	if q.store == nil {
		return nil
	}
	return q.store.Close()
}

// Analyze runs one document through the pipeline, hunts for templates and
// stores the resulting report. A tagging failure aborts this document only.
func (q *Quill) Analyze(ctx context.Context, d ingest.Doc) (report.Report, error) {
	if err := d.Validate(); err != nil {
		return report.Report{}, err
	}

	processed, err := q.pipeline.Process(ctx, d.BodyText)
	if err != nil {
		return report.Report{}, fmt.Errorf("analyze %s: %w", d.URL, err)
	}

	matches, err := q.hunter.Hunt(ctx, processed.Tagged)
	if err != nil {
		return report.Report{}, fmt.Errorf("analyze %s: %w", d.URL, err)
	}

	rep := q.builder.Build(d, processed, matches)

	if q.store != nil {
		doc := store.Doc{
			URL:         d.URL,
			Title:       d.Title,
			Author:      d.Author,
			Source:      d.Source,
			PublishedAt: d.PublishedAt,
			Paragraphs:  rep.Stats.Paragraphs,
			Sentences:   rep.Stats.Sentences,
		}
		if err := q.store.UpsertDoc(ctx, doc); err != nil {
			return report.Report{}, fmt.Errorf("store doc %s: %w", d.URL, err)
		}
		if err := q.store.SaveReport(ctx, rep); err != nil {
			return report.Report{}, fmt.Errorf("store report %s: %w", d.URL, err)
		}
	}
	return rep, nil
}

// BatchResult is the outcome for one document of a batch.
type BatchResult struct {
	Doc    ingest.Doc
	Report report.Report
	Err    error
}

type batchResult struct {
	index int
	BatchResult
}

func (r *batchResult) GetError() error { return r.Err }

// AnalyzeBatch analyzes docs on the worker pool. Results are returned in
// input order; a failing document does not stop the others.
func (q *Quill) AnalyzeBatch(ctx context.Context, docs []ingest.Doc) []BatchResult {
	out := make([]BatchResult, len(docs))
	for i, d := range docs {
		out[i].Doc = d
	}
	if len(docs) == 0 {
		return out
	}

	done := make([]bool, len(docs))
	pool := worker.NewPool(ctx, q.workers)
	pool.Start()
	for i, d := range docs {
		i, d := i, d
		ok := pool.Submit(worker.Func(func(ctx context.Context) worker.Result {
			rep, err := q.Analyze(ctx, d)
			return &batchResult{index: i, BatchResult: BatchResult{Doc: d, Report: rep, Err: err}}
		}))
		if !ok {
			break
		}
	}
	for _, r := range pool.Wait() {
		br := r.(*batchResult)
		out[br.index] = br.BatchResult
		done[br.index] = true
	}

	for i := range out {
		if !done[i] {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i].Err = fmt.Errorf("analyze %s: not run: %w", docs[i].URL, err)
		}
	}
	return out
}

// Hunter returns the template registry.
func (q *Quill) Hunter() *match.Hunter {
	return q.hunter
}

// ReportsForDoc returns the newest stored reports for a document.
func (q *Quill) ReportsForDoc(ctx context.Context, url string, k int) ([]report.Report, error) {
	if q.store == nil {
		return nil, fmt.Errorf("%w: no store configured", internalerr.ErrInvalidConfig)
	}
	return q.store.ReportsForDoc(ctx, url, k)
}

// TopTemplates returns the templates with the most stored findings.
func (q *Quill) TopTemplates(ctx context.Context, k int) ([]report.TemplateCount, error) {
	if q.store == nil {
		return nil, fmt.Errorf("%w: no store configured", internalerr.ErrInvalidConfig)
	}
	return q.store.TopTemplates(ctx, k)
}
