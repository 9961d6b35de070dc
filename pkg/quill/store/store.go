// Package store persists analyzed documents and their reports.
package store

import (
	"context"
	"time"

	"github.com/cognicore/quill/pkg/quill/report"
)

// Store is the main interface for persisting and querying Quill data
type Store interface {
	Close() error

	// Docs
	UpsertDoc(ctx context.Context, d Doc) error
	GetDocByURL(ctx context.Context, url string) (Doc, bool, error)

	// Reports
	SaveReport(ctx context.Context, r report.Report) error
	// GetReport returns internalerr.ErrNotFound for unknown IDs.
	GetReport(ctx context.Context, id string) (report.Report, error)
	// ReportsForDoc returns up to k reports for url, newest first.
	ReportsForDoc(ctx context.Context, url string, k int) ([]report.Report, error)

	// TopTemplates returns the k templates with the most findings across
	// all saved reports.
	TopTemplates(ctx context.Context, k int) ([]report.TemplateCount, error)
}

// Doc represents a stored document
type Doc struct {
	ID          int64
	URL         string
	Title       string
	Author      string
	Source      string
	PublishedAt time.Time
	Paragraphs  int
	Sentences   int
}
