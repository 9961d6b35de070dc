package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/report"
	"github.com/cognicore/quill/pkg/quill/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// schema if needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Pragmas are per connection and SQLite has a single writer.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS docs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	url TEXT UNIQUE NOT NULL,
	title TEXT,
	author TEXT,
	source TEXT,
	published_at TEXT,
	paragraphs INTEGER DEFAULT 0,
	sentences INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	doc_url TEXT NOT NULL,
	title TEXT,
	created_at TEXT NOT NULL,
	stats TEXT,
	class_totals TEXT,
	findings TEXT
);

CREATE INDEX IF NOT EXISTS idx_reports_doc ON reports(doc_url, id);

CREATE TABLE IF NOT EXISTS findings (
	report_id TEXT NOT NULL,
	template_id TEXT NOT NULL,
	sentence INTEGER NOT NULL,
	start_tok INTEGER NOT NULL,
	end_tok INTEGER NOT NULL,
	phrase TEXT,
	FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_findings_template ON findings(template_id);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertDoc inserts or updates a document
func (s *sqliteStore) UpsertDoc(ctx context.Context, d store.Doc) error {
	if d.URL == "" {
		return fmt.Errorf("%w: doc URL is required", internalerr.ErrInvalidInput)
	}

	var published string
	if !d.PublishedAt.IsZero() {
		published = d.PublishedAt.UTC().Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO docs (url, title, author, source, published_at, paragraphs, sentences)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(url) DO UPDATE SET
	title=excluded.title,
	author=excluded.author,
	source=excluded.source,
	published_at=excluded.published_at,
	paragraphs=excluded.paragraphs,
	sentences=excluded.sentences;
`, d.URL, d.Title, d.Author, d.Source, published, d.Paragraphs, d.Sentences)
	return err
}

// GetDocByURL retrieves a document by URL
func (s *sqliteStore) GetDocByURL(ctx context.Context, url string) (store.Doc, bool, error) {
	var (
		doc       store.Doc
		published string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, url, title, author, source, published_at, paragraphs, sentences
FROM docs
WHERE url = ?;
`, url).Scan(&doc.ID, &doc.URL, &doc.Title, &doc.Author, &doc.Source, &published, &doc.Paragraphs, &doc.Sentences)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Doc{}, false, nil
	}
	if err != nil {
		return store.Doc{}, false, err
	}

	if published != "" {
		if parsed, perr := time.Parse(time.RFC3339, published); perr == nil {
			doc.PublishedAt = parsed
		}
	}
	return doc, true, nil
}

// SaveReport inserts or replaces a report and its findings index
func (s *sqliteStore) SaveReport(ctx context.Context, r report.Report) error {
	if r.ID == "" {
		return fmt.Errorf("%w: report ID is required", internalerr.ErrInvalidInput)
	}

	statsJSON, err := json.Marshal(r.Stats)
	if err != nil {
		return err
	}
	totalsJSON, err := json.Marshal(r.ClassTotals)
	if err != nil {
		return err
	}
	findingsJSON, err := json.Marshal(r.Findings)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO reports (id, doc_url, title, created_at, stats, class_totals, findings)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	doc_url=excluded.doc_url,
	title=excluded.title,
	created_at=excluded.created_at,
	stats=excluded.stats,
	class_totals=excluded.class_totals,
	findings=excluded.findings;
`, r.ID, r.DocURL, r.Title, r.CreatedAt.UTC().Format(time.RFC3339Nano),
		string(statsJSON), string(totalsJSON), string(findingsJSON))
	if err != nil {
		return err
	}

	if err := replaceFindings(ctx, tx, r); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceFindings(ctx context.Context, tx *sql.Tx, r report.Report) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM findings WHERE report_id=?`, r.ID); err != nil {
		return err
	}
	if len(r.Findings) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO findings (report_id, template_id, sentence, start_tok, end_tok, phrase)
VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, f := range r.Findings {
		if _, err := stmt.ExecContext(ctx, r.ID, f.TemplateID, f.Sentence, f.Start, f.End, f.Phrase); err != nil {
			return err
		}
	}
	return nil
}

const reportColumns = `id, doc_url, title, created_at, stats, class_totals, findings`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (report.Report, error) {
	var (
		r                               report.Report
		created                         string
		statsJSON, totalsJSON, findJSON string
	)
	if err := row.Scan(&r.ID, &r.DocURL, &r.Title, &created, &statsJSON, &totalsJSON, &findJSON); err != nil {
		return report.Report{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return report.Report{}, fmt.Errorf("report %s: created_at: %w", r.ID, err)
	}
	r.CreatedAt = parsed
	if err := json.Unmarshal([]byte(statsJSON), &r.Stats); err != nil {
		return report.Report{}, err
	}
	if err := json.Unmarshal([]byte(totalsJSON), &r.ClassTotals); err != nil {
		return report.Report{}, err
	}
	if err := json.Unmarshal([]byte(findJSON), &r.Findings); err != nil {
		return report.Report{}, err
	}
	return r, nil
}

// GetReport retrieves a report by ID
func (s *sqliteStore) GetReport(ctx context.Context, id string) (report.Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return report.Report{}, fmt.Errorf("report %q: %w", id, internalerr.ErrNotFound)
	}
	return r, err
}

// ReportsForDoc retrieves the newest reports for a document URL
func (s *sqliteStore) ReportsForDoc(ctx context.Context, url string, k int) ([]report.Report, error) {
	if k <= 0 {
		k = 10
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT `+reportColumns+`
FROM reports
WHERE doc_url = ?
ORDER BY id DESC
LIMIT ?;
`, url, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []report.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TopTemplates aggregates findings per template
func (s *sqliteStore) TopTemplates(ctx context.Context, k int) ([]report.TemplateCount, error) {
	if k <= 0 {
		k = 10
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT template_id, COUNT(*) AS n
FROM findings
GROUP BY template_id
ORDER BY n DESC, template_id ASC
LIMIT ?;
`, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []report.TemplateCount
	for rows.Next() {
		var tc report.TemplateCount
		if err := rows.Scan(&tc.TemplateID, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}
