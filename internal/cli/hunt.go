package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/quill/pkg/quill"
	"github.com/cognicore/quill/pkg/quill/ingest"
	"github.com/cognicore/quill/pkg/quill/report"
	"github.com/cognicore/quill/pkg/quill/store"
	"github.com/cognicore/quill/pkg/quill/store/sqlite"
)

var (
	huntDB      string
	huntTimeout time.Duration
	huntCompact bool
)

// huntCmd represents the hunt command
var huntCmd = &cobra.Command{
	Use:   "hunt [files...]",
	Short: "Find stock phrases in prose files",
	Long: `Hunt analyzes each file (plain text, or HTML for .html/.htm) and prints
one JSON report per file. With no files, or "-", the text is read from stdin.

Example:
  quill hunt --cliches cliches.yaml chapter1.txt chapter2.html
  cat story.txt | quill hunt --cliches cliches.yaml --db quill.db`,
	RunE: runHunt,
}

func init() {
	rootCmd.AddCommand(huntCmd)

	huntCmd.Flags().StringVar(&huntDB, "db", "", "SQLite database to store reports in (optional)")
	huntCmd.Flags().DurationVar(&huntTimeout, "timeout", 5*time.Minute, "overall timeout")
	huntCmd.Flags().BoolVar(&huntCompact, "compact", false, "one report per line instead of indented JSON")
}

func runHunt(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), huntTimeout)
	defer cancel()

	items, err := readInputs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	comp, err := loadComponents(ctx)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if len(comp.Hunter.Templates()) == 0 {
		logger.Warn("no templates loaded; pass --cliches")
	}

	var st store.Store
	if huntDB != "" {
		st, err = sqlite.OpenSQLite(ctx, huntDB)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
	}

	q := quill.New(quill.Options{
		Segmenter: comp.Segmenter,
		Tagger:    comp.Tagger,
		Hunter:    comp.Hunter,
		Store:     st,
		Workers:   loaderFromViper().Workers,
	})
	defer q.Close()

	docs := make([]ingest.Doc, len(items))
	for i, item := range items {
		docs[i] = item.Doc()
	}

	var reports []report.Report
	failed := 0
	for _, res := range q.AnalyzeBatch(ctx, docs) {
		if res.Err != nil {
			logger.Error("analysis failed", slog.String("doc", res.Doc.URL), slog.String("error", res.Err.Error()))
			failed++
			continue
		}
		logger.Info("analyzed",
			slog.String("doc", res.Doc.URL),
			slog.Int("sentences", res.Report.Stats.Sentences),
			slog.Int("findings", len(res.Report.Findings)),
		)
		reports = append(reports, res.Report)
	}

	if err := writeReports(cmd.OutOrStdout(), reports, !huntCompact); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(docs))
	}
	return nil
}

func writeReports(w io.Writer, reports []report.Report, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	for _, r := range reports {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode report %s: %w", r.ID, err)
		}
	}
	return nil
}
