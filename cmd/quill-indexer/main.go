package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/cognicore/quill/internal/corpus"
	"github.com/cognicore/quill/pkg/quill"
	"github.com/cognicore/quill/pkg/quill/config"
	"github.com/cognicore/quill/pkg/quill/ingest"
	"github.com/cognicore/quill/pkg/quill/store/sqlite"
)

func main() {
	var (
		dbPath      = flag.String("db", "", "Database path (required)")
		dataPath    = flag.String("data", "", "Input JSONL file (required)")
		clichesPath = flag.String("cliches", "", "Cliche templates file (required)")
		abbrevPath  = flag.String("abbreviations", "", "Abbreviations file (optional)")
		lexiconPath = flag.String("lexicon", "", "Synonym lexicon file (optional)")
		wordnetPath = flag.String("wordnet", "", "Open English WordNet JSON directory (optional)")
		tagsPath    = flag.String("tags", "", "Tag overrides file (optional)")
		taggerName  = flag.String("tagger", "prose", "Local tagger: prose or rules")
		taggerURL   = flag.String("tagger-url", "", "Remote tagging service URL (optional)")
		taggerRate  = flag.Float64("tagger-rate", 0, "Remote tagger requests per second, 0 = unlimited")
		workers     = flag.Int("workers", runtime.NumCPU(), "Documents analyzed in parallel")
		batchSize   = flag.Int("batch", 50, "Documents per batch")
		topK        = flag.Int("top", 10, "Templates to print at the end")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}
	if *dataPath == "" {
		log.Fatal("--data required")
	}
	if *clichesPath == "" {
		log.Fatal("--cliches required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Load configuration components
	loader := config.Loader{
		AbbreviationsPath: *abbrevPath,
		ClichesPath:       *clichesPath,
		LexiconPath:       *lexiconPath,
		WordNetPath:       *wordnetPath,
		TagLexiconPath:    *tagsPath,
		Tagger:            *taggerName,
		TaggerURL:         *taggerURL,
		TaggerRate:        *taggerRate,
	}

	components, err := loader.Load(ctx)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	for _, r := range components.Rejected {
		log.Printf("Skipping template %q: %v", r.ID, r.Err)
	}
	log.Printf("Loaded %d templates", len(components.Hunter.Templates()))

	// Open database
	store, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}

	q := quill.New(quill.Options{
		Segmenter: components.Segmenter,
		Tagger:    components.Tagger,
		Hunter:    components.Hunter,
		Store:     store,
		Workers:   *workers,
	})
	defer q.Close()

	log.Println("Quill indexer started")

	// Load documents from JSONL
	items, err := corpus.LoadFromJSONL(*dataPath)
	if err != nil {
		log.Fatal("Failed to load documents:", err)
	}

	log.Printf("Loaded %d documents from %s", len(items), *dataPath)

	if *batchSize <= 0 {
		*batchSize = 50
	}
	var analyzed, failed, findings int
	for start := 0; start < len(items); start += *batchSize {
		end := min(start+*batchSize, len(items))
		docs := make([]ingest.Doc, 0, end-start)
		for _, item := range items[start:end] {
			docs = append(docs, item.Doc())
		}

		for i, res := range q.AnalyzeBatch(ctx, docs) {
			if res.Err != nil {
				log.Printf("Failed to analyze document %d (%s): %v", start+i, res.Doc.URL, res.Err)
				failed++
				continue
			}
			analyzed++
			findings += len(res.Report.Findings)
		}
		log.Printf("Analyzed %d/%d documents", end, len(items))

		if ctx.Err() != nil {
			log.Printf("Interrupted")
			break
		}
	}

	log.Printf("Indexing complete: %d analyzed, %d failed, %d findings", analyzed, failed, findings)

	top, err := q.TopTemplates(context.Background(), *topK)
	if err != nil {
		log.Fatal("Failed to read top templates:", err)
	}
	for i, tc := range top {
		fmt.Printf("%2d. %-30s %d\n", i+1, tc.TemplateID, tc.Count)
	}
}
