package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cognicore/quill/pkg/quill/abbrev"
	"github.com/cognicore/quill/pkg/quill/ingest"
	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/lexicon"
	"github.com/cognicore/quill/pkg/quill/match"
	"github.com/cognicore/quill/pkg/quill/pattern"
	"github.com/cognicore/quill/pkg/quill/tagger"
)

// Loader loads all configuration files and constructs components.
// Every path is optional.
type Loader struct {
	AbbreviationsPath string
	ClichesPath       string
	LexiconPath       string
	WordNetPath       string
	TagLexiconPath    string

	// Tagger names the local tagger: "prose" (the default) or "rules".
	// TaggerURL selects the remote tagging service instead of either.
	Tagger     string
	TaggerURL  string
	TaggerRate float64

	// Workers > 1 lets the hunter spread sentences over a pool.
	Workers int
}

// Local tagger names.
const (
	TaggerProse = "prose"
	TaggerRules = "rules"
)

// Rejection is a template that failed to register.
type Rejection struct {
	ID       string
	Template string
	Err      error
}

// Components holds all loaded configuration components
type Components struct {
	Tagger        tagger.Tagger
	Lexicon       *lexicon.Lexicon
	Abbreviations *abbrev.Table
	Segmenter     *ingest.Segmenter
	Hunter        *match.Hunter
	Rejected      []Rejection
}

// Load reads all configuration files and returns initialized components.
// Templates with bad syntax or duplicate IDs are collected in Rejected;
// any other failure aborts the load.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	comp := &Components{}

	// Tagger
	var base tagger.Tagger
	if l.TaggerURL != "" {
		base = tagger.NewRemote(l.TaggerURL, l.TaggerRate, 1, nil)
	} else {
		var extra map[string]string
		if l.TagLexiconPath != "" {
			tl, err := LoadTagLexicon(l.TagLexiconPath)
			if err != nil {
				return nil, fmt.Errorf("load tag lexicon: %w", err)
			}
			extra = tl.Words
		}
		switch l.Tagger {
		case "", TaggerProse:
			base = tagger.NewProse(extra)
		case TaggerRules:
			base = tagger.NewRuleTagger(extra)
		default:
			return nil, fmt.Errorf("%w: unknown tagger %q", internalerr.ErrInvalidConfig, l.Tagger)
		}
	}
	comp.Tagger = tagger.NewCached(base, 30*time.Minute, time.Hour)

	// Lexicon
	if l.LexiconPath != "" {
		lex, err := lexicon.LoadFromYAML(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	} else {
		comp.Lexicon = lexicon.New()
	}
	if l.WordNetPath != "" {
		if _, err := lexicon.LoadWordNet(l.WordNetPath, comp.Lexicon); err != nil {
			return nil, fmt.Errorf("load wordnet: %w", err)
		}
	}

	// Abbreviations
	if l.AbbreviationsPath != "" {
		cfg, err := LoadAbbreviations(l.AbbreviationsPath)
		if err != nil {
			return nil, fmt.Errorf("load abbreviations: %w", err)
		}
		table, err := cfg.Table()
		if err != nil {
			return nil, fmt.Errorf("load abbreviations: %w", err)
		}
		comp.Abbreviations = table
	} else {
		comp.Abbreviations = abbrev.DefaultTable()
	}

	comp.Segmenter = ingest.NewSegmenter(abbrev.NewResolver(comp.Abbreviations, comp.Tagger))
	comp.Hunter = match.NewHunter(pattern.NewCompiler(comp.Tagger, comp.Lexicon), l.Workers)

	// Templates
	if l.ClichesPath != "" {
		cliches, err := LoadCliches(l.ClichesPath)
		if err != nil {
			return nil, fmt.Errorf("load cliches: %w", err)
		}
		for _, c := range cliches.Cliches {
			err := comp.Hunter.Register(ctx, c.ID, c.Template)
			switch {
			case err == nil:
			case errors.Is(err, internalerr.ErrPatternSyntax), errors.Is(err, internalerr.ErrInvalidInput):
				comp.Rejected = append(comp.Rejected, Rejection{ID: c.ID, Template: c.Template, Err: err})
			default:
				return nil, fmt.Errorf("register template %q: %w", c.ID, err)
			}
		}
	}

	return comp, nil
}
