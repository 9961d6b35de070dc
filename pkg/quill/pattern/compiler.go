package pattern

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognicore/quill/pkg/quill/tagclass"
	"github.com/cognicore/quill/pkg/quill/tagger"
)

// SynonymSource expands a word into the lexemes an "s" element accepts.
// Implementations should include word itself in the result.
type SynonymSource interface {
	SynonymsOf(word string, class tagclass.Class) []string
}

// Compiler turns template strings into Templates.
type Compiler struct {
	tagger   tagger.Tagger
	synonyms SynonymSource
}

// NewCompiler creates a compiler. syn may be nil, in which case "s" elements
// accept only the word itself.
func NewCompiler(t tagger.Tagger, syn SynonymSource) *Compiler {
	return &Compiler{tagger: t, synonyms: syn}
}

type rawElement struct {
	word    string
	command Command
}

// Compile parses and tags src. Syntax errors are *SyntaxError; tagger
// failures are returned as reported by the tagger.
func (c *Compiler) Compile(ctx context.Context, id, src string) (*Template, error) {
	raw, err := parse(src)
	if err != nil {
		return nil, err
	}

	words := make([]string, len(raw))
	for i, r := range raw {
		words[i] = r.word
	}
	pairs, err := c.tagger.Tag(ctx, words)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", id, err)
	}
	if len(pairs) != len(words) {
		return nil, fmt.Errorf("compile %q: tagger returned %d tags for %d words", id, len(pairs), len(words))
	}

	tpl := &Template{ID: id, Source: src, Elements: make([]Element, len(raw))}
	for i, r := range raw {
		tag := tagclass.Retag(r.word, pairs[i].Tag)
		class := tagclass.Classify(tag)
		el := Element{Word: r.word, Tag: tag, Class: class, Command: r.command}
		switch r.command {
		case Exact:
			el.Lexemes = []string{r.word}
		case Synonyms:
			el.Lexemes = c.expand(r.word, class)
		}
		tpl.Elements[i] = el
	}
	return tpl, nil
}

func (c *Compiler) expand(word string, class tagclass.Class) []string {
	if c.synonyms == nil {
		return []string{word}
	}
	out := []string{word}
	for _, s := range c.synonyms.SynonymsOf(word, class) {
		if !strings.EqualFold(s, word) {
			out = append(out, s)
		}
	}
	return out
}

func parse(src string) ([]rawElement, error) {
	fields := strings.Fields(src)
	if len(fields) == 0 {
		return nil, &SyntaxError{Template: src, Reason: "empty template"}
	}

	out := make([]rawElement, 0, len(fields))
	for _, field := range fields {
		word, cmd, hasCmd := strings.Cut(field, "/")
		if word == "" {
			return nil, &SyntaxError{Template: src, Token: field, Reason: "missing word"}
		}
		command := Exact
		if hasCmd {
			if len(cmd) != 1 {
				return nil, &SyntaxError{Template: src, Token: field, Reason: "command must be one of s, p, e"}
			}
			switch Command(cmd[0]) {
			case Exact, POSOnly, Synonyms:
				command = Command(cmd[0])
			default:
				return nil, &SyntaxError{Template: src, Token: field, Reason: fmt.Sprintf("unknown command %q", cmd)}
			}
		}
		out = append(out, rawElement{word: word, command: command})
	}
	return out, nil
}
