package tagger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jdkato/prose/v2"

	"github.com/cognicore/quill/pkg/quill/internalerr"
)

// cliticTags are the fixed Treebank tags of contraction pieces. "'s" is
// left to the model, which tells the possessive from "is" and "has".
var cliticTags = map[string]string{
	"n't": "RB",
	"'re": "VBP",
	"'ve": "VBP",
	"'m":  "VBP",
	"'ll": "MD",
	"'d":  "MD",
}

// Prose tags with the averaged-perceptron model bundled in
// github.com/jdkato/prose. Tokens are handed to the model joined by single
// spaces and the model's tokens are aligned back by byte offset; a token the
// model split or merged takes the tag of the first model token inside it.
// Tokens the model skips fall back to punctuation and number rules, then NN.
// A Prose is safe for concurrent use.
type Prose struct {
	words map[string]string

	once  sync.Once
	model *prose.Model
}

// NewProse creates the model-backed tagger. Entries in words (word -> tag)
// override the model; words are matched case-insensitively.
func NewProse(words map[string]string) *Prose {
	p := &Prose{words: make(map[string]string, len(words))}
	for w, tag := range words {
		p.words[strings.ToLower(w)] = tag
	}
	return p
}

// Tag implements Tagger.
func (p *Prose) Tag(ctx context.Context, tokens []string) ([]Pair, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrTaggingUnavailable, err)
	}
	if len(tokens) == 0 {
		return []Pair{}, nil
	}

	text, starts := joinTokens(tokens)
	p.once.Do(func() { p.model = prose.ModelFromData("quill") })
	doc, err := prose.NewDocument(text,
		prose.UsingModel(p.model),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: prose: %v", internalerr.ErrTaggingUnavailable, err)
	}

	tags := alignTags(text, starts, tokens, doc.Tokens())
	pairs := make([]Pair, len(tokens))
	for i, tok := range tokens {
		lower := strings.ToLower(tok)
		tag := tags[i]
		if fixed, ok := cliticTags[lower]; ok {
			tag = fixed
		}
		if over, ok := p.words[lower]; ok {
			tag = over
		}
		if tag == "" {
			tag = fallbackTag(tok)
		}
		pairs[i] = Pair{Token: tok, Tag: tag}
	}
	return pairs, nil
}

func joinTokens(tokens []string) (string, []int) {
	var b strings.Builder
	starts := make([]int, len(tokens))
	for i, tok := range tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		starts[i] = b.Len()
		b.WriteString(tok)
	}
	return b.String(), starts
}

// alignTags maps each model token to the input token its text starts in.
// Model tokens not found verbatim in text are skipped.
func alignTags(text string, starts []int, tokens []string, model []prose.Token) []string {
	tags := make([]string, len(tokens))
	cursor, ti := 0, 0
	for _, mt := range model {
		if mt.Text == "" {
			continue
		}
		at := strings.Index(text[cursor:], mt.Text)
		if at < 0 {
			continue
		}
		pos := cursor + at
		cursor = pos + len(mt.Text)
		for ti < len(tokens) && starts[ti]+len(tokens[ti]) <= pos {
			ti++
		}
		if ti < len(tokens) && pos >= starts[ti] && tags[ti] == "" {
			tags[ti] = mt.Tag
		}
	}
	return tags
}

func fallbackTag(tok string) string {
	if tag := punctuationTag(tok); tag != "" {
		return tag
	}
	if isNumber(tok) {
		return "CD"
	}
	return "NN"
}
