// Package tagger defines the part-of-speech tagging boundary and ships the
// adapters used by quill: the default averaged-perceptron tagger backed by
// prose, a deterministic rule tagger, a caching decorator and a client for a
// remote tagging service.
package tagger

import (
	"context"
	"fmt"

	"github.com/cognicore/quill/pkg/quill/internalerr"
)

// Pair is one tagged token: the lexeme as given and its fine tag code.
type Pair struct {
	Token string
	Tag   string
}

// Tagger assigns a fine grammatical tag to each token of a sentence.
// Implementations return exactly one Pair per input token, in order, and
// report failures wrapped with internalerr.ErrTaggingUnavailable.
type Tagger interface {
	Tag(ctx context.Context, tokens []string) ([]Pair, error)
}

// TagOne tags a single word in isolation.
func TagOne(ctx context.Context, t Tagger, word string) (string, error) {
	pairs, err := t.Tag(ctx, []string{word})
	if err != nil {
		return "", err
	}
	if len(pairs) != 1 {
		return "", fmt.Errorf("%w: expected 1 tag, got %d", internalerr.ErrTaggingUnavailable, len(pairs))
	}
	return pairs[0].Tag, nil
}
