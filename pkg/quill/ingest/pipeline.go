package ingest

import (
	"context"
	"fmt"

	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/tagclass"
	"github.com/cognicore/quill/pkg/quill/tagger"
)

// TaggedToken is a token with its part-of-speech tag and class.
type TaggedToken struct {
	Token
	Tag   string
	Class tagclass.Class
}

// Pipeline processes raw text: normalize → segment → tag.
type Pipeline struct {
	segmenter *Segmenter
	tagger    tagger.Tagger
}

// NewPipeline creates a processing pipeline.
func NewPipeline(segmenter *Segmenter, t tagger.Tagger) *Pipeline {
	return &Pipeline{segmenter: segmenter, tagger: t}
}

// Processed is the result of running a text through the pipeline. Tagged[i]
// holds the tags of Document.Sentences()[i].
type Processed struct {
	Document  Document
	Tagged    [][]TaggedToken
	TagTotals map[string]int
}

// Process runs the full pipeline on text.
func (p *Pipeline) Process(ctx context.Context, text string) (Processed, error) {
	doc, err := p.segmenter.Segment(ctx, NormalizeText(text))
	if err != nil {
		return Processed{}, err
	}

	sentences := doc.Sentences()
	out := Processed{
		Document:  doc,
		Tagged:    make([][]TaggedToken, len(sentences)),
		TagTotals: make(map[string]int),
	}
	for i, s := range sentences {
		tagged, err := TagSentence(ctx, p.tagger, s.Tokens)
		if err != nil {
			return Processed{}, fmt.Errorf("tag sentence %d: %w", i, err)
		}
		for _, tok := range tagged {
			out.TagTotals[tok.Tag]++
		}
		out.Tagged[i] = tagged
	}
	return out, nil
}

// TagSentence tags tokens in one adapter call and applies the LY retag.
func TagSentence(ctx context.Context, t tagger.Tagger, tokens []Token) ([]TaggedToken, error) {
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.Text
	}
	pairs, err := t.Tag(ctx, words)
	if err != nil {
		return nil, err
	}
	if len(pairs) != len(tokens) {
		return nil, fmt.Errorf("%w: tagged %d of %d tokens", internalerr.ErrTaggingUnavailable, len(pairs), len(tokens))
	}

	out := make([]TaggedToken, len(tokens))
	for i, tok := range tokens {
		tag := tagclass.Retag(tok.Text, pairs[i].Tag)
		out[i] = TaggedToken{Token: tok, Tag: tag, Class: tagclass.Classify(tag)}
	}
	return out, nil
}
