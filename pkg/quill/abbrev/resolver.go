// Package abbrev decides whether a period that follows an abbreviation-shaped
// word ends a sentence or belongs to the abbreviation.
package abbrev

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/tagclass"
	"github.com/cognicore/quill/pkg/quill/tagger"
)

// Decision is the outcome for one period.
type Decision int

const (
	// Split: the period is a sentence boundary.
	Split Decision = iota
	// Keep: the period belongs to an abbreviation.
	Keep
)

func (d Decision) String() string {
	if d == Keep {
		return "keep"
	}
	return "split"
}

// Resolution records the decision taken for the period at Offset.
type Resolution struct {
	Offset    int
	Decision  Decision
	Candidate string
	NextWord  string
}

const trailingPunct = `!?.,"'()#`

// Resolver applies the title list and the tagger to abbreviation periods.
type Resolver struct {
	table  *Table
	tagger tagger.Tagger
}

// NewResolver creates a resolver. A nil table uses DefaultTable.
func NewResolver(table *Table, t tagger.Tagger) *Resolver {
	if table == nil {
		table = DefaultTable()
	}
	return &Resolver{table: table, tagger: t}
}

// Table returns the resolver's abbreviation table.
func (r *Resolver) Table() *Table {
	return r.table
}

// Resolve scans text once, left to right, and returns a resolution for every
// period covered by an abbreviation shape. The cursor only moves forward:
// after each shape the scan resumes strictly past its last period.
func (r *Resolver) Resolve(ctx context.Context, text string) ([]Resolution, error) {
	var out []Resolution
	scan := r.table.scan(text)
	cursor := 0
	for cursor < len(text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start, end, ok := scan.nextShape(cursor)
		if !ok {
			break
		}
		if end <= start {
			cursor = start + 1
			continue
		}

		last := end - 1
		for p := start; p < last; p++ {
			if text[p] == '.' {
				out = append(out, Resolution{Offset: p, Decision: Keep, Candidate: text[start:end]})
			}
		}

		if text[last] == '.' {
			candidate := strings.TrimRight(text[start:last], trailingPunct)
			next := nextWord(text, end)
			decision, err := r.decide(ctx, candidate, next, wordsAfter(text, end, contextWords))
			if err != nil {
				return nil, err
			}
			out = append(out, Resolution{Offset: last, Decision: decision, Candidate: candidate, NextWord: next})
		}

		cursor = end
	}
	return out, nil
}

// contextWords is how many words after the candidate's next word are handed
// to the tagger along with it.
const contextWords = 3

// Decide resolves a single abbreviation period given the word before it
// and the whitespace-delimited word after it.
func (r *Resolver) Decide(ctx context.Context, candidate, next string) (Decision, error) {
	return r.decide(ctx, candidate, next, nil)
}

// decide tags next together with the words that follow it, so a
// statistical tagger sees the word as the opening of a sentence.
func (r *Resolver) decide(ctx context.Context, candidate, next string, after []string) (Decision, error) {
	if next == "" {
		return Split, nil
	}
	if r.table.IsTitle(strings.TrimRight(candidate, trailingPunct)) {
		return Keep, nil
	}

	word := strings.TrimLeft(next, `"'(`)
	first, _ := utf8.DecodeRuneInString(word)
	if !unicode.IsUpper(first) {
		return Split, nil
	}
	word = strings.TrimRight(word, trailingPunct)
	if word == "" {
		return Split, nil
	}

	tokens := append([]string{word}, after...)
	pairs, err := r.tagger.Tag(ctx, tokens)
	if err == nil && len(pairs) != len(tokens) {
		err = fmt.Errorf("tagger returned %d pairs for %d tokens", len(pairs), len(tokens))
	}
	if err != nil {
		if !errors.Is(err, internalerr.ErrTaggingUnavailable) {
			err = fmt.Errorf("%w: %v", internalerr.ErrTaggingUnavailable, err)
		}
		return Split, fmt.Errorf("resolve %q before %q: %w", candidate, word, err)
	}
	if tagclass.IsProperNoun(pairs[0].Tag) {
		return Keep, nil
	}
	return Split, nil
}

// KeptOffsets collects the offsets of periods that must not end a sentence.
func KeptOffsets(res []Resolution) map[int]bool {
	kept := make(map[int]bool, len(res))
	for _, r := range res {
		if r.Decision == Keep {
			kept[r.Offset] = true
		}
	}
	return kept
}

// nextWord returns the first whitespace-delimited word after the word that
// contains position from. Returns "" at end of input.
func nextWord(text string, from int) string {
	i := from
	for i < len(text) && !isSpace(text[i]) {
		i++
	}
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	j := i
	for j < len(text) && !isSpace(text[j]) {
		j++
	}
	return text[i:j]
}

// wordsAfter returns up to n words following the next word after from, with
// surrounding punctuation trimmed. It stops at a word that ends a sentence.
func wordsAfter(text string, from, n int) []string {
	var out []string
	i := from
	for k := 0; k <= n; k++ {
		for i < len(text) && !isSpace(text[i]) {
			i++
		}
		for i < len(text) && isSpace(text[i]) {
			i++
		}
		j := i
		for j < len(text) && !isSpace(text[j]) {
			j++
		}
		if i == j {
			break
		}
		if k > 0 {
			if word := strings.Trim(text[i:j], trailingPunct); word != "" {
				out = append(out, word)
			}
		}
		if strings.IndexByte(".!?", text[j-1]) >= 0 {
			break
		}
		i = j
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
