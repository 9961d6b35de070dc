package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognicore/quill/pkg/quill/abbrev"
)

// Sentence is one sentence of a paragraph. Offset is the byte offset of Text
// inside the paragraph text; token offsets are relative to Text. The last
// token is always the terminator.
type Sentence struct {
	Offset int
	Text   string
	Tokens []Token
}

// Words returns the token texts.
func (s Sentence) Words() []string {
	out := make([]string, len(s.Tokens))
	for i, tok := range s.Tokens {
		out[i] = tok.Text
	}
	return out
}

// Paragraph is a block of lines; continuation lines are joined with "\n".
type Paragraph struct {
	Text      string
	Sentences []Sentence
}

// Dialogue is a double-quoted span inside a paragraph.
type Dialogue struct {
	Paragraph int
	Offset    int
	Text      string
	Tokens    []Token
}

// Document is the segmented form of a text.
type Document struct {
	Paragraphs []Paragraph
	Dialogue   []Dialogue
}

// Sentences flattens all paragraphs' sentences in document order.
func (d Document) Sentences() []Sentence {
	var out []Sentence
	for _, p := range d.Paragraphs {
		out = append(out, p.Sentences...)
	}
	return out
}

// TokenCount counts the tokens of every sentence.
func (d Document) TokenCount() int {
	n := 0
	for _, p := range d.Paragraphs {
		for _, s := range p.Sentences {
			n += len(s.Tokens)
		}
	}
	return n
}

// sceneMarks are the characters that make a letterless sentence a scene
// break ("* * *", "----", "###").
const sceneMarks = "-=~_#*"

// Segmenter splits normalized text into paragraphs, sentences and dialogue.
type Segmenter struct {
	resolver *abbrev.Resolver
}

// NewSegmenter creates a segmenter that uses r to decide abbreviation periods.
func NewSegmenter(r *abbrev.Resolver) *Segmenter {
	return &Segmenter{resolver: r}
}

// Resolver returns the abbreviation resolver.
func (s *Segmenter) Resolver() *abbrev.Resolver {
	return s.resolver
}

// Segment splits text. Text should already be normalized (see NormalizeText).
// Empty or blank text yields an empty document and no error.
func (s *Segmenter) Segment(ctx context.Context, text string) (Document, error) {
	var doc Document
	if strings.TrimSpace(text) == "" {
		return doc, nil
	}

	for _, block := range paragraphBlocks(text) {
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}
		if !hasLetter(block) {
			continue
		}

		res, err := s.resolver.Resolve(ctx, block)
		if err != nil {
			return Document{}, fmt.Errorf("segment paragraph %d: %w", len(doc.Paragraphs), err)
		}
		kept := abbrev.KeptOffsets(res)

		sentences := splitSentences(block, kept)
		if len(sentences) == 0 {
			continue
		}
		index := len(doc.Paragraphs)
		doc.Paragraphs = append(doc.Paragraphs, Paragraph{Text: block, Sentences: sentences})
		doc.Dialogue = append(doc.Dialogue, extractDialogue(block, index, kept)...)
	}
	return doc, nil
}

// paragraphBlocks groups lines into paragraphs. A line that starts with a
// space or tab continues the previous paragraph.
func paragraphBlocks(text string) []string {
	var (
		blocks []string
		cur    []string
	)
	flush := func() {
		if len(cur) > 0 {
			blocks = append(blocks, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(cur) > 0 && line != "" && (line[0] == ' ' || line[0] == '\t') {
			cur = append(cur, line)
			continue
		}
		flush()
		cur = append(cur, line)
	}
	flush()
	return blocks
}

// splitSentences breaks a paragraph at terminal punctuation. A run holding
// '!' or '?' always ends a sentence. A run of periods ends one unless each
// period is kept or interior.
func splitSentences(text string, kept map[int]bool) []Sentence {
	var out []Sentence
	start := 0
	i := 0
	for i < len(text) {
		if !isTerminal(text[i]) {
			i++
			continue
		}
		j := i
		for j < len(text) && isTerminal(text[j]) {
			j++
		}
		if isBoundary(text, i, j, kept) {
			if s, ok := buildSentence(text, start, i, j, kept); ok {
				out = append(out, s)
			}
			start = j
		}
		i = j
	}

	// Unterminated trailing text gets a zero-width period.
	if start < len(text) && hasWordRune(text[start:]) {
		if s, ok := buildSentence(text, start, len(text), len(text), kept); ok {
			s.Tokens[len(s.Tokens)-1].Text = "."
			out = append(out, s)
		}
	}
	return out
}

func isBoundary(text string, i, j int, kept map[int]bool) bool {
	if strings.ContainsAny(text[i:j], "!?") {
		return true
	}
	for p := i; p < j; p++ {
		if !kept[p] && !wordRuneAt(text, p+1) {
			return true
		}
	}
	return false
}

// buildSentence makes a sentence from text[start:end] terminated by
// text[end:stop].
func buildSentence(text string, start, end, stop int, kept map[int]bool) (Sentence, bool) {
	trimmed := strings.TrimLeft(text[start:end], " \t\n\r")
	off := end - len(trimmed)
	body := text[off:end]

	if !hasWordRune(body) {
		return Sentence{}, false
	}
	if !hasLetter(body) && strings.ContainsAny(body, sceneMarks) {
		return Sentence{}, false
	}

	tokens := Tokenize(body, off, kept)
	tokens = append(tokens, Token{Text: text[end:stop], Start: end - off, End: stop - off})
	return Sentence{Offset: off, Text: text[off:stop], Tokens: tokens}, true
}

// extractDialogue pulls every "..." span from each line of a paragraph. A
// quote left open ends extraction for that line.
func extractDialogue(text string, paragraph int, kept map[int]bool) []Dialogue {
	var out []Dialogue
	lineStart := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		pos := 0
		for {
			open := strings.IndexByte(line[pos:], '"')
			if open < 0 {
				break
			}
			open += pos
			closing := strings.IndexByte(line[open+1:], '"')
			if closing < 0 {
				break
			}
			closing += open + 1

			inner := line[open+1 : closing]
			off := lineStart + open + 1
			if tokens := Tokenize(inner, off, kept); len(tokens) > 0 {
				out = append(out, Dialogue{Paragraph: paragraph, Offset: off, Text: inner, Tokens: tokens})
			}
			pos = closing + 1
		}
		lineStart += len(line)
	}
	return out
}
