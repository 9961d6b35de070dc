// Package match finds compiled cliché templates in tagged sentences.
package match

import (
	"strings"

	"github.com/cognicore/quill/pkg/quill/ingest"
	"github.com/cognicore/quill/pkg/quill/pattern"
	"github.com/cognicore/quill/pkg/quill/tagclass"
)

// Match is one occurrence of a template in a sentence. Start and End are
// token indices, End exclusive.
type Match struct {
	TemplateID string            `json:"template_id"`
	Template   *pattern.Template `json:"-"`
	Sentence   int               `json:"sentence"`
	Start      int               `json:"start"`
	End        int               `json:"end"`
	Words      []string          `json:"words"`           // matched and noise lexemes, in sentence order
	Noise      []int             `json:"noise,omitempty"` // token indices skipped as noise
}

// Phrase returns the matched span as space-separated lexemes.
func (m Match) Phrase(sentence []ingest.TaggedToken) string {
	if m.Start < 0 || m.End > len(sentence) || m.Start >= m.End {
		return ""
	}
	words := make([]string, 0, m.End-m.Start)
	for _, tok := range sentence[m.Start:m.End] {
		words = append(words, tok.Text)
	}
	return strings.Join(words, " ")
}

// NoiseWords returns the lexemes of the noise tokens.
func (m Match) NoiseWords(sentence []ingest.TaggedToken) []string {
	out := make([]string, 0, len(m.Noise))
	for _, i := range m.Noise {
		if i >= 0 && i < len(sentence) {
			out = append(out, sentence[i].Text)
		}
	}
	return out
}

// Find reports every start index at which tpl matches sentence. Adjectives
// and adverbs between elements are skipped as noise unless the element
// itself asks for that class. The first completion from a start index wins;
// overlapping matches from different start indices are all returned.
func Find(sentence []ingest.TaggedToken, tpl *pattern.Template) []Match {
	if tpl == nil || len(tpl.Elements) == 0 {
		return nil
	}
	var out []Match
	for i := range sentence {
		if m, ok := matchAt(sentence, tpl, i); ok {
			out = append(out, m)
		}
	}
	return out
}

func matchAt(sentence []ingest.TaggedToken, tpl *pattern.Template, i int) (Match, bool) {
	var (
		words []string
		noise []int
	)
	j := i
	for k := 0; k < len(tpl.Elements); k++ {
		el := tpl.Elements[k]
		for j < len(sentence) && tagclass.IsFiller(sentence[j].Class) && sentence[j].Class != el.Class {
			noise = append(noise, j)
			words = append(words, sentence[j].Text)
			j++
		}
		if j >= len(sentence) {
			return Match{}, false
		}
		tok := sentence[j]
		if !tagclass.FuzzyEqual(el.Tag, tok.Tag) || !el.Accepts(tok.Text) {
			return Match{}, false
		}
		words = append(words, tok.Text)
		j++
	}
	return Match{
		TemplateID: tpl.ID,
		Template:   tpl,
		Start:      i,
		End:        j,
		Words:      words,
		Noise:      noise,
	}, true
}
