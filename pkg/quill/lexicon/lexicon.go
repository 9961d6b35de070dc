// Package lexicon stores synonym groups used to widen "s" template elements.
package lexicon

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/kljensen/snowball"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/tagclass"
)

// Group is a set of interchangeable words. Class restricts the group to one
// grammatical class; Other means the group applies to any class.
type Group struct {
	Canonical string
	Class     tagclass.Class
	Members   []string // canonical first
}

// Lexicon stores synonym groups:
//   - Synonyms: different words with the same meaning (small ↔ little ↔ tiny)
//   - Inflections: found through a Snowball stem index (worlds → world)
//
// A word may belong to several groups (WordNet synsets overlap). Lookups are
// case-insensitive.
type Lexicon struct {
	// canonical -> group
	groups map[string]*Group

	// word -> canonicals of the groups containing it
	words map[string][]string

	// stem -> canonicals of the groups containing a word with that stem
	stems map[string][]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		groups: make(map[string]*Group),
		words:  make(map[string][]string),
		stems:  make(map[string][]string),
	}
}

// LoadFromYAML loads synonym groups from a YAML file.
//
// Expected format:
//
//	synonyms:
//	  - canonical: small
//	    class: adjective
//	    variants: [little, tiny, wee]
//	  - canonical: world
//	    variants: [earth, globe]
//
// class is optional and uses the tagclass names (noun, verb, adjective, ...).
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lex := New()
	if err := lex.LoadYAML(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lex, nil
}

// LoadYAML adds the groups described by data.
func (l *Lexicon) LoadYAML(data []byte) error {
	var config struct {
		Synonyms []struct {
			Canonical string   `yaml:"canonical"`
			Class     string   `yaml:"class"`
			Variants  []string `yaml:"variants"`
		} `yaml:"synonyms"`
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	for i, entry := range config.Synonyms {
		if strings.TrimSpace(entry.Canonical) == "" {
			return fmt.Errorf("%w: synonym group %d has no canonical word", internalerr.ErrInvalidConfig, i)
		}
		class := tagclass.Other
		if entry.Class != "" {
			c, ok := tagclass.ParseClass(entry.Class)
			if !ok {
				return fmt.Errorf("%w: synonym group %q: unknown class %q", internalerr.ErrInvalidConfig, entry.Canonical, entry.Class)
			}
			class = c
		}
		l.AddSynonymGroup(entry.Canonical, class, entry.Variants)
	}
	return nil
}

// AddSynonymGroup adds a group. The canonical form is always the first
// member. Adding a canonical that already exists replaces the old group.
func (l *Lexicon) AddSynonymGroup(canonical string, class tagclass.Class, variants []string) {
	canonical = normalize(canonical)
	if canonical == "" {
		return
	}
	if old, exists := l.groups[canonical]; exists {
		l.unindex(old)
	}

	members := make([]string, 0, len(variants)+1)
	seen := map[string]bool{canonical: true}
	members = append(members, canonical)
	for _, v := range variants {
		v = normalize(v)
		if v != "" && !seen[v] {
			members = append(members, v)
			seen[v] = true
		}
	}

	g := &Group{Canonical: canonical, Class: class, Members: members}
	l.groups[canonical] = g
	for _, m := range members {
		l.words[m] = appendUnique(l.words[m], canonical)
		l.stems[stem(m)] = appendUnique(l.stems[stem(m)], canonical)
	}
}

func (l *Lexicon) unindex(g *Group) {
	for _, m := range g.Members {
		l.words[m] = remove(l.words[m], g.Canonical)
		if len(l.words[m]) == 0 {
			delete(l.words, m)
		}
		s := stem(m)
		l.stems[s] = remove(l.stems[s], g.Canonical)
		if len(l.stems[s]) == 0 {
			delete(l.stems, s)
		}
	}
	delete(l.groups, g.Canonical)
}

// Normalize returns the canonical form of a token: the alphabetically first
// canonical among the groups containing it, or the lowercased token itself.
func (l *Lexicon) Normalize(token string) string {
	token = normalize(token)
	canonicals := l.words[token]
	if len(canonicals) == 0 {
		return token
	}
	first := canonicals[0]
	for _, c := range canonicals[1:] {
		if c < first {
			first = c
		}
	}
	return first
}

// Variants returns every word sharing a group with token, token first.
// Unknown tokens return a slice holding only the token.
func (l *Lexicon) Variants(token string) []string {
	return l.SynonymsOf(token, tagclass.Other)
}

// HasSynonyms reports whether token is a member of any group.
func (l *Lexicon) HasSynonyms(token string) bool {
	_, ok := l.words[normalize(token)]
	return ok
}

// SynonymsOf returns word followed by the members of every group that
// contains it and applies to class. Groups restricted to another class are
// skipped; passing tagclass.Other accepts every group. When word itself is
// unknown, groups sharing its Snowball stem are used, so "worlds" reaches
// the "world" group.
func (l *Lexicon) SynonymsOf(word string, class tagclass.Class) []string {
	word = normalize(word)
	out := []string{word}
	if word == "" {
		return out
	}

	canonicals := l.words[word]
	if len(canonicals) == 0 {
		canonicals = l.stems[stem(word)]
	}

	seen := map[string]bool{word: true}
	for _, c := range canonicals {
		g := l.groups[c]
		if g == nil || (class != tagclass.Other && g.Class != tagclass.Other && g.Class != class) {
			continue
		}
		for _, m := range g.Members {
			if !seen[m] {
				out = append(out, m)
				seen[m] = true
			}
		}
	}
	return out
}

// Groups returns all groups sorted by canonical form.
func (l *Lexicon) Groups() []Group {
	out := make([]Group, 0, len(l.groups))
	for _, g := range l.groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Canonical < out[j].Canonical })
	return out
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() LexiconStats {
	totalMembers := 0
	for _, g := range l.groups {
		totalMembers += len(g.Members)
	}
	return LexiconStats{
		SynonymGroups: len(l.groups),
		TotalMembers:  totalMembers,
		IndexedWords:  len(l.words),
		Stems:         len(l.stems),
	}
}

// LexiconStats holds statistics about lexicon contents.
type LexiconStats struct {
	SynonymGroups int // Number of groups
	TotalMembers  int // Members across all groups, canonicals included
	IndexedWords  int // Distinct words
	Stems         int // Distinct stems
}

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// stem reduces a word to its English Snowball stem. Multi-word entries and
// words the stemmer rejects are returned unchanged.
func stem(word string) string {
	if strings.ContainsAny(word, " _-") {
		return word
	}
	s, err := snowball.Stem(word, "english", false)
	if err != nil || s == "" {
		return word
	}
	return s
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
