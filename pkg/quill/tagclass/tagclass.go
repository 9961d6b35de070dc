// Package tagclass groups fine-grained part-of-speech tags (Penn Treebank
// codes as produced by the tagging adapters) into a small closed set of
// coarse grammatical classes and defines fuzzy equivalence between tags.
package tagclass

import "strings"

// Class is a coarse grammatical class.
type Class int

const (
	Other Class = iota
	Conjunction
	Preposition
	Adjective
	Noun
	Adverb
	LyAdverb
	Verb
)

// LyTag is the synthetic fine tag given to adverbs ending in "ly".
const LyTag = "LY"

var classNames = map[Class]string{
	Other:       "other",
	Conjunction: "conjunction",
	Preposition: "preposition",
	Adjective:   "adjective",
	Noun:        "noun",
	Adverb:      "adverb",
	LyAdverb:    "ly-adverb",
	Verb:        "verb",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "other"
}

// ParseClass is the inverse of Class.String. Matching ignores case.
func ParseClass(name string) (Class, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range classNames {
		if n == name {
			return c, true
		}
	}
	return Other, false
}

// table is the fine tag -> class mapping. Never mutated after init.
var table = map[string]Class{
	"CC": Conjunction,

	"IN": Preposition,
	"TO": Preposition,
	"RP": Preposition,

	"JJ":  Adjective,
	"JJR": Adjective,
	"JJS": Adjective,
	"RBR": Adjective,
	"RBS": Adjective,

	// Common nouns, proper nouns and pronouns form one noun family.
	"NN":   Noun,
	"NNS":  Noun,
	"NNP":  Noun,
	"NNPS": Noun,
	"PRP":  Noun,
	"PRP$": Noun,
	"WP":   Noun,

	"RB": Adverb,
	"LY": LyAdverb,

	"VB":  Verb,
	"VBD": Verb,
	"VBG": Verb,
	"VBN": Verb,
	"VBP": Verb,
	"VBT": Verb,
	"VBZ": Verb,
}

// groupable lists the classes whose members are fuzzy-equal to each other.
var groupable = map[Class]bool{
	Conjunction: true,
	Preposition: true,
	Adjective:   true,
	Adverb:      true,
	Noun:        true,
	Verb:        true,
}

// Classify maps a fine tag to its coarse class. Unknown tags are Other.
func Classify(tag string) Class {
	if c, ok := table[tag]; ok {
		return c
	}
	return Other
}

// FuzzyEqual reports whether two fine tags are interchangeable: identical,
// or members of the same groupable class. Other and LyAdverb only match
// identical tags.
func FuzzyEqual(a, b string) bool {
	if a == b {
		return true
	}
	ca, cb := Classify(a), Classify(b)
	return ca == cb && groupable[ca]
}

// IsProperNoun reports whether tag marks a proper noun.
func IsProperNoun(tag string) bool {
	return tag == "NNP" || tag == "NNPS"
}

// IsFiller reports whether c is a class the matcher may skip as noise.
func IsFiller(c Class) bool {
	return c == Adjective || c == Adverb || c == LyAdverb
}

// Retag applies the -ly adverb special case: a plain adverb whose lexeme
// ends in "ly" (any case) becomes LY. Any other pair is returned unchanged.
// Call it once, where a (lexeme, tag) pair is first recorded.
func Retag(lexeme, tag string) string {
	if tag == "RB" && strings.HasSuffix(strings.ToLower(lexeme), "ly") {
		return LyTag
	}
	return tag
}

// Group sums per-tag counts into per-class totals.
func Group(totals map[string]int) map[Class]int {
	grouped := make(map[Class]int)
	for tag, n := range totals {
		grouped[Classify(tag)] += n
	}
	return grouped
}
