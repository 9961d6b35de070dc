package tagger

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/quill/pkg/quill/internalerr"
)

// RuleTagger is a small dictionary + suffix heuristic tagger producing Penn
// Treebank codes. It is deterministic and needs no model, which makes it the
// fixture for tests and offline tooling; it guesses NNP for any unknown
// capitalized word, so analysis defaults to Prose.
type RuleTagger struct {
	words map[string]string
}

// clitics maps Treebank clitic tokens to the words they stand for.
var clitics = map[string]string{
	"'re": "are",
	"'s":  "has",
	"'ll": "will",
	"'ve": "have",
	"'d":  "would",
	"'m":  "am",
	"n't": "not",
}

// NewRuleTagger creates a tagger over the built-in word list. Entries in
// extra (word -> tag) override built-ins; words are matched case-insensitively.
func NewRuleTagger(extra map[string]string) *RuleTagger {
	words := make(map[string]string, len(builtinWords)+len(extra))
	for tag, list := range builtinWords {
		for _, w := range strings.Fields(list) {
			words[w] = tag
		}
	}
	for w, tag := range extra {
		words[strings.ToLower(w)] = tag
	}
	return &RuleTagger{words: words}
}

// Tag implements Tagger.
func (r *RuleTagger) Tag(ctx context.Context, tokens []string) ([]Pair, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrTaggingUnavailable, err)
	}
	pairs := make([]Pair, len(tokens))
	guessed := make([]bool, len(tokens))
	for i, tok := range tokens {
		tag, known := r.lookup(tok)
		pairs[i] = Pair{Token: tok, Tag: tag}
		guessed[i] = !known
	}

	// Context fixes apply only to heuristic guesses, never to listed words.
	for i := 1; i < len(pairs); i++ {
		if !guessed[i] {
			continue
		}
		prev := pairs[i-1].Tag
		cur := pairs[i].Tag
		switch {
		case (prev == "DT" || prev == "PRP$") && isVerbTag(cur):
			pairs[i].Tag = "NN"
		case (prev == "MD" || prev == "TO") && (cur == "NN" || cur == "VBP"):
			pairs[i].Tag = "VB"
		}
	}
	return pairs, nil
}

func (r *RuleTagger) lookup(tok string) (string, bool) {
	lower := strings.ToLower(tok)
	if full, ok := clitics[lower]; ok {
		lower = full
	}
	if tag, ok := r.words[lower]; ok {
		return tag, true
	}
	if tag := punctuationTag(tok); tag != "" {
		return tag, true
	}
	if isNumber(tok) {
		return "CD", true
	}
	first, _ := utf8.DecodeRuneInString(tok)
	if unicode.IsUpper(first) {
		return "NNP", false
	}
	return suffixTag(lower), false
}

func punctuationTag(tok string) string {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return ""
		}
	}
	switch {
	case tok == "":
		return ""
	case strings.Trim(tok, ".!?") == "":
		return "."
	case tok == ",":
		return ","
	case tok == ":" || tok == ";":
		return ":"
	case tok == "\"" || tok == "'":
		return "\""
	case tok == "(" || tok == "[" || tok == "{":
		return "("
	case tok == ")" || tok == "]" || tok == "}":
		return ")"
	case tok == "$" || tok == "#":
		return tok
	}
	return "SYM"
}

func isNumber(tok string) bool {
	digits := 0
	for _, r := range tok {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == ',' || r == '-':
		default:
			return false
		}
	}
	return digits > 0
}

func suffixTag(lower string) string {
	switch {
	case strings.HasSuffix(lower, "ly"):
		return "RB"
	case strings.HasSuffix(lower, "ing"):
		return "VBG"
	case strings.HasSuffix(lower, "ed"):
		return "VBD"
	case hasAnySuffix(lower, "ful", "less", "ous", "ive", "able", "ible", "ish", "ic", "al"):
		return "JJ"
	case hasAnySuffix(lower, "ness", "tion", "sion", "ment", "ity", "ship", "ss"):
		return "NN"
	case strings.HasSuffix(lower, "est") && len(lower) > 4:
		return "JJS"
	case strings.HasSuffix(lower, "s") && len(lower) > 3:
		return "NNS"
	}
	return "NN"
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func isVerbTag(tag string) bool {
	return strings.HasPrefix(tag, "VB")
}

// builtinWords maps a tag to a space-separated word list.
var builtinWords = map[string]string{
	"DT":   "a an the this that these those every each some any no another either neither all both half",
	"PDT":  "such",
	"EX":   "there",
	"PRP":  "i you he she it we they me him her us them myself yourself himself herself itself ourselves themselves",
	"PRP$": "my your his its our their",
	"WP":   "who whom what whoever whatever",
	"WDT":  "which whichever whose",
	"WRB":  "when where why how",
	"CC":   "and or but nor yet plus",
	"TO":   "to",
	"MD":   "can could may might must shall should will would",
	"IN": "about above across after against along among around at because before behind below beneath beside " +
		"between beyond by despite during except for from if in inside into like near of off on onto out outside " +
		"over past since than though although through throughout till toward towards under underneath until upon " +
		"while whether with within without as",
	"RP": "up down away back",
	"RB": "not never very too also just only even still always often really quite almost again now then here " +
		"soon already so ever rather well perhaps maybe once sometimes yesterday today tomorrow ironically",
	"JJ": "small big large little old new good bad great beautiful tired long short high low young red blue green " +
		"dark bright happy sad cold hot warm whole same other own next few many much last first true false " +
		"strong weak quiet loud real sure clear full empty free late early easy hard heavy light deep wide",
	"JJR": "more better worse bigger smaller older larger less",
	"JJS": "most best worst biggest smallest oldest largest least",
	"NN": "world dog cat man woman child house home day time way thing hand palm eye head life night year " +
		"store novel ability work sister brother father mother train coffee rain dinner soup room door window " +
		"street city town car book word heart mind face voice water fire sun moon sky tree road morning " +
		"evening end beginning story hell egg edge bit lot",
	"NNS":  "people eyes hands eggs words years days things",
	"VB":   "be go come see say make take know think feel look run get give find tell ask",
	"VBP":  "are am have do",
	"VBZ":  "is has does says goes",
	"VBD":  "was were had did said went came saw made took knew thought felt looked ran got gave found told asked left",
	"VBN":  "been done gone seen given known taken",
	"VBG":  "being having doing going",
	"UH":   "oh ah yes hey",
	"FW":   "etc",
}
