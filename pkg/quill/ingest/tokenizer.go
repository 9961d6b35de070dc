package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is a lexeme with byte offsets relative to the text it came from.
type Token struct {
	Text  string
	Start int
	End   int
}

// clitics are split off the word they attach to, longest first.
var clitics = []string{"n't", "'ll", "'re", "'ve", "'s", "'d", "'m"}

// Tokenize splits text into word and punctuation tokens.
//
// base is the offset of text inside the paragraph that kept was computed
// for; a period whose paragraph offset is in kept stays attached to its word
// ("Dr." is one token). A period directly followed by a letter or digit is
// interior ("3.14", "e.g") and also stays attached. Runs of terminal
// punctuation form a single token.
func Tokenize(text string, base int, kept map[int]bool) []Token {
	var tokens []Token
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isWordRune(r):
			end := scanWord(text, i, base, kept)
			tokens = append(tokens, splitClitic(text, i, end)...)
			i = end
		case r < utf8.RuneSelf && isTerminal(byte(r)):
			j := i
			for j < len(text) && isTerminal(text[j]) {
				j++
			}
			tokens = append(tokens, Token{Text: text[i:j], Start: i, End: j})
			i = j
		default:
			tokens = append(tokens, Token{Text: text[i : i+size], Start: i, End: i + size})
			i += size
		}
	}
	return tokens
}

func scanWord(text string, i, base int, kept map[int]bool) int {
	j := i
	for j < len(text) {
		r, size := utf8.DecodeRuneInString(text[j:])
		if isWordRune(r) {
			j += size
			continue
		}
		follows := wordRuneAt(text, j+size)
		switch r {
		case '\'', '-', '/':
			if !follows {
				return j
			}
			j += size
		case '.':
			if follows {
				j += size
				continue
			}
			if kept[base+j] {
				return j + size
			}
			return j
		default:
			return j
		}
	}
	return j
}

func splitClitic(text string, start, end int) []Token {
	word := text[start:end]
	lower := strings.ToLower(word)
	for _, c := range clitics {
		if len(lower) > len(c) && strings.HasSuffix(lower, c) {
			cut := end - len(c)
			return []Token{
				{Text: text[start:cut], Start: start, End: cut},
				{Text: text[cut:end], Start: cut, End: end},
			}
		}
	}
	return []Token{{Text: word, Start: start, End: end}}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func wordRuneAt(text string, i int) bool {
	if i >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return isWordRune(r)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if isWordRune(r) {
			return true
		}
	}
	return false
}
