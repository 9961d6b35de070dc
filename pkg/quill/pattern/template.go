// Package pattern compiles cliché templates into tagged element sequences.
//
// A template is a whitespace-separated list of words, each optionally
// followed by a command: "word/e" (exact lexeme, the default), "word/p" (any
// lexeme of the word's grammatical class) or "word/s" (the word or one of its
// synonyms).
package pattern

import (
	"strings"

	"github.com/cognicore/quill/pkg/quill/tagclass"
)

// Command selects how an element matches lexemes.
type Command byte

const (
	Exact    Command = 'e'
	POSOnly  Command = 'p'
	Synonyms Command = 's'
)

func (c Command) String() string {
	return string(c)
}

// Element is one compiled template position.
type Element struct {
	Word    string
	Tag     string
	Class   tagclass.Class
	Command Command
	// Lexemes accepted at this position. Nil means any lexeme of Class.
	Lexemes []string
}

// Accepts reports whether lexeme satisfies the element's lexeme constraint,
// ignoring case.
func (e Element) Accepts(lexeme string) bool {
	if e.Lexemes == nil {
		return true
	}
	for _, l := range e.Lexemes {
		if strings.EqualFold(l, lexeme) {
			return true
		}
	}
	return false
}

// Template is a compiled cliché.
type Template struct {
	ID       string
	Source   string
	Elements []Element
}

// Len returns the number of elements.
func (t *Template) Len() int {
	return len(t.Elements)
}
