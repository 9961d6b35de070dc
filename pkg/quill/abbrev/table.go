package abbrev

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/cognicore/quill/pkg/quill/internalerr"
)

// DefaultTitles are honorifics that never end a sentence on their own.
var DefaultTitles = []string{
	"Col", "Comdr", "Corp", "Cpl", "Dcn", "Dn", "Dr", "Fr", "Ft", "Lt",
	"Mr", "Mrs", "Ms", "Msgr", "Prof", "Rev", "Sgt", "SS",
}

// DefaultShapes are the abbreviation shapes whose periods need a decision.
// They are matched case-insensitively and must start at a word boundary.
var DefaultShapes = []string{
	`\d+\.\d+`, // decimals
	`a\.?d\.`,
	`a\.?m\.`,
	`apt\.`,
	`ave\.`,
	`b\.?a\.`,
	`b\.?c\.?e\.`,
	`b\.?c\.`,
	`blvd\.`,
	`b\.?s\.`,
	`capt\.`,
	`c\.?e\.`,
	`col\.`,
	`comdr\.`,
	`corp\.`,
	`cpl\.`,
	`ct\.`,
	`ctr\.`,
	`d\.?c\.`,
	`dcn\.`,
	`dn\.`,
	`dr\.`,
	`e\.?g\.`,
	`et\.? al\.`,
	`etc\.`,
	`fr\.`,
	`ft\.`,
	`i\.?e\.`,
	`inc\.`,
	`jr\.`,
	`ln\.`,
	`lt\.`,
	`ltd\.`,
	`no\.`,
	`m\.?d\.`,
	`mr\.`,
	`mrs\.`,
	`ms\.`,
	`msgr\.`,
	`mt\.`,
	`p\.?m\.`,
	`ph\.? ?d\.`,
	`prof\.`,
	`rd\.`,
	`rev\.`,
	`sgt\.`,
	`sr\.`,
	`s\.?s\.`,
	`st\.`,
	`ste\.`,
	`uninc\.`,
	`vs\.`,
}

// Table is the immutable abbreviation configuration shared by resolvers.
type Table struct {
	titles map[string]struct{}
	shapes []*regexp.Regexp
}

// NewTable compiles a table from titles and shape patterns.
func NewTable(titles, shapes []string) (*Table, error) {
	t := &Table{titles: make(map[string]struct{}, len(titles))}
	for _, title := range titles {
		if title == "" {
			continue
		}
		t.titles[title] = struct{}{}
	}
	for _, shape := range shapes {
		re, err := regexp.Compile(`(?i)\b` + shape)
		if err != nil {
			return nil, fmt.Errorf("%w: abbreviation shape %q: %v", internalerr.ErrInvalidConfig, shape, err)
		}
		t.shapes = append(t.shapes, re)
	}
	return t, nil
}

// DefaultTable returns the built-in titles and shapes.
func DefaultTable() *Table {
	t, err := NewTable(DefaultTitles, DefaultShapes)
	if err != nil {
		panic(err)
	}
	return t
}

// IsTitle reports whether word (case-sensitive) is a known title.
func (t *Table) IsTitle(word string) bool {
	_, ok := t.titles[word]
	return ok
}

// Titles returns the titles in sorted order.
func (t *Table) Titles() []string {
	out := make([]string, 0, len(t.titles))
	for title := range t.titles {
		out = append(out, title)
	}
	sort.Strings(out)
	return out
}

// ShapeCount returns the number of compiled shapes.
func (t *Table) ShapeCount() int {
	return len(t.shapes)
}

// shapeScan walks the shapes over one text. Each shape keeps its next match
// and is searched again only once the cursor has passed that match, so every
// shape reads the text about once no matter how many matches it has.
type shapeScan struct {
	shapes []*regexp.Regexp
	text   string
	next   [][2]int
}

const (
	unsearched = -1
	exhausted  = -2
)

func (t *Table) scan(text string) *shapeScan {
	next := make([][2]int, len(t.shapes))
	for i := range next {
		next[i] = [2]int{unsearched, unsearched}
	}
	return &shapeScan{shapes: t.shapes, text: text, next: next}
}

// nextShape finds the earliest shape match starting at or after from.
// Ties on the start position go to the longest match. Calls must not move
// from backwards.
func (s *shapeScan) nextShape(from int) (start, end int, ok bool) {
	start, end = -1, -1
	for i, re := range s.shapes {
		loc := s.next[i]
		if loc[0] == exhausted {
			continue
		}
		if loc[0] < from {
			m := re.FindStringIndex(s.text[from:])
			if m == nil {
				s.next[i] = [2]int{exhausted, exhausted}
				continue
			}
			loc = [2]int{m[0] + from, m[1] + from}
			s.next[i] = loc
		}
		if start == -1 || loc[0] < start || (loc[0] == start && loc[1] > end) {
			start, end = loc[0], loc[1]
		}
	}
	return start, end, start != -1
}
