package ingest

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// 12:30 becomes 12-30 so the colon never reads as a clause break.
	clockTime = regexp.MustCompile(`\b(\d{1,2}):(\d{1,2})\b`)

	// A closing quote belongs before the terminal punctuation it follows.
	quoteAfterTerminal = regexp.MustCompile(`([.!?]+)"`)

	typographic = strings.NewReplacer(
		"’d", "'d",
		"’ll", "'ll",
		"’m", "'m",
		"’re", "'re",
		"’s", "'s",
		"’t", "'t",
		"’ve", "'ve",
		"“", `"`,
		"”", `"`,
		"⁈", "?!",
		"⁉", "!?",
		"…", ".",
	)

	dashes = strings.NewReplacer(
		"--", ", ",
		"—", ", ",
		"–", " ",
	)
)

// Normalize rewrites one line of prose into the canonical form the segmenter
// expects. Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(line string) string {
	// Every pass either shrinks the line or moves a quote left, so this
	// reaches a fixed point.
	for {
		next := normalizePass(line)
		if next == line {
			return next
		}
		line = next
	}
}

// NormalizeText applies Normalize to each line, keeping line breaks.
func NormalizeText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = Normalize(line)
	}
	return strings.Join(lines, "\n")
}

func normalizePass(s string) string {
	s = norm.NFC.String(s)
	s = typographic.Replace(s)
	s = clockTime.ReplaceAllString(s, "$1-$2")
	s = dashes.Replace(s)
	s = collapseTerminals(s)
	s = strings.ReplaceAll(s, "?!", "!?")
	s = quoteAfterTerminal.ReplaceAllString(s, `"$1`)
	return s
}

// collapseTerminals squeezes runs of the same terminal mark: "..." -> ".",
// "!!" -> "!". Mixed runs such as "!?" are left alone.
func collapseTerminals(s string) string {
	if !strings.ContainsAny(s, ".!?") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i > 0 && c == s[i-1] && isTerminal(c) {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isTerminal(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}
