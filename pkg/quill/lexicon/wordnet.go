package lexicon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/tagclass"
)

// Open English WordNet synset files are named {pos}.{category}.json, e.g.
// adj.all.json or noun.artifact.json. The prefix gives the class.
var wordNetFilePrefixes = map[string]tagclass.Class{
	"noun": tagclass.Noun,
	"verb": tagclass.Verb,
	"adj":  tagclass.Adjective,
	"adv":  tagclass.Adverb,
}

// oewnSynset holds the fields we need from one synset.
type oewnSynset struct {
	Members      []string `json:"members"`
	PartOfSpeech string   `json:"partOfSpeech"`
}

// WordNetStats summarizes a WordNet import.
type WordNetStats struct {
	Files   int
	Synsets int
	Merged  int // synsets with at least two members
}

// LoadWordNet reads the synset files of an Open English WordNet JSON
// directory into lex. Every synset with two or more members is merged into
// the group of its first member, restricted to the synset's class.
func LoadWordNet(dirPath string, lex *Lexicon) (WordNetStats, error) {
	var stats WordNetStats

	info, err := os.Stat(dirPath)
	if err != nil {
		return stats, fmt.Errorf("open wordnet directory: %w", err)
	}
	if !info.IsDir() {
		return stats, fmt.Errorf("%w: %s is not a directory", internalerr.ErrInvalidConfig, dirPath)
	}

	files, err := filepath.Glob(filepath.Join(dirPath, "*.*.json"))
	if err != nil {
		return stats, fmt.Errorf("glob synset files: %w", err)
	}

	for _, path := range files {
		prefix, _, _ := strings.Cut(filepath.Base(path), ".")
		fileClass, ok := wordNetFilePrefixes[prefix]
		if !ok {
			continue
		}

		synsets, err := readSynsetFile(path)
		if err != nil {
			return stats, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		stats.Files++

		for _, synset := range synsets {
			stats.Synsets++
			if len(synset.Members) < 2 {
				continue
			}
			class := fileClass
			if c, ok := posClass(synset.PartOfSpeech); ok {
				class = c
			}
			members := make([]string, 0, len(synset.Members))
			for _, m := range synset.Members {
				members = append(members, strings.ReplaceAll(m, "_", " "))
			}
			lex.mergeGroup(members[0], class, members[1:])
			stats.Merged++
		}
	}
	return stats, nil
}

func readSynsetFile(path string) (map[string]oewnSynset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var synsets map[string]oewnSynset
	if err := json.Unmarshal(data, &synsets); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	return synsets, nil
}

// posClass maps the GWN-LMF part-of-speech letter to a class.
func posClass(pos string) (tagclass.Class, bool) {
	switch pos {
	case "n":
		return tagclass.Noun, true
	case "v":
		return tagclass.Verb, true
	case "a", "s":
		return tagclass.Adjective, true
	case "r":
		return tagclass.Adverb, true
	}
	return tagclass.Other, false
}

// mergeGroup adds variants to the group of canonical, creating it when
// missing. An existing group of a different class is widened to any class.
func (l *Lexicon) mergeGroup(canonical string, class tagclass.Class, variants []string) {
	canonical = normalize(canonical)
	old, exists := l.groups[canonical]
	if !exists {
		l.AddSynonymGroup(canonical, class, variants)
		return
	}
	if old.Class != class {
		class = tagclass.Other
	}
	merged := append(append([]string{}, old.Members[1:]...), variants...)
	l.AddSynonymGroup(canonical, class, merged)
}
