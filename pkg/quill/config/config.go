// Package config loads the YAML files that configure quill and assembles
// the analysis components from them.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/quill/pkg/quill/abbrev"
	"github.com/cognicore/quill/pkg/quill/internalerr"
)

// Abbreviations represents the abbreviation configuration
type Abbreviations struct {
	Titles      []string `yaml:"titles"`
	ExtraTitles []string `yaml:"extra_titles"`
	Shapes      []string `yaml:"shapes"`
}

// LoadAbbreviations loads abbreviation settings from a YAML file
func LoadAbbreviations(path string) (*Abbreviations, error) {
	var a Abbreviations
	if err := readYAML(path, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Table builds the abbreviation table. Non-empty Titles replace the
// defaults; ExtraTitles and Shapes extend them.
func (a *Abbreviations) Table() (*abbrev.Table, error) {
	titles := abbrev.DefaultTitles
	if len(a.Titles) > 0 {
		titles = a.Titles
	}
	titles = append(append([]string(nil), titles...), a.ExtraTitles...)
	shapes := append(append([]string(nil), abbrev.DefaultShapes...), a.Shapes...)
	return abbrev.NewTable(titles, shapes)
}

// Cliche is one named template.
type Cliche struct {
	ID       string `yaml:"id"`
	Template string `yaml:"template"`
}

// Cliches represents the template list
type Cliches struct {
	Cliches []Cliche `yaml:"cliches"`
}

// LoadCliches loads templates from a YAML file. Entries without an ID use
// their template text as ID.
func LoadCliches(path string) (*Cliches, error) {
	var c Cliches
	if err := readYAML(path, &c); err != nil {
		return nil, err
	}
	for i := range c.Cliches {
		c.Cliches[i].ID = strings.TrimSpace(c.Cliches[i].ID)
		if c.Cliches[i].ID == "" {
			c.Cliches[i].ID = strings.TrimSpace(c.Cliches[i].Template)
		}
	}
	return &c, nil
}

// TagLexicon holds word → tag overrides for the rule tagger
type TagLexicon struct {
	Words map[string]string `yaml:"words"`
}

// LoadTagLexicon loads tag overrides from a YAML file
func LoadTagLexicon(path string) (*TagLexicon, error) {
	var tl TagLexicon
	if err := readYAML(path, &tl); err != nil {
		return nil, err
	}
	return &tl, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	return nil
}
