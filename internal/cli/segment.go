package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/quill/pkg/quill/ingest"
)

var segmentDialogue bool

// segmentCmd represents the segment command
var segmentCmd = &cobra.Command{
	Use:   "segment [file]",
	Short: "Print the sentences of a text, one per line",
	Long: `Segment normalizes the text, splits it into paragraphs and sentences and
prints each sentence as space-separated tokens. Paragraphs are separated by
a blank line. With --dialogue, quoted speech is printed instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := readInputs(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		comp, err := loadComponents(cmd.Context())
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		doc, err := comp.Segmenter.Segment(cmd.Context(), ingest.NormalizeText(items[0].Body))
		if err != nil {
			return err
		}
		if segmentDialogue {
			return writeDialogue(cmd.OutOrStdout(), doc)
		}
		return writeSentences(cmd.OutOrStdout(), doc)
	},
}

func init() {
	rootCmd.AddCommand(segmentCmd)
	segmentCmd.Flags().BoolVar(&segmentDialogue, "dialogue", false, "print quoted dialogue instead of sentences")
}

func writeSentences(w io.Writer, doc ingest.Document) error {
	for i, p := range doc.Paragraphs {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		for _, s := range p.Sentences {
			if _, err := fmt.Fprintln(w, strings.Join(s.Words(), " ")); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeDialogue(w io.Writer, doc ingest.Document) error {
	for _, d := range doc.Dialogue {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", d.Paragraph, d.Text); err != nil {
			return err
		}
	}
	return nil
}
