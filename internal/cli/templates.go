package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cognicore/quill/pkg/quill/config"
	"github.com/cognicore/quill/pkg/quill/pattern"
)

// templatesCmd represents the templates command
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List compiled templates and the ones that were rejected",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		comp, err := loadComponents(cmd.Context())
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		return writeTemplates(cmd.OutOrStdout(), comp.Hunter.Templates(), comp.Rejected)
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func writeTemplates(w io.Writer, templates []*pattern.Template, rejected []config.Rejection) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTEMPLATE\tELEMENTS")
	for _, tpl := range templates {
		elems := make([]string, len(tpl.Elements))
		for i, el := range tpl.Elements {
			elems[i] = fmt.Sprintf("%s/%c[%s %s]", el.Word, el.Command, el.Tag, el.Class)
			if el.Command == pattern.Synonyms && len(el.Lexemes) > 1 {
				elems[i] += "{" + strings.Join(el.Lexemes[1:], ",") + "}"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", tpl.ID, tpl.Source, strings.Join(elems, " "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(rejected) > 0 {
		fmt.Fprintf(w, "\nrejected (%d):\n", len(rejected))
		for _, r := range rejected {
			fmt.Fprintf(w, "  %s\t%q\t%v\n", r.ID, r.Template, r.Err)
		}
	}
	return nil
}
