package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	ticketplumber "github.com/pyhub-apps/ticketplumber-golang"
)

func newLinesCommand(root *rootOptions) *cobra.Command {
	var showFragments bool

	cmd := &cobra.Command{
		Use:   "lines <pdf>",
		Short: "Print the reconstructed lines of a PDF",
		Long: `Print every reconstructed line with its page and baseline, in the order
the extractors see them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := ticketplumber.Lines(cmd.Context(), args[0], root.parseOptions(nil)...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			dim := color.New(color.Faint)
			page := 0
			for _, line := range lines {
				if line.Page != page {
					page = line.Page
					color.New(color.Bold).Fprintf(out, "=== Page %d ===\n", page)
				}
				dim.Fprintf(out, "%8.2f  ", line.Y)
				fmt.Fprintln(out, line.Text)

				if showFragments {
					for _, f := range line.Fragments {
						dim.Fprintf(out, "          x=%-8.2f %q\n", f.X, f.Text)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showFragments, "fragments", false, "also print the fragments of each line")
	return cmd
}
