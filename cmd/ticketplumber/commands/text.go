package commands

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	ticketplumber "github.com/pyhub-apps/ticketplumber-golang"
	"github.com/pyhub-apps/ticketplumber-golang/pkg/ticket"
)

func newTextCommand(root *rootOptions) *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "text <file|->",
		Short: "Parse already extracted ticket text",
		Long:  `Parse ticket text from a file, or from stdin when the argument is "-".`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := checkFormat(opts.format)
			if err != nil {
				return err
			}
			text, err := readText(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return ticket.InputError(args[0], ticket.ErrNoText)
			}

			trace := opts.traceSink()
			rec := ticketplumber.ParseText(text, opts.libraryOptions(root, trace)...)
			if trace != nil {
				renderTrace(cmd.ErrOrStderr(), args[0], trace.Events())
			}
			return writeOutput(cmd.OutOrStdout(), format, rec)
		},
	}

	opts.addFlags(cmd)
	return cmd
}

func readText(stdin io.Reader, name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", ticket.InputError("read "+name, err)
	}
	return string(data), nil
}
