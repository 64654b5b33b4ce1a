package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	ticketplumber "github.com/pyhub-apps/ticketplumber-golang"
	"github.com/pyhub-apps/ticketplumber-golang/pkg/diag"
)

type parseOptions struct {
	format   string
	trace    bool
	parallel bool
}

func newParseCommand(root *rootOptions) *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <pdf>...",
		Short: "Parse ticket PDFs into records",
		Long: `Parse one or more ticket PDFs and print the extracted records.
A single file prints one record; several files print a list.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, root, opts, args)
		},
	}

	opts.addFlags(cmd)
	return cmd
}

func (o *parseOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "json", "output format (json, yaml)")
	cmd.Flags().BoolVar(&o.trace, "trace", false, "print the extraction trace to stderr")
	cmd.Flags().BoolVar(&o.parallel, "parallel", false, "run field extractors concurrently")
}

// traceSink returns a fresh in-memory trace when --trace is set, nil otherwise
func (o *parseOptions) traceSink() *diag.MemorySink {
	if !o.trace {
		return nil
	}
	return diag.NewMemorySink(0)
}

func (o *parseOptions) libraryOptions(root *rootOptions, trace *diag.MemorySink) []ticketplumber.Option {
	var sink diag.Sink
	if trace != nil {
		sink = trace
	}
	return append(root.parseOptions(sink), ticketplumber.WithParallel(o.parallel))
}

func runParse(cmd *cobra.Command, root *rootOptions, opts *parseOptions, args []string) error {
	format, err := checkFormat(opts.format)
	if err != nil {
		return err
	}

	var records []*ticketplumber.Record
	var failed int
	for _, path := range args {
		trace := opts.traceSink()
		rec, err := ticketplumber.ParseFile(cmd.Context(), path, opts.libraryOptions(root, trace)...)
		if trace != nil {
			renderTrace(cmd.ErrOrStderr(), path, trace.Events())
		}
		if err != nil {
			if !ticketplumber.IsInputError(err) {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			root.logger.Error().Err(err).Str("file", path).Msg("Skipping unreadable ticket")
			failed++
			continue
		}
		records = append(records, rec)
	}

	if len(records) > 0 {
		var out any = records
		if len(args) == 1 {
			out = records[0]
		}
		if err := writeOutput(cmd.OutOrStdout(), format, out); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be parsed", failed, len(args))
	}
	return nil
}

func checkFormat(format string) (string, error) {
	switch f := strings.ToLower(format); f {
	case "json", "yaml":
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or yaml)", format)
}

func writeOutput(w io.Writer, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
