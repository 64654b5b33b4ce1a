package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	ticketplumber "github.com/pyhub-apps/ticketplumber-golang"
	"github.com/pyhub-apps/ticketplumber-golang/internal/config"
	"github.com/pyhub-apps/ticketplumber-golang/pkg/diag"
)

// rootOptions holds the persistent flags and the state built from them
type rootOptions struct {
	cfgFile  string
	logLevel string
	noColor  bool
	workers  int
	backend  string

	cfg    *config.Config
	logger zerolog.Logger
}

// NewRootCommand builds the ticketplumber command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ticketplumber",
		Short: "Extract structured records from train ticket PDFs",
		Long: `ticketplumber rebuilds the reading-order text of ticket PDFs and recovers
PNR, train, route, journey dates, fare and passenger rows from it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.cfgFile, "config", "c", "", "config file path")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.IntVar(&opts.workers, "workers", 0, "pages decoded concurrently")
	flags.StringVar(&opts.backend, "backend", "", "PDF backend (auto, ledongthuc, dslipak)")

	cmd.AddCommand(
		newParseCommand(opts),
		newTextCommand(opts),
		newLinesCommand(opts),
	)
	return cmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (o *rootOptions) init(cmd *cobra.Command) error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}

	// flags win over file and environment
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("workers") {
		cfg.PDF.Workers = o.workers
	}
	if flags.Changed("backend") {
		cfg.PDF.Backend = o.backend
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate flags: %w", err)
	}

	if o.noColor {
		color.NoColor = true
	}

	o.cfg = cfg
	o.logger = diag.NewLogger(diag.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cmd.ErrOrStderr(),
		NoColor: o.noColor,
	})
	return nil
}

// parseOptions maps the loaded configuration onto library options
func (o *rootOptions) parseOptions(sink diag.Sink) []ticketplumber.Option {
	return []ticketplumber.Option{
		ticketplumber.WithConfig(o.cfg.Extract),
		ticketplumber.WithBackend(o.cfg.Backend()),
		ticketplumber.WithWorkers(o.cfg.PDF.Workers),
		ticketplumber.WithValidation(o.cfg.PDF.Validate),
		ticketplumber.WithBucketSize(o.cfg.Layout.BucketSize),
		ticketplumber.WithSink(diag.Multi(diag.NewLoggerSink(o.logger), sink)),
	}
}
