package diag

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string
	Format      string // json or console
	Output      io.Writer
	ServiceName string
	NoColor     bool
}

// NewLogger builds a zerolog logger from cfg
func NewLogger(cfg LogConfig) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var zl zerolog.Logger
	if strings.EqualFold(cfg.Format, "console") {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
			NoColor:    cfg.NoColor,
		})
	} else {
		zl = zerolog.New(output)
	}

	service := cfg.ServiceName
	if service == "" {
		service = "ticketplumber"
	}

	return zl.Level(parseZerologLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

// LoggerSink forwards trace events to a zerolog logger
type LoggerSink struct {
	logger zerolog.Logger
}

// NewLoggerSink wraps logger as a Sink
func NewLoggerSink(logger zerolog.Logger) *LoggerSink {
	return &LoggerSink{logger: logger}
}

// Record logs message at the zerolog level matching level
func (s *LoggerSink) Record(level Level, message string) {
	var evt *zerolog.Event
	switch level {
	case LevelError:
		evt = s.logger.Error()
	case LevelWarn:
		evt = s.logger.Warn()
	case LevelOK:
		evt = s.logger.Info().Bool("ok", true)
	default:
		evt = s.logger.Debug()
	}
	evt.Str("component", "ticket-parser").Msg(message)
}

func parseZerologLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	}
	return zerolog.InfoLevel
}
