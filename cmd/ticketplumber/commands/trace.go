package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/pyhub-apps/ticketplumber-golang/pkg/diag"
)

var levelColors = map[diag.Level]*color.Color{
	diag.LevelInfo:  color.New(color.FgCyan),
	diag.LevelOK:    color.New(color.FgGreen, color.Bold),
	diag.LevelWarn:  color.New(color.FgYellow),
	diag.LevelError: color.New(color.FgRed, color.Bold),
}

// renderTrace prints the events of one parse, one line each
func renderTrace(w io.Writer, title string, events []diag.Event) {
	color.New(color.Bold).Fprintf(w, "--- %s ---\n", title)
	for _, e := range events {
		c, ok := levelColors[e.Level]
		if !ok {
			c = levelColors[diag.LevelInfo]
		}
		c.Fprintf(w, "[%-4s]", e.Level)
		fmt.Fprintf(w, " %s\n", e.Message)
	}
}
