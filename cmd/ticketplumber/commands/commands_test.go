package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const ticketText = `PNR Train No./Name
1234567890 12297/PUNE DURONTO
Passenger Details
1. JOHN DOE 34 M CNF/A1/46/UPPER
Total Fare ₹ 1,245.50`

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(append(args, "--no-color", "--log-level", "error"))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTextFromStdin(t *testing.T) {
	out, _, err := run(t, ticketText, "text", "-")
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "1234567890", rec["pnr"])
	assert.Equal(t, "12297", rec["trainNo"])
	assert.Equal(t, "1245.50", rec["fare"])
}

func TestTextFromFileAsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticket.txt")
	require.NoError(t, os.WriteFile(path, []byte(ticketText), 0o600))

	out, _, err := run(t, "", "text", path, "--format", "yaml")
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "PUNE DURONTO", rec["trainName"])
	assert.Equal(t, "CNF", rec["status"])
}

func TestTextTrace(t *testing.T) {
	_, errOut, err := run(t, ticketText, "text", "-", "--trace")
	require.NoError(t, err)

	assert.Contains(t, errOut, "--- - ---")
	assert.Contains(t, errOut, "[ok  ] Parsed: 1234567890")
	assert.Contains(t, errOut, "[warn] quota: not found")
}

func TestTextRejectsEmptyInput(t *testing.T) {
	_, _, err := run(t, "  \n", "text", "-")
	assert.ErrorContains(t, err, "no text")
}

func TestUnknownFormat(t *testing.T) {
	_, _, err := run(t, ticketText, "text", "-", "--format", "xml")
	assert.ErrorContains(t, err, `unknown format "xml"`)
}

func TestParseMissingFile(t *testing.T) {
	out, _, err := run(t, "", "parse", filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorContains(t, err, "1 of 1 files could not be parsed")
	assert.Empty(t, out)
}

func TestBackendFlagIsValidated(t *testing.T) {
	_, _, err := run(t, ticketText, "text", "-", "--backend", "pdfium")
	assert.ErrorContains(t, err, "invalid pdf backend")
}

func TestLinesMissingFile(t *testing.T) {
	_, _, err := run(t, "", "lines", filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}
