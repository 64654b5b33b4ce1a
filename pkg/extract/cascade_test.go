package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyhub-apps/ticketplumber-golang/pkg/diag"
)

func constant(name, value string) Strategy[string] {
	return StrategyFunc[string]{Label: name, Fn: func(*Document) (Candidate[string], bool) {
		if value == "" {
			return miss[string]()
		}
		return hit(value, 0)
	}}
}

func TestCascadeFirstValidWins(t *testing.T) {
	c := Cascade[string]{
		Field: "demo",
		Strategies: []Strategy[string]{
			constant("empty", ""),
			constant("short", "ab"),
			constant("good", "abcd"),
			constant("later", "zzzz"),
		},
		Validate: func(s string) bool { return len(s) == 4 },
	}

	cand, via, ok := c.Run(NewDocument(""), nil)
	require.True(t, ok)
	assert.Equal(t, "abcd", cand.Value)
	assert.Equal(t, 3, cand.Tier)
	assert.Equal(t, "good", via)
}

func TestCascadeNothingFound(t *testing.T) {
	c := Cascade[string]{Field: "demo", Strategies: []Strategy[string]{constant("empty", "")}}

	_, via, ok := c.Run(NewDocument("text"), diag.Nop)
	assert.False(t, ok)
	assert.Empty(t, via)
}

func TestCascadeRecoversPanickingStrategy(t *testing.T) {
	sink := diag.NewMemorySink(0)
	c := Cascade[string]{
		Field: "demo",
		Strategies: []Strategy[string]{
			StrategyFunc[string]{Label: "boom", Fn: func(*Document) (Candidate[string], bool) {
				var lines []string
				return hit(lines[3], 0)
			}},
			constant("fallback", "ok"),
		},
	}

	cand, via, ok := c.Run(NewDocument(""), sink)
	require.True(t, ok)
	assert.Equal(t, "ok", cand.Value)
	assert.Equal(t, "fallback", via)

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, diag.LevelError, events[0].Level)
	assert.Contains(t, events[0].Message, `demo: strategy "boom" failed`)
}

func TestNewDocumentNormalizesWhitespace(t *testing.T) {
	doc := NewDocument("PNR:\u00a01234567890\r\n  Train   12297 \rend")

	assert.Equal(t, []string{"PNR: 1234567890", "Train 12297", "end"}, doc.Lines)
	assert.NotContains(t, doc.Text, "\u00a0")
	assert.Equal(t, "", doc.line(10))
}
