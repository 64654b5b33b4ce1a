package extract

import (
	"regexp"
	"strings"
)

// labelSpec describes a "Label: value" field whose value sits after the
// label on the same line or on one of the following lines
type labelSpec struct {
	label *regexp.Regexp
	value *regexp.Regexp
	// stop ends the searchable part of a line; lines starting a lookahead
	// that match stop are skipped
	stop      *regexp.Regexp
	lookahead int
	// pick turns a value submatch into the field value; nil takes the first
	// non-empty group
	pick func(m []string) (string, bool)
	// columns matches every label of a header row whose values share one
	// value row. A label in column N reads the Nth value of the next line.
	columns *regexp.Regexp
}

// find returns the value and the index of the line it was read from
func (ls labelSpec) find(doc *Document) (string, int, bool) {
	for i, line := range doc.Lines {
		loc := ls.label.FindStringIndex(line)
		if loc == nil {
			continue
		}

		rest := line[loc[1]:]
		if ls.stop != nil {
			if s := ls.stop.FindStringIndex(rest); s != nil {
				rest = rest[:s[0]]
			}
		}
		if v, ok := ls.match(rest, 0); ok {
			return v, i, true
		}

		col := ls.column(line, loc[0])
		for j := 1; j <= ls.lookahead; j++ {
			next := doc.line(i + j)
			if next == "" {
				continue
			}
			if ls.stop != nil && ls.stop.MatchString(next) {
				continue
			}
			if v, ok := ls.match(next, col); ok {
				return v, i + j, true
			}
		}
	}
	return "", -1, false
}

// match returns the nth accepted value in s (0-based)
func (ls labelSpec) match(s string, nth int) (string, bool) {
	for _, m := range ls.value.FindAllStringSubmatch(s, -1) {
		v, ok := firstGroup(m), true
		if ls.pick != nil {
			v, ok = ls.pick(m)
		}
		if !ok {
			continue
		}
		if nth == 0 {
			return v, true
		}
		nth--
	}
	return "", false
}

// column is the number of header labels that start before at on line
func (ls labelSpec) column(line string, at int) int {
	if ls.columns == nil {
		return 0
	}
	n := 0
	for _, loc := range ls.columns.FindAllStringIndex(line, -1) {
		if loc[0] < at {
			n++
		}
	}
	return n
}

// firstGroup returns the first non-empty capture group, or the whole match
func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return m[0]
}

// strategy wraps the lookup as a cascade strategy
func (ls labelSpec) strategy(name string) Strategy[string] {
	return StrategyFunc[string]{
		Label: name,
		Fn: func(doc *Document) (Candidate[string], bool) {
			if v, line, ok := ls.find(doc); ok {
				return hit(v, line)
			}
			return miss[string]()
		},
	}
}

var (
	distanceLabel = regexp.MustCompile(`(?i)\bDistance\b`)
	distanceValue = regexp.MustCompile(`(?i)\b(\d{1,5})\s*KMS?\b`)

	totalFareLabel  = regexp.MustCompile(`(?i)\bTotal\s*Fare\b`)
	ticketFareLabel = regexp.MustCompile(`(?i)\bTicket\s*Fare\b`)
	fareLabel       = regexp.MustCompile(`(?i)\bFare\b`)
	amountValue     = regexp.MustCompile(`(?:₹|Rs\.?|INR)\s*(\d[\d,]*(?:\.\d{1,2})?)|\b(\d[\d,]*\.\d{2})\b`)

	bookingDateLabel = regexp.MustCompile(`(?i)Date\s*(?:&|and)\s*Time\s*of\s*Booking|Booking\s*Date|Date\s*of\s*Booking|Booked\s*On`)
	transactionLabel = regexp.MustCompile(`(?i)Transaction\s*(?:ID|No\.?|Number)`)
)

func (v *vocab) distanceCascade() Cascade[string] {
	lookup := labelSpec{
		label:     distanceLabel,
		value:     distanceValue,
		lookahead: v.cfg.LabelLookahead,
		pick: func(m []string) (string, bool) {
			return m[1] + " KM", true
		},
	}
	return Cascade[string]{
		Field:      "distance",
		Strategies: []Strategy[string]{lookup.strategy("label")},
		Validate:   nonEmpty,
	}
}

func (v *vocab) fareCascade() Cascade[string] {
	pick := func(m []string) (string, bool) {
		amount := strings.ReplaceAll(firstGroup(m), ",", "")
		return amount, amount != ""
	}
	lookup := func(label *regexp.Regexp) labelSpec {
		return labelSpec{label: label, value: amountValue, lookahead: v.cfg.LabelLookahead, pick: pick}
	}
	return Cascade[string]{
		Field: "fare",
		Strategies: []Strategy[string]{
			lookup(totalFareLabel).strategy("total fare"),
			lookup(ticketFareLabel).strategy("ticket fare"),
			lookup(fareLabel).strategy("fare"),
		},
		Validate: nonEmpty,
	}
}

func (v *vocab) bookingDateCascade() Cascade[string] {
	lookup := labelSpec{
		label:     bookingDateLabel,
		value:     dateRe,
		lookahead: v.cfg.LabelLookahead,
		pick:      pickDate,
	}
	return Cascade[string]{
		Field:      "bookingDate",
		Strategies: []Strategy[string]{lookup.strategy("label")},
		Validate:   nonEmpty,
	}
}

func (v *vocab) transactionCascade() Cascade[string] {
	lookup := labelSpec{
		label:     transactionLabel,
		value:     v.txnRe,
		lookahead: v.cfg.LabelLookahead,
	}
	return Cascade[string]{
		Field:      "transactionId",
		Strategies: []Strategy[string]{lookup.strategy("label")},
		Validate:   nonEmpty,
	}
}
