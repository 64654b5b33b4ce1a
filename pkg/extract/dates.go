package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	dateRe = regexp.MustCompile(`\b(\d{1,2})[-/ ]([A-Za-z]{3,9})[-/ ,]+(\d{4})\b|\b(\d{1,2})[-/.](\d{1,2})[-/.](\d{4})\b`)
	timeRe = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)

	arrivalValue = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b(?:\s*(\d{1,2}[-/ ][A-Za-z]{3,9}[-/ ,]+\d{4}|\d{1,2}[-/.]\d{1,2}[-/.]\d{4}))?`)

	journeyLabel   = regexp.MustCompile(`(?i)Date\s*of\s*Journey|Journey\s*Date|Start\s*Date|Boarding\s*Date|Date\s*of\s*Boarding|\bDeparture\b`)
	departureLabel = regexp.MustCompile(`(?i)\bDeparture\b\s*\*?\s*[:\-]?`)
	arrivalLabel   = regexp.MustCompile(`(?i)\bArrival\b\s*\*?\s*[:\-]?`)

	// header labels whose values are clock times on a shared value row
	clockColumns = regexp.MustCompile(`(?i)\b(?:Departure|Arrival)\b`)

	// bookingContext marks dates that belong to the booking, not the journey
	bookingContext = regexp.MustCompile(`(?i)Booking|Booked|Transaction|Printed|Generated`)
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// pickDate accepts a dateRe submatch when day and month are plausible
func pickDate(m []string) (string, bool) {
	if m[2] != "" {
		day, _ := strconv.Atoi(m[1])
		if day < 1 || day > 31 || !isMonthName(m[2]) {
			return "", false
		}
		return m[0], true
	}

	day, _ := strconv.Atoi(m[4])
	month, _ := strconv.Atoi(m[5])
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return "", false
	}
	return m[0], true
}

func isMonthName(s string) bool {
	s = strings.ToLower(s)
	if s == "sept" {
		return true
	}
	for _, name := range monthNames {
		if len(s) >= 3 && strings.HasPrefix(name, s) {
			return true
		}
	}
	return false
}

// findDate returns the first plausible date in s
func findDate(s string) (string, bool) {
	for _, m := range dateRe.FindAllStringSubmatch(s, -1) {
		if d, ok := pickDate(m); ok {
			return d, true
		}
	}
	return "", false
}

// formatClock renders an "H:MM" match as "HH:MM"
func formatClock(hour, minute string) string {
	if len(hour) == 1 {
		hour = "0" + hour
	}
	return hour + ":" + minute
}

func (v *vocab) journeyDateCascade() Cascade[string] {
	labeled := labelSpec{
		label:     journeyLabel,
		value:     dateRe,
		stop:      bookingContext,
		lookahead: v.cfg.LabelLookahead,
		pick:      pickDate,
	}

	return Cascade[string]{
		Field: "dateOfJourney",
		Strategies: []Strategy[string]{
			labeled.strategy("label"),
			StrategyFunc[string]{Label: "header date", Fn: v.headerDate},
		},
		Validate: nonEmpty,
	}
}

// headerDate scans the top of the document for the first date outside a
// booking context
func (v *vocab) headerDate(doc *Document) (Candidate[string], bool) {
	limit := int(math.Ceil(float64(len(doc.Lines)) * v.cfg.DateSearchFraction))
	for i := 0; i < limit && i < len(doc.Lines); i++ {
		line := doc.Lines[i]
		if bookingContext.MatchString(line) {
			continue
		}
		if d, ok := findDate(line); ok {
			return hit(d, i)
		}
	}
	return miss[string]()
}

func (v *vocab) departureCascade() Cascade[string] {
	lookup := labelSpec{
		label:     departureLabel,
		value:     timeRe,
		lookahead: 1,
		columns:   clockColumns,
		pick: func(m []string) (string, bool) {
			return formatClock(m[1], m[2]), true
		},
	}
	return Cascade[string]{
		Field:      "departureTime",
		Strategies: []Strategy[string]{lookup.strategy("label")},
		Validate:   nonEmpty,
	}
}

func (v *vocab) arrivalCascade() Cascade[string] {
	lookup := labelSpec{
		label:     arrivalLabel,
		value:     arrivalValue,
		lookahead: 1,
		columns:   clockColumns,
		pick: func(m []string) (string, bool) {
			out := formatClock(m[1], m[2])
			if m[3] != "" {
				out += " " + m[3]
			}
			return out, true
		},
	}
	return Cascade[string]{
		Field:      "arrival",
		Strategies: []Strategy[string]{lookup.strategy("label")},
		Validate:   nonEmpty,
	}
}
