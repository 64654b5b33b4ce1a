package extract

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// NAME (CODE) tokens
	stationToken       = regexp.MustCompile(`([A-Z][A-Z .'\-]*?[A-Z.])\s*\(([A-Z]{2,5})\)`)
	strictStationToken = regexp.MustCompile(`([A-Z][A-Z .'\-]*?[A-Z.])\s*\(([A-Z]{3,5})\)`)
	trailingCode       = regexp.MustCompile(`\(([A-Z]{2,5})\)\s*$`)

	routeHeader = regexp.MustCompile(`(?i)\bBooked\s*from\b.*\bTo\b`)
	fromToLine  = regexp.MustCompile(`(?i)\bFrom\b\s*\*?\s*[:\-]?\s*(.+?)\s+To\b\s*\*?\s*[:\-]?\s*(.+)$`)
	fromLabel   = regexp.MustCompile(`(?i)(?:\bBoarding\s*(?:At|Point|Station|From)\b\s*\*?\s*[:\-]?|^From\b\s*\*?\s*[:\-]?|\bFrom\s*:)`)
	toLabel     = regexp.MustCompile(`(?i)(?:\bReservation\s*Up\s*to\b\s*\*?\s*[:\-]?|^To\b\s*\*?\s*[:\-]?|\bTo\s*:)`)
	lonePointer = regexp.MustCompile(`(?i)(?:^|\s)(?:TO|FROM)(?:\s|:|$)`)
)

const stationTrim = " :-,;*|/"

// stationPair holds the origin and destination of a journey; either end may
// be empty when only a partial match was possible
type stationPair struct {
	From string
	To   string
}

func (p stationPair) complete() bool { return p.From != "" && p.To != "" }

func (v *vocab) stationCascade() Cascade[stationPair] {
	tiers := []StrategyFunc[stationPair]{
		{Label: "route header", Fn: v.stationsFromHeader},
		{Label: "from/to line", Fn: v.stationsFromLine},
		{Label: "labels", Fn: v.stationsFromLabels},
		{Label: "code tokens", Fn: v.stationsFromTokens},
	}

	memo := &tierMemo{tiers: tiers}
	strategies := make([]Strategy[stationPair], 0, len(tiers)+1)
	for i, t := range tiers {
		strategies = append(strategies, StrategyFunc[stationPair]{
			Label: t.Label,
			Fn:    func(doc *Document) (Candidate[stationPair], bool) { return memo.attempt(i, doc) },
		})
	}
	strategies = append(strategies, StrategyFunc[stationPair]{
		Label: "partial",
		Fn: func(doc *Document) (Candidate[stationPair], bool) {
			var out stationPair
			line := -1
			for i := range tiers {
				c, _ := memo.attempt(i, doc)
				if out.From == "" && c.Value.From != "" {
					out.From = c.Value.From
					line = c.Line
				}
				if out.To == "" && c.Value.To != "" {
					out.To = c.Value.To
				}
			}
			if out.From == "" && out.To == "" {
				return miss[stationPair]()
			}
			return hit(out, line)
		},
	})

	return Cascade[stationPair]{
		Field:      "stations",
		Strategies: strategies,
		Validate:   func(p stationPair) bool { return p.From != "" || p.To != "" },
	}
}

// tierMemo keeps each tier's result for the last document it saw, so the
// partial strategy combines half results without running the tiers again.
// It is not safe for concurrent use; stationCascade builds one per parse.
type tierMemo struct {
	tiers []StrategyFunc[stationPair]
	doc   *Document
	cands []Candidate[stationPair]
	oks   []bool
	done  []bool
}

func (m *tierMemo) attempt(i int, doc *Document) (Candidate[stationPair], bool) {
	if m.doc != doc {
		m.doc = doc
		m.cands = make([]Candidate[stationPair], len(m.tiers))
		m.oks = make([]bool, len(m.tiers))
		m.done = make([]bool, len(m.tiers))
	}
	if !m.done[i] {
		m.cands[i], m.oks[i] = m.tiers[i].Attempt(doc)
		m.done[i] = true
	}
	return m.cands[i], m.oks[i]
}

// stationsFromHeader reads the line following a "Booked from ... To" header.
// Tier results always carry whatever ends they resolved so the partial
// strategy can reuse them.
func (v *vocab) stationsFromHeader(doc *Document) (Candidate[stationPair], bool) {
	for i, line := range doc.Lines {
		if !routeHeader.MatchString(line) {
			continue
		}

		var tokens []string
		seen := make(map[string]bool)
		for j := i + 1; j <= i+2 && len(tokens) < 2; j++ {
			for _, m := range stationToken.FindAllString(doc.line(j), -1) {
				m = normalizeSpaces(m)
				if !seen[m] {
					seen[m] = true
					tokens = append(tokens, m)
				}
			}
		}
		if len(tokens) < 2 {
			continue
		}

		// Booked from | Boarding At | To: with three distinct tokens the
		// journey runs from the boarding point
		from, to := tokens[0], tokens[1]
		if len(tokens) >= 3 {
			from, to = tokens[1], tokens[2]
		}
		var pair stationPair
		pair.From, _ = v.refineStation(from)
		pair.To, _ = v.refineStation(to)
		return Candidate[stationPair]{Value: pair, Line: i + 1}, pair.complete()
	}
	return miss[stationPair]()
}

func (v *vocab) stationsFromLine(doc *Document) (Candidate[stationPair], bool) {
	partial := Candidate[stationPair]{Line: -1}
	for i, line := range doc.Lines {
		m := fromToLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		var pair stationPair
		pair.From, _ = v.refineStation(v.truncateStation(m[1]))
		pair.To, _ = v.refineStation(v.truncateStation(m[2]))
		if pair.complete() {
			return hit(pair, i)
		}
		if partial.Line < 0 && (pair.From != "" || pair.To != "") {
			partial = Candidate[stationPair]{Value: pair, Line: i}
		}
	}
	return partial, false
}

func (v *vocab) stationsFromLabels(doc *Document) (Candidate[stationPair], bool) {
	from, fromLine := v.labeledStation(doc, fromLabel, false)
	to, _ := v.labeledStation(doc, toLabel, true)
	pair := stationPair{From: from, To: to}
	return Candidate[stationPair]{Value: pair, Line: fromLine}, pair.complete()
}

// labeledStation returns the first station that refines cleanly after label.
// An empty value on the label line is looked up on the next line.
func (v *vocab) labeledStation(doc *Document, label *regexp.Regexp, last bool) (string, int) {
	for i, line := range doc.Lines {
		loc := label.FindStringIndex(line)
		if loc == nil {
			continue
		}

		value := v.truncateStation(line[loc[1]:])
		at := i
		if value == "" {
			value = v.truncateStation(doc.line(i + 1))
			at = i + 1
		}
		if value == "" {
			continue
		}
		if s, ok := v.refineStation(pickStationToken(value, last)); ok {
			return s, at
		}
	}
	return "", -1
}

// stationsFromTokens collects the first two distinct NAME (CODE) tokens
// anywhere in the document
func (v *vocab) stationsFromTokens(doc *Document) (Candidate[stationPair], bool) {
	var found []string
	first := -1
	seen := make(map[string]bool)

	for i, line := range doc.Lines {
		for _, m := range strictStationToken.FindAllStringSubmatch(line, -1) {
			code := m[2]
			name := strings.Trim(normalizeSpaces(m[1]), stationTrim)
			if v.codeBlack[code] || seen[code] || len(name) < v.cfg.MinStationNameLength {
				continue
			}
			s, ok := v.refineStation(name + " (" + code + ")")
			if !ok {
				continue
			}
			seen[code] = true
			found = append(found, s)
			if first < 0 {
				first = i
			}
			if len(found) == 2 {
				return hit(stationPair{From: found[0], To: found[1]}, first)
			}
		}
	}

	var pair stationPair
	if len(found) == 1 {
		pair.From = found[0]
	}
	return Candidate[stationPair]{Value: pair, Line: first}, false
}

// truncateStation cuts a raw label value at the next field label or a
// standalone To/From
func (v *vocab) truncateStation(s string) string {
	if loc := v.boundaryRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	if loc := lonePointer.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return strings.Trim(normalizeSpaces(s), stationTrim)
}

// pickStationToken returns the first (or last) NAME (CODE) token when s
// holds several, otherwise s unchanged
func pickStationToken(s string, last bool) string {
	tokens := stationToken.FindAllString(s, -1)
	if len(tokens) < 2 {
		return s
	}
	if last {
		return tokens[len(tokens)-1]
	}
	return tokens[0]
}

// refineStation cleans a raw station candidate and rejects values that are
// prose, labels or name fragments rather than station names.
func (v *vocab) refineStation(raw string) (string, bool) {
	words := strings.Fields(strings.Trim(normalizeSpaces(raw), stationTrim))

	// A word with lowercase letters starts trailing prose
	for i, w := range words {
		if hasLower(w) {
			words = words[:i]
			break
		}
	}
	s := strings.Trim(strings.Join(words, " "), stationTrim)
	if s == "" {
		return "", false
	}

	if letterCount(s) < 2 {
		return "", false
	}

	for _, w := range strings.Fields(s) {
		if v.disclaimers[strings.ToLower(strings.Trim(w, ".,;:()"))] {
			return "", false
		}
	}

	name := strings.TrimSpace(trailingCode.ReplaceAllString(s, ""))
	if name == "" {
		return "", false
	}
	upper := strings.ToUpper(name)
	if v.suffixes[upper] || v.boundarySet[upper] || upper == "TO" || upper == "FROM" {
		return "", false
	}

	return s, true
}

// StationCode returns the code in a trailing "(CODE)", or "" when absent
func StationCode(station string) string {
	if m := trailingCode.FindStringSubmatch(station); m != nil {
		return m[1]
	}
	return ""
}

func hasLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r)
}
