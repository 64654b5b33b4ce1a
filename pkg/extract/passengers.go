package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pyhub-apps/ticketplumber-golang/pkg/ticket"
)

var (
	passengerHeader = regexp.MustCompile(`(?i)\bPassenger\s*Details?\b|\b(?:S|Sl|Sr)\.?\s*No\b.*\bName\b|\bSeq\b.*\bName\b|^#\s*Name\b`)

	// 1. JOHN DOE 34 M CNF/A1/46/UPPER [CNF/A1/46/UPPER]
	rowWithAge = regexp.MustCompile(`^(\d{1,2})[.)]?\s+([A-Za-z][A-Za-z .'\-]*?)\s+(\d{1,3})\s*(?i:yrs?|years?)?\s+(?i:(MALE|FEMALE|TRANSGENDER|M|F|T))\s+(\S+)(?:\s+(\S+))?`)

	seqName   = regexp.MustCompile(`\b(\d{1,2})[.)]\s*([A-Z][A-Za-z .'\-]{1,80})`)
	ageGender = regexp.MustCompile(`^\s*(\d{1,3})\s*(?i:yrs?|years?)?\s+(?i:(MALE|FEMALE|TRANSGENDER|M|F|T))\b`)
)

type tableState int

const (
	searchingHeader tableState = iota
	inTable
	tableDone
)

// parsePassengers reads the passenger table, falling back to a scan around
// status tokens when no table row parses
func (v *vocab) parsePassengers(doc *Document) ([]ticket.Passenger, string) {
	if rows := v.passengerTable(doc); len(rows) > 0 {
		return rows, "table"
	}
	if rows := v.passengersNearStatus(doc); len(rows) > 0 {
		return rows, "status scan"
	}
	return nil, ""
}

func (v *vocab) passengerTable(doc *Document) []ticket.Passenger {
	var rows []ticket.Passenger
	seen := make(map[string]bool)
	state := searchingHeader
	windowEnd := 0

	for i, line := range doc.Lines {
		switch state {
		case searchingHeader:
			if passengerHeader.MatchString(line) {
				state = inTable
				windowEnd = i + v.cfg.PassengerWindow
			}
		case inTable:
			if i > windowEnd || v.stopRe.MatchString(line) {
				state = tableDone
				break
			}
			if p, ok := v.parseRow(line); ok && !seen[p.Seq] {
				seen[p.Seq] = true
				rows = append(rows, p)
			}
		}

		if state == tableDone {
			if len(rows) > 0 {
				break
			}
			// an empty table may just have been a title; look for the next header
			state = searchingHeader
		}
	}
	return rows
}

// parseRow decodes one table line with or without the age/gender columns
func (v *vocab) parseRow(line string) (ticket.Passenger, bool) {
	if m := rowWithAge.FindStringSubmatch(line); m != nil {
		status, seat := v.chooseStatus(m[5], m[6])
		return ticket.Passenger{
			Seq:    m[1],
			Name:   normalizeSpaces(m[2]),
			Age:    m[3],
			Gender: normalizeGender(m[4]),
			Status: status,
			Seat:   seat,
		}, true
	}

	if m := v.rowBRe.FindStringSubmatch(line); m != nil {
		status, seat, _ := v.splitStatus(m[3])
		return ticket.Passenger{
			Seq:    m[1],
			Name:   normalizeSpaces(m[2]),
			Status: status,
			Seat:   seat,
		}, true
	}

	return ticket.Passenger{}, false
}

// chooseStatus picks the status column out of the trailing row tokens. The
// first token whose leading segment is in the status vocabulary wins; a seat
// missing from it is taken from the other token.
func (v *vocab) chooseStatus(first, second string) (ticket.Status, string) {
	s1, seat1, ok1 := v.splitStatus(first)
	if second == "" {
		return s1, seat1
	}
	s2, seat2, ok2 := v.splitStatus(second)

	status, seat := s1, seat1
	other, otherSeat, otherOK := second, seat2, ok2
	if !ok1 && ok2 {
		status, seat = s2, seat2
		other, otherSeat, otherOK = first, seat1, ok1
	}

	if seat == "" {
		if otherOK {
			seat = otherSeat
		} else if containsDigit(other) {
			seat = other
		}
	}
	return status, seat
}

// passengersNearStatus finds each status token in the raw text and looks
// back for the nearest "N. NAME" before it
func (v *vocab) passengersNearStatus(doc *Document) []ticket.Passenger {
	text := doc.Text
	var rows []ticket.Passenger
	seen := make(map[string]bool)

	for _, loc := range v.statusRe.FindAllStringIndex(text, -1) {
		from := loc[0] - v.cfg.FallbackLookback
		if from < 0 {
			from = 0
		}
		for from < loc[0] && !utf8.RuneStart(text[from]) {
			from++
		}
		back := text[from:loc[0]]

		matches := seqName.FindAllStringSubmatchIndex(back, -1)
		if len(matches) == 0 {
			continue
		}
		m := matches[len(matches)-1]
		seq := back[m[2]:m[3]]
		if seen[seq] {
			continue
		}

		p := ticket.Passenger{Seq: seq, Name: normalizeSpaces(back[m[4]:m[5]])}
		if ag := ageGender.FindStringSubmatch(back[m[1]:]); ag != nil {
			p.Age = ag[1]
			p.Gender = normalizeGender(ag[2])
		} else if name, gender, ok := peelGender(p.Name); ok {
			p.Name, p.Gender = name, gender
		}
		if letterCount(p.Name) < 2 || mostlyLower(p.Name) {
			continue
		}

		p.Status, p.Seat, _ = v.splitStatus(text[loc[0]:loc[1]])
		seen[seq] = true
		rows = append(rows, p)
	}
	return rows
}

// SplitStatus splits a compound status such as "CNF/A1/46/UPPER" into the
// status code and the seat detail ("A1/46/UPPER"). A token whose first
// segment is not a known status is returned whole, with no seat.
func SplitStatus(token string) (ticket.Status, string) {
	status, seat, _ := splitStatus(token, func(s string) bool {
		for _, known := range ticket.KnownStatuses() {
			if string(known) == s {
				return true
			}
		}
		return false
	})
	return status, seat
}

func (v *vocab) splitStatus(token string) (ticket.Status, string, bool) {
	return splitStatus(token, func(s string) bool { return v.statusSet[s] })
}

func splitStatus(token string, known func(string) bool) (ticket.Status, string, bool) {
	token = strings.ToUpper(strings.Trim(strings.TrimSpace(token), "/,;"))
	status, seat, _ := strings.Cut(token, "/")
	if !known(status) {
		return ticket.Status(token), "", false
	}
	return ticket.Status(status), seat, true
}

func normalizeGender(g string) string {
	if g == "" {
		return ""
	}
	return strings.ToUpper(g[:1])
}

// peelGender splits a trailing gender word off a name
func peelGender(name string) (string, string, bool) {
	i := strings.LastIndexByte(name, ' ')
	if i < 0 {
		return name, "", false
	}
	switch strings.ToUpper(name[i+1:]) {
	case "M", "F", "T", "MALE", "FEMALE", "TRANSGENDER":
		return strings.TrimSpace(name[:i]), normalizeGender(name[i+1:]), true
	}
	return name, "", false
}

func mostlyLower(s string) bool {
	lower, upper := 0, 0
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower++
		case unicode.IsUpper(r):
			upper++
		}
	}
	return lower > upper
}

func containsDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
