package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pyhub-apps/ticketplumber-golang/pkg/ticket"
)

// Config holds every vocabulary list and tuning knob used by the extractors.
// A Parser compiles it once; the engine is a pure function of (text, Config).
type Config struct {
	// ClassTokens are travel class names ("SECOND AC") and codes ("2A").
	// Two-character codes are matched case-sensitively, names case-insensitively.
	ClassTokens []string `yaml:"class_tokens"`
	// QuotaCodes maps quota codes to canonical quota names
	QuotaCodes map[string]string `yaml:"quota_codes"`
	// StatusTokens is the reservation status vocabulary
	StatusTokens []string `yaml:"status_tokens"`
	// BoundaryKeywords end free-text values such as train and station names
	BoundaryKeywords []string `yaml:"boundary_keywords"`
	// StopWords end the passenger table
	StopWords []string `yaml:"stop_words"`
	// DisclaimerWords mark prose that must never be taken for a station
	DisclaimerWords []string `yaml:"disclaimer_words"`
	// StationCodeBlacklist holds parenthesized abbreviations that are not stations
	StationCodeBlacklist []string `yaml:"station_code_blacklist"`
	// StationSuffixTokens are name suffixes that are not stations on their own
	StationSuffixTokens []string `yaml:"station_suffix_tokens"`

	PassengerWindow      int     `yaml:"passenger_window"`
	FallbackLookback     int     `yaml:"fallback_lookback"`
	DateSearchFraction   float64 `yaml:"date_search_fraction"`
	LabelLookahead       int     `yaml:"label_lookahead"`
	TransactionIDDigits  int     `yaml:"transaction_id_digits"`
	MinStationNameLength int     `yaml:"min_station_name_length"`
}

// DefaultConfig returns the vocabulary tuned against IRCTC ERS printouts
func DefaultConfig() Config {
	statuses := make([]string, 0, len(ticket.KnownStatuses()))
	for _, s := range ticket.KnownStatuses() {
		statuses = append(statuses, string(s))
	}

	return Config{
		ClassTokens: []string{
			"FIRST AC", "SECOND AC", "THIRD AC ECONOMY", "THIRD AC", "AC 3 ECONOMY",
			"AC 3 TIER", "AC 2 TIER", "AC FIRST CLASS", "AC CHAIR CAR", "EXEC. CHAIR CAR",
			"EXECUTIVE CHAIR CAR", "VISTADOME AC", "SLEEPER", "SECOND SITTING", "FIRST CLASS",
			"1A", "2A", "3A", "3E", "EC", "EA", "CC", "SL", "2S", "FC",
		},
		QuotaCodes: map[string]string{
			"GN": "GENERAL",
			"TQ": "TATKAL",
			"PT": "PREMIUM TATKAL",
			"LD": "LADIES",
			"SS": "LOWER BERTH",
			"HP": "PHYSICALLY HANDICAPPED",
			"DF": "DEFENCE",
			"FT": "FOREIGN TOURIST",
			"YU": "YUVA",
			"DP": "DUTY PASS",
			"HO": "HEAD QUARTERS",
			"PH": "PARLIAMENT HOUSE",
			"SR": "SENIOR CITIZEN",
		},
		StatusTokens: statuses,
		BoundaryKeywords: []string{
			"Class", "Quota", "Date", "Distance", "Departure", "Arrival", "Booking", "Booked",
			"Boarding", "Reservation", "Transaction", "Passenger", "PNR", "Start", "Adult",
			"Child", "Total", "Fare", "Train",
		},
		StopWords: []string{
			"Total", "Fare", "GST", "Legend", "Legends", "Convenience", "Insurance", "Agent",
			"Disclaimer", "Important", "Note", "Please", "Cancellation", "Refund",
			"Customer Care", "IRCTC Fee", "Service Charge", "Transaction",
		},
		DisclaimerWords: []string{
			"please", "discrepancy", "note", "kindly", "refund", "valid", "ticket", "passenger",
			"irctc", "customer", "charges", "contact", "should", "will", "identity", "proof",
			"original", "carry", "applicable", "rules", "details", "website",
		},
		StationCodeBlacklist: []string{
			"UTS", "GST", "PNR", "ERS", "IRCTC", "RAC", "CNF", "RLWL", "PQWL", "RSWL", "CANX",
			"INR", "HRS", "UPI", "SMS", "PRS", "OTP", "MRP", "TDR", "CGST", "SGST", "IGST",
			"ADULT", "CHILD", "NA",
		},
		StationSuffixTokens: []string{
			"JN", "JN.", "JNC", "JCT", "SF", "CANTT", "RD", "ROAD", "TERMINUS", "TERM", "CITY",
			"CENTRAL", "EXP",
		},
		PassengerWindow:      25,
		FallbackLookback:     200,
		DateSearchFraction:   0.4,
		LabelLookahead:       2,
		TransactionIDDigits:  15,
		MinStationNameLength: 4,
	}
}

// withDefaults fills zero-valued knobs and empty lists from DefaultConfig
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if len(c.ClassTokens) == 0 {
		c.ClassTokens = def.ClassTokens
	}
	if len(c.QuotaCodes) == 0 {
		c.QuotaCodes = def.QuotaCodes
	}
	if len(c.StatusTokens) == 0 {
		c.StatusTokens = def.StatusTokens
	}
	if len(c.BoundaryKeywords) == 0 {
		c.BoundaryKeywords = def.BoundaryKeywords
	}
	if len(c.StopWords) == 0 {
		c.StopWords = def.StopWords
	}
	if len(c.DisclaimerWords) == 0 {
		c.DisclaimerWords = def.DisclaimerWords
	}
	if len(c.StationCodeBlacklist) == 0 {
		c.StationCodeBlacklist = def.StationCodeBlacklist
	}
	if len(c.StationSuffixTokens) == 0 {
		c.StationSuffixTokens = def.StationSuffixTokens
	}
	if c.PassengerWindow <= 0 {
		c.PassengerWindow = def.PassengerWindow
	}
	if c.FallbackLookback <= 0 {
		c.FallbackLookback = def.FallbackLookback
	}
	if c.DateSearchFraction <= 0 || c.DateSearchFraction > 1 {
		c.DateSearchFraction = def.DateSearchFraction
	}
	if c.LabelLookahead <= 0 {
		c.LabelLookahead = def.LabelLookahead
	}
	if c.TransactionIDDigits <= 0 {
		c.TransactionIDDigits = def.TransactionIDDigits
	}
	if c.MinStationNameLength <= 0 {
		c.MinStationNameLength = def.MinStationNameLength
	}
	return c
}

// vocab is the compiled, read-only form of a Config
type vocab struct {
	cfg Config

	classRe     *regexp.Regexp
	quotaRe     *regexp.Regexp
	quotaCodeRe *regexp.Regexp
	quotaNames  map[string]string
	boundaryRe  *regexp.Regexp
	stopRe      *regexp.Regexp
	statusRe    *regexp.Regexp
	rowBRe      *regexp.Regexp
	txnRe       *regexp.Regexp
	statusSet   map[string]bool
	disclaimers map[string]bool
	codeBlack   map[string]bool
	suffixes    map[string]bool
	boundarySet map[string]bool
}

func newVocab(cfg Config) *vocab {
	cfg = cfg.withDefaults()

	v := &vocab{
		cfg:         cfg,
		quotaNames:  make(map[string]string),
		statusSet:   upperSet(cfg.StatusTokens),
		disclaimers: lowerSet(cfg.DisclaimerWords),
		codeBlack:   upperSet(cfg.StationCodeBlacklist),
		suffixes:    upperSet(cfg.StationSuffixTokens),
		boundarySet: upperSet(cfg.BoundaryKeywords),
	}

	var classCodes, classNames []string
	for _, tok := range cfg.ClassTokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if len(tok) <= 2 {
			classCodes = append(classCodes, tok)
		} else {
			classNames = append(classNames, tok)
		}
	}
	v.classRe = regexp.MustCompile(`\b(?:(?i:` + alternation(classNames) + `)\b(?:\s*\([0-9A-Z]{1,3}\))?|(?:` +
		alternation(classCodes) + `)\b)`)

	codes := make([]string, 0, len(cfg.QuotaCodes))
	names := make([]string, 0, len(cfg.QuotaCodes))
	for code, name := range cfg.QuotaCodes {
		code = strings.ToUpper(strings.TrimSpace(code))
		name = normalizeSpaces(strings.ToUpper(name))
		v.quotaNames[code] = name
		codes = append(codes, code)
		names = append(names, name)
	}
	v.quotaRe = regexp.MustCompile(`\b(?:(?i:` + alternation(names) + `)|` + alternation(codes) + `)\b`)
	v.quotaCodeRe = regexp.MustCompile(`\((` + alternation(codes) + `)\)`)

	v.boundaryRe = regexp.MustCompile(`(?i)\b(?:` + alternation(cfg.BoundaryKeywords) + `)\b`)
	v.stopRe = regexp.MustCompile(`(?i)\b(?:` + alternation(cfg.StopWords) + `)\b`)

	statusAlt := alternation(cfg.StatusTokens)
	v.statusRe = regexp.MustCompile(`\b(?:` + statusAlt + `)(?:/[A-Z0-9\-]*[A-Z0-9])*\b`)
	v.rowBRe = regexp.MustCompile(`^(\d{1,2})[.)]?\s+([A-Za-z][A-Za-z .'\-]*?)\s+((?:` + statusAlt +
		`)(?:/[A-Z0-9\-]*[A-Z0-9])*)\b`)

	v.txnRe = regexp.MustCompile(`\b(\d{` + itoa(cfg.TransactionIDDigits) + `})\b`)

	return v
}

// alternation quotes words into a regexp alternation, longest first so that
// "THIRD AC ECONOMY" wins over "THIRD AC" at the same position
func alternation(words []string) string {
	sorted := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			sorted = append(sorted, w)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	if len(sorted) == 0 {
		// matches nothing
		return `[^\x00-\x{10FFFF}]`
	}

	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(w), " ", `\s+`)
	}
	return strings.Join(quoted, "|")
}

func upperSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToUpper(strings.TrimSpace(w))] = true
	}
	return set
}

func lowerSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = true
	}
	return set
}
