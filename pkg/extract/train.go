package extract

import (
	"regexp"
	"strings"
)

var (
	pnrLabel    = regexp.MustCompile(`(?i)\bPNR\b\s*(?:No\.?|Number)?\s*[:\-]?`)
	pnrAdjacent = regexp.MustCompile(`(?i)\bPNR\b\s*(?:No\.?|Number)?\s*[:\-]?\s*(\d{10})\b`)
	tenDigit    = regexp.MustCompile(`\b(\d{10})\b`)

	// 12297/PUNE DURONTO; the name is the uppercase run after the slash
	inlineTrain  = regexp.MustCompile(`\b(\d{4,5})\s*/\s*([A-Z][A-Z0-9 .'\-]*)`)
	trainLabel   = regexp.MustCompile(`(?i)\bTrain\s*(?:No\.?|Number)?\s*/?\s*(?:&\s*)?Name\b\s*[:\-]?`)
	labeledTrain = regexp.MustCompile(`\b(\d{4,5})\s*/\s*([A-Za-z][A-Za-z0-9 .'\-]*)`)
	trainNumber  = regexp.MustCompile(`(?i)\bTrain\s*(?:No\.?|Number|#)\s*[:\-]?\s*(\d{4,5})\b`)

	// lines carrying the train number, where class tokens are part of the name
	trainLine  = regexp.MustCompile(`\b\d{4,5}\s*/\s*[A-Za-z]|(?i:\bTrain\s*No)`)
	classLabel = regexp.MustCompile(`(?i)\bClass\b\s*[:\-]?`)
	quotaLabel = regexp.MustCompile(`(?i)\bQuota\b\s*[:\-]?`)
)

func (v *vocab) pnrCascade() Cascade[string] {
	return Cascade[string]{
		Field: "pnr",
		Strategies: []Strategy[string]{
			StrategyFunc[string]{Label: "label", Fn: labeledPNR},
			StrategyFunc[string]{Label: "bare 10-digit", Fn: func(doc *Document) (Candidate[string], bool) {
				for i, line := range doc.Lines {
					if m := tenDigit.FindStringSubmatch(line); m != nil {
						return hit(m[1], i)
					}
				}
				return miss[string]()
			}},
		},
		Validate: func(s string) bool { return len(s) == 10 },
	}
}

// labeledPNR takes the ten digits directly after a PNR label. Only a label
// with nothing numeric after it reads its value from the next line, as in a
// header row over a value row.
func labeledPNR(doc *Document) (Candidate[string], bool) {
	for i, line := range doc.Lines {
		if m := pnrAdjacent.FindStringSubmatch(line); m != nil {
			return hit(m[1], i)
		}
	}

	for i, line := range doc.Lines {
		loc := pnrLabel.FindStringIndex(line)
		if loc == nil || containsDigit(line[loc[1]:]) {
			continue
		}
		if m := tenDigit.FindStringSubmatch(doc.line(i + 1)); m != nil {
			return hit(m[1], i+1)
		}
	}
	return miss[string]()
}

// trainInfo is a train number with its cleaned name and the class token cut
// off the end of the name, if any
type trainInfo struct {
	No    string
	Name  string
	Class string
}

func (v *vocab) trainCascade() Cascade[trainInfo] {
	return Cascade[trainInfo]{
		Field: "train",
		Strategies: []Strategy[trainInfo]{
			StrategyFunc[trainInfo]{Label: "number/name", Fn: v.inlineTrain},
			StrategyFunc[trainInfo]{Label: "label", Fn: v.labeledTrain},
			StrategyFunc[trainInfo]{Label: "number only", Fn: v.trainNumberOnly},
		},
		Validate: func(t trainInfo) bool { return t.No != "" },
	}
}

func (v *vocab) inlineTrain(doc *Document) (Candidate[trainInfo], bool) {
	for i, line := range doc.Lines {
		for _, m := range inlineTrain.FindAllStringSubmatch(line, -1) {
			name, class := v.cleanTrainName(m[2])
			if letterCount(name) >= 2 {
				return hit(trainInfo{No: m[1], Name: name, Class: class}, i)
			}
		}
	}
	return miss[trainInfo]()
}

func (v *vocab) labeledTrain(doc *Document) (Candidate[trainInfo], bool) {
	for i, line := range doc.Lines {
		loc := trainLabel.FindStringIndex(line)
		if loc == nil {
			continue
		}
		for j, text := range []string{line[loc[1]:], doc.line(i + 1)} {
			m := labeledTrain.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			name, class := v.cleanTrainName(m[2])
			if letterCount(name) >= 2 {
				return hit(trainInfo{No: m[1], Name: name, Class: class}, i+j)
			}
		}
	}
	return miss[trainInfo]()
}

func (v *vocab) trainNumberOnly(doc *Document) (Candidate[trainInfo], bool) {
	for i, line := range doc.Lines {
		if m := trainNumber.FindStringSubmatch(line); m != nil {
			return hit(trainInfo{No: m[1]}, i)
		}
	}
	return miss[trainInfo]()
}

// cleanTrainName cuts raw at the first boundary keyword, then at the first
// class token. The class token is returned separately.
func (v *vocab) cleanTrainName(raw string) (name, class string) {
	name = raw
	if loc := v.boundaryRe.FindStringIndex(name); loc != nil {
		name = name[:loc[0]]
	}
	if loc := v.classRe.FindStringIndex(name); loc != nil {
		class = normalizeClass(name[loc[0]:loc[1]])
		name = name[:loc[0]]
	}
	name = strings.Trim(normalizeSpaces(name), " -./")
	if name == "" {
		class = ""
	}
	return name, class
}

func normalizeClass(s string) string {
	return normalizeSpaces(strings.ToUpper(s))
}

func (v *vocab) classCascade() Cascade[string] {
	labeled := labelSpec{
		label:     classLabel,
		value:     v.classRe,
		lookahead: v.cfg.LabelLookahead,
		pick: func(m []string) (string, bool) {
			return normalizeClass(m[0]), true
		},
	}

	return Cascade[string]{
		Field: "class",
		Strategies: []Strategy[string]{
			labeled.strategy("label"),
			StrategyFunc[string]{Label: "anywhere", Fn: v.classAnywhere},
			StrategyFunc[string]{Label: "train name", Fn: v.classFromTrain},
		},
		Validate: nonEmpty,
	}
}

func (v *vocab) classAnywhere(doc *Document) (Candidate[string], bool) {
	for i, line := range doc.Lines {
		if trainLine.MatchString(line) {
			continue
		}
		if m := v.classRe.FindString(line); m != "" {
			return hit(normalizeClass(m), i)
		}
	}
	return miss[string]()
}

func (v *vocab) classFromTrain(doc *Document) (Candidate[string], bool) {
	for _, s := range []func(*Document) (Candidate[trainInfo], bool){v.inlineTrain, v.labeledTrain} {
		if c, ok := s(doc); ok && c.Value.Class != "" {
			return hit(c.Value.Class, c.Line)
		}
	}
	return miss[string]()
}

func (v *vocab) quotaCascade() Cascade[string] {
	labeled := labelSpec{
		label:     quotaLabel,
		value:     v.quotaRe,
		lookahead: v.cfg.LabelLookahead,
		pick: func(m []string) (string, bool) {
			return v.quotaName(m[0]), true
		},
	}

	return Cascade[string]{
		Field: "quota",
		Strategies: []Strategy[string]{
			labeled.strategy("label"),
			StrategyFunc[string]{Label: "code", Fn: func(doc *Document) (Candidate[string], bool) {
				for i, line := range doc.Lines {
					if m := v.quotaCodeRe.FindStringSubmatch(line); m != nil {
						return hit(v.quotaName(m[1]), i)
					}
				}
				return miss[string]()
			}},
		},
		Validate: nonEmpty,
	}
}

// quotaName maps a quota code or name to its canonical name
func (v *vocab) quotaName(s string) string {
	s = normalizeSpaces(strings.ToUpper(s))
	if name, ok := v.quotaNames[s]; ok {
		return name
	}
	return s
}

func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if isLetter(r) {
			n++
		}
	}
	return n
}
