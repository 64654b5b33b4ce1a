package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pyhub-apps/ticketplumber-golang/pkg/ticket"
)

func TestRefineStation(t *testing.T) {
	p := NewParser(DefaultConfig())

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"clean token", "AHMEDABAD JN (ADI)", "AHMEDABAD JN (ADI)", true},
		{"trailing prose", "PUNE JN (PUNE) Please note the boarding time", "PUNE JN (PUNE)", true},
		{"padding and punctuation", "  : MUMBAI CENTRAL (MMCT) *", "MUMBAI CENTRAL (MMCT)", true},
		{"prose only", "Please note the boarding time", "", false},
		{"disclaimer word", "TICKET (VALID)", "", false},
		{"bare suffix", "JN", "", false},
		{"label keyword", "CLASS", "", false},
		{"single letter", "X", "", false},
		{"empty", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.RefineStation(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRefineStationIsStable(t *testing.T) {
	p := NewParser(DefaultConfig())
	for _, s := range []string{"AHMEDABAD JN (ADI)", "PUNE JN (PUNE)", "NEW DELHI (NDLS)"} {
		got, ok := p.RefineStation(s)
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}
}

func TestStationCode(t *testing.T) {
	assert.Equal(t, "ADI", StationCode("AHMEDABAD JN (ADI)"))
	assert.Equal(t, "NDLS", StationCode("NEW DELHI (NDLS)"))
	assert.Equal(t, "", StationCode("NEW DELHI"))
}

func TestStationsFromHeaderWithBoardingPoint(t *testing.T) {
	text := "Booked from Boarding At To\nVADODARA JN (BRC) SURAT (ST) MUMBAI CENTRAL (MMCT)"
	rec := NewParser(DefaultConfig()).Parse(text, ticket.Meta{})

	assert.Equal(t, "SURAT (ST)", rec.From)
	assert.Equal(t, "MUMBAI CENTRAL (MMCT)", rec.To)
}

func TestStationsFromLine(t *testing.T) {
	text := "From: AHMEDABAD JN (ADI) To: PUNE JN (PUNE) Please note the boarding time"
	rec := NewParser(DefaultConfig()).Parse(text, ticket.Meta{})

	assert.Equal(t, "AHMEDABAD JN (ADI)", rec.From)
	assert.Equal(t, "PUNE JN (PUNE)", rec.To)
}

func TestStationsFromLabels(t *testing.T) {
	text := "Boarding At: SURAT (ST) Departure* 22:10\nReservation Upto: BORIVALI (BVI) Arrival* 02:30"
	rec := NewParser(DefaultConfig()).Parse(text, ticket.Meta{})

	assert.Equal(t, "SURAT (ST)", rec.From)
	assert.Equal(t, "BORIVALI (BVI)", rec.To)
	assert.Equal(t, "ST", rec.FromCode)
	assert.Equal(t, "BVI", rec.ToCode)
	assert.Equal(t, "22:10", rec.DepartureTime)
	assert.Equal(t, "02:30", rec.Arrival)
}

func TestStationsFromTokensSkipsBlacklist(t *testing.T) {
	text := "Electronic Reservation Slip (ERS)\nCharges include GST (CGST)\nVADODARA JN (BRC) to MUMBAI CENTRAL (MMCT)"
	rec := NewParser(DefaultConfig()).Parse(text, ticket.Meta{})

	assert.Equal(t, "VADODARA JN (BRC)", rec.From)
	assert.Equal(t, "MUMBAI CENTRAL (MMCT)", rec.To)
}

func TestStationsPartialResult(t *testing.T) {
	rec := NewParser(DefaultConfig()).Parse("Boarding At: SURAT (ST)", ticket.Meta{})

	assert.Equal(t, "SURAT (ST)", rec.From)
	assert.Empty(t, rec.To)
}

func TestTierMemoRunsEachTierOncePerDocument(t *testing.T) {
	calls := make([]int, 2)
	counting := func(i int, pair stationPair) StrategyFunc[stationPair] {
		return StrategyFunc[stationPair]{Label: "tier", Fn: func(*Document) (Candidate[stationPair], bool) {
			calls[i]++
			return Candidate[stationPair]{Value: pair, Line: i}, false
		}}
	}
	memo := &tierMemo{tiers: []StrategyFunc[stationPair]{
		counting(0, stationPair{From: "SURAT (ST)"}),
		counting(1, stationPair{To: "PUNE JN (PUNE)"}),
	}}

	doc := NewDocument("anything")
	for range 3 {
		c, ok := memo.attempt(1, doc)
		assert.False(t, ok)
		assert.Equal(t, "PUNE JN (PUNE)", c.Value.To)
	}
	memo.attempt(0, doc)
	assert.Equal(t, []int{1, 1}, calls)

	memo.attempt(0, NewDocument("another"))
	assert.Equal(t, []int{2, 1}, calls)
}
