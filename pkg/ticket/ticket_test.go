package ticket

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTrainAndRoute(t *testing.T) {
	r := &Record{TrainNo: "12297", TrainName: "PUNE DURONTO", From: "AHMEDABAD JN (ADI)", To: "PUNE JN (PUNE)"}
	assert.Equal(t, "12297/PUNE DURONTO", r.Train())
	assert.Equal(t, "AHMEDABAD JN (ADI) -> PUNE JN (PUNE)", r.Route())

	r = &Record{TrainNo: "12297"}
	assert.Equal(t, "12297", r.Train())
	assert.Equal(t, "", r.Route())

	r = &Record{To: "PUNE JN (PUNE)"}
	assert.Equal(t, "-> PUNE JN (PUNE)", r.Route())
}

func TestRecordJSONShape(t *testing.T) {
	r := Record{PNR: "1234567890", Passengers: []Passenger{}}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "1234567890", m["pnr"])
	assert.Equal(t, []any{}, m["passengers"])
	assert.NotContains(t, m, "trainNo")
	assert.Contains(t, m, "_meta")
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, StatusCancelledCL.IsCancelled())
	assert.False(t, StatusWaitlist.IsCancelled())
	assert.True(t, StatusConfirmedLong.IsConfirmed())
	assert.False(t, StatusRAC.IsConfirmed())
	assert.Len(t, KnownStatuses(), 10)
}

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("parse ticket.pdf: %w", InputError("open PDF", ErrCorruptPDF))

	assert.True(t, IsInputError(err))
	assert.ErrorIs(t, err, ErrCorruptPDF)
	assert.Contains(t, err.Error(), "[input] open PDF")

	assert.False(t, IsInputError(ExtractionError("pnr", errors.New("panic"))))
	assert.False(t, IsInputError(errors.New("plain")))
	assert.Equal(t, "[extraction] pnr", (&Error{Kind: KindExtraction, Message: "pnr"}).Error())
}
