// Package ticket defines the structured record reconstructed from a travel ticket.
package ticket

import (
	"strings"
	"time"
)

// Status is a passenger reservation status
type Status string

const (
	StatusConfirmed     Status = "CNF"
	StatusConfirmedLong Status = "CONFIRMED"
	StatusRAC           Status = "RAC"
	StatusWaitlist      Status = "WL"
	StatusRemoteWL      Status = "RLWL"
	StatusPooledWL      Status = "PQWL"
	StatusRoadsideWL    Status = "RSWL"
	StatusCancelled     Status = "CAN"
	StatusCancelledCL   Status = "CANCL"
	StatusCancelledX    Status = "CANX"
)

// KnownStatuses lists the reservation status vocabulary
func KnownStatuses() []Status {
	return []Status{
		StatusConfirmed, StatusConfirmedLong, StatusRAC, StatusWaitlist, StatusRemoteWL,
		StatusPooledWL, StatusRoadsideWL, StatusCancelled, StatusCancelledCL, StatusCancelledX,
	}
}

// IsCancelled reports whether s is one of the cancellation codes
func (s Status) IsCancelled() bool {
	switch s {
	case StatusCancelled, StatusCancelledCL, StatusCancelledX:
		return true
	}
	return false
}

// IsConfirmed reports whether s denotes a confirmed berth
func (s Status) IsConfirmed() bool {
	return s == StatusConfirmed || s == StatusConfirmedLong
}

// Passenger is one row of the passenger table
type Passenger struct {
	Seq    string `json:"seq" yaml:"seq"`
	Name   string `json:"name" yaml:"name"`
	Age    string `json:"age,omitempty" yaml:"age,omitempty"`
	Gender string `json:"gender,omitempty" yaml:"gender,omitempty"`
	Status Status `json:"status" yaml:"status"`
	Seat   string `json:"seat,omitempty" yaml:"seat,omitempty"`
}

// Meta records where a ticket came from
type Meta struct {
	ID          string    `json:"id,omitempty" yaml:"id,omitempty"`
	FileName    string    `json:"fileName,omitempty" yaml:"fileName,omitempty"`
	Size        int64     `json:"size,omitempty" yaml:"size,omitempty"`
	Pages       int       `json:"pages,omitempty" yaml:"pages,omitempty"`
	Backend     string    `json:"backend,omitempty" yaml:"backend,omitempty"`
	ExtractedAt time.Time `json:"extractedAt,omitzero" yaml:"extractedAt,omitempty"`
}

// Record is the structured ticket. Every scalar field is optional.
type Record struct {
	PNR           string      `json:"pnr,omitempty" yaml:"pnr,omitempty"`
	TrainNo       string      `json:"trainNo,omitempty" yaml:"trainNo,omitempty"`
	TrainName     string      `json:"trainName,omitempty" yaml:"trainName,omitempty"`
	From          string      `json:"from,omitempty" yaml:"from,omitempty"`
	To            string      `json:"to,omitempty" yaml:"to,omitempty"`
	FromCode      string      `json:"fromCode,omitempty" yaml:"fromCode,omitempty"`
	ToCode        string      `json:"toCode,omitempty" yaml:"toCode,omitempty"`
	Class         string      `json:"class,omitempty" yaml:"class,omitempty"`
	Quota         string      `json:"quota,omitempty" yaml:"quota,omitempty"`
	DateOfJourney string      `json:"dateOfJourney,omitempty" yaml:"dateOfJourney,omitempty"`
	DepartureTime string      `json:"departureTime,omitempty" yaml:"departureTime,omitempty"`
	Arrival       string      `json:"arrival,omitempty" yaml:"arrival,omitempty"`
	Distance      string      `json:"distance,omitempty" yaml:"distance,omitempty"`
	Fare          string      `json:"fare,omitempty" yaml:"fare,omitempty"`
	BookingDate   string      `json:"bookingDate,omitempty" yaml:"bookingDate,omitempty"`
	TransactionID string      `json:"transactionId,omitempty" yaml:"transactionId,omitempty"`
	Status        Status      `json:"status,omitempty" yaml:"status,omitempty"`
	Passengers    []Passenger `json:"passengers" yaml:"passengers"`
	Meta          Meta        `json:"_meta" yaml:"_meta"`
}

// Train returns the combined "NUMBER/NAME" label used by ticket printouts
func (r *Record) Train() string {
	switch {
	case r.TrainNo != "" && r.TrainName != "":
		return r.TrainNo + "/" + r.TrainName
	case r.TrainNo != "":
		return r.TrainNo
	}
	return r.TrainName
}

// Route returns "FROM -> TO" with missing ends left blank
func (r *Record) Route() string {
	if r.From == "" && r.To == "" {
		return ""
	}
	return strings.TrimSpace(r.From + " -> " + r.To)
}
