package cpr

import (
	"errors"
	"fmt"
)

// Field bounds implied by the digit count of each group.
const (
	MaxDay        uint = 99
	MaxMonth      uint = 99
	MaxYearDigits uint = 99
	MaxSerial     uint = 9999
)

// Record is a decoded identification number.
//
// Invariants:
//   - Immutable once constructed
//   - Comparable with ==; equal fields mean equal records, whatever the
//     construction path
//   - Parse only produces records within the digit-count bounds; Of may not
//
// The zero value is a syntactically valid record (000000-0000) with no birthday.
type Record struct {
	day        uint
	month      uint
	yearDigits uint
	serial     uint
}

// ErrOutOfRange indicates a field exceeds the bound of its digit count.
var ErrOutOfRange = errors.New("cpr: field out of range")

// RangeError reports which field broke its bound. It matches ErrOutOfRange
// under errors.Is.
type RangeError struct {
	Field string
	Value uint
	Max   uint
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("cpr: %s %d out of range [0, %d]", e.Field, e.Value, e.Max)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// Of builds a record without checking field bounds. Use it to probe
// boundaries; IsSyntacticallyValid tells whether the result is in range.
func Of(day, month, yearDigits, serial uint) Record {
	return Record{day: day, month: month, yearDigits: yearDigits, serial: serial}
}

// New builds a record, returning a *RangeError for the first field that
// exceeds its digit-count bound.
func New(day, month, yearDigits, serial uint) (Record, error) {
	if err := checkField("day", day, MaxDay); err != nil {
		return Record{}, err
	}
	if err := checkField("month", month, MaxMonth); err != nil {
		return Record{}, err
	}
	if err := checkField("year digits", yearDigits, MaxYearDigits); err != nil {
		return Record{}, err
	}
	if err := checkField("serial", serial, MaxSerial); err != nil {
		return Record{}, err
	}
	return Of(day, month, yearDigits, serial), nil
}

// MustParse parses text, panicking if it is malformed.
// Use only in tests or for constants known to be well-formed.
func MustParse(text string) Record {
	r, ok := Parse(text)
	if !ok {
		panic("cpr: malformed number")
	}
	return r
}

func checkField(name string, value, limit uint) error {
	if value > limit {
		return &RangeError{Field: name, Value: value, Max: limit}
	}
	return nil
}

// Day returns the day group, including the +60 substitute offset if present.
func (r Record) Day() uint { return r.day }

// Month returns the month group.
func (r Record) Month() uint { return r.month }

// YearDigits returns the two-digit year group.
func (r Record) YearDigits() uint { return r.yearDigits }

// Serial returns the four-digit serial group; its last digit is the control digit.
func (r Record) Serial() uint { return r.serial }

// Reveal renders the number in canonical DDMMYY-SSSS form.
//
// This is the only rendering that discloses digits. Never pass its result
// to logs or error messages.
func (r Record) Reveal() string {
	return fmt.Sprintf("%02d%02d%02d-%04d", r.day, r.month, r.yearDigits, r.serial)
}
