package cpr

import "fmt"

// Sex is derived from the parity of the serial.
type Sex uint8

// The zero value is deliberately not a sex; SexOf never returns it.
const (
	Female Sex = iota + 1
	Male
)

// SexOf returns Male for an odd serial and Female for an even one.
func SexOf(r Record) Sex {
	if r.serial%2 == 1 {
		return Male
	}
	return Female
}

// String returns "male", "female", or "unknown" for the zero value.
func (s Sex) String() string {
	switch s {
	case Male:
		return "male"
	case Female:
		return "female"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Sex) MarshalText() ([]byte, error) {
	if s != Male && s != Female {
		return nil, fmt.Errorf("cpr: invalid sex %d", uint8(s))
	}
	return []byte(s.String()), nil
}
