package decoder

import (
	"time"

	"cprcheck/pkg/cpr"
)

// Rejection reasons carried by domain errors and metrics labels.
const (
	ReasonMalformed        = "malformed"
	ReasonChecksumMismatch = "checksum_mismatch"
	ReasonSubstitute       = "substitute_number"
	ReasonNoBirthday       = "no_birthday"
	ReasonAgeUnknown       = "age_unknown"
	ReasonUnderage         = "underage"
)

// Report is everything the decoder can tell about one number.
//
// Record is PII but renders redacted everywhere except Record.Reveal.
type Report struct {
	Record        cpr.Record
	Display       string
	ChecksumValid bool
	Substitute    bool
	Birthday      time.Time
	HasBirthday   bool
	Sex           cpr.Sex
	// Age is measured on the request date; valid only when HasAge.
	Age    int
	HasAge bool
}

// Outcome is the result for one batch item; exactly one of Report and Err is set.
type Outcome struct {
	Index  int
	Report *Report
	Err    error
}

// Policy decides which decoded numbers Verify accepts.
type Policy struct {
	StrictChecksum  bool
	AllowSubstitute bool
	MinimumAge      int
}

// DefaultPolicy accepts every well-formed number with a birthday or a
// substitute marker, regardless of checksum.
func DefaultPolicy() Policy {
	return Policy{AllowSubstitute: true}
}
