package cpr

import (
	"regexp"
	"strconv"
)

// Six digits, an optional dash, four digits. RE2's \d is ASCII-only and $
// matches only at end of text, so no trailing newline slips through.
var numberPattern = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})-?(\d{4})$`)

// Parse decodes text of the form DDMMYY-SSSS or DDMMYYSSSS.
//
// Only the shape is checked; the result may still be a non-calendar date or
// fail its checksum. Malformed text yields (Record{}, false), never a panic.
func Parse(text string) (Record, bool) {
	m := numberPattern.FindStringSubmatch(text)
	if m == nil {
		return Record{}, false
	}
	return Of(group(m[1]), group(m[2]), group(m[3]), group(m[4])), true
}

// group converts a digit group the pattern already matched. At most four
// ASCII digits, so ParseUint cannot fail.
func group(s string) uint {
	v, _ := strconv.ParseUint(s, 10, 16)
	return uint(v)
}
