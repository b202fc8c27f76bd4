package cpr

import "time"

// centuryBand resolves the century for one serial-thousands digit:
// years up to and including threshold fall in atOrBelow, later years in above.
type centuryBand struct {
	threshold uint
	atOrBelow int
	above     int
}

// centuryBands is indexed by the serial's thousands digit.
var centuryBands = [10]centuryBand{
	0: {threshold: 99, atOrBelow: 1900, above: 1900},
	1: {threshold: 99, atOrBelow: 1900, above: 1900},
	2: {threshold: 99, atOrBelow: 1900, above: 1900},
	3: {threshold: 99, atOrBelow: 1900, above: 1900},
	4: {threshold: 36, atOrBelow: 2000, above: 1900},
	5: {threshold: 57, atOrBelow: 2000, above: 1800},
	6: {threshold: 57, atOrBelow: 2000, above: 1800},
	7: {threshold: 57, atOrBelow: 2000, above: 1800},
	8: {threshold: 57, atOrBelow: 2000, above: 1800},
	9: {threshold: 36, atOrBelow: 2000, above: 1900},
}

func (b centuryBand) century(yearDigits uint) int {
	if yearDigits <= b.threshold {
		return b.atOrBelow
	}
	return b.above
}

// ResolveBirthYear turns a two-digit year into a four-digit one using the
// century band selected by the serial's thousands digit.
//
// Out-of-domain input is a contract violation and yields a *RangeError
// rather than a truncated result.
func ResolveBirthYear(yearDigits, serial uint) (int, error) {
	if err := checkField("year digits", yearDigits, MaxYearDigits); err != nil {
		return 0, err
	}
	if err := checkField("serial", serial, MaxSerial); err != nil {
		return 0, err
	}
	band := centuryBands[serial/1000%10]
	return band.century(yearDigits) + int(yearDigits), nil
}

// Birthday returns the date of birth as UTC midnight.
//
// There is no birthday when the month is not 1–12, the day is not 1–31
// (substitute numbers included), the year cannot be resolved, or the triple
// is not a real calendar date. That is an ordinary outcome, not an error.
func Birthday(r Record) (time.Time, bool) {
	if r.month < 1 || r.month > 12 || r.day < 1 || r.day > 31 {
		return time.Time{}, false
	}
	year, err := ResolveBirthYear(r.yearDigits, r.serial)
	if err != nil {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(r.month), int(r.day), 0, 0, 0, 0, time.UTC)
	// time.Date normalises 31 April into 1 May; reject anything that moved.
	if d.Month() != time.Month(r.month) || d.Day() != int(r.day) {
		return time.Time{}, false
	}
	return d, true
}

// AgeAt returns the age in whole years on the calendar date of at.
// A person born on 29 February turns a year older on 1 March in common years.
// Returns false when there is no birthday or at precedes it.
func AgeAt(r Record, at time.Time) (int, bool) {
	born, ok := Birthday(r)
	if !ok {
		return 0, false
	}
	on := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	if on.Before(born) {
		return 0, false
	}
	age := on.Year() - born.Year()
	if on.Month() < born.Month() || (on.Month() == born.Month() && on.Day() < born.Day()) {
		age--
	}
	return age, true
}

// AdultAge is the age of majority.
const AdultAge = 18

// IsAdultAt reports whether the holder is at least AdultAge on the date of at.
// Numbers without a birthday are never adult.
func IsAdultAt(r Record, at time.Time) bool {
	age, ok := AgeAt(r, at)
	return ok && age >= AdultAge
}
