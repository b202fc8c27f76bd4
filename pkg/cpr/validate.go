package cpr

// substituteOffset is added to the day of provisionally issued numbers.
const substituteOffset = 60

// IsSyntacticallyValid reports whether every field fits its digit count.
//
// Calendar correctness is deliberately not checked: month 13, 31 February and
// substitute days (61–91) all pass. Parsed records always pass; only records
// built with Of can fail.
func IsSyntacticallyValid(r Record) bool {
	return r.day <= MaxDay &&
		r.month <= MaxMonth &&
		r.yearDigits <= MaxYearDigits &&
		r.serial <= MaxSerial
}

// IsSubstitute reports whether the day carries the +60 offset that marks a
// provisionally issued number. Such numbers never decode to a birthday.
func IsSubstitute(r Record) bool {
	return r.day > substituteOffset && r.day <= substituteOffset+31
}
