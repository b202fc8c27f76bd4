package cpr

// checksumWeights apply, in order, to day-tens, day-ones, month-tens,
// month-ones, year-tens, year-ones, serial-thousands, serial-hundreds and
// serial-tens.
var checksumWeights = [9]uint{4, 3, 2, 7, 6, 5, 4, 3, 2}

// IsChecksumValid reports whether the serial's last digit equals the
// modulus-11 control digit of the preceding nine digits.
//
// The control digit is 11 - (sum mod 11). When the sum is a multiple of 11
// that is 11, which no decimal digit matches, so such numbers are always
// invalid. Records outside the digit-count bounds are never valid.
func IsChecksumValid(r Record) bool {
	if !IsSyntacticallyValid(r) {
		return false
	}
	return controlDigit(r) == r.serial%10
}

func controlDigit(r Record) uint {
	digits := [9]uint{
		r.day / 10, r.day % 10,
		r.month / 10, r.month % 10,
		r.yearDigits / 10, r.yearDigits % 10,
		r.serial / 1000, r.serial / 100 % 10, r.serial / 10 % 10,
	}
	var sum uint
	for i, d := range digits {
		sum += checksumWeights[i] * d
	}
	return 11 - sum%11
}
