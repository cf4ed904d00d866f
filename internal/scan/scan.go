// Package scan parses numbers from the start of a string, ignoring whatever
// follows them, the way operator-edited text files are read.
package scan

import (
	"strconv"
	"unicode"
)

// IntPrefix parses an optionally signed decimal integer after any leading
// white space. It returns the value, the number of bytes consumed and whether
// an integer was found. Values that overflow int are not accepted.
func IntPrefix(s string) (int, int, bool) {
	start := skipSpace(s, 0)
	i := skipSign(s, start)
	digitsEnd := skipDigits(s, i)
	if digitsEnd == i {
		return 0, 0, false
	}

	v, err := strconv.Atoi(s[start:digitsEnd])
	if err != nil {
		return 0, 0, false
	}
	return v, digitsEnd, true
}

// FloatPrefix parses a decimal floating-point number (optional sign, digits
// with an optional fraction, optional exponent) after any leading white space.
// Infinities and NaN are not accepted.
func FloatPrefix(s string) (float64, bool) {
	start := skipSpace(s, 0)
	i := skipSign(s, start)

	intEnd := skipDigits(s, i)
	digits := intEnd - i
	end := intEnd
	if end < len(s) && s[end] == '.' {
		fracEnd := skipDigits(s, end+1)
		digits += fracEnd - (end + 1)
		end = fracEnd
	}
	if digits == 0 {
		return 0, false
	}

	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := skipSign(s, end+1)
		if expEnd := skipDigits(s, exp); expEnd > exp {
			end = expEnd
		}
	}

	v, err := strconv.ParseFloat(s[start:end], 64)
	if err != nil {
		// out of range
		return 0, false
	}
	return v, true
}

func skipSpace(s string, i int) int {
	for i < len(s) && unicode.IsSpace(rune(s[i])) {
		i++
	}
	return i
}

func skipSign(s string, i int) int {
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	return i
}

func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}
