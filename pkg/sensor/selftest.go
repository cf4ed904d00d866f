package sensor

import "github.com/chewxy/math32"

// SelfTestTolerance is the largest accepted difference between Convert and
// the single-precision reference.
const SelfTestTolerance = 0.001

// Check is the outcome of one self-test conversion.
type Check struct {
	Code     int
	Expected float64 // Single-precision reference value
	Actual   float64 // Value returned by Convert
	Diff     float64
	Passed   bool
}

// SelfTest converts zero, mid-scale and full-scale codes and compares each
// result against the same formula evaluated in float32, as a microcontroller
// would compute it. It returns the individual checks and how many passed.
func SelfTest(p Profile) ([]Check, int) {
	codes := []int{0, p.Resolution / 2, p.Resolution}

	checks := make([]Check, 0, len(codes))
	passed := 0
	for _, code := range codes {
		actual := Convert(p, code)
		expected := reference32(p, code)
		diff := math32.Abs(float32(actual) - expected)

		c := Check{
			Code:     code,
			Expected: float64(expected),
			Actual:   actual,
			Diff:     float64(diff),
			Passed:   diff < SelfTestTolerance,
		}
		if c.Passed {
			passed++
		}
		checks = append(checks, c)
	}

	return checks, passed
}

// reference32 evaluates the conversion formula in single precision.
func reference32(p Profile, code int) float32 {
	v := float32(code) / float32(p.Resolution) * float32(p.VRef)
	return float32(p.Scale)*v + float32(p.Offset)
}
