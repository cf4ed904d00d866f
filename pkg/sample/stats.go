package sample

import (
	"errors"
	"math"
)

// ErrEmpty is returned when statistics or plots are requested for an empty buffer.
var ErrEmpty = errors.New("no measurement data available")

// Stats summarises the values of a Buffer.
type Stats struct {
	Count          int
	Min            float64
	Max            float64
	Mean           float64
	AboveThreshold int // Values strictly above the active sensor threshold
}

// Compute calculates statistics over the buffer. AboveThreshold is 0 when
// the buffer has no active sensor.
func Compute(b *Buffer) (Stats, error) {
	if b.IsEmpty() {
		return Stats{}, ErrEmpty
	}

	s := Stats{
		Count: len(b.values),
		Min:   b.values[0],
		Max:   b.values[0],
	}

	var acc accumulator
	for _, v := range b.values {
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
		acc.add(v)
		if b.active != nil && v > b.active.Threshold {
			s.AboveThreshold++
		}
	}
	s.Mean = acc.sum() / float64(len(b.values))

	return s, nil
}

// accumulator is a Neumaier compensated sum.
type accumulator struct {
	total, comp float64
}

func (a *accumulator) add(v float64) {
	t := a.total + v
	if math.Abs(a.total) >= math.Abs(v) {
		a.comp += (a.total - t) + v
	} else {
		a.comp += (v - t) + a.total
	}
	a.total = t
}

func (a *accumulator) sum() float64 {
	return a.total + a.comp
}
