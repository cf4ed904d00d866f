package sample

import (
	"github.com/itohio/envirosense/pkg/sensor"
)

// Capacity is the maximum number of values a Buffer holds.
const Capacity = 1000

// Buffer is a bounded, ordered collection of physical values tied to one
// active sensor. Values are only ever appended or replaced wholesale.
type Buffer struct {
	active *sensor.Profile
	values []float64
}

// NewBuffer creates an empty buffer with the given active sensor (may be nil).
func NewBuffer(active *sensor.Profile) *Buffer {
	return &Buffer{
		active: active,
		values: make([]float64, 0, Capacity),
	}
}

// Active returns the active sensor, or nil when none is set.
func (b *Buffer) Active() *sensor.Profile {
	return b.active
}

// SetActive replaces the active sensor. Stored values are left untouched.
func (b *Buffer) SetActive(p *sensor.Profile) {
	b.active = p
}

// Append stores v and reports whether it was stored. It returns false,
// leaving the buffer unchanged, when the buffer is already full.
func (b *Buffer) Append(v float64) bool {
	if len(b.values) >= Capacity {
		return false
	}
	b.values = append(b.values, v)
	return true
}

// Clear removes all values but keeps the active sensor.
func (b *Buffer) Clear() {
	b.values = b.values[:0]
}

// ReplaceAll sets the active sensor and replaces every stored value.
// Values beyond Capacity are dropped; the number accepted is returned.
func (b *Buffer) ReplaceAll(p *sensor.Profile, values []float64) int {
	b.active = p
	n := min(len(values), Capacity)
	b.values = append(b.values[:0], values[:n]...)
	return n
}

// Count returns the number of stored values.
func (b *Buffer) Count() int {
	return len(b.values)
}

// IsEmpty reports whether no values are stored.
func (b *Buffer) IsEmpty() bool {
	return len(b.values) == 0
}

// Values returns a copy of the stored values in insertion order.
func (b *Buffer) Values() []float64 {
	result := make([]float64, len(b.values))
	copy(result, b.values)
	return result
}
