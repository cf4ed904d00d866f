package sample

// Stride returns the decimation step that keeps at most maxPoints of n values:
// ceil(n/maxPoints) when n exceeds maxPoints, otherwise 1.
func Stride(n, maxPoints int) int {
	if maxPoints <= 0 || n <= maxPoints {
		return 1
	}
	return (n + maxPoints - 1) / maxPoints
}

// Decimate picks values at indices 0, stride, 2*stride, ... for display.
// Destination-based: reuses dst if it has sufficient capacity, otherwise allocates new.
// Returns the destination slice (may be dst if reused, or a new slice if dst was too small).
func Decimate(dst []float64, values []float64, maxPoints int) []float64 {
	step := Stride(len(values), maxPoints)
	points := (len(values) + step - 1) / step

	if cap(dst) >= points {
		// Reuse dst
		dst = dst[:0]
	} else {
		dst = make([]float64, 0, points)
	}

	for i := 0; i < len(values); i += step {
		dst = append(dst, values[i])
	}

	return dst
}
