package plot

import (
	"fmt"
	"strings"

	"github.com/itohio/envirosense/pkg/sample"
	"github.com/itohio/envirosense/pkg/sensor"
)

const (
	// Rows is the number of level rows in a plot.
	Rows = 10
	// MaxColumns limits the number of plotted points; longer buffers are decimated.
	MaxColumns = 40
	// DefaultMarker marks a point at or above a row level.
	DefaultMarker = '*'
)

// Options controls plot appearance.
type Options struct {
	Marker rune
}

// Render draws the buffer as an ASCII bar plot: Rows level rows, highest level
// first, followed by one axis row. Each row is labelled with its level.
func Render(b *sample.Buffer, opts Options) ([]string, error) {
	stats, err := sample.Compute(b)
	if err != nil {
		return nil, err
	}

	marker := opts.Marker
	if marker == 0 {
		marker = DefaultMarker
	}

	points := sample.Decimate(nil, b.Values(), MaxColumns)

	lines := make([]string, 0, Rows+1)
	var row strings.Builder
	for r := Rows; r >= 1; r-- {
		level := stats.Min + (stats.Max-stats.Min)*float64(r)/float64(Rows)

		row.Reset()
		fmt.Fprintf(&row, "%7.2f | ", level)
		for _, v := range points {
			if v >= level {
				row.WriteRune(marker)
			} else {
				row.WriteByte(' ')
			}
		}
		lines = append(lines, row.String())
	}

	lines = append(lines, axis(len(points)))

	return lines, nil
}

// axis returns the x-axis row with one dash per plotted point.
func axis(points int) string {
	return "         +" + strings.Repeat("-", points)
}

// Title returns the plot heading for the given sensor (nil means unknown).
func Title(p *sensor.Profile) string {
	if p == nil {
		return "ASCII plot for unknown ()"
	}
	return fmt.Sprintf("ASCII plot for %s (%s)", p.Name, p.Unit)
}
