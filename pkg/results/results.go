package results

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/itohio/envirosense/internal/scan"
	"github.com/itohio/envirosense/pkg/sample"
	"github.com/itohio/envirosense/pkg/sensor"
)

const (
	// Title is the first line of every results file.
	Title = "EnviroSense Results"

	maxNameLen = 15
	maxUnitLen = 7
	decimals   = 4
)

var (
	// ErrEmptyFile is returned when a results file has no lines at all.
	ErrEmptyFile = errors.New("file is empty")
	// ErrFormat is returned when the results header is incomplete.
	ErrFormat = errors.New("unexpected format")
)

// LoadResult describes a loaded results file.
type LoadResult struct {
	SensorName    string // Name from the Sensor header, possibly empty
	Unit          string // Unit from the Unit header; informational only
	DeclaredCount int    // Count header; informational only, never bounds the read
	SensorFound   bool   // Whether SensorName is in the catalog
	Loaded        int    // Values stored in the buffer
	Skipped       int    // Value lines that were not numeric
}

// Write serializes the buffer in the results format.
func Write(w io.Writer, b *sample.Buffer, now time.Time) error {
	name, unit := "unknown", ""
	if p := b.Active(); p != nil {
		name, unit = p.Name, p.Unit
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n", Title)
	fmt.Fprintf(bw, "Timestamp: %d\n", now.Unix())
	fmt.Fprintf(bw, "Sensor: %s\n", name)
	fmt.Fprintf(bw, "Unit: %s\n", unit)
	fmt.Fprintf(bw, "Count: %d\n", b.Count())
	fmt.Fprintf(bw, "Values:\n")
	for _, v := range b.Values() {
		fmt.Fprintf(bw, "%s\n", decimal.NewFromFloat(v).StringFixed(decimals))
	}

	return bw.Flush()
}

// Save writes the buffer to filename and returns the number of values written.
// An empty buffer is rejected with sample.ErrEmpty before the file is created.
func Save(filename string, b *sample.Buffer, now time.Time) (n int, err error) {
	if b.IsEmpty() {
		return 0, sample.ErrEmpty
	}

	f, err := os.Create(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to open results file for writing: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			n, err = 0, fmt.Errorf("failed to close results file: %w", cerr)
		}
	}()

	if err := Write(f, b, now); err != nil {
		return 0, fmt.Errorf("failed to write results file: %w", err)
	}

	return b.Count(), nil
}

// Parsed is the content of a results file before it is applied to a buffer.
type Parsed struct {
	SensorName    string
	Unit          string
	DeclaredCount int
	Values        []float64
	Skipped       int
}

// Read parses a results file. The first two lines and the sixth are only
// checked for presence; lines 3 to 5 are parsed leniently. Every following
// line that starts with a number contributes one value, others are skipped.
func Read(r io.Reader) (Parsed, error) {
	var p Parsed

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		return scanner.Text(), true
	}

	// title
	if _, ok := next(); !ok {
		if err := scanner.Err(); err != nil {
			return Parsed{}, fmt.Errorf("failed to read results file: %w", err)
		}
		return Parsed{}, ErrEmptyFile
	}
	// timestamp
	if _, ok := next(); !ok {
		return Parsed{}, ErrFormat
	}
	if line, ok := next(); ok {
		p.SensorName = headerToken(line, "Sensor:", maxNameLen)
	}
	if line, ok := next(); ok {
		p.Unit = headerToken(line, "Unit:", maxUnitLen)
	}
	if line, ok := next(); ok {
		if rest, found := strings.CutPrefix(line, "Count:"); found {
			p.DeclaredCount, _, _ = scan.IntPrefix(rest)
		}
	}
	// values marker
	if _, ok := next(); !ok {
		return Parsed{}, ErrFormat
	}

	for scanner.Scan() {
		v, ok := scan.FloatPrefix(scanner.Text())
		if !ok {
			p.Skipped++
			continue
		}
		p.Values = append(p.Values, v)
	}
	if err := scanner.Err(); err != nil {
		return Parsed{}, fmt.Errorf("failed to read results file: %w", err)
	}

	return p, nil
}

// Load reads filename and, once the header is known to be valid, replaces the
// buffer contents. The active sensor is looked up by name only; when it is not
// in the catalog the buffer is left without an active sensor but values are
// still loaded.
func Load(filename string, catalog *sensor.Catalog, b *sample.Buffer) (LoadResult, error) {
	f, err := os.Open(filename)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	p, err := Read(f)
	if err != nil {
		return LoadResult{}, err
	}

	profile, found := catalog.Find(p.SensorName)
	loaded := b.ReplaceAll(profile, p.Values)

	return LoadResult{
		SensorName:    p.SensorName,
		Unit:          p.Unit,
		DeclaredCount: p.DeclaredCount,
		SensorFound:   found,
		Loaded:        loaded,
		Skipped:       p.Skipped,
	}, nil
}

// headerToken returns the first white-space delimited word after prefix,
// truncated to maxLen bytes, or "" when the line does not start with prefix.
func headerToken(line, prefix string, maxLen int) string {
	rest, found := strings.CutPrefix(line, prefix)
	if !found {
		return ""
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	tok := fields[0]
	if len(tok) > maxLen {
		tok = tok[:maxLen]
	}
	return tok
}
