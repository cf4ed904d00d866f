package session

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/itohio/envirosense/pkg/adc"
	"github.com/itohio/envirosense/pkg/plot"
	"github.com/itohio/envirosense/pkg/results"
	"github.com/itohio/envirosense/pkg/sample"
	"github.com/itohio/envirosense/pkg/sensor"
)

// ErrNoSensor is returned when a conversion is requested without an active sensor.
var ErrNoSensor = errors.New("no sensor selected")

// Session holds the sensor catalog and the sample buffer of one operator
// session. It is not safe for concurrent use.
type Session struct {
	ID uuid.UUID

	catalog *sensor.Catalog
	buffer  *sample.Buffer
	marker  rune
	now     func() time.Time
	log     *slog.Logger
}

// BatchResult reports the outcome of a batch conversion.
type BatchResult struct {
	Read      int  // Codes read from the input
	Loaded    int  // Values stored in the buffer
	Truncated bool // Buffer filled up before all codes were stored
}

// Option configures a Session.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	defaultSensor string
	marker        rune
	now           func() time.Time
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDefaultSensor selects the sensor that is active at start by catalog name.
func WithDefaultSensor(name string) Option {
	return func(o *options) { o.defaultSensor = name }
}

// WithPlotMarker sets the character used for plotted points.
func WithPlotMarker(r rune) Option {
	return func(o *options) { o.marker = r }
}

// WithClock overrides the time source used for results file timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a session with the built-in catalog and an empty buffer whose
// active sensor is the first catalog entry unless overridden.
func New(opts ...Option) (*Session, error) {
	o := options{
		logger: slog.New(slog.DiscardHandler),
		marker: plot.DefaultMarker,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	catalog := sensor.NewCatalog()
	active := catalog.Default()
	if o.defaultSensor != "" {
		p, ok := catalog.Find(o.defaultSensor)
		if !ok {
			return nil, fmt.Errorf("unknown default sensor %q", o.defaultSensor)
		}
		active = p
	}

	id := uuid.New()
	s := &Session{
		ID:      id,
		catalog: catalog,
		buffer:  sample.NewBuffer(active),
		marker:  o.marker,
		now:     o.now,
		log:     o.logger.With("session", id.String()),
	}
	s.log.Debug("session started", "sensor", active.Name)

	return s, nil
}

// Catalog returns the sensor catalog.
func (s *Session) Catalog() *sensor.Catalog {
	return s.catalog
}

// Sensor returns the active sensor, or nil when none is set.
func (s *Session) Sensor() *sensor.Profile {
	return s.buffer.Active()
}

// Count returns the number of stored samples.
func (s *Session) Count() int {
	return s.buffer.Count()
}

// Values returns a copy of the stored samples.
func (s *Session) Values() []float64 {
	return s.buffer.Values()
}

// SelectSensor makes the catalog entry at the zero-based index active.
// Stored samples are kept.
func (s *Session) SelectSensor(index int) (*sensor.Profile, error) {
	p, err := s.catalog.At(index)
	if err != nil {
		return nil, err
	}
	s.buffer.SetActive(p)
	s.log.Info("sensor selected", "sensor", p.Name, "samples", s.buffer.Count())
	return p, nil
}

// Clear removes all stored samples.
func (s *Session) Clear() {
	s.log.Info("samples cleared", "count", s.buffer.Count())
	s.buffer.Clear()
}

// ConvertOne converts a single ADC code with the active sensor and stores the
// result. stored is false when the buffer is full.
func (s *Session) ConvertOne(code int) (value float64, stored bool, err error) {
	p := s.buffer.Active()
	if p == nil {
		return 0, false, ErrNoSensor
	}

	value = sensor.Convert(*p, code)
	stored = s.buffer.Append(value)
	if !stored {
		s.log.Warn("buffer full, value dropped", "code", code, "value", value)
	}
	s.log.Debug("converted", "sensor", p.Name, "code", code, "value", value)

	return value, stored, nil
}

// ConvertBatch replaces the stored samples with the conversions of codes.
// Conversion stops once the buffer is full.
func (s *Session) ConvertBatch(codes []int) (BatchResult, error) {
	p := s.buffer.Active()
	if p == nil {
		return BatchResult{}, ErrNoSensor
	}

	res := BatchResult{Read: len(codes)}
	s.buffer.Clear()
	for _, code := range codes {
		if !s.buffer.Append(sensor.Convert(*p, code)) {
			res.Truncated = true
			break
		}
		res.Loaded++
	}

	s.log.Info("batch converted", "sensor", p.Name, "read", res.Read, "loaded", res.Loaded, "truncated", res.Truncated)
	return res, nil
}

// BatchFromFile reads ADC codes from filename and converts them with ConvertBatch.
func (s *Session) BatchFromFile(filename string) (BatchResult, error) {
	if s.buffer.Active() == nil {
		return BatchResult{}, ErrNoSensor
	}

	codes, err := adc.ReadFile(filename)
	if err != nil {
		s.log.Warn("batch file not read", "file", filename, "error", err)
		return BatchResult{}, err
	}

	return s.ConvertBatch(codes)
}

// Stats computes statistics over the stored samples.
func (s *Session) Stats() (sample.Stats, error) {
	return sample.Compute(s.buffer)
}

// Plot renders the stored samples as ASCII plot lines.
func (s *Session) Plot() ([]string, error) {
	return plot.Render(s.buffer, plot.Options{Marker: s.marker})
}

// Save writes the stored samples to a results file.
func (s *Session) Save(filename string) (int, error) {
	n, err := results.Save(filename, s.buffer, s.now())
	if err != nil {
		s.log.Warn("results not saved", "file", filename, "error", err)
		return 0, err
	}
	s.log.Info("results saved", "file", filename, "count", n)
	return n, nil
}

// Load replaces the stored samples and active sensor with a results file.
func (s *Session) Load(filename string) (results.LoadResult, error) {
	res, err := results.Load(filename, s.catalog, s.buffer)
	if err != nil {
		s.log.Warn("results not loaded", "file", filename, "error", err)
		return res, err
	}
	if !res.SensorFound {
		s.log.Warn("unknown sensor in results file", "file", filename, "sensor", res.SensorName)
	}
	if res.DeclaredCount != res.Loaded {
		s.log.Debug("results count header differs", "declared", res.DeclaredCount, "loaded", res.Loaded)
	}
	s.log.Info("results loaded", "file", filename, "loaded", res.Loaded, "skipped", res.Skipped)
	return res, nil
}

// SelfTest checks the conversion of the first catalog sensor.
func (s *Session) SelfTest() (sensor.Profile, []sensor.Check, int) {
	p := *s.catalog.Default()
	checks, passed := sensor.SelfTest(p)
	s.log.Info("self-test", "sensor", p.Name, "passed", passed, "total", len(checks))
	return p, checks, passed
}
