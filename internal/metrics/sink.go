package metrics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Sink is a write-only scalar time series store keyed by metric and step.
type Sink interface {
	AddScalar(metric string, step int, value float64) error
	Close() error
}

// Event is one line of an EventFileSink file.
type Event struct {
	Run      string  `json:"run"`
	Metric   string  `json:"metric"`
	Step     int     `json:"step"`
	Value    float64 `json:"value"`
	WallTime float64 `json:"wall_time"` // seconds since the Unix epoch
}

// EventFileSink writes scalars as JSON lines to <root>/<run id>/events.jsonl.
//
// Every sink gets a fresh random run id, so repeated runs sharing a root
// never overwrite each other.
type EventFileSink struct {
	run  string
	path string
	f    *os.File
	enc  *json.Encoder
	now  func() time.Time
}

// NewEventFileSink creates a new run directory under root and opens its
// event file.
func NewEventFileSink(root string) (*EventFileSink, error) {
	run := uuid.NewString()
	dir := filepath.Join(root, run)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "can't create telemetry run directory %s", dir)
	}
	path := filepath.Join(dir, "events.jsonl")
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't create telemetry file %s", path)
	}
	return &EventFileSink{
		run:  run,
		path: path,
		f:    f,
		enc:  json.NewEncoder(f),
		now:  time.Now,
	}, nil
}

// Run returns the run id.
func (s *EventFileSink) Run() string {
	return s.run
}

// Path returns the event file path.
func (s *EventFileSink) Path() string {
	return s.path
}

// AddScalar appends one event.
func (s *EventFileSink) AddScalar(metric string, step int, value float64) error {
	event := Event{
		Run:      s.run,
		Metric:   metric,
		Step:     step,
		Value:    value,
		WallTime: float64(s.now().UnixNano()) / 1e9,
	}
	return errors.Wrap(s.enc.Encode(event), "can't encode telemetry event")
}

// Close closes the event file.
func (s *EventFileSink) Close() error {
	return s.f.Close()
}

// Point is one recorded value of a MemorySink series.
type Point struct {
	Step  int
	Value float64
}

// MemorySink keeps every series in memory.
type MemorySink struct {
	series map[string][]Point
	closed bool
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{series: make(map[string][]Point)}
}

// AddScalar appends to the metric's series. Fails with ErrClosed after
// Close.
func (s *MemorySink) AddScalar(metric string, step int, value float64) error {
	if s.closed {
		return ErrClosed
	}
	s.series[metric] = append(s.series[metric], Point{Step: step, Value: value})
	return nil
}

// Series returns the recorded points of metric in insertion order.
func (s *MemorySink) Series(metric string) []Point {
	return append([]Point(nil), s.series[metric]...)
}

// Close marks the sink closed.
func (s *MemorySink) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (s *MemorySink) Closed() bool {
	return s.closed
}
