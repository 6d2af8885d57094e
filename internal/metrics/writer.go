package metrics

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// Config holds configuration for a Writer.
type Config struct {
	Names     []string            // Recognised metrics (default: DefaultNames)
	Callbacks map[string]Callback // Optional per-metric callbacks
	Dir       string              // Directory of the log files (default: ".")
	Telemetry bool                // Forward values to a telemetry sink
	Sink      Sink                // Telemetry sink (default: EventFileSink under Dir/runs)
}

// Writer appends metric values to per-metric log files.
//
// Writer is not safe for concurrent use; Add calls must be serialised.
type Writer struct {
	names     []string
	files     map[string]*os.File
	callbacks map[string]Callback
	sink      Sink
	closed    bool
}

// New creates the log file of every configured metric, truncating any
// previous content and writing the metric name as header line.
//
// Returns ErrInvalidConfig if a name (or a callback key) is not a
// recognised metric or a name is listed twice.
func New(config Config) (*Writer, error) {
	names := config.Names
	if len(names) == 0 {
		names = DefaultNames()
	}
	if config.Dir == "" {
		config.Dir = "."
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if !IsKnown(name) {
			return nil, errors.Wrapf(ErrInvalidConfig, "unknown metric %q", name)
		}
		if seen[name] {
			return nil, errors.Wrapf(ErrInvalidConfig, "metric %q listed twice", name)
		}
		seen[name] = true
	}
	callbacks := make(map[string]Callback, len(config.Callbacks))
	for name, cb := range config.Callbacks {
		if !IsKnown(name) {
			return nil, errors.Wrapf(ErrInvalidConfig, "callback for unknown metric %q", name)
		}
		callbacks[name] = cb
	}

	if err := os.MkdirAll(config.Dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "can't create metrics directory %s", config.Dir)
	}

	w := &Writer{
		names:     append([]string(nil), names...),
		files:     make(map[string]*os.File, len(names)),
		callbacks: callbacks,
	}
	for _, name := range names {
		path := filepath.Join(config.Dir, name+".txt")
		f, err := os.Create(path)
		if err != nil {
			w.Close()
			return nil, errors.Wrapf(err, "can't create metric log %s", path)
		}
		w.files[name] = f
		if _, err := f.WriteString(name + "\n"); err != nil {
			w.Close()
			return nil, errors.Wrapf(err, "can't write header of %s", path)
		}
	}

	switch {
	case config.Sink != nil:
		w.sink = config.Sink
	case config.Telemetry:
		sink, err := NewEventFileSink(filepath.Join(config.Dir, "runs"))
		if err != nil {
			w.Close()
			return nil, err
		}
		w.sink = sink
	}
	return w, nil
}

// Names returns the recognised metric names in configuration order.
func (w *Writer) Names() []string {
	return append([]string(nil), w.names...)
}

// Sink returns the telemetry sink, or nil if telemetry is disabled.
func (w *Writer) Sink() Sink {
	return w.sink
}

// Add appends (step, value) to the log of metric, forwards it to the
// telemetry sink and invokes the metric's callback.
//
// A metric outside the recognised set fails with ErrInvalidMetric and is
// not written anywhere.
func (w *Writer) Add(metric string, step int, value float64) error {
	if w.closed {
		return ErrClosed
	}
	f, ok := w.files[metric]
	if !ok {
		return errors.Wrapf(ErrInvalidMetric, "%q", metric)
	}

	line := strconv.Itoa(step) + "," + strconv.FormatFloat(value, 'g', -1, 64) + "\n"
	if _, err := f.WriteString(line); err != nil {
		return errors.Wrapf(err, "can't append to %s log", metric)
	}
	if w.sink != nil {
		if err := w.sink.AddScalar(metric, step, value); err != nil {
			return errors.Wrapf(err, "can't forward %s to telemetry", metric)
		}
	}
	if cb := w.callbacks[metric]; cb != nil {
		cb(step, value)
	}
	return nil
}

// Close closes every log file and the telemetry sink. Calling Close again
// is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var first error
	for _, name := range w.names {
		f, ok := w.files[name]
		if !ok {
			continue
		}
		if err := f.Close(); err != nil && first == nil {
			first = errors.Wrapf(err, "can't close %s log", name)
		}
	}
	if w.sink != nil {
		if err := w.sink.Close(); err != nil && first == nil {
			first = errors.Wrap(err, "can't close telemetry sink")
		}
	}
	return first
}
