// Package metrics records scalar training metrics.
//
// A Writer owns one durable log file per recognised metric, optionally
// forwards every value to a telemetry Sink and invokes per-metric
// callbacks. The network only depends on the narrow Add(metric, step,
// value) contract.
//
// Log file format:
//
//	train_loss
//	0,0.2513
//	1000,0.0412
//
// The first line is the metric name, every further line is step,value.
package metrics

import (
	"github.com/pkg/errors"
)

// Recognised metric names.
const (
	TrainLoss     = "train_loss"
	TrainAccuracy = "train_accuracy"
	TestLoss      = "test_loss"
	TestAccuracy  = "test_accuracy"
)

// Errors returned by Writer.
var (
	ErrInvalidConfig = errors.New("metrics: invalid configuration")
	ErrInvalidMetric = errors.New("metrics: metric cannot be written")
	ErrClosed        = errors.New("metrics: writer is closed")
)

// Known returns every metric name a Writer can be configured with.
func Known() []string {
	return []string{TrainLoss, TrainAccuracy, TestLoss, TestAccuracy}
}

// IsKnown reports whether name is a recognised metric.
func IsKnown(name string) bool {
	switch name {
	case TrainLoss, TrainAccuracy, TestLoss, TestAccuracy:
		return true
	}
	return false
}

// DefaultNames returns the metrics recorded when none are requested.
// Each call returns a new slice.
func DefaultNames() []string {
	return []string{TrainLoss, TestLoss}
}

// Callback receives every value recorded for a metric.
type Callback func(step int, value float64)
