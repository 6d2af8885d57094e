// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package metrics records scalar training metrics to per-metric log files
// and optional telemetry sinks.
//
// Log files live at <dir>/<metric>.txt. The first line holds the metric
// name, every further line is step,value.
package metrics

import (
	"github.com/born-ml/mlp/internal/metrics"
)

// Recognised metric names.
const (
	TrainLoss     = metrics.TrainLoss
	TrainAccuracy = metrics.TrainAccuracy
	TestLoss      = metrics.TestLoss
	TestAccuracy  = metrics.TestAccuracy
)

// Errors returned by Writer.
var (
	ErrInvalidConfig = metrics.ErrInvalidConfig
	ErrInvalidMetric = metrics.ErrInvalidMetric
	ErrClosed        = metrics.ErrClosed
)

// Writer appends metric values to per-metric log files.
type Writer = metrics.Writer

// Config holds configuration for a Writer.
type Config = metrics.Config

// Callback receives every value recorded for a metric.
type Callback = metrics.Callback

// New creates a Writer and the log file of every configured metric.
//
// Example:
//
//	w, err := metrics.New(metrics.Config{
//	    Names: []string{metrics.TrainLoss},
//	    Dir:   "logs",
//	})
//	defer w.Close()
//	w.Add(metrics.TrainLoss, 0, 0.25)
func New(config Config) (*Writer, error) {
	return metrics.New(config)
}

// Known returns every recognised metric name.
func Known() []string {
	return metrics.Known()
}

// Sinks

// Sink is a scalar time series store.
type Sink = metrics.Sink

// Event is one line of an event file.
type Event = metrics.Event

// EventFileSink writes scalars as JSON lines under a per-run directory.
type EventFileSink = metrics.EventFileSink

// NewEventFileSink creates a new run directory under root.
func NewEventFileSink(root string) (*EventFileSink, error) {
	return metrics.NewEventFileSink(root)
}

// MemorySink keeps every series in memory.
type MemorySink = metrics.MemorySink

// Point is one recorded value of a MemorySink series.
type Point = metrics.Point

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return metrics.NewMemorySink()
}
