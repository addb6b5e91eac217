package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "termsense"

// Metrics holds all OTEL metric instruments for termsense.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// Classification counters (partitioned via attributes)
	InputDetections  metric.Int64Counter // by input type
	OutputDetections metric.Int64Counter // by output type

	// Snapshot counters
	Snapshots        metric.Int64Counter
	Diffs            metric.Int64Counter
	HashShortCircuit metric.Int64Counter

	// Tracker counters
	StateUpdates metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.InputDetections, err = meter.Int64Counter("awareness.input.detections",
		metric.WithDescription("Input-waiting classifications partitioned by detected type"))
	if err != nil {
		return nil, err
	}

	m.OutputDetections, err = meter.Int64Counter("awareness.output.detections",
		metric.WithDescription("Output-pattern classifications partitioned by detected type"))
	if err != nil {
		return nil, err
	}

	m.Snapshots, err = meter.Int64Counter("snapshots.created",
		metric.WithDescription("Terminal snapshots captured"))
	if err != nil {
		return nil, err
	}

	m.Diffs, err = meter.Int64Counter("snapshots.diffs",
		metric.WithDescription("Snapshot diffs computed"))
	if err != nil {
		return nil, err
	}

	m.HashShortCircuit, err = meter.Int64Counter("snapshots.hash_short_circuits",
		metric.WithDescription("Diff computations skipped because the content hash was unchanged"))
	if err != nil {
		return nil, err
	}

	m.StateUpdates, err = meter.Int64Counter("tracker.state_updates",
		metric.WithDescription("Execution-state updates received from the tracking collaborator"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordAwareness records one input and one output classification.
func (m *Metrics) RecordAwareness(ctx context.Context, inputType, outputType string) {
	if m == nil {
		return
	}
	m.InputDetections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("input.type", inputType),
	))
	m.OutputDetections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("output.type", outputType),
	))
}

// RecordSnapshot records a snapshot creation.
func (m *Metrics) RecordSnapshot(ctx context.Context) {
	if m == nil {
		return
	}
	m.Snapshots.Add(ctx, 1)
}

// RecordDiff records a computed diff, partitioned by whether it found changes.
func (m *Metrics) RecordDiff(ctx context.Context, hasChanges bool) {
	if m == nil {
		return
	}
	m.Diffs.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("diff.has_changes", hasChanges),
	))
}

// RecordHashShortCircuit records a diff skipped via hash comparison.
func (m *Metrics) RecordHashShortCircuit(ctx context.Context) {
	if m == nil {
		return
	}
	m.HashShortCircuit.Add(ctx, 1)
}

// RecordStateUpdate records an execution-state push.
func (m *Metrics) RecordStateUpdate(ctx context.Context) {
	if m == nil {
		return
	}
	m.StateUpdates.Add(ctx, 1)
}
