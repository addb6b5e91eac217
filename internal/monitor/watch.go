// Package monitor drives the awareness engine against a live multiplexer
// pane: it polls pane content, classifies it, tracks snapshots and diffs,
// and renders a live view.
package monitor

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/timvw/termsense/internal/awareness"
	"github.com/timvw/termsense/internal/model"
	"github.com/timvw/termsense/internal/mux"
	tsotel "github.com/timvw/termsense/internal/otel"
	"github.com/timvw/termsense/internal/screen"
	"github.com/timvw/termsense/internal/snapshot"
)

var tracer = otel.Tracer("termsense")

// Observation is one watch tick: the classified state plus snapshot delta.
type Observation struct {
	State model.TerminalAwarenessState
	// Snapshot is the capture taken this tick; nil when the content hash
	// was unchanged and snapshotting was skipped.
	Snapshot *snapshot.Snapshot
	// Diff against the previous snapshot; nil on the first tick or when
	// skipped.
	Diff *snapshot.Diff
	// NewLines are the lines that appeared since the previous snapshot.
	NewLines []string
	// Skipped is true when the hash short-circuit avoided a new snapshot.
	Skipped bool
}

// Watcher polls one pane and feeds the awareness engine. Single-threaded:
// Tick must not be called concurrently.
type Watcher struct {
	Mux     mux.Multiplexer
	Target  string
	Metrics *tsotel.Metrics // nil-safe

	acc        *screen.LinesAccessor
	aggregator *awareness.Aggregator
	manager    *snapshot.Manager
}

// NewWatcher builds a watcher for the given pane target.
func NewWatcher(m mux.Multiplexer, target string, historyCapacity, recentWindow int) *Watcher {
	acc := screen.NewLinesAccessor(nil, 80, 24)
	return &Watcher{
		Mux:        m,
		Target:     target,
		acc:        acc,
		aggregator: awareness.New(acc),
		manager:    snapshot.NewManagerWith(acc, historyCapacity, recentWindow),
	}
}

// Manager exposes the snapshot manager for named captures and history.
func (w *Watcher) Manager() *snapshot.Manager {
	return w.manager
}

// UpdateExternalState forwards execution metadata to the snapshot manager.
func (w *Watcher) UpdateExternalState(s snapshot.ExternalState) {
	w.manager.UpdateExternalState(s)
}

// Tick captures the pane once, classifies it, and advances the snapshot
// history unless the content hash is unchanged.
func (w *Watcher) Tick(ctx context.Context) (*Observation, error) {
	ctx, span := tracer.Start(ctx, "watch_tick",
		trace.WithAttributes(attribute.String("pane.target", w.Target)))
	defer span.End()

	if err := w.refresh(ctx); err != nil {
		return nil, err
	}

	state := w.aggregator.State()
	w.Metrics.RecordAwareness(ctx, string(state.Input.Type), string(state.Output.Type))

	obs := &Observation{State: state}
	if !w.manager.HasContentChanged() {
		obs.Skipped = true
		w.Metrics.RecordHashShortCircuit(ctx)
		span.SetAttributes(attribute.Bool("snapshot.skipped", true))
		return obs, nil
	}

	snap, diff := w.manager.SnapshotAndCompare()
	obs.Snapshot = snap
	obs.Diff = diff
	if diff != nil {
		obs.NewLines = diff.NewLines
		w.Metrics.RecordDiff(ctx, diff.HasChanges)
	}
	w.Metrics.RecordSnapshot(ctx)

	span.SetAttributes(
		attribute.String("input.type", string(state.Input.Type)),
		attribute.Bool("input.waiting", state.Input.IsWaiting),
		attribute.String("output.type", string(state.Output.Type)),
		attribute.Bool("snapshot.skipped", false),
	)
	return obs, nil
}

// refresh re-captures the pane into the shared accessor.
func (w *Watcher) refresh(ctx context.Context) error {
	content, err := w.Mux.CapturePane(ctx, w.Target)
	if err != nil {
		return fmt.Errorf("capture %s: %w", w.Target, err)
	}
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")

	cursor := model.CursorPosition{}
	size := w.acc.Size
	if geo, err := w.Mux.PaneGeometry(ctx, w.Target); err == nil {
		cursor = geo.Cursor
		size = geo.Dimensions
	} else {
		// Keep the previous geometry; the capture alone still supports
		// classification with a bottom-pinned viewport.
		cursor = model.CursorPosition{Y: clampRow(len(lines), size.Rows)}
	}

	w.acc.SetContent(lines, cursor, size)
	return nil
}

func clampRow(total, rows int) int {
	y := total - 1
	if y >= rows {
		y = rows - 1
	}
	if y < 0 {
		y = 0
	}
	return y
}
