// Package mux provides an abstraction over terminal multiplexers. It is
// pure transport: it captures observable reality (pane content, cursor,
// geometry) without interpreting any of it — classification belongs to the
// awareness engine.
package mux

import (
	"context"

	"github.com/timvw/termsense/internal/model"
)

// Pane identifies a terminal multiplexer pane.
type Pane struct {
	// Target is the fully qualified pane identifier (e.g., "session:0.0").
	Target string `json:"target"`
	// Session is the session name.
	Session string `json:"session"`
	// Window is the window index.
	Window int `json:"window"`
	// Pane is the pane index.
	Pane int `json:"pane"`
	// Command is the current command running in the pane (e.g., "vim", "bash").
	Command string `json:"command"`
}

// Geometry is a pane's size and cursor position at capture time.
type Geometry struct {
	Dimensions model.Dimensions     `json:"dimensions"`
	Cursor     model.CursorPosition `json:"cursor"`
}

// Multiplexer abstracts terminal multiplexer operations.
type Multiplexer interface {
	// Name returns the multiplexer name (e.g., "tmux").
	Name() string

	// ListPanes returns all panes, optionally filtered by a session name
	// regex pattern. An empty filter returns all panes.
	ListPanes(ctx context.Context, filter string) ([]Pane, error)

	// CapturePane captures the content of a pane including scroll-back.
	// The target format depends on the multiplexer
	// (e.g., "session:window.pane" for tmux).
	CapturePane(ctx context.Context, target string) (string, error)

	// PaneGeometry returns the pane's dimensions and cursor position.
	PaneGeometry(ctx context.Context, target string) (Geometry, error)
}
