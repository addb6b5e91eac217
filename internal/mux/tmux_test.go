package mux

import (
	"context"
	"testing"

	"github.com/timvw/termsense/internal/model"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantSession string
		wantWindow  int
		wantPane    int
		wantErr     bool
	}{
		{
			name:        "simple",
			target:      "main:0.1",
			wantSession: "main",
			wantWindow:  0,
			wantPane:    1,
		},
		{
			name:        "session name with colon",
			target:      "my:session:2.3",
			wantSession: "my:session",
			wantWindow:  2,
			wantPane:    3,
		},
		{
			name:        "session name with dot",
			target:      "v1.2-work:0.0",
			wantSession: "v1.2-work",
			wantWindow:  0,
			wantPane:    0,
		},
		{name: "missing colon", target: "nocolon", wantErr: true},
		{name: "missing pane", target: "session:0", wantErr: true},
		{name: "non-numeric window", target: "session:x.1", wantErr: true},
		{name: "non-numeric pane", target: "session:1.x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTarget(tt.target)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseTarget(%q): got nil error", tt.target)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTarget(%q): %v", tt.target, err)
			}
			if got.Session != tt.wantSession || got.Window != tt.wantWindow || got.Pane != tt.wantPane {
				t.Errorf("got %+v, want %s/%d/%d", got, tt.wantSession, tt.wantWindow, tt.wantPane)
			}
			if got.Target != tt.target {
				t.Errorf("Target: got %q, want %q", got.Target, tt.target)
			}
		})
	}
}

// fakeMux serves canned captures without a live multiplexer.
type fakeMux struct {
	content string
	geo     Geometry
	geoErr  error
}

func (f *fakeMux) Name() string { return "fake" }

func (f *fakeMux) ListPanes(ctx context.Context, filter string) ([]Pane, error) {
	return nil, nil
}

func (f *fakeMux) CapturePane(ctx context.Context, target string) (string, error) {
	return f.content, nil
}

func (f *fakeMux) PaneGeometry(ctx context.Context, target string) (Geometry, error) {
	return f.geo, f.geoErr
}

func TestCaptureAccessor_WithGeometry(t *testing.T) {
	m := &fakeMux{
		content: "$ ls\nfile.txt\ntim@dev:~$ \n",
		geo: Geometry{
			Dimensions: model.Dimensions{Cols: 120, Rows: 30},
			Cursor:     model.CursorPosition{X: 11, Y: 2},
		},
	}

	acc, err := CaptureAccessor(context.Background(), m, "main:0.0")
	if err != nil {
		t.Fatalf("CaptureAccessor: %v", err)
	}
	if got := acc.BufferLength(); got != 3 {
		t.Errorf("BufferLength: got %d, want 3", got)
	}
	if acc.Cursor != m.geo.Cursor {
		t.Errorf("Cursor: got %+v, want %+v", acc.Cursor, m.geo.Cursor)
	}
	if acc.Size.Cols != 120 || acc.Size.Rows != 30 {
		t.Errorf("Size: got %+v", acc.Size)
	}
}

func TestCaptureAccessor_GeometryFallback(t *testing.T) {
	m := &fakeMux{
		content: "short\na much longer line here\n",
		geoErr:  context.DeadlineExceeded,
	}

	acc, err := CaptureAccessor(context.Background(), m, "main:0.0")
	if err != nil {
		t.Fatalf("CaptureAccessor: %v", err)
	}
	// Fallback sizes the viewport from the capture itself.
	if acc.Size.Rows != 2 {
		t.Errorf("Rows: got %d, want 2", acc.Size.Rows)
	}
	if want := len("a much longer line here"); acc.Size.Cols != want {
		t.Errorf("Cols: got %d, want %d", acc.Size.Cols, want)
	}
}
