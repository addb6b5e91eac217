package mux

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/timvw/termsense/internal/model"
	"github.com/timvw/termsense/internal/screen"
)

// captureScrollback is how many scroll-back lines CapturePane requests in
// addition to the visible rows. Enough history for the detectors' recent
// windows without shipping whole session transcripts around.
const captureScrollback = 200

// Tmux implements the Multiplexer interface for tmux.
type Tmux struct{}

// NewTmux creates a new tmux multiplexer.
func NewTmux() *Tmux {
	return &Tmux{}
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

// ListPanes returns all tmux panes, optionally filtered by session name pattern.
func (t *Tmux) ListPanes(ctx context.Context, filter string) ([]Pane, error) {
	// Format: session_name:window_index.pane_index\tcurrent_command
	format := "#{session_name}:#{window_index}.#{pane_index}\t#{pane_current_command}"
	out, err := t.run(ctx, "list-panes", "-a", "-F", format)
	if err != nil {
		return nil, fmt.Errorf("tmux list-panes: %w", err)
	}

	var re *regexp.Regexp
	if filter != "" {
		re, err = regexp.Compile(filter)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", filter, err)
		}
	}

	var panes []Pane
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}

		pane, err := parseTarget(parts[0])
		if err != nil {
			continue
		}
		pane.Command = parts[1]

		if re != nil && !re.MatchString(pane.Session) {
			continue
		}

		panes = append(panes, pane)
	}

	return panes, nil
}

// CapturePane captures pane content plus recent scroll-back.
// Uses -p (stdout), -J (joined, unwraps lines), -S (scroll-back start).
func (t *Tmux) CapturePane(ctx context.Context, target string) (string, error) {
	out, err := t.run(ctx, "capture-pane", "-t", target, "-p", "-J",
		"-S", fmt.Sprintf("-%d", captureScrollback))
	if err != nil {
		return "", fmt.Errorf("tmux capture-pane -t %s: %w", target, err)
	}
	return out, nil
}

// PaneGeometry queries pane size and cursor position.
func (t *Tmux) PaneGeometry(ctx context.Context, target string) (Geometry, error) {
	format := "#{pane_width}\t#{pane_height}\t#{cursor_x}\t#{cursor_y}"
	out, err := t.run(ctx, "display-message", "-t", target, "-p", format)
	if err != nil {
		return Geometry{}, fmt.Errorf("tmux display-message -t %s: %w", target, err)
	}
	fields := strings.Split(strings.TrimSpace(out), "\t")
	if len(fields) != 4 {
		return Geometry{}, fmt.Errorf("unexpected display-message output %q", out)
	}
	nums := make([]int, 4)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Geometry{}, fmt.Errorf("parsing %q: %w", out, err)
		}
		nums[i] = n
	}
	return Geometry{
		Dimensions: model.Dimensions{Cols: nums[0], Rows: nums[1]},
		Cursor:     model.CursorPosition{X: nums[2], Y: nums[3]},
	}, nil
}

// CaptureAccessor snapshots a pane into an in-memory screen accessor the
// awareness engine can read. One capture, one accessor — the result does
// not track the live pane.
func CaptureAccessor(ctx context.Context, m Multiplexer, target string) (*screen.LinesAccessor, error) {
	content, err := m.CapturePane(ctx, target)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")

	geo, err := m.PaneGeometry(ctx, target)
	if err != nil {
		// Geometry is a nicety; fall back to a bottom-pinned viewport
		// sized from the capture itself.
		rows := len(lines)
		if rows > 40 {
			rows = 40
		}
		cols := 0
		for _, l := range lines {
			if len(l) > cols {
				cols = len(l)
			}
		}
		return screen.NewLinesAccessor(lines, cols, rows), nil
	}

	acc := screen.NewLinesAccessor(lines, geo.Dimensions.Cols, geo.Dimensions.Rows)
	acc.Cursor = geo.Cursor
	return acc, nil
}

// run executes a tmux command and returns its stdout.
func (t *Tmux) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%w: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}

// parseTarget parses a tmux target string "session:window.pane" into a Pane.
func parseTarget(target string) (Pane, error) {
	colonIdx := strings.LastIndex(target, ":")
	if colonIdx < 0 {
		return Pane{}, fmt.Errorf("invalid target %q: missing ':'", target)
	}

	session := target[:colonIdx]
	rest := target[colonIdx+1:]

	dotIdx := strings.LastIndex(rest, ".")
	if dotIdx < 0 {
		return Pane{}, fmt.Errorf("invalid target %q: missing '.'", target)
	}

	window, err := strconv.Atoi(rest[:dotIdx])
	if err != nil {
		return Pane{}, fmt.Errorf("invalid window index in %q: %w", target, err)
	}

	pane, err := strconv.Atoi(rest[dotIdx+1:])
	if err != nil {
		return Pane{}, fmt.Errorf("invalid pane index in %q: %w", target, err)
	}

	return Pane{
		Target:  target,
		Session: session,
		Window:  window,
		Pane:    pane,
	}, nil
}
