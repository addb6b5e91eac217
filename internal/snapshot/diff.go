package snapshot

import (
	"strings"

	"github.com/timvw/termsense/internal/model"
)

// Diff is the computed delta between two snapshots. Derived on demand,
// never stored.
type Diff struct {
	HasChanges bool `json:"has_changes"`

	CwdChanged bool   `json:"cwd_changed"`
	OldCwd     string `json:"old_cwd,omitempty"`
	NewCwd     string `json:"new_cwd,omitempty"`

	CursorMoved bool                 `json:"cursor_moved"`
	OldCursor   model.CursorPosition `json:"old_cursor"`
	NewCursor   model.CursorPosition `json:"new_cursor"`

	IdleChanged bool `json:"idle_changed"`
	WasIdle     bool `json:"was_idle"`
	IsIdle      bool `json:"is_idle"`

	ContentChanged bool `json:"content_changed"`

	// NewLines are lines present in the new snapshot's recent window but
	// not the old one's; RemovedLines the reverse. Set membership, not a
	// positional diff: scrolling reshuffles line positions without
	// changing which lines are new content. Blank lines are trimmed.
	NewLines     []string `json:"new_lines,omitempty"`
	RemovedLines []string `json:"removed_lines,omitempty"`
}

// Calculate compares two snapshots pairwise.
func Calculate(old, new *Snapshot) Diff {
	d := Diff{
		OldCwd:    old.Cwd,
		NewCwd:    new.Cwd,
		OldCursor: old.Cursor,
		NewCursor: new.Cursor,
		WasIdle:   old.IsIdle,
		IsIdle:    new.IsIdle,
	}
	d.CwdChanged = old.Cwd != new.Cwd
	d.CursorMoved = old.Cursor != new.Cursor
	d.IdleChanged = old.IsIdle != new.IsIdle
	d.ContentChanged = old.ContentHash != new.ContentHash
	if d.ContentChanged {
		d.NewLines = subtractLines(new.RecentLines, old.RecentLines)
		d.RemovedLines = subtractLines(old.RecentLines, new.RecentLines)
	}
	d.HasChanges = d.CwdChanged || d.CursorMoved || d.IdleChanged || d.ContentChanged
	return d
}

// subtractLines returns the non-blank lines of a that are not members of
// b, preserving a's order.
func subtractLines(a, b []string) []string {
	members := make(map[string]bool, len(b))
	for _, line := range b {
		members[line] = true
	}
	var out []string
	for _, line := range a {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !members[line] {
			out = append(out, line)
		}
	}
	return out
}

// trimBlank drops blank lines, preserving order.
func trimBlank(lines []string) []string {
	var out []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
