// Package screen abstracts the terminal screen buffer behind a narrow
// read-only interface and provides line-extraction helpers over it.
//
// The concrete buffer lives in whatever terminal-emulation layer feeds the
// engine (a tmux capture, a PTY renderer, a synthetic test fixture). Keeping
// the detectors behind this interface makes them independent of any specific
// emulator and trivially testable with plain string slices.
package screen

import "github.com/timvw/termsense/internal/model"

// Line is a single buffer row. Wrapped marks a row that is the
// continuation of a logical line wider than the terminal.
type Line struct {
	Content string
	Wrapped bool
}

// Accessor is the read-only view of a terminal scroll-back buffer.
type Accessor interface {
	// CursorPosition returns the cursor location within the viewport.
	CursorPosition() model.CursorPosition

	// Dimensions returns the terminal size.
	Dimensions() model.Dimensions

	// LineAt returns the buffer line at index n (0 = oldest), or
	// ok=false when n is out of range.
	LineAt(n int) (Line, bool)

	// BufferLength returns the total number of lines in the buffer.
	BufferLength() int

	// ViewportStartLine returns the buffer index of the first visible row.
	ViewportStartLine() int
}

// LinesAccessor is an in-memory Accessor over a slice of lines. It backs
// synthetic test buffers and one-shot captures from external sources.
type LinesAccessor struct {
	Lines  []string
	Cursor model.CursorPosition
	Size   model.Dimensions
	// Start is the viewport start line. When negative, the viewport is
	// assumed to show the last Size.Rows lines of the buffer.
	Start int
}

// NewLinesAccessor builds an accessor over lines with the viewport pinned
// to the bottom of the buffer and the cursor on the last line.
func NewLinesAccessor(lines []string, cols, rows int) *LinesAccessor {
	cursorY := len(lines) - 1
	if cursorY >= rows {
		cursorY = rows - 1
	}
	if cursorY < 0 {
		cursorY = 0
	}
	cursorX := 0
	if len(lines) > 0 {
		cursorX = len(lines[len(lines)-1])
	}
	return &LinesAccessor{
		Lines:  lines,
		Cursor: model.CursorPosition{X: cursorX, Y: cursorY},
		Size:   model.Dimensions{Cols: cols, Rows: rows},
		Start:  -1,
	}
}

// SetContent replaces the accessor's buffer in place so long-lived readers
// (extractors, snapshot managers) built over this accessor see the new
// capture. Not safe against concurrent reads; callers serialize.
func (a *LinesAccessor) SetContent(lines []string, cursor model.CursorPosition, size model.Dimensions) {
	a.Lines = lines
	a.Cursor = cursor
	a.Size = size
}

func (a *LinesAccessor) CursorPosition() model.CursorPosition { return a.Cursor }

func (a *LinesAccessor) Dimensions() model.Dimensions { return a.Size }

func (a *LinesAccessor) LineAt(n int) (Line, bool) {
	if n < 0 || n >= len(a.Lines) {
		return Line{}, false
	}
	return Line{Content: a.Lines[n]}, true
}

func (a *LinesAccessor) BufferLength() int { return len(a.Lines) }

func (a *LinesAccessor) ViewportStartLine() int {
	if a.Start >= 0 {
		return a.Start
	}
	start := len(a.Lines) - a.Size.Rows
	if start < 0 {
		start = 0
	}
	return start
}
