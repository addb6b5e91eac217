package screen

import "github.com/timvw/termsense/internal/model"

// Extractor provides "last N lines", "visible viewport", and "full buffer"
// reads over an Accessor. All methods are pure reads; out-of-range lookups
// degrade to empty strings rather than failing.
type Extractor struct {
	acc Accessor
}

// NewExtractor wraps an accessor.
func NewExtractor(acc Accessor) *Extractor {
	return &Extractor{acc: acc}
}

// lineAt returns the content at buffer index n, or "" when out of range.
func (e *Extractor) lineAt(n int) string {
	line, ok := e.acc.LineAt(n)
	if !ok {
		return ""
	}
	return line.Content
}

// CurrentLine returns the line the cursor is on.
func (e *Extractor) CurrentLine() string {
	cursor := e.acc.CursorPosition()
	return e.lineAt(e.acc.ViewportStartLine() + cursor.Y)
}

// LastLines returns the last n lines of the buffer, oldest first.
func (e *Extractor) LastLines(n int) []string {
	total := e.acc.BufferLength()
	start := total - n
	if start < 0 {
		start = 0
	}
	lines := make([]string, 0, total-start)
	for i := start; i < total; i++ {
		lines = append(lines, e.lineAt(i))
	}
	return lines
}

// VisibleLines returns the rows currently in the viewport.
func (e *Extractor) VisibleLines() []string {
	start := e.acc.ViewportStartLine()
	rows := e.acc.Dimensions().Rows
	total := e.acc.BufferLength()
	lines := make([]string, 0, rows)
	for i := start; i < start+rows && i < total; i++ {
		lines = append(lines, e.lineAt(i))
	}
	return lines
}

// FullBuffer returns every line in the scroll-back buffer.
func (e *Extractor) FullBuffer() []string {
	total := e.acc.BufferLength()
	lines := make([]string, 0, total)
	for i := 0; i < total; i++ {
		lines = append(lines, e.lineAt(i))
	}
	return lines
}

// FindLines returns the buffer lines for which match returns true,
// in buffer order.
func (e *Extractor) FindLines(match func(string) bool) []string {
	var found []string
	total := e.acc.BufferLength()
	for i := 0; i < total; i++ {
		if line := e.lineAt(i); match(line) {
			found = append(found, line)
		}
	}
	return found
}

// Content materializes a full ScreenContent read.
func (e *Extractor) Content() model.ScreenContent {
	return model.ScreenContent{
		VisibleLines:  e.VisibleLines(),
		FullBuffer:    e.FullBuffer(),
		Cursor:        e.acc.CursorPosition(),
		Dimensions:    e.acc.Dimensions(),
		TotalLines:    e.acc.BufferLength(),
		ViewportStart: e.acc.ViewportStartLine(),
	}
}
