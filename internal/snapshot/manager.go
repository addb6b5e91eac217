// Package snapshot captures point-in-time views of terminal screen state
// and computes deltas between them. Snapshots combine a screen read with
// execution metadata (cwd, last command, exit code, idle flag) pushed by an
// external execution tracker — the manager never infers those itself.
package snapshot

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/timvw/termsense/internal/model"
	"github.com/timvw/termsense/internal/screen"
)

// DefaultCapacity is the unnamed-history bound: oldest evicted first.
const DefaultCapacity = 10

// DefaultRecentWindow is how many trailing lines a snapshot retains for
// hashing and diffing.
const DefaultRecentWindow = 30

// Snapshot is an immutable point-in-time view of terminal state.
type Snapshot struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds

	// Execution metadata, supplied via UpdateExternalState.
	Cwd          string `json:"cwd"`
	LastCommand  string `json:"last_command,omitempty"`
	LastExitCode *int   `json:"last_exit_code,omitempty"`
	IsIdle       bool   `json:"is_idle"`

	VisibleLines []string             `json:"visible_lines"`
	Cursor       model.CursorPosition `json:"cursor"`
	Dimensions   model.Dimensions     `json:"dimensions"`

	// RecentLines is the trailing window used for hashing and diffing.
	RecentLines []string `json:"recent_lines"`
	// ContentHash is a pure function of RecentLines: same lines, same
	// hash. Enables O(1) no-change detection.
	ContentHash string `json:"content_hash"`
}

// ExternalState is a partial update from the execution tracker. Nil fields
// leave the current value untouched.
type ExternalState struct {
	Cwd          *string
	LastCommand  *string
	LastExitCode *int
	IsIdle       *bool
}

// Manager owns the snapshot history: a bounded FIFO of unnamed snapshots
// plus a map of named ones. Named snapshots are never auto-evicted.
//
// Reads are safe for concurrent callers. Racing snapshot creations are not
// contemplated by the design — writers must be serialized by the caller.
type Manager struct {
	ext          *screen.Extractor
	capacity     int
	recentWindow int

	mu      sync.RWMutex
	history []*Snapshot
	named   map[string]*Snapshot

	cwd          string
	lastCommand  string
	lastExitCode *int
	idle         bool
}

// NewManager builds a manager over the given accessor with the default
// history capacity and recent-line window.
func NewManager(acc screen.Accessor) *Manager {
	return NewManagerWith(acc, DefaultCapacity, DefaultRecentWindow)
}

// NewManagerWith builds a manager with explicit capacity and window.
// Non-positive values fall back to the defaults.
func NewManagerWith(acc screen.Accessor, capacity, recentWindow int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if recentWindow <= 0 {
		recentWindow = DefaultRecentWindow
	}
	return &Manager{
		ext:          screen.NewExtractor(acc),
		capacity:     capacity,
		recentWindow: recentWindow,
		named:        make(map[string]*Snapshot),
	}
}

// UpdateExternalState records execution metadata pushed by the tracking
// collaborator. Subsequent snapshots carry these values.
func (m *Manager) UpdateExternalState(s ExternalState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.Cwd != nil {
		m.cwd = *s.Cwd
	}
	if s.LastCommand != nil {
		m.lastCommand = *s.LastCommand
	}
	if s.LastExitCode != nil {
		code := *s.LastExitCode
		m.lastExitCode = &code
	}
	if s.IsIdle != nil {
		m.idle = *s.IsIdle
	}
}

// Create captures a snapshot and appends it to the bounded history. When
// name is non-empty the snapshot is additionally stored under that name.
func (m *Manager) Create(name string) *Snapshot {
	recent := m.ext.LastLines(m.recentWindow)
	content := m.ext.Content()

	m.mu.Lock()
	defer m.mu.Unlock()

	snap := &Snapshot{
		ID:           uuid.NewString(),
		Timestamp:    model.Now(),
		Cwd:          m.cwd,
		LastCommand:  m.lastCommand,
		LastExitCode: m.lastExitCode,
		IsIdle:       m.idle,
		VisibleLines: content.VisibleLines,
		Cursor:       content.Cursor,
		Dimensions:   content.Dimensions,
		RecentLines:  recent,
		ContentHash:  HashLines(recent),
	}

	m.history = append(m.history, snap)
	if len(m.history) > m.capacity {
		m.history = m.history[len(m.history)-m.capacity:]
	}
	if name != "" {
		m.named[name] = snap
	}
	return snap
}

// Get returns the snapshot stored under name, or nil.
func (m *Manager) Get(name string) *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.named[name]
}

// Delete removes a named snapshot. Returns true if it existed.
func (m *Manager) Delete(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.named[name]
	delete(m.named, name)
	return ok
}

// History returns the most recent snapshots, oldest first. A non-positive
// limit returns the whole history.
func (m *Manager) History(limit int) []*Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	start := 0
	if limit > 0 && len(m.history) > limit {
		start = len(m.history) - limit
	}
	out := make([]*Snapshot, len(m.history)-start)
	copy(out, m.history[start:])
	return out
}

// Latest returns the newest snapshot in the history, or nil.
func (m *Manager) Latest() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.history) == 0 {
		return nil
	}
	return m.history[len(m.history)-1]
}

// CompareWithPrevious diffs the two most recent history entries. Returns
// nil when fewer than two snapshots exist.
func (m *Manager) CompareWithPrevious() *Diff {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.history) < 2 {
		return nil
	}
	d := Calculate(m.history[len(m.history)-2], m.history[len(m.history)-1])
	return &d
}

// SnapshotAndCompare captures a new snapshot and diffs it against the
// previous latest. The diff is nil for the first snapshot ever taken.
func (m *Manager) SnapshotAndCompare() (*Snapshot, *Diff) {
	prev := m.Latest()
	snap := m.Create("")
	if prev == nil {
		return snap, nil
	}
	d := Calculate(prev, snap)
	return snap, &d
}

// HasContentChanged reports whether the current recent-line window hashes
// differently from the latest snapshot. O(1) against the stored hash,
// used to skip diffing when nothing moved. True when no snapshot exists.
func (m *Manager) HasContentChanged() bool {
	latest := m.Latest()
	if latest == nil {
		return true
	}
	return HashLines(m.ext.LastLines(m.recentWindow)) != latest.ContentHash
}

// NewOutputSinceLast returns lines in the current recent window that were
// not present in the latest snapshot, without creating a new snapshot.
func (m *Manager) NewOutputSinceLast() []string {
	latest := m.Latest()
	current := m.ext.LastLines(m.recentWindow)
	if latest == nil {
		return trimBlank(current)
	}
	return subtractLines(current, latest.RecentLines)
}

// ClearHistory drops the unnamed history, keeping named snapshots.
func (m *Manager) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
}

// ClearAll drops both the history and all named snapshots.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
	m.named = make(map[string]*Snapshot)
}

// HashLines returns the hex-encoded SHA-256 of the joined lines.
func HashLines(lines []string) string {
	h := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return fmt.Sprintf("%x", h)
}
