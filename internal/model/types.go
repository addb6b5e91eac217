// Package model defines the data types shared across the awareness engine:
// screen content, input-waiting classifications, output patterns, environment
// context, and the aggregated awareness state consumed by agents and UIs.
package model

import "time"

// CursorPosition is a zero-based column/row within the visible viewport.
// Ephemeral — recomputed on every read, never cached.
type CursorPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Dimensions is the terminal size in columns and rows.
type Dimensions struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// ScreenContent is a point-in-time read of the terminal buffer.
// Produced fresh on every query.
type ScreenContent struct {
	// VisibleLines are the rows currently on screen.
	VisibleLines []string `json:"visible_lines"`
	// FullBuffer is the entire scroll-back buffer, oldest line first.
	FullBuffer []string `json:"full_buffer"`
	// Cursor is the cursor position within the viewport.
	Cursor CursorPosition `json:"cursor"`
	// Dimensions is the terminal size.
	Dimensions Dimensions `json:"dimensions"`
	// TotalLines is the scroll-back buffer length.
	TotalLines int `json:"total_lines"`
	// ViewportStart is the buffer index of the first visible row.
	ViewportStart int `json:"viewport_start"`
}

// InputType classifies what kind of interactive input the terminal is
// blocked on.
type InputType string

const (
	InputPassword     InputType = "password"
	InputConfirmation InputType = "confirmation"
	InputSelection    InputType = "selection"
	InputPager        InputType = "pager"
	InputPrompt       InputType = "prompt"
	InputEditor       InputType = "editor"
	InputCustom       InputType = "custom_input"
	InputNone         InputType = "none"
)

// InputWaitingState is the result of input-waiting detection. Exactly one
// Type per evaluation; Type is InputNone iff IsWaiting is false.
type InputWaitingState struct {
	IsWaiting bool      `json:"is_waiting"`
	Type      InputType `json:"type"`
	// Prompt is the matched prompt line, when one was identified.
	Prompt string `json:"prompt,omitempty"`
	// Options lists the choices offered by a confirmation prompt.
	Options []string `json:"options,omitempty"`
	// SuggestedResponse is a safe keystroke to satisfy the prompt
	// (e.g. the bracketed default of a [Y/n] confirmation, "q" for a pager).
	SuggestedResponse string `json:"suggested_response,omitempty"`
	// Confidence is a heuristic score in [0,1], not a calibrated probability.
	Confidence float64 `json:"confidence"`
}

// OutputType classifies the kind of output currently scrolling.
type OutputType string

const (
	OutputProgress    OutputType = "progress"
	OutputCompilation OutputType = "compilation"
	OutputTest        OutputType = "test"
	OutputLogStream   OutputType = "log_stream"
	OutputError       OutputType = "error"
	OutputTable       OutputType = "table"
	OutputNormal      OutputType = "normal"
)

// OutputDetails carries structured numbers extracted by the progress and
// test classifiers. Pointers distinguish "absent" from zero.
type OutputDetails struct {
	// Progress is a percentage in 0–100.
	Progress *int `json:"progress,omitempty"`
	// TestsPassed and TestsFailed are counts parsed from test-runner output.
	TestsPassed *int `json:"tests_passed,omitempty"`
	TestsFailed *int `json:"tests_failed,omitempty"`
	// ErrorCount is the number of error-looking lines in the scan window.
	ErrorCount *int `json:"error_count,omitempty"`
	// ETA is a verbatim time-remaining string, e.g. "eta 2m30s".
	ETA string `json:"eta,omitempty"`
}

// OutputPattern is the result of output classification.
type OutputPattern struct {
	Type       OutputType     `json:"type"`
	Confidence float64        `json:"confidence"`
	Details    *OutputDetails `json:"details,omitempty"`
}

// PromptType identifies the shell dialect inferred from the prompt.
type PromptType string

const (
	PromptBash       PromptType = "bash"
	PromptZsh        PromptType = "zsh"
	PromptFish       PromptType = "fish"
	PromptPowershell PromptType = "powershell"
	PromptCmd        PromptType = "cmd"
	PromptUnknown    PromptType = "unknown"
)

// EnvironmentContext is what we can recover about the session from the
// prompt and nearby lines: who, where, and through how many SSH hops.
type EnvironmentContext struct {
	User     string `json:"user,omitempty"`
	Hostname string `json:"hostname,omitempty"`
	IsRoot   bool   `json:"is_root"`
	// CwdFromPrompt is the working directory as rendered in the prompt —
	// possibly abbreviated (e.g. "~/src"), not an authoritative path.
	CwdFromPrompt string `json:"cwd_from_prompt,omitempty"`
	// ActiveEnvs lists virtual-environment markers found near the prompt
	// (venv, conda, nvm, rbenv, ...). All matches, not just the first.
	ActiveEnvs []string   `json:"active_envs,omitempty"`
	SSHDepth   int        `json:"ssh_depth"`
	PromptType PromptType `json:"prompt_type"`
}

// TerminalAwarenessState is the aggregated classification of what a
// terminal session is doing right now. Immutable once produced.
type TerminalAwarenessState struct {
	Input     InputWaitingState  `json:"input"`
	Output    OutputPattern      `json:"output"`
	Context   EnvironmentContext `json:"context"`
	Timestamp int64              `json:"timestamp"` // epoch milliseconds
}

// NoInput is the default result when no detector matches.
func NoInput() InputWaitingState {
	return InputWaitingState{IsWaiting: false, Type: InputNone, Confidence: 0}
}

// NormalOutput is the fallback when no output classifier is confident.
func NormalOutput() OutputPattern {
	return OutputPattern{Type: OutputNormal, Confidence: 0.5}
}

// Now returns the current time as epoch milliseconds, the timestamp unit
// used throughout awareness states and snapshots.
func Now() int64 {
	return time.Now().UnixMilli()
}
