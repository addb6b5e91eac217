package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/timvw/termsense/internal/model"
)

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	waitingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// view mode
type viewMode int

const (
	modeObserve viewMode = iota
	modeNameInput
)

// messages
type tickResultMsg struct {
	obs *Observation
	err error
}

type tickMsg struct{}

// TUI runs the interactive watch view over one pane.
type TUI struct {
	Watcher         *Watcher
	RefreshInterval time.Duration // 0 disables auto-refresh
}

// model implements tea.Model
type tuiModel struct {
	watcher         *Watcher
	ctx             context.Context
	refreshInterval time.Duration

	obs     *Observation
	err     error
	feed    []string // rolling feed of new output lines
	ticking bool

	mode      viewMode
	nameInput textinput.Model
	status    string

	width  int
	height int
}

const feedCapacity = 200

// Run starts the TUI and blocks until quit.
func (t *TUI) Run(ctx context.Context) error {
	input := textinput.New()
	input.Placeholder = "snapshot name"
	input.CharLimit = 64

	m := tuiModel{
		watcher:         t.Watcher,
		ctx:             ctx,
		refreshInterval: t.RefreshInterval,
		nameInput:       input,
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m tuiModel) Init() tea.Cmd {
	return m.tickCmd()
}

func (m tuiModel) tickCmd() tea.Cmd {
	return func() tea.Msg {
		obs, err := m.watcher.Tick(m.ctx)
		return tickResultMsg{obs: obs, err: err}
	}
}

func (m tuiModel) scheduleCmd() tea.Cmd {
	if m.refreshInterval <= 0 {
		return nil
	}
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if m.ticking {
			return m, m.scheduleCmd()
		}
		m.ticking = true
		return m, m.tickCmd()

	case tickResultMsg:
		m.ticking = false
		m.err = msg.err
		if msg.obs != nil {
			m.obs = msg.obs
			if len(msg.obs.NewLines) > 0 {
				m.feed = append(m.feed, msg.obs.NewLines...)
				if len(m.feed) > feedCapacity {
					m.feed = m.feed[len(m.feed)-feedCapacity:]
				}
			}
		}
		return m, m.scheduleCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeNameInput {
		switch msg.String() {
		case "enter":
			name := strings.TrimSpace(m.nameInput.Value())
			if name != "" {
				m.watcher.Manager().Create(name)
				m.status = fmt.Sprintf("saved snapshot %q", name)
			}
			m.mode = modeObserve
			m.nameInput.SetValue("")
			m.nameInput.Blur()
			return m, nil
		case "esc":
			m.mode = modeObserve
			m.nameInput.SetValue("")
			m.nameInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.nameInput, cmd = m.nameInput.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		if m.ticking {
			return m, nil
		}
		m.ticking = true
		return m, m.tickCmd()
	case "s":
		m.mode = modeNameInput
		m.nameInput.Focus()
		return m, textinput.Blink
	case "c":
		m.feed = nil
		m.status = "feed cleared"
		return m, nil
	}
	return m, nil
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("termsense watch — " + m.watcher.Target))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if m.obs == nil {
		b.WriteString(dimStyle.Render("waiting for first capture..."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderState(m.obs.State))
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("new output"))
	b.WriteString("\n")
	b.WriteString(m.renderFeed())
	b.WriteString("\n")

	if m.mode == modeNameInput {
		b.WriteString("save snapshot as: " + m.nameInput.View())
		b.WriteString("\n")
	}

	footer := "q quit · r refresh · s save snapshot · c clear feed"
	if m.status != "" {
		footer = m.status + "  ·  " + footer
	}
	b.WriteString(statusStyle.Render(footer))
	b.WriteString("\n")
	return b.String()
}

func (m tuiModel) renderState(state model.TerminalAwarenessState) string {
	var b strings.Builder

	inputLabel := string(state.Input.Type)
	style := activeStyle
	if state.Input.IsWaiting {
		style = waitingStyle
	}
	b.WriteString(headerStyle.Render("input   "))
	b.WriteString(style.Render(fmt.Sprintf("%s (%.2f)", inputLabel, state.Input.Confidence)))
	if state.Input.Prompt != "" {
		b.WriteString(dimStyle.Render("  " + truncate(state.Input.Prompt, 60)))
	}
	if state.Input.SuggestedResponse != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  suggest %q", state.Input.SuggestedResponse)))
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("output  "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%s (%.2f)", state.Output.Type, state.Output.Confidence)))
	if d := state.Output.Details; d != nil {
		var parts []string
		if d.Progress != nil {
			parts = append(parts, fmt.Sprintf("%d%%", *d.Progress))
		}
		if d.ETA != "" {
			parts = append(parts, "eta "+d.ETA)
		}
		if d.TestsPassed != nil {
			parts = append(parts, fmt.Sprintf("%d passed", *d.TestsPassed))
		}
		if d.TestsFailed != nil {
			parts = append(parts, fmt.Sprintf("%d failed", *d.TestsFailed))
		}
		if d.ErrorCount != nil {
			parts = append(parts, fmt.Sprintf("%d errors", *d.ErrorCount))
		}
		if len(parts) > 0 {
			b.WriteString(dimStyle.Render("  " + strings.Join(parts, " · ")))
		}
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("context "))
	ctx := state.Context
	who := ctx.User
	if who != "" && ctx.Hostname != "" {
		who += "@" + ctx.Hostname
	} else if ctx.Hostname != "" {
		who = ctx.Hostname
	}
	if who == "" {
		who = "unknown"
	}
	if ctx.IsRoot {
		who = errorStyle.Render(who + " (root)")
	}
	b.WriteString(valueStyle.Render(who))
	if ctx.CwdFromPrompt != "" {
		b.WriteString(dimStyle.Render("  " + ctx.CwdFromPrompt))
	}
	if len(ctx.ActiveEnvs) > 0 {
		b.WriteString(dimStyle.Render("  (" + strings.Join(ctx.ActiveEnvs, ", ") + ")"))
	}
	if ctx.SSHDepth > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ssh×%d", ctx.SSHDepth)))
	}
	b.WriteString(dimStyle.Render("  " + string(ctx.PromptType)))
	b.WriteString("\n")

	return b.String()
}

func (m tuiModel) renderFeed() string {
	if len(m.feed) == 0 {
		return dimStyle.Render("  (none)") + "\n"
	}
	// Show as many trailing feed lines as fit under the state block.
	visible := m.height - 12
	if visible < 3 {
		visible = 3
	}
	start := len(m.feed) - visible
	if start < 0 {
		start = 0
	}
	var b strings.Builder
	for _, line := range m.feed[start:] {
		b.WriteString("  " + truncate(line, maxInt(m.width-4, 20)) + "\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
