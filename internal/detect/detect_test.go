package detect

import (
	"strings"
	"testing"

	"github.com/timvw/termsense/internal/model"
	"github.com/timvw/termsense/internal/screen"
)

func classifyLine(current string) model.InputWaitingState {
	return Classify(current, []string{current}, []string{current})
}

func TestClassify_ShellPrompt(t *testing.T) {
	tests := []struct {
		name    string
		current string
	}{
		{name: "bash user prompt", current: "user@host:~$ "},
		{name: "root prompt", current: "root@server:/etc# "},
		{name: "zsh percent", current: "host% "},
		{name: "powerline arrow", current: "~/code ❯ "},
		{name: "plain angle", current: "> "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyLine(tt.current)
			if !got.IsWaiting {
				t.Fatalf("IsWaiting: got false, want true")
			}
			if got.Type != model.InputPrompt {
				t.Errorf("Type: got %q, want %q", got.Type, model.InputPrompt)
			}
			if got.Confidence != 0.9 {
				t.Errorf("Confidence: got %v, want 0.9", got.Confidence)
			}
		})
	}
}

func TestClassify_NoMatch(t *testing.T) {
	tests := []struct {
		name    string
		current string
	}{
		{name: "empty line", current: ""},
		{name: "whitespace only", current: "   \t  "},
		{name: "ordinary output", current: "Reading package lists... Done"},
		{name: "log line", current: "2026-08-24 10:00:00 INFO started worker pool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyLine(tt.current)
			if got.IsWaiting {
				t.Fatalf("IsWaiting: got true (%q), want false", got.Type)
			}
			if got.Type != model.InputNone {
				t.Errorf("Type: got %q, want %q", got.Type, model.InputNone)
			}
		})
	}
}

func TestClassify_PasswordCurrentLine(t *testing.T) {
	tests := []struct {
		name    string
		current string
	}{
		{name: "sudo", current: "[sudo] password for tim: "},
		{name: "ssh", current: "tim@remote's password: "},
		{name: "su", current: "Password: "},
		{name: "gpg passphrase", current: "Enter passphrase for key '/home/tim/.ssh/id_ed25519': "},
		{name: "pin", current: "Enter PIN for 'PIV Card': "},
		{name: "2fa", current: "Verification code: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyLine(tt.current)
			if !got.IsWaiting || got.Type != model.InputPassword {
				t.Fatalf("got %+v, want waiting password", got)
			}
			if got.Confidence != 0.95 {
				t.Errorf("Confidence: got %v, want 0.95", got.Confidence)
			}
			if got.Prompt != strings.TrimSpace(tt.current) {
				t.Errorf("Prompt: got %q, want %q", got.Prompt, strings.TrimSpace(tt.current))
			}
		})
	}
}

func TestClassify_PasswordBeatsCustomInput(t *testing.T) {
	// "Enter password:" also matches the free-form input rules ("enter ",
	// trailing colon); the password check must win because it runs first.
	got := classifyLine("Enter password: ")
	if got.Type != model.InputPassword {
		t.Fatalf("Type: got %q, want %q", got.Type, model.InputPassword)
	}
	if got.Confidence != 0.95 {
		t.Errorf("Confidence: got %v, want 0.95", got.Confidence)
	}
}

func TestClassify_PasswordInRecentLines(t *testing.T) {
	// Prompt a few lines back, nothing after it: still pending, but at
	// lower confidence than a cursor-line match.
	recent := []string{
		"$ ssh remote",
		"tim@remote's password: ",
		"",
	}
	got := Classify("", recent, recent)
	if !got.IsWaiting || got.Type != model.InputPassword {
		t.Fatalf("got %+v, want waiting password", got)
	}
	if got.Confidence != 0.85 {
		t.Errorf("Confidence: got %v, want 0.85", got.Confidence)
	}
}

func TestClassify_PasswordRetryBannerStillPending(t *testing.T) {
	recent := []string{
		"[sudo] password for tim: ",
		"Sorry, try again.",
		"",
	}
	got := Classify("", recent, recent)
	if !got.IsWaiting || got.Type != model.InputPassword {
		t.Fatalf("got %+v, want waiting password after retry banner", got)
	}
}

func TestClassify_PasswordClearedByLaterOutput(t *testing.T) {
	// Output after the prompt means it was already answered; reporting
	// "still waiting" here would wrongly block the caller.
	recent := []string{
		"$ ssh remote",
		"tim@remote's password: ",
		"Welcome to Ubuntu 22.04.3 LTS",
	}
	got := Classify("Welcome to Ubuntu 22.04.3 LTS", recent, recent)
	if got.IsWaiting {
		t.Fatalf("got waiting %q, want not waiting", got.Type)
	}
}

func TestClassify_Confirmation(t *testing.T) {
	tests := []struct {
		name          string
		current       string
		wantSuggested string
	}{
		{name: "apt default yes", current: "Do you want to continue? [Y/n] ", wantSuggested: "y"},
		{name: "default no", current: "Remove 3 packages? [y/N] ", wantSuggested: "n"},
		{name: "uppercase no first", current: "Overwrite existing file? [N/y] ", wantSuggested: "n"},
		{name: "no declared default", current: "Are you sure you want to proceed? (yes/no) ", wantSuggested: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyLine(tt.current)
			if !got.IsWaiting || got.Type != model.InputConfirmation {
				t.Fatalf("got %+v, want waiting confirmation", got)
			}
			if got.SuggestedResponse != tt.wantSuggested {
				t.Errorf("SuggestedResponse: got %q, want %q", got.SuggestedResponse, tt.wantSuggested)
			}
			if len(got.Options) != 2 || got.Options[0] != "y" || got.Options[1] != "n" {
				t.Errorf("Options: got %v, want [y n]", got.Options)
			}
			if got.Confidence != 0.85 {
				t.Errorf("Confidence: got %v, want 0.85", got.Confidence)
			}
		})
	}
}

func TestClassify_Pager(t *testing.T) {
	tests := []struct {
		name          string
		current       string
		wantSuggested string
	}{
		{name: "less colon", current: ":", wantSuggested: "q"},
		{name: "more", current: "--More--(34%)", wantSuggested: " "},
		{name: "less at end", current: "(END)", wantSuggested: "q"},
		{name: "press enter", current: "Press ENTER to continue", wantSuggested: "\r"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyLine(tt.current)
			if !got.IsWaiting || got.Type != model.InputPager {
				t.Fatalf("got %+v, want waiting pager", got)
			}
			if got.SuggestedResponse != tt.wantSuggested {
				t.Errorf("SuggestedResponse: got %q, want %q", got.SuggestedResponse, tt.wantSuggested)
			}
			if got.Confidence != 0.9 {
				t.Errorf("Confidence: got %v, want 0.9", got.Confidence)
			}
		})
	}
}

func TestClassify_EditorViewportScan(t *testing.T) {
	// The editor marker sits at the bottom of the viewport while the
	// cursor is up in the text being edited.
	visible := []string{
		"package main",
		"",
		"func main() {",
		"}",
		"~",
		"~",
		"-- INSERT --",
	}
	got := Classify("func main() {", []string{"func main() {"}, visible)
	if !got.IsWaiting || got.Type != model.InputEditor {
		t.Fatalf("got %+v, want waiting editor", got)
	}
	if got.SuggestedResponse != ":q!" {
		t.Errorf("SuggestedResponse: got %q, want %q", got.SuggestedResponse, ":q!")
	}
	if got.Confidence != 0.85 {
		t.Errorf("Confidence: got %v, want 0.85", got.Confidence)
	}
}

func TestClassify_EditorNano(t *testing.T) {
	visible := []string{
		"  GNU nano 7.2                    notes.txt",
		"",
		"some text",
		"^G Help    ^X Exit",
	}
	got := Classify("some text", nil, visible)
	if !got.IsWaiting || got.Type != model.InputEditor {
		t.Fatalf("got %+v, want waiting editor", got)
	}
	if got.SuggestedResponse != "\x18" {
		t.Errorf("SuggestedResponse: got %q, want ctrl-x", got.SuggestedResponse)
	}
}

func TestClassify_CustomInput(t *testing.T) {
	tests := []struct {
		name    string
		current string
		want    bool
	}{
		{name: "enter phrase with colon", current: "Enter your name: ", want: true},
		{name: "username", current: "Username: ", want: true},
		{name: "login", current: "login: ", want: true},
		{name: "no trailing colon", current: "Enter your name", want: false},
		{name: "colon but no phrase", current: "Compiling module foo:", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyLine(tt.current)
			if tt.want {
				if !got.IsWaiting || got.Type != model.InputCustom {
					t.Fatalf("got %+v, want waiting custom input", got)
				}
				if got.Confidence != 0.7 {
					t.Errorf("Confidence: got %v, want 0.7", got.Confidence)
				}
				return
			}
			if got.Type == model.InputCustom {
				t.Fatalf("got custom input for %q, want none", tt.current)
			}
		})
	}
}

func TestClassify_SelectionDisabled(t *testing.T) {
	// Numbered lists are ordinary output far more often than interactive
	// menus, so the selection category never fires.
	current := "Select an option [1-3]: "
	recent := []string{
		"1) install",
		"2) upgrade",
		"3) quit",
		current,
	}
	got := Classify(current, recent, recent)
	if got.Type == model.InputSelection {
		t.Fatalf("selection detection should be inert, got %+v", got)
	}
}

func TestClassify_ConfidenceBounds(t *testing.T) {
	lines := []string{
		"",
		"user@host:~$ ",
		"[sudo] password for tim: ",
		"Do you want to continue? [Y/n] ",
		":",
		"-- INSERT --",
		"Enter your name: ",
		"make: *** [all] Error 2",
	}
	for _, line := range lines {
		got := classifyLine(line)
		if got.Confidence < 0 || got.Confidence > 1 {
			t.Errorf("Confidence out of range for %q: %v", line, got.Confidence)
		}
		if got.IsWaiting && got.Type == model.InputNone {
			t.Errorf("waiting with type none for %q", line)
		}
		if !got.IsWaiting && got.Type != model.InputNone {
			t.Errorf("not waiting but type %q for %q", got.Type, line)
		}
	}
}

func TestDetector_OverAccessor(t *testing.T) {
	acc := screen.NewLinesAccessor([]string{
		"$ sudo apt upgrade",
		"Reading package lists... Done",
		"[sudo] password for tim: ",
	}, 80, 24)
	d := NewDetector(screen.NewExtractor(acc))

	got := d.Detect()
	if !got.IsWaiting || got.Type != model.InputPassword {
		t.Fatalf("got %+v, want waiting password", got)
	}

	acc.SetContent([]string{
		"$ sudo apt upgrade",
		"[sudo] password for tim: ",
		"Unpacking libfoo (2.1-3) ...",
		"user@host:~$ ",
	}, model.CursorPosition{X: 13, Y: 3}, model.Dimensions{Cols: 80, Rows: 24})

	got = d.Detect()
	if got.Type != model.InputPrompt {
		t.Fatalf("after refresh: got %q, want %q", got.Type, model.InputPrompt)
	}
}
