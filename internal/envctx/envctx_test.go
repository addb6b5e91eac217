package envctx

import (
	"reflect"
	"testing"

	"github.com/timvw/termsense/internal/model"
	"github.com/timvw/termsense/internal/screen"
)

func TestClassifyPrompt_Shapes(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		wantUser string
		wantHost string
		wantCwd  string
		wantRoot bool
		wantType model.PromptType
	}{
		{
			name:     "user at host colon path",
			current:  "tim@dev:~/src$ ",
			wantUser: "tim",
			wantHost: "dev",
			wantCwd:  "~/src",
			wantType: model.PromptBash,
		},
		{
			name:     "root shell",
			current:  "root@server:/etc# ",
			wantUser: "root",
			wantHost: "server",
			wantCwd:  "/etc",
			wantRoot: true,
			wantType: model.PromptBash,
		},
		{
			name:     "bracketed fedora style",
			current:  "[tim@fedora ~]$ ",
			wantUser: "tim",
			wantHost: "fedora",
			wantCwd:  "~",
			wantType: model.PromptBash,
		},
		{
			name:     "space separated with powerline glyph",
			current:  "tim@box ~/work ❯ ",
			wantUser: "tim",
			wantHost: "box",
			wantCwd:  "~/work",
			wantType: model.PromptZsh,
		},
		{
			name:     "host colon path without user",
			current:  "myhost:~/logs$ ",
			wantHost: "myhost",
			wantCwd:  "~/logs",
			wantType: model.PromptBash,
		},
		{
			name:     "bare path",
			current:  "~/src $ ",
			wantCwd:  "~/src",
			wantType: model.PromptBash,
		},
		{
			name:     "bare user",
			current:  "guest$ ",
			wantUser: "guest",
			wantType: model.PromptBash,
		},
		{
			name:     "root by sigil only",
			current:  "/var/backups # ",
			wantCwd:  "/var/backups",
			wantRoot: true,
			wantType: model.PromptBash,
		},
		{
			name:     "zsh percent",
			current:  "tim@mac:~% ",
			wantUser: "tim",
			wantHost: "mac",
			wantCwd:  "~",
			wantType: model.PromptZsh,
		},
		{
			name:     "not a prompt",
			current:  "Reading package lists... Done",
			wantType: model.PromptUnknown,
		},
		{
			name:     "empty line",
			current:  "",
			wantType: model.PromptUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyPrompt(tt.current, []string{tt.current})
			if got.User != tt.wantUser {
				t.Errorf("User: got %q, want %q", got.User, tt.wantUser)
			}
			if got.Hostname != tt.wantHost {
				t.Errorf("Hostname: got %q, want %q", got.Hostname, tt.wantHost)
			}
			if got.CwdFromPrompt != tt.wantCwd {
				t.Errorf("CwdFromPrompt: got %q, want %q", got.CwdFromPrompt, tt.wantCwd)
			}
			if got.IsRoot != tt.wantRoot {
				t.Errorf("IsRoot: got %v, want %v", got.IsRoot, tt.wantRoot)
			}
			if got.PromptType != tt.wantType {
				t.Errorf("PromptType: got %q, want %q", got.PromptType, tt.wantType)
			}
		})
	}
}

func TestClassifyPrompt_VenvTagStripped(t *testing.T) {
	got := ClassifyPrompt("(venv) tim@dev:~/src$ ", nil)
	if got.User != "tim" || got.Hostname != "dev" || got.CwdFromPrompt != "~/src" {
		t.Fatalf("shape not recovered behind venv tag: %+v", got)
	}
	if !reflect.DeepEqual(got.ActiveEnvs, []string{"venv"}) {
		t.Errorf("ActiveEnvs: got %v, want [venv]", got.ActiveEnvs)
	}
}

func TestClassifyPrompt_StackedEnvs(t *testing.T) {
	visible := []string{
		"(base) tim@dev:~$ source .venv/bin/activate",
		"(venv) tim@dev:~$ nvm use v20.1.0",
		"Now using node v20.1.0",
		"(venv) tim@dev:~$ ",
	}
	got := ClassifyPrompt("(venv) tim@dev:~$ ", visible)
	want := []string{"venv", "base", "v20.1.0"}
	if !reflect.DeepEqual(got.ActiveEnvs, want) {
		t.Errorf("ActiveEnvs: got %v, want %v", got.ActiveEnvs, want)
	}
}

func TestClassifyPrompt_EnvScanIsBounded(t *testing.T) {
	// A marker past the scan window must not be picked up.
	visible := []string{
		"line 1", "line 2", "line 3", "line 4", "line 5",
		"(deep) tim@dev:~$ old prompt far above",
	}
	got := ClassifyPrompt("tim@dev:~$ ", visible)
	if len(got.ActiveEnvs) != 0 {
		t.Errorf("ActiveEnvs: got %v, want none", got.ActiveEnvs)
	}
}

func TestClassifyPrompt_SSHDepth(t *testing.T) {
	visible := []string{
		"$ ssh jump.internal",
		"Last login: Sun Aug 23 09:12:44 2026 from 10.0.0.5",
		"tim@jump:~$ ",
	}
	got := ClassifyPrompt("tim@jump:~$ ", visible)
	if got.SSHDepth != 2 {
		t.Errorf("SSHDepth: got %d, want 2", got.SSHDepth)
	}
}

func TestClassifyPrompt_SSHDepthCapped(t *testing.T) {
	visible := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		visible = append(visible, "Last login: Sun Aug 23 09:12:44 2026")
	}
	got := ClassifyPrompt("tim@deep:~$ ", visible)
	if got.SSHDepth != 5 {
		t.Errorf("SSHDepth: got %d, want cap 5", got.SSHDepth)
	}
}

func TestDetectPromptType_Dialects(t *testing.T) {
	tests := []struct {
		current string
		want    model.PromptType
	}{
		{"PS C:\\Users\\tim> ", model.PromptPowershell},
		{"C:\\Users\\tim>", model.PromptCmd},
		{"~/src ❯ ", model.PromptZsh},
		{"tim@mac ~ % ", model.PromptZsh},
		{"tim@dev:~$ ", model.PromptBash},
		{"root@dev:/# ", model.PromptBash},
		{"~ ><((°> ", model.PromptFish},
		{"no prompt here", model.PromptUnknown},
	}
	for _, tt := range tests {
		if got := detectPromptType(tt.current); got != tt.want {
			t.Errorf("detectPromptType(%q): got %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestAnalyzer_OverAccessor(t *testing.T) {
	acc := screen.NewLinesAccessor([]string{
		"Last login: Sun Aug 23 09:12:44 2026 from 10.0.0.5",
		"(venv) tim@prod:~/app$ ",
	}, 80, 24)
	got := NewAnalyzer(screen.NewExtractor(acc)).Analyze()
	if got.User != "tim" || got.Hostname != "prod" {
		t.Fatalf("got %+v, want tim@prod", got)
	}
	if got.SSHDepth != 1 {
		t.Errorf("SSHDepth: got %d, want 1", got.SSHDepth)
	}
	if !reflect.DeepEqual(got.ActiveEnvs, []string{"venv"}) {
		t.Errorf("ActiveEnvs: got %v, want [venv]", got.ActiveEnvs)
	}
}
