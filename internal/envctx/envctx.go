// Package envctx recovers session environment from the shell prompt and
// nearby lines: user, host, working directory, active virtual environments,
// SSH nesting depth, and shell dialect.
//
// Everything here is best-effort prompt archaeology. Prompts are arbitrarily
// customizable, so the analyzer matches an ordered list of common prompt
// shapes and takes the first structural hit; an unmatched prompt simply
// yields an empty context rather than an error.
package envctx

import (
	"regexp"
	"strings"

	"github.com/timvw/termsense/internal/model"
	"github.com/timvw/termsense/internal/screen"
)

// promptShape is one recognized prompt structure. The capture group
// indexes say which submatch carries which field; 0 means "not captured".
type promptShape struct {
	re   *regexp.Regexp
	user int
	host int
	cwd  int
}

// promptShapes is ordered most-specific first; the first structural match
// wins.
var promptShapes = []promptShape{
	// user@host:path$
	{re: regexp.MustCompile(`([\w.-]+)@([\w.-]+):(\S+)\s*[$#%❯]`), user: 1, host: 2, cwd: 3},
	// [user@host path]$
	{re: regexp.MustCompile(`\[([\w.-]+)@([\w.-]+)\s+([^\]]+)\]\s*[$#%❯]`), user: 1, host: 2, cwd: 3},
	// user@host path$ (fish style, space instead of colon)
	{re: regexp.MustCompile(`([\w.-]+)@([\w.-]+)\s+(\S+)\s*[$#%❯➜]`), user: 1, host: 2, cwd: 3},
	// host:path$ (no user)
	{re: regexp.MustCompile(`^([\w.-]+):(~?/\S*)\s*[$#%]`), host: 1, cwd: 2},
	// bare path prompt: ~/src $ or /var/log #
	{re: regexp.MustCompile(`^(~\S*|/\S+)\s*[$#%❯]`), cwd: 1},
	// bare user$
	{re: regexp.MustCompile(`^([\w.-]+)\s*[$%]\s*$`), user: 1},
}

// envMarker captures a parenthesized virtual-environment tag at the start
// of a line, e.g. "(venv)", "(base)", "(nvm:v20.1.0)".
var envMarker = regexp.MustCompile(`^\(([\w.:\-/]+)\)\s`)

// knownEnvNames are bare markers worth reporting even when they appear
// mid-line (conda and version-manager banners).
var knownEnvNames = regexp.MustCompile(`\b(conda activate \S+|pyenv shell \S+|nvm use \S+)\b`)

// sshMarkers are connection lifecycle lines counted toward SSH depth.
var sshMarkers = []string{
	"last login:",
	"welcome to ubuntu",
	"authenticity of host",
	"connection established",
	"connecting to ",
	"ssh ",
}

// drivePathRe spots a Windows drive path at the start of a cmd.exe prompt.
var drivePathRe = regexp.MustCompile(`^[A-Za-z]:\\`)

// maxSSHDepth caps the depth estimate; beyond this the count is almost
// certainly false matches, not real nesting.
const maxSSHDepth = 5

// envScanLines is how many visible lines (plus the current line) the
// virtualenv scan covers.
const envScanLines = 5

// Analyzer recovers environment context from a screen buffer.
type Analyzer struct {
	ext *screen.Extractor
}

// NewAnalyzer builds an analyzer over the given extractor.
func NewAnalyzer(ext *screen.Extractor) *Analyzer {
	return &Analyzer{ext: ext}
}

// Analyze parses the current line and viewport into an EnvironmentContext.
func (a *Analyzer) Analyze() model.EnvironmentContext {
	return ClassifyPrompt(a.ext.CurrentLine(), a.ext.VisibleLines())
}

// ClassifyPrompt parses already-extracted lines. Exposed separately from
// Analyze for callers with raw captures and for tests.
func ClassifyPrompt(current string, visible []string) model.EnvironmentContext {
	ctx := model.EnvironmentContext{PromptType: model.PromptUnknown}

	// Strip a leading virtualenv tag before shape matching so "(venv)
	// user@host:~$" still parses structurally.
	stripped := envMarker.ReplaceAllString(strings.TrimLeft(current, " "), "")

	for _, shape := range promptShapes {
		m := shape.re.FindStringSubmatch(stripped)
		if m == nil {
			continue
		}
		if shape.user > 0 {
			ctx.User = m[shape.user]
		}
		if shape.host > 0 {
			ctx.Hostname = m[shape.host]
		}
		if shape.cwd > 0 {
			ctx.CwdFromPrompt = strings.TrimSpace(m[shape.cwd])
		}
		break
	}

	// Root is inferred independently of shape: a trailing # sigil means a
	// root shell regardless of how the rest of the prompt is laid out.
	trimmed := strings.TrimRight(current, " \t")
	ctx.IsRoot = strings.HasSuffix(trimmed, "#") || ctx.User == "root"

	ctx.ActiveEnvs = detectEnvs(current, visible)
	ctx.SSHDepth = estimateSSHDepth(visible)
	ctx.PromptType = detectPromptType(current)
	return ctx
}

// detectEnvs collects all virtualenv markers from the current line and the
// first envScanLines visible lines — all matches, not just the first, since
// stacked environments (conda inside nvm) are common.
func detectEnvs(current string, visible []string) []string {
	scan := append([]string{current}, firstN(visible, envScanLines)...)
	var envs []string
	seen := map[string]bool{}
	for _, line := range scan {
		if m := envMarker.FindStringSubmatch(strings.TrimLeft(line, " ")); m != nil {
			if !seen[m[1]] {
				seen[m[1]] = true
				envs = append(envs, m[1])
			}
		}
		if m := knownEnvNames.FindString(line); m != "" {
			name := m[strings.LastIndexByte(m, ' ')+1:]
			if !seen[name] {
				seen[name] = true
				envs = append(envs, name)
			}
		}
	}
	return envs
}

// estimateSSHDepth counts SSH lifecycle markers in the viewport, capped at
// maxSSHDepth. A rough proxy for nesting: each hop tends to leave exactly
// one login banner on screen.
func estimateSSHDepth(visible []string) int {
	depth := 0
	for _, line := range visible {
		lower := strings.ToLower(line)
		for _, marker := range sshMarkers {
			if strings.Contains(lower, marker) {
				depth++
				break
			}
		}
		if depth >= maxSSHDepth {
			return maxSSHDepth
		}
	}
	return depth
}

// detectPromptType infers the shell dialect from prompt glyphs and paths.
// Unix $/# is the fallback: indistinguishable between bash and sh, so it
// reports bash as the common case.
func detectPromptType(current string) model.PromptType {
	trimmed := strings.TrimRight(current, " \t")
	switch {
	case trimmed == "":
		return model.PromptUnknown
	case strings.Contains(trimmed, "PS ") && strings.HasSuffix(trimmed, ">"):
		return model.PromptPowershell
	case drivePathRe.MatchString(strings.TrimLeft(trimmed, " ")) && strings.HasSuffix(trimmed, ">"):
		return model.PromptCmd
	case strings.HasSuffix(trimmed, "❯") || strings.HasSuffix(trimmed, "➜"):
		return model.PromptZsh
	case strings.HasSuffix(trimmed, ">") && strings.Contains(trimmed, "><"):
		return model.PromptFish
	case strings.HasSuffix(trimmed, "%"):
		return model.PromptZsh
	case strings.HasSuffix(trimmed, "$") || strings.HasSuffix(trimmed, "#"):
		return model.PromptBash
	default:
		return model.PromptUnknown
	}
}

func firstN(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[:n]
}
