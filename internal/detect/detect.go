// Package detect classifies whether a terminal is blocked waiting for
// interactive input: password prompts, confirmations, pagers, full-screen
// editors, free-form prompts, or an idle shell prompt.
//
// Evaluation is ordered and short-circuiting. The categories are mutually
// exclusive and some patterns could otherwise be confused with each other
// (a password prompt also looks like a generic "ends with a colon" input
// prompt), so checks run in a fixed priority sequence and the first
// confident match wins.
package detect

import (
	"strings"

	"github.com/timvw/termsense/internal/model"
	"github.com/timvw/termsense/internal/screen"
)

// Confidence levels per category. Password on the current line is the
// strongest signal we have; free-form custom input is the weakest.
const (
	confPasswordCurrent = 0.95
	confPasswordRecent  = 0.85
	confConfirmation    = 0.85
	confPager           = 0.9
	confEditor          = 0.85
	confCustomInput     = 0.7
	confShellPrompt     = 0.9
)

// recentWindow is how many trailing buffer lines the password scan walks
// back through when the prompt is not on the current line.
const recentWindow = 10

// Detector classifies input-waiting state from a screen buffer.
type Detector struct {
	ext *screen.Extractor
}

// NewDetector builds a detector over the given extractor.
func NewDetector(ext *screen.Extractor) *Detector {
	return &Detector{ext: ext}
}

// Detect reads the buffer and returns the current input-waiting state.
func (d *Detector) Detect() model.InputWaitingState {
	return Classify(d.ext.CurrentLine(), d.ext.LastLines(recentWindow), d.ext.VisibleLines())
}

// Classify runs the ordered category checks over already-extracted lines.
// Exposed separately from Detect so callers with raw captures (and tests)
// can classify without an Accessor.
func Classify(current string, recent, visible []string) model.InputWaitingState {
	if s, ok := checkPassword(current, recent); ok {
		return s
	}
	if s, ok := checkConfirmation(current); ok {
		return s
	}
	if s, ok := checkSelection(); ok {
		return s
	}
	if s, ok := checkPager(current); ok {
		return s
	}
	if s, ok := checkEditor(visible); ok {
		return s
	}
	if s, ok := checkCustomInput(current); ok {
		return s
	}
	if s, ok := checkShellPrompt(current); ok {
		return s
	}
	return model.NoInput()
}

// matchPhrase returns the first rule whose substring appears in the
// lowercased line.
func matchPhrase(line string, rules []phraseRule) (phraseRule, bool) {
	lower := strings.ToLower(line)
	for _, r := range rules {
		if strings.Contains(lower, r.contains) {
			return r, true
		}
	}
	return phraseRule{}, false
}

// checkPassword detects pending password/passphrase prompts.
//
// The current line is checked first. When the prompt is only found in
// recent lines, we additionally verify that no output appears after the
// matched line (retry banners excluded) — otherwise the user already typed
// the password and the command is now executing, and reporting "still
// waiting" would wrongly block the caller.
func checkPassword(current string, recent []string) (model.InputWaitingState, bool) {
	if _, ok := matchPhrase(current, passwordRules); ok {
		return model.InputWaitingState{
			IsWaiting:  true,
			Type:       model.InputPassword,
			Prompt:     strings.TrimSpace(current),
			Confidence: confPasswordCurrent,
		}, true
	}

	for i := len(recent) - 1; i >= 0; i-- {
		if _, ok := matchPhrase(recent[i], passwordRules); !ok {
			continue
		}
		// Found a prompt at i — anything substantive after it means the
		// prompt was already answered.
		for j := i + 1; j < len(recent); j++ {
			after := strings.TrimSpace(recent[j])
			if after == "" {
				continue
			}
			if _, retry := matchPhrase(after, passwordRetryRules); retry {
				continue
			}
			return model.InputWaitingState{}, false
		}
		return model.InputWaitingState{
			IsWaiting:  true,
			Type:       model.InputPassword,
			Prompt:     strings.TrimSpace(recent[i]),
			Confidence: confPasswordRecent,
		}, true
	}
	return model.InputWaitingState{}, false
}

// checkConfirmation detects yes/no prompts on the current line and derives
// a suggested response from the bracketed default when one is declared.
func checkConfirmation(current string) (model.InputWaitingState, bool) {
	rule, ok := matchPhrase(current, confirmationRules)
	if !ok {
		return model.InputWaitingState{}, false
	}
	suggested := rule.response
	// Bracket casing beats the generic rule default: [Y/n] means yes.
	for _, d := range confirmationDefaults {
		if strings.Contains(current, d.contains) {
			suggested = d.response
			break
		}
	}
	return model.InputWaitingState{
		IsWaiting:         true,
		Type:              model.InputConfirmation,
		Prompt:            strings.TrimSpace(current),
		Options:           []string{"y", "n"},
		SuggestedResponse: suggested,
		Confidence:        confConfirmation,
	}, true
}

// checkSelection always reports no match. Numbered-list heuristics are too
// prone to false positives against ordinary enumerated output (directory
// listings, changelogs, search results), and a missed menu never stalls
// execution — the caller sees the full output and decides. So this
// category is intentionally inert.
func checkSelection() (model.InputWaitingState, bool) {
	return model.InputWaitingState{}, false
}

// checkPager detects pager status lines (less, more, git log) on the
// current line. A bare ":" is less waiting at the bottom of a file.
func checkPager(current string) (model.InputWaitingState, bool) {
	trimmed := strings.TrimSpace(current)
	if trimmed == ":" {
		return model.InputWaitingState{
			IsWaiting:         true,
			Type:              model.InputPager,
			Prompt:            trimmed,
			SuggestedResponse: "q",
			Confidence:        confPager,
		}, true
	}
	rule, ok := matchPhrase(current, pagerRules)
	if !ok {
		return model.InputWaitingState{}, false
	}
	return model.InputWaitingState{
		IsWaiting:         true,
		Type:              model.InputPager,
		Prompt:            trimmed,
		SuggestedResponse: rule.response,
		Confidence:        confPager,
	}, true
}

// checkEditor scans the whole visible viewport for editor status-line
// markers. Editors repaint the full screen, so the marker can sit on any
// row — typically the last — rather than near the cursor.
func checkEditor(visible []string) (model.InputWaitingState, bool) {
	for _, line := range visible {
		rule, ok := matchPhrase(line, editorRules)
		if !ok {
			continue
		}
		return model.InputWaitingState{
			IsWaiting:         true,
			Type:              model.InputEditor,
			Prompt:            strings.TrimSpace(line),
			SuggestedResponse: rule.response,
			Confidence:        confEditor,
		}, true
	}
	return model.InputWaitingState{}, false
}

// checkCustomInput detects free-form input prompts: a curated phrase plus
// a trailing colon. Lowest-confidence positive category, so it runs after
// everything it could be confused with.
func checkCustomInput(current string) (model.InputWaitingState, bool) {
	trimmed := strings.TrimSpace(current)
	if !strings.HasSuffix(trimmed, ":") {
		return model.InputWaitingState{}, false
	}
	if _, ok := matchPhrase(current, customInputRules); !ok {
		return model.InputWaitingState{}, false
	}
	return model.InputWaitingState{
		IsWaiting:  true,
		Type:       model.InputCustom,
		Prompt:     trimmed,
		Confidence: confCustomInput,
	}, true
}

// checkShellPrompt detects an idle shell prompt from its trailing sigil.
func checkShellPrompt(current string) (model.InputWaitingState, bool) {
	trimmed := strings.TrimRight(current, " \t")
	if trimmed == "" {
		return model.InputWaitingState{}, false
	}
	for _, suffix := range promptSuffixes {
		if strings.HasSuffix(trimmed, suffix) {
			return model.InputWaitingState{
				IsWaiting:  true,
				Type:       model.InputPrompt,
				Prompt:     strings.TrimSpace(trimmed),
				Confidence: confShellPrompt,
			}, true
		}
	}
	return model.InputWaitingState{}, false
}
