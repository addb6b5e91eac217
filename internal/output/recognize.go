// Package output classifies the kind of output currently scrolling in a
// terminal: progress bars, compilation, test runs, log streams, errors,
// tabular data, or plain output.
//
// Six independent sub-classifiers score the last scanWindow lines. They are
// checked in a fixed order and the first one whose confidence exceeds the
// acceptance threshold wins; otherwise the result is "normal" output at
// baseline confidence.
package output

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/timvw/termsense/internal/model"
	"github.com/timvw/termsense/internal/screen"
)

// scanWindow is how many trailing lines each sub-classifier examines.
const scanWindow = 20

// acceptThreshold is the confidence a sub-classifier must exceed to win.
const acceptThreshold = 0.7

// Recognizer classifies streaming output from a screen buffer.
type Recognizer struct {
	ext *screen.Extractor
}

// NewRecognizer builds a recognizer over the given extractor.
func NewRecognizer(ext *screen.Extractor) *Recognizer {
	return &Recognizer{ext: ext}
}

// Recognize reads the last scanWindow lines and returns the dominant
// output pattern.
func (r *Recognizer) Recognize() model.OutputPattern {
	return ClassifyLines(r.ext.LastLines(scanWindow))
}

// ClassifyLines classifies already-extracted lines. Exposed separately from
// Recognize for callers with raw captures and for tests.
func ClassifyLines(lines []string) model.OutputPattern {
	type classifier struct {
		typ     model.OutputType
		set     ruleSet
		details func(lines []string, matches int) *model.OutputDetails
	}
	// Fixed evaluation order: the earlier categories are the more specific
	// ones. A test run full of FAIL lines should classify as a test run,
	// not as generic errors.
	classifiers := []classifier{
		{model.OutputProgress, progressRules, progressDetails},
		{model.OutputCompilation, compilationRules, nil},
		{model.OutputTest, testRules, testDetails},
		{model.OutputLogStream, logStreamRules, nil},
		{model.OutputError, errorRules, errorDetails},
		{model.OutputTable, tableRules, nil},
	}

	for _, c := range classifiers {
		matches := c.set.countMatches(lines)
		if matches == 0 {
			continue
		}
		confidence := c.set.confidence(matches)
		if confidence <= acceptThreshold {
			continue
		}
		pattern := model.OutputPattern{Type: c.typ, Confidence: confidence}
		if c.details != nil {
			pattern.Details = c.details(lines, matches)
		}
		return pattern
	}
	return model.NormalOutput()
}

// countMatches counts rule hits across all lines. A line can corroborate
// a category more than once when it matches several independent rules.
func (s ruleSet) countMatches(lines []string) int {
	count := 0
	for _, line := range lines {
		for _, re := range s.rules {
			if re.MatchString(line) {
				count++
			}
		}
	}
	return count
}

// confidence maps a match count to a score: more corroborating signals
// raise confidence monotonically, capped per category.
func (s ruleSet) confidence(matches int) float64 {
	c := 0.6 + float64(matches)*s.weight
	if c > s.cap {
		return s.cap
	}
	return c
}

// progressDetails extracts the latest percentage and ETA string.
func progressDetails(lines []string, _ int) *model.OutputDetails {
	details := &model.OutputDetails{}
	// Walk backwards: the most recent progress line is authoritative.
	for i := len(lines) - 1; i >= 0; i-- {
		if details.Progress == nil {
			if m := percentRe.FindStringSubmatch(lines[i]); m != nil {
				if pct, err := strconv.Atoi(m[1]); err == nil && pct <= 100 {
					details.Progress = &pct
				}
			}
		}
		if details.ETA == "" {
			if m := etaRe.FindStringSubmatch(lines[i]); m != nil {
				details.ETA = strings.TrimRight(m[1], ".,;")
			}
		}
		if details.Progress != nil && details.ETA != "" {
			break
		}
	}
	if details.Progress == nil && details.ETA == "" {
		return nil
	}
	return details
}

// testDetails extracts pass/fail counts from test-runner summary lines.
func testDetails(lines []string, _ int) *model.OutputDetails {
	details := &model.OutputDetails{}
	for i := len(lines) - 1; i >= 0; i-- {
		if details.TestsPassed == nil {
			if n, ok := firstCount(lines[i], testsPassedRes); ok {
				details.TestsPassed = &n
			}
		}
		if details.TestsFailed == nil {
			if n, ok := firstCount(lines[i], testsFailedRes); ok {
				details.TestsFailed = &n
			}
		}
	}
	if details.TestsPassed == nil && details.TestsFailed == nil {
		return nil
	}
	return details
}

// errorDetails reports how many lines in the window look like errors.
func errorDetails(lines []string, _ int) *model.OutputDetails {
	count := 0
	for _, line := range lines {
		for _, re := range errorRules.rules {
			if re.MatchString(line) {
				count++
				break
			}
		}
	}
	return &model.OutputDetails{ErrorCount: &count}
}

// firstCount returns the first captured integer from the given patterns.
func firstCount(line string, res []*regexp.Regexp) (int, bool) {
	for _, re := range res {
		if m := re.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
