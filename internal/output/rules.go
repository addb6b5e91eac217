package output

import "regexp"

// Each classifier category is a rule set: an ordered list of compiled
// patterns plus a per-match weight and a confidence cap. Confidence grows
// monotonically with corroborating matches (0.6 + matches*weight) but is
// capped below 1 to reflect residual uncertainty.

type ruleSet struct {
	rules  []*regexp.Regexp
	weight float64
	cap    float64
}

var progressRules = ruleSet{
	rules: []*regexp.Regexp{
		regexp.MustCompile(`\d{1,3}%`),
		regexp.MustCompile(`\[[=#>\-. ]{5,}\]`),
		regexp.MustCompile(`[▏▎▍▌▋▊▉█]{3,}`),
		regexp.MustCompile(`\b\d+/\d+\b`),
		regexp.MustCompile(`(?i)\beta[: ]`),
		regexp.MustCompile(`(?i)\b(downloading|uploading|pulling|pushing|extracting|receiving objects)\b`),
	},
	weight: 0.15,
	cap:    0.95,
}

var compilationRules = ruleSet{
	rules: []*regexp.Regexp{
		regexp.MustCompile(`(?i)^\s*(compiling|building|linking|bundling|transpiling)\b`),
		regexp.MustCompile(`(?i)\b(gcc|g\+\+|clang|rustc|javac|tsc|go build|cargo build)\b`),
		regexp.MustCompile(`(?i)^make(\[\d+\])?:`),
		regexp.MustCompile(`(?i)\bcompiled?\b.*\b(module|crate|package)s?\b`),
		regexp.MustCompile(`\.(o|class|wasm)\b`),
		regexp.MustCompile(`(?i)^\s*(CC|CXX|LD|AR)\s+\S`),
	},
	weight: 0.15,
	cap:    0.9,
}

var testRules = ruleSet{
	rules: []*regexp.Regexp{
		regexp.MustCompile(`\b(PASS|FAIL|PASSED|FAILED)\b`),
		regexp.MustCompile(`(?i)\b\d+\s+(tests?|specs?|assertions?)\b`),
		regexp.MustCompile(`(?i)^(ok|--- FAIL|=== RUN)\b`),
		regexp.MustCompile(`(?i)\brunning \d+ tests?\b`),
		regexp.MustCompile(`(?i)\btest suites?:`),
		regexp.MustCompile(`[✓✗✔✘]`),
	},
	weight: 0.15,
	cap:    0.95,
}

var logStreamRules = ruleSet{
	rules: []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}`),
		regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}`),
		regexp.MustCompile(`\b(TRACE|DEBUG|INFO|WARN|WARNING|ERROR)\b`),
		regexp.MustCompile(`^\w{3}\s+\d+\s+\d{2}:\d{2}:\d{2}\s`),
		regexp.MustCompile(`(?i)\blevel=(trace|debug|info|warn|error)\b`),
	},
	weight: 0.1,
	cap:    0.9,
}

// errorRules is the shared error-detection scan, also used for the
// ErrorCount detail.
var errorRules = ruleSet{
	rules: []*regexp.Regexp{
		regexp.MustCompile(`(?i)\berror\b[:!]?`),
		regexp.MustCompile(`(?i)\b(exception|traceback)\b`),
		regexp.MustCompile(`(?i)^panic:`),
		regexp.MustCompile(`(?i)\bfatal\b`),
		regexp.MustCompile(`(?i)segmentation fault`),
		regexp.MustCompile(`(?i)command not found`),
		regexp.MustCompile(`(?i)no such file or directory`),
		regexp.MustCompile(`(?i)(undefined reference|cannot find symbol|module not found)`),
	},
	weight: 0.15,
	cap:    0.95,
}

var tableRules = ruleSet{
	rules: []*regexp.Regexp{
		regexp.MustCompile(`\|.+\|`),
		regexp.MustCompile(`^\s*\+[-+=]+\+\s*$`),
		regexp.MustCompile(`[│┃╎]`),
		regexp.MustCompile(`^\s*[-=]{3,}(\s+[-=]{3,})+\s*$`),
	},
	weight: 0.2,
	cap:    0.9,
}

// Secondary, narrower patterns for structured detail extraction.
var (
	percentRe = regexp.MustCompile(`(\d{1,3})%`)
	etaRe     = regexp.MustCompile(`(?i)\beta[: ]+(\S+)`)

	// Count-first ("12 passed") before label-first ("passed: 12"): a line
	// like "12 passed, 2 failed" must not bind "passed" to the 2.
	testsPassedRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s+(?:tests?\s+)?pass(?:ed|ing)?\b`),
		regexp.MustCompile(`(?i)\bpass(?:ed)?\b\D{0,4}(\d+)`),
	}
	testsFailedRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s+(?:tests?\s+)?fail(?:ed|ing|ures?)?\b`),
		regexp.MustCompile(`(?i)\bfail(?:ed)?\b\D{0,4}(\d+)`),
	}
)
