package detect

// Rule tables for input-waiting detection. Each category is an ordered list
// of data rules rather than inline branches, so new locales or program
// idioms can be added without touching the evaluation order in detect.go.

// phraseRule matches a lowercase substring within a line.
type phraseRule struct {
	// contains is the lowercase substring that must appear in the line.
	contains string
	// response is the keystroke to suggest when this rule matches, if any.
	response string
}

// passwordRules match prompts that must never receive agent input.
// Sources: sudo, ssh, su, gpg, openssl key prompts.
var passwordRules = []phraseRule{
	{contains: "[sudo] password"},
	{contains: "password for"},
	{contains: "'s password:"},
	{contains: "password:"},
	{contains: "passphrase"},
	{contains: "enter pin"},
	{contains: "verification code"},
	{contains: "current password"},
	{contains: "new password"},
}

// passwordRetryRules are banners printed between failed password attempts.
// A line matching one of these does not count as "output after the prompt"
// when verifying that a password prompt is still pending.
var passwordRetryRules = []phraseRule{
	{contains: "sorry, try again"},
	{contains: "permission denied, please try again"},
	{contains: "authentication failure"},
	{contains: "try again"},
}

// confirmationRules match yes/no style prompts. The response field carries
// the bracketed default where the prompt declares one.
var confirmationRules = []phraseRule{
	{contains: "[y/n]", response: "y"},
	{contains: "[n/y]", response: "n"},
	{contains: "(y/n)"},
	{contains: "(yes/no)"},
	{contains: "yes/no"},
	{contains: "continue?"},
	{contains: "proceed?"},
	{contains: "are you sure"},
	{contains: "do you want to continue", response: "y"},
	{contains: "ok to continue"},
	{contains: "confirm"},
}

// confirmationDefaults refine the suggested response from the exact
// bracket casing: the capitalized side is the default. Matched
// case-sensitively, unlike the rules above.
var confirmationDefaults = []phraseRule{
	{contains: "[Y/n]", response: "y"},
	{contains: "[y/N]", response: "n"},
	{contains: "[N/y]", response: "n"},
}

// pagerRules match pager status lines at the cursor.
var pagerRules = []phraseRule{
	{contains: "--more--", response: " "},
	{contains: "(end)", response: "q"},
	{contains: "press enter to continue", response: "\r"},
	{contains: "press any key to continue", response: " "},
	{contains: "lines 1-", response: " "},
}

// editorRules match full-screen editor status-line markers anywhere in the
// visible viewport (editors repaint the whole screen, so recent-line scans
// are not enough). The response is the keystroke sequence that leaves the
// editor without saving.
var editorRules = []phraseRule{
	{contains: "-- insert --", response: ":q!"},
	{contains: "-- normal --", response: ":q!"},
	{contains: "-- visual --", response: ":q!"},
	{contains: "-- replace --", response: ":q!"},
	{contains: "recording @", response: ":q!"},
	{contains: "gnu nano", response: "\x18"},
	{contains: "^g help", response: "\x18"},
	{contains: "^x exit", response: "\x18"},
	{contains: "^g get help", response: "\x18"},
}

// customInputRules match free-form input prompts: lowest-confidence
// category, evaluated last among the positive matchers.
var customInputRules = []phraseRule{
	{contains: "enter "},
	{contains: "input:"},
	{contains: "username:"},
	{contains: "login:"},
	{contains: "email:"},
	{contains: "hostname:"},
	{contains: "please type"},
	{contains: "provide "},
}

// promptSuffixes are the trailing sigils of an idle shell prompt. Checked
// against the right-trimmed current line.
var promptSuffixes = []string{"$", "#", "%", "❯", "➜", ">"}
