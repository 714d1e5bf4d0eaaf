package output

import "regexp"

// terminalControl matches CSI sequences (including private modes such as
// "\x1b[?25l"), OSC sequences ended by BEL or ST, other two-byte escapes, and
// C0 control bytes apart from tab and newline.
var terminalControl = regexp.MustCompile(
	`\x1b\[[0-?]*[ -/]*[@-~]` +
		`|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)` +
		`|\x1b[@-Z\\-_]` +
		`|[\x00-\x08\x0b-\x1f\x7f]`,
)

// StripANSI removes terminal control sequences from upstream text (WHOIS
// answers, input lines) before it reaches the terminal or the report.
func StripANSI(s string) string {
	return terminalControl.ReplaceAllString(s, "")
}
