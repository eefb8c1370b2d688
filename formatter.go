package scrollback

import "strings"

// FormatLines joins transcript lines for plain-text output.
// Lines are separated by blank lines.
func FormatLines(lines []string) string {
	return strings.Join(lines, "\n\n")
}

// ParseLines splits plain-text output produced by FormatLines back into lines.
// Carriage returns are dropped and blank lines are ignored.
func ParseLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
