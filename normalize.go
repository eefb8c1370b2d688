package scrollback

import (
	"regexp"
	"strings"
)

var sentenceRe = regexp.MustCompile(`[^.!?]*[.!?]+`)

// Normalize re-flows fragments into sentence-terminated lines. Fragments are
// joined with single spaces, whitespace runs are collapsed, and the result is
// split after each run of '.', '!' or '?'. Text after the last terminator is
// kept as a final line. Normalize is idempotent.
func Normalize(fragments []string) []string {
	joined := strings.Join(strings.Fields(strings.Join(fragments, " ")), " ")
	if joined == "" {
		return nil
	}

	var lines []string
	end := 0
	for _, loc := range sentenceRe.FindAllStringIndex(joined, -1) {
		if s := strings.TrimSpace(joined[loc[0]:loc[1]]); s != "" {
			lines = append(lines, s)
		}
		end = loc[1]
	}
	if rest := strings.TrimSpace(joined[end:]); rest != "" {
		lines = append(lines, rest)
	}
	return lines
}
