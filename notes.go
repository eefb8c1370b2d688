package scrollback

import (
	"regexp"
	"strings"
)

// NoteBlock is one block of parsed study notes.
type NoteBlock struct {
	// Level is the heading level (2 or 3), or 0 for a paragraph.
	Level int    `json:"level"`
	Text  string `json:"text"`
}

var noteHeadingRe = regexp.MustCompile(`^(#{2,6})\s+(.+)$`)

// ParseNotes splits markdown notes into headings and paragraphs.
// Level-two and deeper headings become heading blocks (capped at level 3);
// consecutive non-heading lines form one paragraph. Top-level "#" headings
// are dropped because the page title carries them.
func ParseNotes(markdown string) []NoteBlock {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")

	var blocks []NoteBlock
	var para []string

	flush := func() {
		if len(para) > 0 {
			blocks = append(blocks, NoteBlock{Text: strings.Join(para, "\n")})
			para = nil
		}
	}

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := noteHeadingRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			level := len(m[1])
			if level > 3 {
				level = 3
			}
			blocks = append(blocks, NoteBlock{Level: level, Text: strings.TrimSpace(m[2])})
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		para = append(para, line)
	}
	flush()

	return blocks
}
