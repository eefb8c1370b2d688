package scrollback

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the character budget for one paragraph block.
// Notes services cap rich text at 2000 characters per block; the margin
// leaves room for line separators.
const DefaultChunkSize = 1800

// ChunkLines packs lines into newline-joined chunks of at most size runes.
// Lines are never reordered; a line longer than size is split across
// chunks at rune boundaries.
func ChunkLines(lines []string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			chunks = append(chunks, s)
		}
		cur.Reset()
		curLen = 0
	}

	for _, line := range lines {
		for _, piece := range splitRunes(line, size) {
			n := utf8.RuneCountInString(piece)
			if curLen > 0 && curLen+n+1 > size {
				flush()
			}
			if curLen > 0 {
				cur.WriteByte('\n')
				curLen++
			}
			cur.WriteString(piece)
			curLen += n
		}
	}
	flush()

	return chunks
}

// splitRunes splits s into pieces of at most size runes.
func splitRunes(s string, size int) []string {
	if utf8.RuneCountInString(s) <= size {
		return []string{s}
	}
	var pieces []string
	runes := []rune(s)
	for len(runes) > size {
		pieces = append(pieces, string(runes[:size]))
		runes = runes[size:]
	}
	if len(runes) > 0 {
		pieces = append(pieces, string(runes))
	}
	return pieces
}
