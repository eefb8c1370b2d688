package scrollback

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Class is the outcome of classifying a harvested string.
type Class int

// Classification outcomes.
const (
	ClassEmpty Class = iota
	ClassTimestamp
	ClassNavHint
	ClassNoise
	ClassContent
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassEmpty:
		return "empty"
	case ClassTimestamp:
		return "timestamp"
	case ClassNavHint:
		return "nav_hint"
	case ClassNoise:
		return "noise"
	case ClassContent:
		return "content"
	default:
		return "unknown"
	}
}

// Classifier defaults.
const (
	DefaultMinLength = 3
	DefaultMaxLength = 600
	DefaultWordRun   = 3
)

// DefaultNavHints are keyboard-navigation hints rendered inside transcript panels.
var DefaultNavHints = []string{
	"矢印キー",
	"Enterキーを押して",
	"Use the up and down arrow keys",
	"Press Enter to go to the selected cue",
	"Press space to toggle playback",
}

// EnglishStopwords are common English function words. A fragment containing
// one of them is almost certainly a transcript sentence.
var EnglishStopwords = []string{
	"the", "this", "to", "a", "and", "in", "of", "for", "is", "that", "it",
	"we", "you", "are", "have", "with", "on", "be", "at", "by", "from", "as",
	"or", "an", "will", "can", "so", "if", "but", "not", "all", "would",
	"there", "their", "what", "up", "out", "when", "your", "how", "about",
	"which", "get",
}

var timestampRe = regexp.MustCompile(`^\d{1,2}:\d{2}(?::\d{2})?$`)

// Classifier decides whether harvested text is transcript content.
// The zero value applies no length bounds and no word heuristic; use
// NewClassifier for defaults. A Classifier is not safe for concurrent use.
type Classifier struct {
	// MinLength and MaxLength bound content length in runes.
	// MaxLength of zero disables the upper bound.
	MinLength int
	MaxLength int

	// NavHints are literal phrases identifying UI instructions.
	NavHints []string

	// WordRun is the minimum run of letters counted as a real word.
	// Zero disables the run test.
	WordRun int

	// Stopwords are common words that mark text as content.
	Stopwords []string

	stopwords map[string]struct{}
}

// NewClassifier returns a Classifier with default bounds and nav hints.
func NewClassifier() *Classifier {
	return &Classifier{
		MinLength: DefaultMinLength,
		MaxLength: DefaultMaxLength,
		NavHints:  DefaultNavHints,
		WordRun:   DefaultWordRun,
		Stopwords: EnglishStopwords,
	}
}

// Classify returns the class of raw harvested text.
func (c *Classifier) Classify(raw string) Class {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ClassEmpty
	}
	if IsTimestamp(text) {
		return ClassTimestamp
	}
	for _, hint := range c.NavHints {
		if hint != "" && strings.Contains(text, hint) {
			return ClassNavHint
		}
	}

	n := utf8.RuneCountInString(text)
	if n < c.MinLength {
		return ClassNoise
	}
	if c.MaxLength > 0 && n > c.MaxLength {
		return ClassNoise
	}
	if !c.hasWord(text) {
		return ClassNoise
	}
	return ClassContent
}

// hasWord applies the content-language heuristic.
func (c *Classifier) hasWord(text string) bool {
	if c.WordRun <= 0 && len(c.Stopwords) == 0 {
		return true
	}

	if c.WordRun > 0 {
		run := 0
		for _, r := range text {
			if unicode.IsLetter(r) {
				run++
				if run >= c.WordRun {
					return true
				}
				continue
			}
			run = 0
		}
	}

	if len(c.Stopwords) == 0 {
		return false
	}
	if c.stopwords == nil {
		c.stopwords = make(map[string]struct{}, len(c.Stopwords))
		for _, w := range c.Stopwords {
			c.stopwords[strings.ToLower(w)] = struct{}{}
		}
	}
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	for _, w := range words {
		if _, ok := c.stopwords[strings.ToLower(w)]; ok {
			return true
		}
	}
	return false
}

// IsTimestamp reports whether the trimmed text is a bare clock time
// such as "1:05", "12:34", or "1:02:03".
func IsTimestamp(text string) bool {
	return timestampRe.MatchString(strings.TrimSpace(text))
}

var (
	trailingStampRe = regexp.MustCompile(`(?s)^(.*?)\s+(\d{1,2}:\d{2}(?::\d{2})?)$`)
	leadingStampRe  = regexp.MustCompile(`(?s)^(\d{1,2}:\d{2}(?::\d{2})?)\s+(.*)$`)
)

// SplitTimestamp separates a clock time glued to either end of text.
// It returns the remaining body and the stamp; stamp is empty when text
// carries none.
func SplitTimestamp(text string) (body, stamp string) {
	text = strings.TrimSpace(text)
	if m := trailingStampRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), m[2]
	}
	if m := leadingStampRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[2]), m[1]
	}
	return text, ""
}

// JoinLabel prefixes text with a bracketed label: "[0:12] text".
func JoinLabel(label, text string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return text
	}
	return "[" + label + "] " + text
}
