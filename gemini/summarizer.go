// Package gemini writes study notes for transcripts with Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/scrollback"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultMaxTokens bounds the prompt size checked by a TokenCounter.
const DefaultMaxTokens = 900_000

// Ensure Summarizer implements scrollback.Summarizer at compile time.
var _ scrollback.Summarizer = (*Summarizer)(nil)

// Summarizer implements scrollback.Summarizer using Google Gemini.
type Summarizer struct {
	client *genai.Client
	model  string

	// Counter, if set, is consulted before the API call. Prompts above
	// MaxTokens are rejected with EINVALID.
	Counter   scrollback.TokenCounter
	MaxTokens int
}

// NewSummarizer creates a new Summarizer. An empty model selects DefaultModel.
func NewSummarizer(client *genai.Client, model string) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{client: client, model: model, MaxTokens: DefaultMaxTokens}
}

// Model returns the model name used for generation.
func (s *Summarizer) Model() string {
	return s.model
}

// Summarize returns markdown study notes for the transcript.
func (s *Summarizer) Summarize(ctx context.Context, t *scrollback.Transcript) (string, error) {
	if t == nil || len(t.Lines) == 0 {
		return "", scrollback.Errorf(scrollback.EINVALID, "transcript lines required")
	}

	prompt := BuildUserPrompt(t)

	if s.Counter != nil {
		n, err := s.Counter.CountTokens(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("counting tokens: %w", err)
		}
		if s.MaxTokens > 0 && n > s.MaxTokens {
			return "", scrollback.Errorf(scrollback.EINVALID, "transcript too long: %d tokens exceeds %d", n, s.MaxTokens)
		}
	}

	if s.client == nil {
		return "", scrollback.Errorf(scrollback.EUNAVAILABLE, "gemini client not configured")
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if result == nil {
		return "", scrollback.Errorf(scrollback.EINTERNAL, "gemini returned nil result")
	}

	notes := strings.TrimSpace(result.Text())
	if notes == "" {
		return "", scrollback.Errorf(scrollback.EINTERNAL, "gemini returned empty notes")
	}
	return notes, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.3)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You write concise study notes from lecture and tutorial transcripts. " +
					"Use markdown with ## section headings and ### subsections, short paragraphs, " +
					"and no top-level # heading. Cover only what the transcript says.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the transcript.
func BuildUserPrompt(t *scrollback.Transcript) string {
	title := t.Title
	if title == "" {
		title = t.SourceURL
	}

	var sb strings.Builder
	sb.WriteString("<transcript>\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", title)
	fmt.Fprintf(&sb, "<source>%s</source>\n", t.SourceURL)
	sb.WriteString("<content>\n")
	for _, line := range t.Lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString("</content>\n")
	sb.WriteString("</transcript>\n\n")
	sb.WriteString("Write study notes for this transcript.")
	return sb.String()
}
