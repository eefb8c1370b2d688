package scrollback

import (
	"context"
	"time"
)

// StopReason explains why a scroll loop ended.
type StopReason string

// Stop reasons.
const (
	StopConverged StopReason = "converged"
	StopCeiling   StopReason = "ceiling"
	StopDeadline  StopReason = "deadline"
	StopCanceled  StopReason = "canceled"
)

// Result is the outcome of one extraction run.
type Result struct {
	// Lines is the collected sequence in final order.
	Lines []string

	// Iterations is the number of scroll iterations performed.
	Iterations int

	// Stop is why the scroll loop ended. Only StopConverged means the list
	// was observed to stop changing; other reasons yield a best-effort result.
	Stop StopReason

	// Overwrites counts index-mode rows whose text changed between renders.
	Overwrites int
}

// Converged reports whether the loop ended because nothing new appeared.
func (r *Result) Converged() bool {
	return r.Stop == StopConverged
}

// Extractor extracts a transcript from a rendered document.
type Extractor interface {
	// Extract locates the transcript's scroll root, scrolls it to the end,
	// and returns the collected lines.
	// Returns ENOTFOUND if no transcript can be located or nothing qualifies.
	Extract(ctx context.Context, doc Document, cfg Config) (*Result, error)
}

// Transcript is an extracted transcript ready to be stored or published.
type Transcript struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	SourceURL   string    `json:"sourceUrl"`
	Lines       []string  `json:"lines"`
	ContentHash string    `json:"contentHash"`
	Iterations  int       `json:"iterations"`
	Converged   bool      `json:"converged"`
	ExtractedAt time.Time `json:"extractedAt"`
}

// Validate returns an error if the transcript contains invalid fields.
func (t *Transcript) Validate() error {
	if t.SourceURL == "" {
		return Errorf(EINVALID, "transcript source URL required")
	}
	if len(t.Lines) == 0 {
		return Errorf(EINVALID, "transcript lines required")
	}
	return nil
}

// TranscriptService represents a service for managing extracted transcripts.
type TranscriptService interface {
	// CreateTranscript stores a new transcript and assigns its ID.
	CreateTranscript(ctx context.Context, t *Transcript) error

	// FindTranscriptByID retrieves a transcript by ID.
	// Returns ENOTFOUND if the transcript does not exist.
	FindTranscriptByID(ctx context.Context, id string) (*Transcript, error)

	// FindTranscripts retrieves transcripts matching the filter, newest first.
	FindTranscripts(ctx context.Context, filter TranscriptFilter) ([]*Transcript, error)

	// DeleteTranscript permanently removes a transcript.
	// Returns ENOTFOUND if the transcript does not exist.
	DeleteTranscript(ctx context.Context, id string) error
}

// TranscriptFilter represents a filter for FindTranscripts.
type TranscriptFilter struct {
	ID        *string `json:"id"`
	SourceURL *string `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Publisher delivers a transcript to an output such as a file, the
// clipboard, or a notes service.
type Publisher interface {
	Publish(ctx context.Context, t *Transcript) error
}

// Summarizer turns a transcript into markdown study notes.
type Summarizer interface {
	Summarize(ctx context.Context, t *Transcript) (string, error)
}
