package main

import (
	"fmt"

	"github.com/fwojciec/scrollback"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := scrollback.TranscriptFilter{Limit: c.Limit, Offset: c.Offset}
	if c.URL != "" {
		filter.SourceURL = &c.URL
	}

	transcripts, err := deps.Transcripts.FindTranscripts(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrollback.ErrorMessage(err))
		return err
	}

	if len(transcripts) == 0 {
		fmt.Fprintln(deps.Stdout, "No transcripts found. Use 'scrollback extract' to create one.")
		return nil
	}

	for _, t := range transcripts {
		name := t.Title
		if name == "" {
			name = t.SourceURL
		}
		status := ""
		if !t.Converged {
			status = "  (partial)"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %5d lines  %s%s\n",
			t.ID, t.ExtractedAt.Local().Format("2006-01-02 15:04"), len(t.Lines), name, status)
	}

	return nil
}
