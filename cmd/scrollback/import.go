package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fwojciec/scrollback"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	t := &scrollback.Transcript{
		Title:       c.Title,
		SourceURL:   c.URL,
		Lines:       scrollback.ParseLines(string(data)),
		Converged:   true,
		ExtractedAt: time.Now(),
	}
	if err := t.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrollback.ErrorMessage(err))
		return err
	}
	if err := deps.Transcripts.CreateTranscript(deps.Ctx, t); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrollback.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported %d lines as %s\n", len(t.Lines), t.ID)
	return nil
}
