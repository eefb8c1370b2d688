package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/scrollback"
)

// Run executes the notes command.
func (c *NotesCmd) Run(deps *Dependencies) error {
	if c.Notion && deps.Notion == nil {
		fmt.Fprintln(deps.Stderr, "error: NOTION_TOKEN and NOTION_PARENT_PAGE_ID required for --notion")
		return scrollback.Errorf(scrollback.EINVALID, "notion not configured")
	}

	t, err := deps.Transcripts.FindTranscriptByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrollback.ErrorMessage(err))
		return err
	}

	notes, err := c.notes(deps, t)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, notes)

	if c.Notion {
		page, err := deps.Notion.PublishNotes(deps.Ctx, t, notes)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: notion: %s\n", errorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stderr, "Published notes to %s\n", page.URL)
	}
	return nil
}

// notes reads the notes file when one is given and summarizes otherwise.
func (c *NotesCmd) notes(deps *Dependencies, t *scrollback.Transcript) (string, error) {
	if c.File == "" {
		return deps.Summarizer.Summarize(deps.Ctx, t)
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return "", fmt.Errorf("reading notes: %w", err)
	}
	notes := strings.TrimSpace(string(data))
	if notes == "" {
		return "", scrollback.Errorf(scrollback.EINVALID, "notes file %s is empty", c.File)
	}
	return notes, nil
}
