package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/scrollback"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	t, err := deps.Transcripts.FindTranscriptByID(deps.Ctx, c.ID)
	if err != nil {
		if scrollback.ErrorCode(err) == scrollback.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: transcript %q not found. Use 'scrollback list' to see stored transcripts.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scrollback.ErrorMessage(err))
		}
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	}

	fmt.Fprintln(deps.Stdout, scrollback.FormatLines(t.Lines))
	return nil
}
