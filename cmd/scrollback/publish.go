package main

import (
	"fmt"

	"github.com/fwojciec/scrollback"
)

// Run executes the publish command.
func (c *PublishCmd) Run(deps *Dependencies) error {
	outs, err := c.outputs(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		return err
	}
	if len(outs) == 0 {
		fmt.Fprintln(deps.Stderr, "error: choose at least one of --out, --clipboard, or --notion")
		return scrollback.Errorf(scrollback.EINVALID, "no outputs selected")
	}

	t, err := deps.Transcripts.FindTranscriptByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrollback.ErrorMessage(err))
		return err
	}

	errs := publishAll(deps.Ctx, outs, t)
	if reportPublished(deps, outs, errs) == 0 {
		return scrollback.Errorf(scrollback.EUNAVAILABLE, "transcript was not published")
	}
	return nil
}
