package main

import (
	"fmt"

	"github.com/fwojciec/scrollback"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return scrollback.Errorf(scrollback.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Transcripts.DeleteTranscript(deps.Ctx, c.ID); err != nil {
		if scrollback.ErrorCode(err) == scrollback.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: transcript %q not found. Use 'scrollback list' to see stored transcripts.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scrollback.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted transcript %s\n", c.ID)
	return nil
}
