package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/scrollback"
	"github.com/fwojciec/scrollback/fs"
	sbslog "github.com/fwojciec/scrollback/slog"
	"golang.org/x/sync/errgroup"
)

// output is a named publishing destination.
type output struct {
	name string
	pub  scrollback.Publisher
}

// outputs returns the destinations selected by the flags.
func (f *OutputFlags) outputs(deps *Dependencies) ([]output, error) {
	var outs []output
	if f.Out != "" {
		outs = append(outs, output{name: "file", pub: fs.NewWriter(f.Out)})
	}
	if f.Clipboard {
		if deps.Clipboard == nil {
			return nil, scrollback.Errorf(scrollback.EUNAVAILABLE, "clipboard not available")
		}
		outs = append(outs, output{name: "clipboard", pub: deps.Clipboard})
	}
	if f.Notion {
		if deps.Notion == nil {
			return nil, scrollback.Errorf(scrollback.EINVALID, "NOTION_TOKEN and NOTION_PARENT_PAGE_ID required for --notion")
		}
		outs = append(outs, output{name: "notion", pub: deps.Notion})
	}

	logger := deps.logger()
	for i := range outs {
		outs[i].pub = sbslog.NewLoggingPublisher(outs[i].pub, outs[i].name, logger)
	}
	return outs, nil
}

// publishAll publishes t to every output concurrently. A failing output does
// not stop the others; the returned slice holds each output's error.
func publishAll(ctx context.Context, outs []output, t *scrollback.Transcript) []error {
	errs := make([]error, len(outs))
	var g errgroup.Group
	for i, o := range outs {
		g.Go(func() error {
			errs[i] = o.pub.Publish(ctx, t)
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// reportPublished prints one status line per output and returns the number
// that succeeded.
func reportPublished(deps *Dependencies, outs []output, errs []error) int {
	ok := 0
	for i, o := range outs {
		if errs[i] != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", o.name, errorMessage(errs[i]))
			continue
		}
		ok++
		fmt.Fprintf(deps.Stderr, "Published to %s\n", o.name)
	}
	return ok
}

// errorMessage returns the application message for err, falling back to the
// full error text for non-application errors.
func errorMessage(err error) string {
	if scrollback.ErrorCode(err) == scrollback.EINTERNAL {
		return err.Error()
	}
	return scrollback.ErrorMessage(err)
}
