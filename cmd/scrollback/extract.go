package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/scrollback"
	"github.com/fwojciec/scrollback/goquery"
	"github.com/fwojciec/scrollback/yaml"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	if (c.URL == "") == (c.HTML == "") {
		fmt.Fprintln(deps.Stderr, "error: provide a URL or --html, not both")
		return scrollback.Errorf(scrollback.EINVALID, "exactly one of URL or --html required")
	}

	cfg, err := c.config()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		return err
	}

	outs, err := c.outputs(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		return err
	}

	ctx, cancel := deps.Ctx, context.CancelFunc(func() {})
	if c.Timeout > 0 {
		ctx, cancel = context.WithTimeout(deps.Ctx, c.Timeout)
	}
	defer cancel()

	page, source, err := c.open(ctx, deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		return err
	}
	defer page.Close()

	title, err := page.Title(ctx)
	if err != nil {
		deps.logger().Warn("reading title", "err", err)
	}

	res, err := deps.Extractor.Extract(ctx, page, cfg)
	if err != nil {
		if res != nil {
			fmt.Fprintf(deps.Stderr, "error: interrupted after %d lines\n", len(res.Lines))
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stderr, "Extracted %d lines in %d iterations (%s)\n", len(res.Lines), res.Iterations, res.Stop)
	if !res.Converged() {
		fmt.Fprintln(deps.Stderr, "warning: the list did not settle; the transcript may be incomplete")
	}

	t := &scrollback.Transcript{
		Title:       title,
		SourceURL:   source,
		Lines:       res.Lines,
		Iterations:  res.Iterations,
		Converged:   res.Converged(),
		ExtractedAt: time.Now(),
	}

	attempted, succeeded := 0, 0

	if !c.NoStore {
		attempted++
		if err := deps.Transcripts.CreateTranscript(ctx, t); err != nil {
			fmt.Fprintf(deps.Stderr, "error: saving history: %s\n", errorMessage(err))
		} else {
			succeeded++
			fmt.Fprintf(deps.Stderr, "Saved transcript %s\n", t.ID)
		}
	}

	errs := publishAll(ctx, outs, t)
	attempted += len(outs)
	succeeded += reportPublished(deps, outs, errs)

	if !c.Quiet {
		fmt.Fprintln(deps.Stdout, scrollback.FormatLines(t.Lines))
		return nil
	}
	if attempted > 0 && succeeded == 0 {
		return scrollback.Errorf(scrollback.EUNAVAILABLE, "transcript was not saved or published anywhere")
	}
	return nil
}

// open returns the page to extract from and its source URL.
func (c *ExtractCmd) open(ctx context.Context, deps *Dependencies) (scrollback.Page, string, error) {
	if c.HTML != "" {
		f, err := os.Open(c.HTML)
		if err != nil {
			return nil, "", fmt.Errorf("opening snapshot: %w", err)
		}
		defer f.Close()

		doc, err := goquery.NewDocument(f)
		if err != nil {
			return nil, "", err
		}
		abs, err := filepath.Abs(c.HTML)
		if err != nil {
			abs = c.HTML
		}
		return doc, "file://" + filepath.ToSlash(abs), nil
	}

	if deps.Opener == nil {
		return nil, "", scrollback.Errorf(scrollback.EUNAVAILABLE, "browser not available")
	}
	page, err := deps.Opener.Open(ctx, c.URL, c.actions())
	if err != nil {
		return nil, "", err
	}
	return page, c.URL, nil
}

// actions returns the pre-extraction steps: each click in order, then the
// final wait.
func (c *ExtractCmd) actions() []scrollback.Action {
	var actions []scrollback.Action
	for _, sel := range c.Click {
		actions = append(actions, scrollback.Action{Click: sel, Pause: c.Pause})
	}
	if c.WaitFor != "" {
		actions = append(actions, scrollback.Action{WaitFor: c.WaitFor})
	}
	return actions
}

// config resolves the preset and applies flag overrides.
func (c *ExtractCmd) config() (scrollback.Config, error) {
	presets := yaml.Presets{}
	if c.Presets != "" {
		var err error
		if presets, err = yaml.LoadPresets(c.Presets); err != nil {
			return scrollback.Config{}, err
		}
	}

	cfg, ok := presets.Lookup(c.Preset)
	if !ok {
		return scrollback.Config{}, scrollback.Errorf(scrollback.EINVALID, "unknown preset %q. Use 'scrollback presets' to list presets", c.Preset)
	}

	if c.Normalize {
		cfg.Normalize = true
	}
	if c.FoldWidth {
		cfg.FoldWidth = true
	}
	if len(c.Root) > 0 {
		cfg.RootSelectors = c.Root
	}
	if len(c.Harvest) > 0 {
		cfg.HarvestSelectors = c.Harvest
	}
	if c.Step > 0 {
		cfg.StepPixels = c.Step
		cfg.StepFraction = 0
	}
	if c.Delay > 0 {
		cfg.SettleDelay = c.Delay
	}
	if c.StableThreshold > 0 {
		cfg.StableThreshold = c.StableThreshold
	}
	if c.MaxIterations > 0 {
		cfg.MaxIterations = c.MaxIterations
	}
	if c.Deadline > 0 {
		cfg.Deadline = c.Deadline
	}

	if err := cfg.Validate(); err != nil {
		return scrollback.Config{}, err
	}
	return cfg, nil
}
