// Package scroll implements the virtual-scroll extraction engine. It locates
// the scroll root of a virtualized list, advances it step by step, harvests
// the rows rendered after each step, and stops once the list converges.
package scroll

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/scrollback"
	"golang.org/x/text/unicode/norm"
)

// Progress reports the state of the scroll loop after each iteration.
type Progress struct {
	Iteration int
	Lines     int
	Stable    int
	Metrics   scrollback.ScrollMetrics
}

// ProgressFunc is a callback for reporting scroll progress.
type ProgressFunc func(Progress)

// WaitFunc suspends for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Driver advances a scroll root until its rendered content stops changing.
//
// A Driver waits a fixed settle delay after each advance and does not detect
// renders slower than that delay. Rows rendered late are picked up when a
// later harvest covers the same region, but rows that render only after the
// list has converged are missed without an error.
type Driver struct {
	Classifier *scrollback.Classifier
	Harvest    scrollback.HarvestSpec
	Identity   scrollback.IdentityMode
	JoinLabels bool

	// SplitStamps moves a clock time glued to fragment text into its label.
	SplitStamps bool

	// FoldWidth applies NFKC compatibility folding to harvested text, turning
	// full-width letters and punctuation into their ASCII forms.
	FoldWidth bool

	StepPixels   float64
	StepFraction float64
	SettleDelay  time.Duration

	StableThreshold int
	MaxIterations   int

	EndMode      scrollback.EndMode
	EndTolerance float64

	// Deadline is an optional wall-clock budget. Zero means none.
	Deadline time.Duration

	// Wait defaults to a timer that honors ctx.
	Wait WaitFunc

	// Progress, if set, is called after every iteration.
	Progress ProgressFunc
}

// NewDriver returns a Driver configured from cfg.
func NewDriver(cfg scrollback.Config) *Driver {
	return &Driver{
		Classifier:      cfg.Classifier(),
		Harvest:         cfg.HarvestSpec(),
		Identity:        cfg.Identity,
		JoinLabels:      cfg.JoinLabels,
		SplitStamps:     cfg.SplitStamps,
		FoldWidth:       cfg.FoldWidth,
		StepPixels:      cfg.StepPixels,
		StepFraction:    cfg.StepFraction,
		SettleDelay:     cfg.SettleDelay,
		StableThreshold: cfg.StableThreshold,
		MaxIterations:   cfg.MaxIterations,
		EndMode:         cfg.EndMode,
		EndTolerance:    cfg.EndTolerance,
		Deadline:        cfg.Deadline,
	}
}

// Run scrolls root to the end and returns the collected lines.
//
// The loop ends when neither the content height nor the number of collected
// lines changes for StableThreshold consecutive iterations, or when
// MaxIterations is reached. A final harvest follows. Once the loop has
// started, the root is scrolled back to the top on every exit, including
// errors and cancellation.
//
// Reaching the ceiling or the deadline is not an error; the result carries
// the reason. If ctx is canceled, Run returns the lines collected so far
// together with the context error.
func (d *Driver) Run(ctx context.Context, root scrollback.Element) (*scrollback.Result, error) {
	m, err := root.ScrollMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading scroll metrics: %w", err)
	}

	res, err := d.run(ctx, root, m)

	// The reset must reach the page even when ctx is already canceled.
	if rerr := root.ScrollTo(context.WithoutCancel(ctx), 0); rerr != nil && err == nil {
		return nil, fmt.Errorf("resetting scroll: %w", rerr)
	}
	return res, err
}

func (d *Driver) run(ctx context.Context, root scrollback.Element, m scrollback.ScrollMetrics) (*scrollback.Result, error) {
	col := scrollback.NewCollector(d.Identity, d.JoinLabels)
	start := time.Now()

	var (
		iterations int
		stable     int
		stalled    bool // previous advance moved neither the offset nor the content
		prevHeight = m.ContentHeight
		prevSize   = 0
		stop       scrollback.StopReason
	)

	for {
		if stable >= d.stableThreshold() {
			stop = scrollback.StopConverged
			break
		}
		if iterations >= d.maxIterations() {
			stop = scrollback.StopCeiling
			break
		}
		if d.Deadline > 0 && time.Since(start) >= d.Deadline {
			stop = scrollback.StopDeadline
			break
		}
		if err := ctx.Err(); err != nil {
			return d.result(col, iterations, scrollback.StopCanceled), err
		}

		if err := d.harvest(ctx, root, col); err != nil {
			return nil, err
		}

		if !d.atEnd(m, stalled) {
			if err := root.ScrollTo(ctx, m.Offset+d.step(m)); err != nil {
				return nil, fmt.Errorf("scrolling: %w", err)
			}
		}
		if err := d.wait(ctx); err != nil {
			return d.result(col, iterations, scrollback.StopCanceled), err
		}

		next, err := root.ScrollMetrics(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading scroll metrics: %w", err)
		}
		// Growth at the bottom opens new room to advance into.
		stalled = next.Offset == m.Offset && next.ContentHeight == m.ContentHeight

		if next.ContentHeight == prevHeight && col.Len() == prevSize {
			stable++
		} else {
			stable = 0
		}
		prevHeight = next.ContentHeight
		prevSize = col.Len()
		m = next
		iterations++

		if d.Progress != nil {
			d.Progress(Progress{
				Iteration: iterations,
				Lines:     col.Len(),
				Stable:    stable,
				Metrics:   m,
			})
		}
	}

	// The last position may hold rows that rendered after the final harvest.
	if err := d.harvest(ctx, root, col); err != nil {
		return nil, err
	}
	return d.result(col, iterations, stop), nil
}

// harvest reads the rendered fragments and offers content to col.
func (d *Driver) harvest(ctx context.Context, root scrollback.Element, col *scrollback.Collector) error {
	frags, err := root.Harvest(ctx, d.Harvest)
	if err != nil {
		return fmt.Errorf("harvesting: %w", err)
	}
	for _, f := range frags {
		f.Text = d.clean(f.Text)
		f.Label = d.clean(f.Label)
		if d.SplitStamps && f.Label == "" {
			f.Text, f.Label = scrollback.SplitTimestamp(f.Text)
		}
		if d.classifier().Classify(f.Text) != scrollback.ClassContent {
			continue
		}
		col.Offer(f)
	}
	return nil
}

// atEnd reports whether the root cannot advance further.
func (d *Driver) atEnd(m scrollback.ScrollMetrics, stalled bool) bool {
	if d.EndMode == scrollback.EndByOffset {
		return stalled
	}
	return m.AtEnd(d.EndTolerance)
}

// step returns the advance distance for the current viewport.
func (d *Driver) step(m scrollback.ScrollMetrics) float64 {
	if d.StepFraction > 0 && m.ViewportHeight > 0 {
		if s := d.StepFraction * m.ViewportHeight; s >= 1 {
			return s
		}
		return 1
	}
	if d.StepPixels > 0 {
		return d.StepPixels
	}
	return scrollback.DefaultStepFraction * m.ViewportHeight
}

func (d *Driver) wait(ctx context.Context) error {
	if d.Wait != nil {
		return d.Wait(ctx, d.SettleDelay)
	}
	return Sleep(ctx, d.SettleDelay)
}

func (d *Driver) result(col *scrollback.Collector, iterations int, stop scrollback.StopReason) *scrollback.Result {
	return &scrollback.Result{
		Lines:      col.Snapshot(),
		Iterations: iterations,
		Stop:       stop,
		Overwrites: col.Overwrites(),
	}
}

func (d *Driver) stableThreshold() int {
	if d.StableThreshold <= 0 {
		return scrollback.DefaultStableThreshold
	}
	return d.StableThreshold
}

func (d *Driver) maxIterations() int {
	if d.MaxIterations <= 0 {
		return scrollback.DefaultMaxIterations
	}
	return d.MaxIterations
}

func (d *Driver) classifier() *scrollback.Classifier {
	if d.Classifier == nil {
		d.Classifier = scrollback.NewClassifier()
	}
	return d.Classifier
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// clean collapses whitespace runs and, with FoldWidth, folds compatibility
// characters.
func (d *Driver) clean(s string) string {
	if d.FoldWidth {
		s = norm.NFKC.String(s)
	}
	return strings.Join(strings.Fields(s), " ")
}
