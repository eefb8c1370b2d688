package scroll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/scrollback"
	"github.com/fwojciec/scrollback/mock"
	"github.com/fwojciec/scrollback/scroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDriver(cfg scrollback.Config) *scroll.Driver {
	d := scroll.NewDriver(cfg)
	d.Wait = noWait
	return d
}

func TestDriver_CollectsEveryRowInOrder(t *testing.T) {
	t.Parallel()

	want := sentences(50)
	root := newList(want...)

	res, err := newDriver(scrollback.DefaultConfig()).Run(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, want, res.Lines)
	assert.Equal(t, scrollback.StopConverged, res.Stop)
	assert.True(t, res.Converged())
}

func TestDriver_ResetsScrollToTop(t *testing.T) {
	t.Parallel()

	root := newList(sentences(30)...)

	_, err := newDriver(scrollback.DefaultConfig()).Run(context.Background(), root)

	require.NoError(t, err)
	require.NotEmpty(t, root.scrolls)
	assert.InDelta(t, 0, root.scrolls[len(root.scrolls)-1], 0)
	assert.InDelta(t, 0, root.offset, 0)
}

func TestDriver_StopsWhenStableBeforeCeiling(t *testing.T) {
	t.Parallel()

	// Three rows fit the viewport, so neither height nor size changes after
	// the first harvest.
	root := newList(sentences(3)...)
	cfg := scrollback.DefaultConfig()
	cfg.StableThreshold = 5
	cfg.MaxIterations = 1000

	res, err := newDriver(cfg).Run(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, scrollback.StopConverged, res.Stop)
	assert.Equal(t, 6, res.Iterations)
	assert.Len(t, res.Lines, 3)
}

func TestDriver_StopsAtCeiling(t *testing.T) {
	t.Parallel()

	// A list that keeps loading more rows never converges.
	root := newList(sentences(10000)...)
	root.loaded = 10
	root.batch = 5
	cfg := scrollback.DefaultConfig()
	cfg.MaxIterations = 10

	res, err := newDriver(cfg).Run(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, scrollback.StopCeiling, res.Stop)
	assert.False(t, res.Converged())
	assert.Equal(t, 10, res.Iterations)
	assert.NotEmpty(t, res.Lines)
}

func TestDriver_CollectsLazilyLoadedRows(t *testing.T) {
	t.Parallel()

	want := sentences(40)
	root := newList(want...)
	root.loaded = 10
	root.batch = 10

	res, err := newDriver(scrollback.DefaultConfig()).Run(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, want, res.Lines)
	assert.Equal(t, 40, root.loaded)
}

func TestDriver_IndexIdentityOrdersByIndexAndJoinsLabels(t *testing.T) {
	t.Parallel()

	root := newList()
	root.rows = []row{
		{index: "0", text: "first", label: "0:00"},
		{index: "1", text: "middle", label: "0:05"},
		{index: "2", text: "second", label: "0:10"},
		{index: "3", text: "third", label: "0:15"},
		{index: "4", text: "fourth", label: "0:20"},
		{index: "5", text: "fifth", label: "0:25"},
		{index: "6", text: "sixth", label: "0:30"},
		{index: "7", text: "seventh", label: "0:35"},
	}
	root.loaded = len(root.rows)
	root.viewport = 60
	cfg, ok := scrollback.Preset("virtuoso")
	require.True(t, ok)
	cfg.StepPixels = 40

	res, err := newDriver(cfg).Run(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"[0:00] first",
		"[0:05] middle",
		"[0:10] second",
		"[0:15] third",
		"[0:20] fourth",
		"[0:25] fifth",
		"[0:30] sixth",
		"[0:35] seventh",
	}, res.Lines)
	assert.Zero(t, res.Overwrites)
}

func TestDriver_EndByOffsetStopsScrollingOnceStalled(t *testing.T) {
	t.Parallel()

	root := newList(sentences(10)...)
	cfg := scrollback.DefaultConfig()
	cfg.EndMode = scrollback.EndByOffset

	res, err := newDriver(cfg).Run(context.Background(), root)

	require.NoError(t, err)
	assert.Len(t, res.Lines, 10)
	// 0 -> 70 -> 100 (clamped), one stalled advance, then the reset.
	assert.Equal(t, []float64{70, 140, 170, 0}, root.scrolls)
}

func TestDriver_ReportsIndexOverwrites(t *testing.T) {
	t.Parallel()

	root := newList()
	root.rows = []row{
		{index: "0", text: "first"},
		{index: "1", text: "second"},
		{index: "1", text: "recycled"},
	}
	root.loaded = len(root.rows)
	cfg, ok := scrollback.Preset("virtuoso")
	require.True(t, ok)

	res, err := newDriver(cfg).Run(context.Background(), root)

	require.NoError(t, err)
	assert.Len(t, res.Lines, 2)
	assert.Positive(t, res.Overwrites)
}

func TestDriver_EndByOffsetResumesWhenListGrowsAfterStall(t *testing.T) {
	t.Parallel()

	want := sentences(30)
	root := newList(want...)
	root.loaded = 10
	// The remaining rows arrive after the driver has stalled at the bottom.
	root.growAt = 4
	cfg := scrollback.DefaultConfig()
	cfg.EndMode = scrollback.EndByOffset

	res, err := newDriver(cfg).Run(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, want, res.Lines)
	assert.Equal(t, scrollback.StopConverged, res.Stop)
	assert.Equal(t, []float64{70, 140, 170}, root.scrolls[:3])
	assert.Greater(t, len(root.scrolls), 4)
}

func TestDriver_EndByExtentCollectsRowsAddedAtBottom(t *testing.T) {
	t.Parallel()

	want := sentences(30)
	root := newList(want...)
	root.loaded = 10
	root.growAt = 4

	res, err := newDriver(scrollback.DefaultConfig()).Run(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, want, res.Lines)
}

func TestDriver_SkipsNonContent(t *testing.T) {
	t.Parallel()

	root := newList(
		"12:34",
		"   ",
		"Use the up and down arrow keys to navigate",
		"ok",
		"This is a real sentence about rendering.",
	)

	res, err := newDriver(scrollback.DefaultConfig()).Run(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, []string{"This is a real sentence about rendering."}, res.Lines)
}

func TestDriver_CollapsesWhitespaceAndKeepsWidth(t *testing.T) {
	t.Parallel()

	root := newList("Ｆｕｌｌ width\u00a0text   and\n the rest", "今日は字幕の練習をします！　準備はいいですか？")

	res, err := newDriver(scrollback.DefaultConfig()).Run(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"Ｆｕｌｌ width text and the rest",
		"今日は字幕の練習をします！ 準備はいいですか？",
	}, res.Lines)
}

func TestDriver_FoldsWidthWhenEnabled(t *testing.T) {
	t.Parallel()

	root := newList("Ｆｕｌｌ width text   and\n the rest！")
	cfg := scrollback.DefaultConfig()
	cfg.FoldWidth = true

	res, err := newDriver(cfg).Run(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, []string{"Full width text and the rest!"}, res.Lines)
}

func TestDriver_SplitsGluedTimestamps(t *testing.T) {
	t.Parallel()

	root := newList("Hello there everyone 0:12", "1:05 And welcome back")
	cfg := scrollback.DefaultConfig()
	cfg.SplitStamps = true
	cfg.JoinLabels = true

	res, err := newDriver(cfg).Run(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, []string{"[0:12] Hello there everyone", "[1:05] And welcome back"}, res.Lines)
}

func TestDriver_ReturnsPartialResultOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := newList(sentences(50)...)
	d := scroll.NewDriver(scrollback.DefaultConfig())
	calls := 0
	d.Wait = func(ctx context.Context, _ time.Duration) error {
		calls++
		if calls == 3 {
			cancel()
		}
		return ctx.Err()
	}

	res, err := d.Run(ctx, root)

	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Equal(t, scrollback.StopCanceled, res.Stop)
	assert.Equal(t, 2, res.Iterations)
	assert.NotEmpty(t, res.Lines)
	assert.Less(t, len(res.Lines), 50)
}

func TestDriver_ResetsScrollAfterCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := newList(sentences(50)...)
	root.strict = true
	d := scroll.NewDriver(scrollback.DefaultConfig())
	calls := 0
	d.Wait = func(ctx context.Context, _ time.Duration) error {
		calls++
		if calls == 3 {
			cancel()
		}
		return ctx.Err()
	}

	_, err := d.Run(ctx, root)

	require.ErrorIs(t, err, context.Canceled)
	assert.InDelta(t, 0, root.scrolls[len(root.scrolls)-1], 0)
	assert.InDelta(t, 0, root.offset, 0)
}

func TestDriver_ResetsScrollAfterHarvestError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var scrolls []float64
	harvests := 0
	root := &mock.Element{
		ScrollMetricsFn: func(_ context.Context) (scrollback.ScrollMetrics, error) {
			return scrollback.ScrollMetrics{ContentHeight: 1000, ViewportHeight: 100}, nil
		},
		HarvestFn: func(_ context.Context, _ scrollback.HarvestSpec) ([]scrollback.Fragment, error) {
			harvests++
			if harvests == 2 {
				return nil, boom
			}
			return nil, nil
		},
		ScrollToFn: func(_ context.Context, offset float64) error {
			scrolls = append(scrolls, offset)
			return nil
		},
	}

	_, err := newDriver(scrollback.DefaultConfig()).Run(context.Background(), root)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []float64{70, 0}, scrolls)
}

func TestDriver_StopsAtDeadlineWithoutError(t *testing.T) {
	t.Parallel()

	root := newList(sentences(100)...)
	cfg := scrollback.DefaultConfig()
	cfg.Deadline = 20 * time.Millisecond
	d := scroll.NewDriver(cfg)
	d.Wait = func(ctx context.Context, _ time.Duration) error {
		return scroll.Sleep(ctx, 30*time.Millisecond)
	}

	res, err := d.Run(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, scrollback.StopDeadline, res.Stop)
	assert.Equal(t, 1, res.Iterations)
	assert.NotEmpty(t, res.Lines)
}

func TestDriver_ReportsProgress(t *testing.T) {
	t.Parallel()

	root := newList(sentences(3)...)
	d := newDriver(scrollback.DefaultConfig())
	var got []scroll.Progress
	d.Progress = func(p scroll.Progress) {
		got = append(got, p)
	}

	res, err := d.Run(context.Background(), root)

	require.NoError(t, err)
	require.Len(t, got, res.Iterations)
	assert.Equal(t, 1, got[0].Iteration)
	assert.Equal(t, 3, got[0].Lines)
	assert.Equal(t, 0, got[0].Stable)
	assert.Equal(t, scrollback.DefaultStableThreshold, got[len(got)-1].Stable)
}

func TestDriver_PropagatesHarvestError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	root := &mock.Element{
		ScrollMetricsFn: func(_ context.Context) (scrollback.ScrollMetrics, error) {
			return scrollback.ScrollMetrics{ContentHeight: 1000, ViewportHeight: 100}, nil
		},
		HarvestFn: func(_ context.Context, _ scrollback.HarvestSpec) ([]scrollback.Fragment, error) {
			return nil, boom
		},
		ScrollToFn: func(_ context.Context, _ float64) error {
			return nil
		},
	}

	_, err := newDriver(scrollback.DefaultConfig()).Run(context.Background(), root)

	require.ErrorIs(t, err, boom)
}

func TestDriver_PropagatesMetricsError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	root := &mock.Element{
		ScrollMetricsFn: func(_ context.Context) (scrollback.ScrollMetrics, error) {
			return scrollback.ScrollMetrics{}, boom
		},
	}

	_, err := newDriver(scrollback.DefaultConfig()).Run(context.Background(), root)

	require.ErrorIs(t, err, boom)
}

func TestSleep_ReturnsContextError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := scroll.Sleep(ctx, time.Hour)

	require.ErrorIs(t, err, context.Canceled)
}
