package main_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fwojciec/scrollback"
	main "github.com/fwojciec/scrollback/cmd/scrollback"
	"github.com/fwojciec/scrollback/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageTitled(title string) *mock.Page {
	return &mock.Page{
		TitleFn: func(context.Context) (string, error) { return title, nil },
		CloseFn: func() error { return nil },
	}
}

func extractorReturning(res *scrollback.Result, err error) *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(context.Context, scrollback.Document, scrollback.Config) (*scrollback.Result, error) {
			return res, err
		},
	}
}

func storeInto(stored **scrollback.Transcript) *mock.TranscriptService {
	return &mock.TranscriptService{
		CreateTranscriptFn: func(_ context.Context, t *scrollback.Transcript) error {
			t.ID = "t-1"
			*stored = t
			return nil
		},
	}
}

func TestExtractCmd_Run(t *testing.T) {
	t.Parallel()

	converged := &scrollback.Result{
		Lines:      []string{"first line", "second line"},
		Iterations: 9,
		Stop:       scrollback.StopConverged,
	}

	t.Run("opens URL with actions, stores, and prints", func(t *testing.T) {
		t.Parallel()

		var gotURL string
		var gotActions []scrollback.Action
		page := pageTitled("Lesson One")
		closed := false
		page.CloseFn = func() error { closed = true; return nil }

		var gotCfg scrollback.Config
		var stored *scrollback.Transcript
		deps, stdout, stderr := newDeps()
		deps.Opener = &mock.PageOpener{
			OpenFn: func(_ context.Context, url string, actions []scrollback.Action) (scrollback.Page, error) {
				gotURL, gotActions = url, actions
				return page, nil
			},
		}
		deps.Extractor = &mock.Extractor{
			ExtractFn: func(_ context.Context, doc scrollback.Document, cfg scrollback.Config) (*scrollback.Result, error) {
				assert.Same(t, page, doc)
				gotCfg = cfg
				return converged, nil
			},
		}
		deps.Transcripts = storeInto(&stored)

		cmd := &main.ExtractCmd{
			URL:     "https://example.com/watch",
			Preset:  "virtuoso",
			Click:   []string{"#transcript-tab"},
			WaitFor: "[data-index]",
			Step:    250,
		}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/watch", gotURL)
		assert.Equal(t, []scrollback.Action{{Click: "#transcript-tab"}, {WaitFor: "[data-index]"}}, gotActions)
		assert.Equal(t, scrollback.IdentityIndex, gotCfg.Identity)
		assert.InDelta(t, 250, gotCfg.StepPixels, 0.001)
		assert.Zero(t, gotCfg.StepFraction)
		assert.True(t, closed)

		require.NotNil(t, stored)
		assert.Equal(t, "Lesson One", stored.Title)
		assert.Equal(t, "https://example.com/watch", stored.SourceURL)
		assert.Equal(t, converged.Lines, stored.Lines)
		assert.Equal(t, 9, stored.Iterations)
		assert.True(t, stored.Converged)
		assert.False(t, stored.ExtractedAt.IsZero())

		assert.Equal(t, "first line\n\nsecond line\n", stdout.String())
		assert.Contains(t, stderr.String(), "Saved transcript t-1")
	})

	t.Run("requires exactly one source", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()

		err := (&main.ExtractCmd{Preset: "default"}).Run(deps)
		assert.Equal(t, scrollback.EINVALID, scrollback.ErrorCode(err))

		err = (&main.ExtractCmd{URL: "https://example.com", HTML: "page.html", Preset: "default"}).Run(deps)
		assert.Equal(t, scrollback.EINVALID, scrollback.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--html")
	})

	t.Run("rejects unknown preset", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()

		err := (&main.ExtractCmd{URL: "https://example.com", Preset: "nope"}).Run(deps)

		assert.Equal(t, scrollback.EINVALID, scrollback.ErrorCode(err))
		assert.Contains(t, stderr.String(), `unknown preset "nope"`)
	})

	t.Run("loads presets file", func(t *testing.T) {
		t.Parallel()

		presets := writeFile(t, "presets.yaml", "presets:\n  course:\n    base: container\n    max_iterations: 7\n")
		var gotCfg scrollback.Config
		deps, _, _ := newDeps()
		deps.Opener = &mock.PageOpener{
			OpenFn: func(context.Context, string, []scrollback.Action) (scrollback.Page, error) {
				return pageTitled(""), nil
			},
		}
		deps.Extractor = &mock.Extractor{
			ExtractFn: func(_ context.Context, _ scrollback.Document, cfg scrollback.Config) (*scrollback.Result, error) {
				gotCfg = cfg
				return converged, nil
			},
		}

		err := (&main.ExtractCmd{URL: "https://example.com", Preset: "course", Presets: presets, NoStore: true, Quiet: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 7, gotCfg.MaxIterations)
		assert.Empty(t, gotCfg.AnchorSelector)
	})

	t.Run("fails before opening when notion is not configured", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Opener = &mock.PageOpener{
			OpenFn: func(context.Context, string, []scrollback.Action) (scrollback.Page, error) {
				t.Fatal("page should not be opened")
				return nil, nil
			},
		}

		cmd := &main.ExtractCmd{URL: "https://example.com", Preset: "default"}
		cmd.Notion = true
		err := cmd.Run(deps)

		assert.Equal(t, scrollback.EINVALID, scrollback.ErrorCode(err))
		assert.Contains(t, stderr.String(), "NOTION_TOKEN")
	})

	t.Run("propagates open failure", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Opener = &mock.PageOpener{
			OpenFn: func(context.Context, string, []scrollback.Action) (scrollback.Page, error) {
				return nil, scrollback.Errorf(scrollback.EUNAVAILABLE, "action 1 failed: element not found")
			},
		}

		err := (&main.ExtractCmd{URL: "https://example.com", Preset: "default"}).Run(deps)

		assert.Equal(t, scrollback.EUNAVAILABLE, scrollback.ErrorCode(err))
		assert.Contains(t, stderr.String(), "action 1 failed")
	})

	t.Run("reports partial result on cancel without storing", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := newDeps()
		deps.Opener = &mock.PageOpener{
			OpenFn: func(context.Context, string, []scrollback.Action) (scrollback.Page, error) {
				return pageTitled(""), nil
			},
		}
		partial := &scrollback.Result{Lines: []string{"a", "b"}, Stop: scrollback.StopCanceled}
		deps.Extractor = extractorReturning(partial, context.Canceled)
		deps.Transcripts = &mock.TranscriptService{
			CreateTranscriptFn: func(context.Context, *scrollback.Transcript) error {
				t.Fatal("partial transcript should not be stored")
				return nil
			},
		}

		err := (&main.ExtractCmd{URL: "https://example.com", Preset: "default"}).Run(deps)

		require.ErrorIs(t, err, context.Canceled)
		assert.Contains(t, stderr.String(), "interrupted after 2 lines")
		assert.Empty(t, stdout.String())
	})

	t.Run("warns when the list did not settle", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Opener = &mock.PageOpener{
			OpenFn: func(context.Context, string, []scrollback.Action) (scrollback.Page, error) {
				return pageTitled(""), nil
			},
		}
		deps.Extractor = extractorReturning(&scrollback.Result{Lines: []string{"a"}, Iterations: 120, Stop: scrollback.StopCeiling}, nil)

		var stored *scrollback.Transcript
		deps.Transcripts = storeInto(&stored)

		err := (&main.ExtractCmd{URL: "https://example.com", Preset: "default"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "(ceiling)")
		assert.Contains(t, stderr.String(), "did not settle")
		require.NotNil(t, stored)
		assert.False(t, stored.Converged)
	})

	t.Run("publishes to every output even when one fails", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var published []string
		deps, _, stderr := newDeps()
		deps.Opener = &mock.PageOpener{
			OpenFn: func(context.Context, string, []scrollback.Action) (scrollback.Page, error) {
				return pageTitled(""), nil
			},
		}
		deps.Extractor = extractorReturning(converged, nil)
		deps.Clipboard = &mock.Publisher{
			PublishFn: func(context.Context, *scrollback.Transcript) error {
				return scrollback.Errorf(scrollback.EUNAVAILABLE, "clipboard not supported")
			},
		}
		deps.Notion = &notionPublisher{Publisher: mock.Publisher{
			PublishFn: func(_ context.Context, t *scrollback.Transcript) error {
				mu.Lock()
				defer mu.Unlock()
				published = append(published, t.SourceURL)
				return nil
			},
		}}
		out := filepath.Join(t.TempDir(), "t.txt")

		cmd := &main.ExtractCmd{URL: "https://example.com", Preset: "default", NoStore: true, Quiet: true}
		cmd.Out = out
		cmd.Clipboard = true
		cmd.Notion = true
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com"}, published)
		assert.FileExists(t, out)
		assert.Contains(t, stderr.String(), "error: clipboard: clipboard not supported")
		assert.Contains(t, stderr.String(), "Published to file")
		assert.Contains(t, stderr.String(), "Published to notion")
	})

	t.Run("fails when nothing was saved or published", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()
		deps.Opener = &mock.PageOpener{
			OpenFn: func(context.Context, string, []scrollback.Action) (scrollback.Page, error) {
				return pageTitled(""), nil
			},
		}
		deps.Extractor = extractorReturning(converged, nil)
		deps.Transcripts = &mock.TranscriptService{
			CreateTranscriptFn: func(context.Context, *scrollback.Transcript) error {
				return errors.New("disk full")
			},
		}
		deps.Clipboard = &mock.Publisher{
			PublishFn: func(context.Context, *scrollback.Transcript) error {
				return errors.New("no display")
			},
		}

		cmd := &main.ExtractCmd{URL: "https://example.com", Preset: "default", Quiet: true}
		cmd.Clipboard = true
		err := cmd.Run(deps)

		assert.Equal(t, scrollback.EUNAVAILABLE, scrollback.ErrorCode(err))
	})

	t.Run("printing counts as output when storage fails", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := newDeps()
		deps.Opener = &mock.PageOpener{
			OpenFn: func(context.Context, string, []scrollback.Action) (scrollback.Page, error) {
				return pageTitled(""), nil
			},
		}
		deps.Extractor = extractorReturning(converged, nil)
		deps.Transcripts = &mock.TranscriptService{
			CreateTranscriptFn: func(context.Context, *scrollback.Transcript) error {
				return errors.New("disk full")
			},
		}

		err := (&main.ExtractCmd{URL: "https://example.com", Preset: "default"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "error: saving history: disk full")
		assert.Contains(t, stdout.String(), "first line")
	})

	t.Run("reads HTML snapshot", func(t *testing.T) {
		t.Parallel()

		snapshot := writeFile(t, "lesson.html", lessonHTML)
		var stored *scrollback.Transcript
		deps, _, _ := newDeps()
		deps.Extractor = &mock.Extractor{
			ExtractFn: func(ctx context.Context, doc scrollback.Document, _ scrollback.Config) (*scrollback.Result, error) {
				els, err := doc.QueryAll(ctx, "p")
				require.NoError(t, err)
				assert.Len(t, els, 4)
				return converged, nil
			},
		}
		deps.Transcripts = storeInto(&stored)

		err := (&main.ExtractCmd{HTML: snapshot, Preset: "default", Quiet: true}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "Lesson One", stored.Title)
		abs, _ := filepath.Abs(snapshot)
		assert.Equal(t, "file://"+filepath.ToSlash(abs), stored.SourceURL)
	})

	t.Run("missing snapshot", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()

		err := (&main.ExtractCmd{HTML: filepath.Join(t.TempDir(), "none.html"), Preset: "default"}).Run(deps)

		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
