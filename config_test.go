package scrollback_test

import (
	"testing"

	"github.com/fwojciec/scrollback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	t.Parallel()

	cfg := scrollback.DefaultConfig()

	require.NoError(t, cfg.Validate())
}

func TestPresets_Valid(t *testing.T) {
	t.Parallel()

	for _, name := range scrollback.PresetNames() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg, ok := scrollback.Preset(name)

			require.True(t, ok)
			require.NoError(t, cfg.Validate())
		})
	}
}

func TestPreset(t *testing.T) {
	t.Parallel()

	t.Run("virtuoso uses index identity", func(t *testing.T) {
		t.Parallel()

		cfg, ok := scrollback.Preset("virtuoso")

		require.True(t, ok)
		assert.Equal(t, scrollback.IdentityIndex, cfg.Identity)
		assert.Equal(t, "data-index", cfg.HarvestSpec().IndexAttribute)
		assert.True(t, cfg.JoinLabels)
	})

	t.Run("returns copies", func(t *testing.T) {
		t.Parallel()

		a, _ := scrollback.Preset("generic")
		a.MaxIterations = 1
		b, _ := scrollback.Preset("generic")

		assert.Equal(t, 100, b.MaxIterations)
	})

	t.Run("unknown preset", func(t *testing.T) {
		t.Parallel()

		_, ok := scrollback.Preset("nope")

		assert.False(t, ok)
	})

	t.Run("lists names sorted", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"container", "default", "generic", "virtuoso"}, scrollback.PresetNames())
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*scrollback.Config)
	}{
		{"no anchor strategy", func(c *scrollback.Config) { c.RootSelectors = nil; c.AnchorSelector = "" }},
		{"no harvest selectors", func(c *scrollback.Config) { c.HarvestSelectors = nil }},
		{"index without attribute", func(c *scrollback.Config) { c.Identity = scrollback.IdentityIndex }},
		{"unknown identity", func(c *scrollback.Config) { c.Identity = "hash" }},
		{"unknown end mode", func(c *scrollback.Config) { c.EndMode = "never" }},
		{"fraction too large", func(c *scrollback.Config) { c.StepFraction = 1.5 }},
		{"no step", func(c *scrollback.Config) { c.StepFraction = 0; c.StepPixels = 0 }},
		{"negative settle", func(c *scrollback.Config) { c.SettleDelay = -1 }},
		{"zero threshold", func(c *scrollback.Config) { c.StableThreshold = 0 }},
		{"zero ceiling", func(c *scrollback.Config) { c.MaxIterations = 0 }},
		{"max below min", func(c *scrollback.Config) { c.MinLength = 10; c.MaxLength = 5 }},
		{"negative deadline", func(c *scrollback.Config) { c.Deadline = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := scrollback.DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Equal(t, scrollback.EINVALID, scrollback.ErrorCode(err))
		})
	}
}

func TestConfig_Classifier(t *testing.T) {
	t.Parallel()

	cfg := scrollback.DefaultConfig()
	cfg.NavHints = []string{"Skip to"}

	c := cfg.Classifier()

	assert.Equal(t, scrollback.ClassNavHint, c.Classify("Skip to next cue"))
	assert.Equal(t, scrollback.ClassContent, c.Classify("This is a transcript line."))
}
