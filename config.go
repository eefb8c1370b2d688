package scrollback

import (
	"sort"
	"time"
)

// EndMode selects how the scroll driver decides it reached the end of the list.
type EndMode string

// End detection modes.
const (
	// EndByExtent treats the list as ended when offset plus viewport height
	// reaches the content height.
	EndByExtent EndMode = "extent"

	// EndByOffset treats the list as ended when the previous advance left the
	// scroll offset unchanged.
	EndByOffset EndMode = "offset"
)

// Engine defaults.
const (
	DefaultAnchorSelector  = "p"
	DefaultAnchorMinLength = 30
	DefaultMaxHops         = 25
	DefaultMinSlack        = 20
	DefaultStepFraction    = 0.7
	DefaultSettleDelay     = 250 * time.Millisecond
	DefaultStableThreshold = 5
	DefaultMaxIterations   = 120
	DefaultEndTolerance    = 2
)

// ContainerSelectors are structural hints for common transcript containers.
var ContainerSelectors = []string{
	`[data-transcript-container]`,
	`.transcript-container`,
	`[class*="transcript"]`,
}

// Config parameterizes one extraction run.
type Config struct {
	// RootSelectors are probed in order to find the transcript anchor.
	RootSelectors []string `yaml:"root_selectors"`

	// AnchorSelector matches candidate nodes for heuristic anchor discovery
	// when no root selector matches. AnchorMinLength is the minimum text
	// length in runes for a candidate to qualify.
	AnchorSelector  string `yaml:"anchor_selector"`
	AnchorMinLength int    `yaml:"anchor_min_length"`

	// MaxHops bounds the ancestor walk from the anchor.
	MaxHops int `yaml:"max_hops"`

	// MinSlack is the pixel margin by which content must exceed the viewport
	// for an element to count as scrollable.
	MinSlack float64 `yaml:"min_slack"`

	// HarvestSelectors match text nodes inside the scroll root.
	HarvestSelectors []string `yaml:"harvest_selectors"`

	// IndexAttribute, TextSelector, and LabelSelector describe indexed rows.
	IndexAttribute string `yaml:"index_attribute"`
	TextSelector   string `yaml:"text_selector"`
	LabelSelector  string `yaml:"label_selector"`

	// Classifier settings.
	MinLength int      `yaml:"min_length"`
	MaxLength int      `yaml:"max_length"`
	WordRun   int      `yaml:"word_run"`
	Stopwords []string `yaml:"stopwords"`
	NavHints  []string `yaml:"nav_hints"`

	// StepPixels advances by a fixed amount. StepFraction, when set, advances
	// by that fraction of the viewport height instead.
	StepPixels   float64 `yaml:"step_pixels"`
	StepFraction float64 `yaml:"step_fraction"`

	// SettleDelay is the fixed wait after each advance for the list to re-render.
	SettleDelay time.Duration `yaml:"settle_delay"`

	// StableThreshold is the number of consecutive iterations without content
	// height or collected size changes that ends the run.
	StableThreshold int `yaml:"stable_threshold"`

	// MaxIterations is the hard iteration ceiling.
	MaxIterations int `yaml:"max_iterations"`

	// EndMode and EndTolerance control end-of-list detection.
	EndMode      EndMode `yaml:"end_mode"`
	EndTolerance float64 `yaml:"end_tolerance"`

	// Identity selects text or index deduplication.
	Identity IdentityMode `yaml:"identity"`

	// JoinLabels prefixes each line with its label, e.g. "[0:12] text".
	JoinLabels bool `yaml:"join_labels"`

	// SplitStamps moves a clock time glued to the text into the label.
	SplitStamps bool `yaml:"split_stamps"`

	// FoldWidth folds full-width and other compatibility characters to their
	// canonical forms. Off by default so panel text is kept as rendered.
	FoldWidth bool `yaml:"fold_width"`

	// Normalize re-flows lines into sentences.
	Normalize bool `yaml:"normalize"`

	// Deadline is an optional wall-clock budget for the scroll loop.
	Deadline time.Duration `yaml:"deadline"`
}

// DefaultConfig returns the configuration used when no preset is selected:
// container selectors with heuristic fallback, paragraph harvesting, and
// text identity.
func DefaultConfig() Config {
	return Config{
		RootSelectors:    ContainerSelectors,
		AnchorSelector:   DefaultAnchorSelector,
		AnchorMinLength:  DefaultAnchorMinLength,
		MaxHops:          DefaultMaxHops,
		MinSlack:         DefaultMinSlack,
		HarvestSelectors: []string{"p"},
		MinLength:        DefaultMinLength,
		MaxLength:        DefaultMaxLength,
		WordRun:          DefaultWordRun,
		Stopwords:        EnglishStopwords,
		NavHints:         DefaultNavHints,
		StepFraction:     DefaultStepFraction,
		SettleDelay:      DefaultSettleDelay,
		StableThreshold:  DefaultStableThreshold,
		MaxIterations:    DefaultMaxIterations,
		EndMode:          EndByExtent,
		EndTolerance:     DefaultEndTolerance,
		Identity:         IdentityText,
	}
}

// Validate returns an error if the configuration cannot drive an extraction.
func (c *Config) Validate() error {
	if len(c.RootSelectors) == 0 && c.AnchorSelector == "" {
		return Errorf(EINVALID, "root selectors or anchor selector required")
	}
	switch c.Identity {
	case IdentityText:
		if len(c.HarvestSelectors) == 0 {
			return Errorf(EINVALID, "harvest selectors required for text identity")
		}
	case IdentityIndex:
		if c.IndexAttribute == "" {
			return Errorf(EINVALID, "index attribute required for index identity")
		}
	default:
		return Errorf(EINVALID, "unknown identity mode %q", c.Identity)
	}
	switch c.EndMode {
	case EndByExtent, EndByOffset:
	default:
		return Errorf(EINVALID, "unknown end mode %q", c.EndMode)
	}
	if c.StepFraction < 0 || c.StepFraction > 1 {
		return Errorf(EINVALID, "step fraction must be between 0 and 1")
	}
	if c.StepFraction == 0 && c.StepPixels <= 0 {
		return Errorf(EINVALID, "step pixels or step fraction required")
	}
	if c.SettleDelay < 0 {
		return Errorf(EINVALID, "settle delay must not be negative")
	}
	if c.StableThreshold < 1 {
		return Errorf(EINVALID, "stable threshold must be at least 1")
	}
	if c.MaxIterations < 1 {
		return Errorf(EINVALID, "max iterations must be at least 1")
	}
	if c.MinLength < 0 {
		return Errorf(EINVALID, "min length must not be negative")
	}
	if c.MaxLength != 0 && c.MaxLength < c.MinLength {
		return Errorf(EINVALID, "max length must not be less than min length")
	}
	if c.Deadline < 0 {
		return Errorf(EINVALID, "deadline must not be negative")
	}
	return nil
}

// Classifier returns a Classifier built from the configuration.
func (c *Config) Classifier() *Classifier {
	return &Classifier{
		MinLength: c.MinLength,
		MaxLength: c.MaxLength,
		NavHints:  c.NavHints,
		WordRun:   c.WordRun,
		Stopwords: c.Stopwords,
	}
}

// HarvestSpec returns the harvest description for the configuration.
func (c *Config) HarvestSpec() HarvestSpec {
	spec := HarvestSpec{Selectors: c.HarvestSelectors}
	if c.Identity == IdentityIndex {
		spec.IndexAttribute = c.IndexAttribute
		spec.TextSelector = c.TextSelector
		spec.LabelSelector = c.LabelSelector
	}
	return spec
}

// presets reproduces the site variants the engine unifies.
var presets = map[string]func() Config{
	"default": DefaultConfig,

	// Heuristic discovery from the first English-looking paragraph.
	"generic": func() Config {
		c := DefaultConfig()
		c.RootSelectors = nil
		c.MinLength = 16
		c.WordRun = 0
		c.StepFraction = 0
		c.StepPixels = 300
		c.MaxIterations = 100
		return c
	},

	// Structural container; every text-bearing node is harvested.
	"container": func() Config {
		c := DefaultConfig()
		c.AnchorSelector = ""
		c.HarvestSelectors = []string{`[data-transcript-text]`, `[class*="transcript-text"]`, "p", "span"}
		c.MinLength = 1
		c.WordRun = 0
		c.Stopwords = nil
		c.StepFraction = 0
		c.StepPixels = 100
		c.SettleDelay = 200 * time.Millisecond
		c.MaxIterations = 100
		return c
	},

	// react-virtuoso lists exposing data-index rows with timestamp badges.
	"virtuoso": func() Config {
		c := DefaultConfig()
		c.RootSelectors = []string{`[data-test-id="virtuoso-scroller"]`, `[data-virtuoso-scroller]`}
		c.AnchorSelector = ""
		c.HarvestSelectors = nil
		c.IndexAttribute = "data-index"
		c.TextSelector = ".chakra-text"
		c.LabelSelector = ".chakra-badge"
		c.Identity = IdentityIndex
		c.JoinLabels = true
		c.MinLength = 1
		c.WordRun = 0
		c.Stopwords = nil
		c.StepFraction = 0
		c.StepPixels = 400
		c.SettleDelay = 300 * time.Millisecond
		c.StableThreshold = 10
		c.MaxIterations = 160
		c.EndMode = EndByOffset
		return c
	},
}

// Preset returns a copy of the named built-in configuration.
func Preset(name string) (Config, bool) {
	fn, ok := presets[name]
	if !ok {
		return Config{}, false
	}
	return fn(), true
}

// PresetNames returns the built-in preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
