package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/scrollback"
	"github.com/fwojciec/scrollback/clipboard"
	"github.com/fwojciec/scrollback/gemini"
	"github.com/fwojciec/scrollback/notion"
	"github.com/fwojciec/scrollback/rod"
	"github.com/fwojciec/scrollback/scroll"
	sbslog "github.com/fwojciec/scrollback/slog"
	"github.com/fwojciec/scrollback/sqlite"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Overridden by --db or SCROLLBACK_DB.
	DBPath string

	// JSON configuration files consulted for flag defaults.
	ConfigPaths []string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Opener, if set, replaces the browser for extraction.
	Opener scrollback.PageOpener
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:      defaultDBPath(),
		ConfigPaths: []string{"~/.scrollback/config.json"},
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("scrollback"),
		kong.Description("Extract transcripts from virtualized, lazily rendered lists"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Configuration(kong.JSON, m.ConfigPaths...),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'scrollback --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	if cmd == "presets" {
		return kongCtx.Run(deps)
	}

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SCROLLBACK_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.Transcripts = sbslog.NewLoggingTranscriptService(sqlite.NewTranscriptService(m.DB), logger)
	deps.Clipboard = clipboard.NewWriter()
	if cli.NotionToken != "" && cli.NotionParent != "" {
		deps.Notion = notion.NewClient(cli.NotionToken, cli.NotionParent)
	}

	if cmd == "extract" {
		ext := scroll.NewExtractor()
		ext.Progress = func(p scroll.Progress) {
			logger.Debug("scroll",
				"iteration", p.Iteration,
				"lines", p.Lines,
				"stable", p.Stable,
				"offset", p.Metrics.Offset,
				"height", p.Metrics.ContentHeight,
			)
		}
		deps.Extractor = sbslog.NewLoggingExtractor(ext, logger)

		switch {
		case m.Opener != nil:
			deps.Opener = m.Opener
		case cli.Extract.HTML == "":
			opener, err := rod.NewPageOpener(
				rod.WithStealth(cli.Extract.Stealth),
				rod.WithNavigationTimeout(cli.Extract.NavTimeout),
				rod.WithBrowser(
					rod.WithHeadless(!cli.Extract.Headful),
					rod.WithUserDataDir(cli.Extract.UserDataDir),
				),
			)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer opener.Close()
			deps.Opener = rod.NewLoggingPageOpener(opener, logger)
		}
	}

	if cmd == "notes" && cli.Notes.File == "" {
		if cli.GeminiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return scrollback.Errorf(scrollback.EINVALID, "GEMINI_API_KEY not set")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.GeminiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		summarizer := gemini.NewSummarizer(client, cli.Notes.Model)
		counter, err := gemini.NewTokenCounter(tokenizerModel)
		if err != nil {
			logger.Warn("token counting disabled", "err", err)
		} else {
			summarizer.Counter = counter
		}
		deps.Summarizer = sbslog.NewLoggingSummarizer(summarizer, logger)
	}

	return kongCtx.Run(deps)
}

// tokenizerModel is used for local token counting; the tokenizer package
// supports fewer model names than the API.
const tokenizerModel = "gemini-2.0-flash"

func defaultDBPath() string {
	if path := os.Getenv("SCROLLBACK_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "scrollback.db"
	}
	dir := filepath.Join(home, ".scrollback")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "scrollback.db")
}
