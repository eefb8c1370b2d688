package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/scrollback"
	"github.com/fwojciec/scrollback/notion"
)

// NotionPublisher publishes transcripts and study notes as Notion pages.
type NotionPublisher interface {
	scrollback.Publisher
	PublishNotes(ctx context.Context, t *scrollback.Transcript, notes string) (*notion.Page, error)
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	Transcripts scrollback.TranscriptService
	Extractor   scrollback.Extractor
	Opener      scrollback.PageOpener
	Clipboard   scrollback.Publisher
	Notion      NotionPublisher
	Summarizer  scrollback.Summarizer
}

func (d *Dependencies) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose      bool   `short:"v" help:"Log scroll progress and debug details"`
	DB           string `name:"db" env:"SCROLLBACK_DB" help:"Transcript history database path"`
	NotionToken  string `env:"NOTION_TOKEN" help:"Notion integration token"`
	NotionParent string `env:"NOTION_PARENT_PAGE_ID" help:"Notion page that receives new pages"`
	GeminiKey    string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key for study notes"`

	Extract ExtractCmd `cmd:"" help:"Extract a transcript from a page or saved HTML"`
	List    ListCmd    `cmd:"" help:"List extracted transcripts"`
	Show    ShowCmd    `cmd:"" help:"Print a stored transcript"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a stored transcript"`
	Publish PublishCmd `cmd:"" help:"Publish a stored transcript"`
	Notes   NotesCmd   `cmd:"" help:"Write study notes for a stored transcript"`
	Import  ImportCmd  `cmd:"" help:"Store a plain-text transcript"`
	Presets PresetsCmd `cmd:"" help:"List presets or print one"`
}

// OutputFlags select where a transcript is published.
type OutputFlags struct {
	Out       string `short:"o" type:"path" help:"Write the transcript to a text file"`
	Clipboard bool   `help:"Copy the transcript to the clipboard"`
	Notion    bool   `help:"Publish the transcript as a Notion page"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL  string `arg:"" optional:"" help:"Page URL"`
	HTML string `name:"html" type:"existingfile" help:"Read a saved HTML snapshot instead of opening a browser"`

	Preset  string `short:"p" default:"default" help:"Preset name"`
	Presets string `type:"existingfile" help:"YAML file with additional presets"`

	OutputFlags `embed:""`
	NoStore     bool `help:"Do not save the transcript to history"`
	Quiet       bool `short:"q" help:"Do not print the transcript"`

	Click   []string      `help:"Selector to click before extraction (repeatable)"`
	WaitFor string        `help:"Selector to wait for before extraction"`
	Pause   time.Duration `help:"Pause after each click"`

	Headful     bool          `help:"Show the browser window"`
	UserDataDir string        `type:"path" help:"Browser profile directory"`
	Stealth     bool          `help:"Mask browser automation fingerprints"`
	NavTimeout  time.Duration `default:"60s" help:"Page load timeout"`
	Timeout     time.Duration `default:"10m" help:"Overall extraction timeout"`

	Normalize       bool          `help:"Re-flow lines into sentences"`
	FoldWidth       bool          `help:"Fold full-width characters to ASCII"`
	Root            []string      `help:"Root selector, replaces the preset's (repeatable)"`
	Harvest         []string      `help:"Harvest selector, replaces the preset's (repeatable)"`
	Step            float64       `help:"Advance by this many pixels per iteration"`
	Delay           time.Duration `help:"Settle delay after each advance"`
	StableThreshold int           `help:"Unchanged iterations that end the run"`
	MaxIterations   int           `help:"Iteration ceiling"`
	Deadline        time.Duration `help:"Wall-clock budget for the scroll loop"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	URL    string `help:"Only transcripts from this source URL"`
	Limit  int    `short:"n" default:"20" help:"Maximum transcripts to list"`
	Offset int    `help:"Skip this many transcripts"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID   string `arg:"" help:"Transcript ID"`
	JSON bool   `help:"Print the transcript as JSON"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Transcript ID"`
	Force bool   `help:"Confirm deletion"`
}

// PublishCmd is the "publish" subcommand.
type PublishCmd struct {
	ID          string `arg:"" help:"Transcript ID"`
	OutputFlags `embed:""`
}

// NotesCmd is the "notes" subcommand.
type NotesCmd struct {
	ID     string `arg:"" help:"Transcript ID"`
	Model  string `default:"gemini-2.5-flash" help:"Gemini model"`
	File   string `type:"existingfile" help:"Use an existing markdown notes file instead of generating notes"`
	Notion bool   `help:"Publish the notes as a Notion page"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	File  string `arg:"" type:"existingfile" help:"Text file with one line per paragraph"`
	URL   string `required:"" help:"Source URL of the transcript"`
	Title string `help:"Transcript title"`
}

// PresetsCmd is the "presets" subcommand.
type PresetsCmd struct {
	Name    string `arg:"" optional:"" help:"Preset to print"`
	Presets string `type:"existingfile" help:"YAML file with additional presets"`
}
