// Package notion publishes transcripts and study notes as Notion pages.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/scrollback"
	"golang.org/x/time/rate"
)

// API constants.
const (
	DefaultBaseURL = "https://api.notion.com"
	APIVersion     = "2022-06-28"

	// MaxChildren is the most blocks Notion accepts in one request.
	MaxChildren = 100

	// DefaultRPS is Notion's documented average request rate.
	DefaultRPS = 3
)

// Ensure Client implements scrollback.Publisher at compile time.
var _ scrollback.Publisher = (*Client)(nil)

// DefaultRetryDelays returns the backoff delays for retried requests: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Client talks to the Notion API.
type Client struct {
	token    string
	parentID string
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
	delays   []time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRateLimit sets the request rate. A non-positive rps disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetryDelays sets the backoff delays between attempts.
func WithRetryDelays(delays []time.Duration) Option {
	return func(c *Client) {
		c.delays = delays
	}
}

// NewClient creates a Client that creates pages under parentPageID.
func NewClient(token, parentPageID string, opts ...Option) *Client {
	c := &Client{
		token:    token,
		parentID: parentPageID,
		baseURL:  DefaultBaseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(DefaultRPS), 1),
		delays:   DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Page is a created Notion page.
type Page struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Publish creates a page holding the transcript.
func (c *Client) Publish(ctx context.Context, t *scrollback.Transcript) error {
	_, err := c.PublishTranscript(ctx, t)
	return err
}

// PublishTranscript creates a page with a heading, a summary paragraph, and
// the transcript lines packed into paragraph blocks.
func (c *Client) PublishTranscript(ctx context.Context, t *scrollback.Transcript) (*Page, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	blocks := []block{
		heading(2, fmt.Sprintf("Transcript (%d lines)", len(t.Lines))),
		paragraph(fmt.Sprintf("Total lines: %d | Source: %s", len(t.Lines), t.SourceURL)),
	}
	for _, chunk := range scrollback.ChunkLines(t.Lines, scrollback.DefaultChunkSize) {
		blocks = append(blocks, paragraph(chunk))
	}
	return c.createPage(ctx, title(t), blocks)
}

// PublishNotes creates a study-notes page from markdown notes.
func (c *Client) PublishNotes(ctx context.Context, t *scrollback.Transcript, notes string) (*Page, error) {
	parsed := scrollback.ParseNotes(notes)
	if len(parsed) == 0 {
		return nil, scrollback.Errorf(scrollback.EINVALID, "notes are empty")
	}

	blocks := []block{
		heading(2, "Learning Notes: "+title(t)),
		paragraph("Study notes summarizing key concepts from " + t.SourceURL),
	}
	for _, nb := range parsed {
		if nb.Level > 0 {
			blocks = append(blocks, heading(nb.Level, nb.Text))
			continue
		}
		for _, chunk := range scrollback.ChunkLines([]string{nb.Text}, scrollback.DefaultChunkSize) {
			blocks = append(blocks, paragraph(chunk))
		}
	}
	return c.createPage(ctx, "[Learning Notes] "+title(t), blocks)
}

// createPage creates a page with the given title and blocks. Blocks beyond
// the first MaxChildren are appended in further requests.
func (c *Client) createPage(ctx context.Context, pageTitle string, blocks []block) (*Page, error) {
	if c.token == "" {
		return nil, scrollback.Errorf(scrollback.EINVALID, "notion token required")
	}
	if c.parentID == "" {
		return nil, scrollback.Errorf(scrollback.EINVALID, "notion parent page ID required")
	}

	first := blocks
	if len(first) > MaxChildren {
		first = blocks[:MaxChildren]
	}

	req := createPageRequest{
		Parent: parent{PageID: c.parentID},
		Properties: properties{
			Title: titleProperty{Title: []richText{text(pageTitle)}},
		},
		Children: first,
	}
	var page Page
	if err := c.do(ctx, http.MethodPost, "/v1/pages", req, &page); err != nil {
		return nil, err
	}

	for rest := blocks[len(first):]; len(rest) > 0; {
		n := min(len(rest), MaxChildren)
		path := "/v1/blocks/" + page.ID + "/children"
		if err := c.do(ctx, http.MethodPatch, path, appendRequest{Children: rest[:n]}, nil); err != nil {
			return &page, fmt.Errorf("appending blocks: %w", err)
		}
		rest = rest[n:]
	}
	return &page, nil
}

// do sends a JSON request, retrying rate-limited and server errors.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= len(c.delays); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.delays[attempt-1]):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.send(ctx, method, path, body, out)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return scrollback.Errorf(scrollback.EUNAVAILABLE, "notion request failed after %d attempts: %v", len(c.delays)+1, lastErr)
}

// send performs one attempt and reports whether a failure is retryable.
func (c *Client) send(ctx context.Context, method, path string, body []byte, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return false, nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return false, fmt.Errorf("decoding response: %w", err)
		}
		return false, nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	_ = json.Unmarshal(data, apiErr)
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return true, apiErr
	}
	return false, apiErr.toError()
}

// APIError is an error response from the Notion API.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return "notion: HTTP " + strconv.Itoa(e.StatusCode) + ": " + msg
}

func (e *APIError) toError() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return scrollback.Errorf(scrollback.EINVALID, "%s", e.Error())
	case http.StatusUnauthorized, http.StatusForbidden:
		return scrollback.Errorf(scrollback.EUNAVAILABLE, "%s", e.Error())
	case http.StatusNotFound:
		return scrollback.Errorf(scrollback.ENOTFOUND, "%s", e.Error())
	case http.StatusConflict:
		return scrollback.Errorf(scrollback.ECONFLICT, "%s", e.Error())
	default:
		return e
	}
}

func title(t *scrollback.Transcript) string {
	if t.Title != "" {
		return t.Title
	}
	return t.SourceURL
}
