package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/scrollback"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ scrollback.TranscriptService = (*TranscriptService)(nil)

// ContentHash returns the xxHash of the transcript's lines as a hex string.
func ContentHash(lines []string) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(scrollback.FormatLines(lines)))
	return hex.EncodeToString(b)
}

// TranscriptService implements scrollback.TranscriptService using SQLite.
type TranscriptService struct {
	db *DB
}

// NewTranscriptService creates a new TranscriptService.
func NewTranscriptService(db *DB) *TranscriptService {
	return &TranscriptService{db: db}
}

// CreateTranscript stores a transcript with a generated ID and content hash.
// ExtractedAt defaults to now.
func (s *TranscriptService) CreateTranscript(ctx context.Context, t *scrollback.Transcript) error {
	if err := t.Validate(); err != nil {
		return err
	}

	lines, err := json.Marshal(t.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode lines: %w", err)
	}

	t.ID = uuid.New().String()
	t.ContentHash = ContentHash(t.Lines)
	if t.ExtractedAt.IsZero() {
		t.ExtractedAt = time.Now().UTC()
	}
	t.ExtractedAt = t.ExtractedAt.UTC().Truncate(time.Second)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transcripts (id, title, source_url, lines, line_count, content_hash, iterations, converged, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.SourceURL, string(lines), len(t.Lines), t.ContentHash, t.Iterations, t.Converged,
		formatTimestamp(t.ExtractedAt))

	return err
}

const transcriptColumns = "id, title, source_url, lines, content_hash, iterations, converged, extracted_at"

// FindTranscriptByID retrieves a transcript by ID.
func (s *TranscriptService) FindTranscriptByID(ctx context.Context, id string) (*scrollback.Transcript, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+transcriptColumns+" FROM transcripts WHERE id = ?", id)
	t, err := scanTranscript(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, scrollback.Errorf(scrollback.ENOTFOUND, "transcript not found")
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// FindTranscripts retrieves transcripts matching the filter, newest first.
func (s *TranscriptService) FindTranscripts(ctx context.Context, filter scrollback.TranscriptFilter) ([]*scrollback.Transcript, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + transcriptColumns + " FROM transcripts WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY extracted_at DESC, rowid DESC")

	args = paginate(&query, args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transcripts []*scrollback.Transcript
	for rows.Next() {
		t, err := scanTranscript(rows)
		if err != nil {
			return nil, err
		}
		transcripts = append(transcripts, t)
	}

	return transcripts, rows.Err()
}

// DeleteTranscript permanently removes a transcript.
func (s *TranscriptService) DeleteTranscript(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM transcripts WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return scrollback.Errorf(scrollback.ENOTFOUND, "transcript not found")
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTranscript(row scanner) (*scrollback.Transcript, error) {
	var t scrollback.Transcript
	var lines, extractedAt string

	if err := row.Scan(&t.ID, &t.Title, &t.SourceURL, &lines, &t.ContentHash, &t.Iterations, &t.Converged,
		&extractedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(lines), &t.Lines); err != nil {
		return nil, fmt.Errorf("failed to decode lines: %w", err)
	}

	var err error
	t.ExtractedAt, err = parseTimestamp(extractedAt, "extracted_at")
	if err != nil {
		return nil, err
	}

	return &t, nil
}
