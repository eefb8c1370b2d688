package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// Timestamps are stored as UTC RFC3339 text with second precision, which
// sorts chronologically as plain strings.

func formatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// parseTimestamp reads a stored timestamp, naming the column on failure.
func parseTimestamp(value, column string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return t, nil
}

// paginate appends LIMIT and OFFSET clauses. An offset without a limit
// still needs "LIMIT -1" since SQLite only accepts OFFSET after LIMIT.
func paginate(query *strings.Builder, args []any, limit, offset int) []any {
	switch {
	case limit > 0:
		query.WriteString(" LIMIT ?")
		args = append(args, limit)
	case offset > 0:
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, offset)
	}
	return args
}
