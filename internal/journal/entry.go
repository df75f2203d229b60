package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Outcome of a journaled request.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Entry is one journaled request.
type Entry struct {
	ID          string
	Seq         int64
	Method      string
	Path        string
	ContentType string
	Body        []byte
	Outcome     string
	Error       string
	StartedAt   time.Time
	Duration    time.Duration
}

// Append writes e to the journal and returns it with Seq assigned.
// Entries with a duplicate ID are ignored.
func (j *Journal) Append(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		return Entry{}, fmt.Errorf("append entry: empty id")
	}
	if e.Outcome == "" {
		e.Outcome = OutcomeOK
	}
	e.Seq = j.seq.next()

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO entries
		(id, seq, method, path, content_type, body, outcome, error, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		e.ID,
		e.Seq,
		e.Method,
		e.Path,
		e.ContentType,
		e.Body,
		e.Outcome,
		e.Error,
		e.StartedAt.UTC().Format(time.RFC3339Nano),
		e.Duration.Milliseconds(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("append entry: %w", err)
	}
	return e, nil
}

// Entries returns every entry in seq order. Returns an empty slice (not nil)
// when the journal is empty.
func (j *Journal) Entries(ctx context.Context) ([]Entry, error) {
	return j.query(ctx, `
		SELECT id, seq, method, path, content_type, body, outcome, error, started_at, duration_ms
		FROM entries
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
}

// Failures returns the entries whose request failed, in seq order.
func (j *Journal) Failures(ctx context.Context) ([]Entry, error) {
	return j.query(ctx, `
		SELECT id, seq, method, path, content_type, body, outcome, error, started_at, duration_ms
		FROM entries
		WHERE outcome = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, OutcomeError)
}

func (j *Journal) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e          Entry
		startedAt  string
		durationMS int64
	)
	err := rows.Scan(
		&e.ID,
		&e.Seq,
		&e.Method,
		&e.Path,
		&e.ContentType,
		&e.Body,
		&e.Outcome,
		&e.Error,
		&startedAt,
		&durationMS,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("scan entry: %w", err)
	}

	e.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("scan entry %s: started_at: %w", e.ID, err)
	}
	e.Duration = time.Duration(durationMS) * time.Millisecond
	return e, nil
}
