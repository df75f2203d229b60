package journal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/flexi/internal/document"
	"github.com/roach88/flexi/internal/query"
	"github.com/roach88/flexi/internal/resource"
	"github.com/roach88/flexi/internal/testutil"
)

// createTestJournal opens a journal in a temp directory.
func createTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

// fixedClock advances by step on every call.
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func TestOpen_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_Pragmas(t *testing.T) {
	j := createTestJournal(t)

	mode, err := j.pragma("journal_mode")
	require.NoError(t, err)
	assert.Equal(t, "wal", mode)

	version, err := j.pragma("user_version")
	require.NoError(t, err)
	assert.Equal(t, "1", version)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "journal.db"))
	assert.Error(t, err)
}

func TestAppend_AssignsIncreasingSeq(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()

	a, err := j.Append(ctx, Entry{ID: "a", Method: "GET", Path: "adresar.json"})
	require.NoError(t, err)
	b, err := j.Append(ctx, Entry{ID: "b", Method: "GET", Path: "cenik.json"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.Seq)
	assert.Equal(t, int64(2), b.Seq)
	assert.Equal(t, OutcomeOK, a.Outcome)
}

func TestAppend_EmptyID(t *testing.T) {
	j := createTestJournal(t)
	_, err := j.Append(context.Background(), Entry{Method: "GET"})
	assert.ErrorContains(t, err, "empty id")
}

func TestAppend_DuplicateIDIgnored(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()

	_, err := j.Append(ctx, Entry{ID: "a", Method: "GET", Path: "one"})
	require.NoError(t, err)
	_, err = j.Append(ctx, Entry{ID: "a", Method: "PUT", Path: "two"})
	require.NoError(t, err)

	entries, err := j.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "one", entries[0].Path)
}

func TestEntries_EmptyJournal(t *testing.T) {
	j := createTestJournal(t)

	entries, err := j.Entries(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestOpen_ResumesSeq(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j1, err := Open(path)
	require.NoError(t, err)
	_, err = j1.Append(ctx, Entry{ID: "a", Method: "GET", Path: "x"})
	require.NoError(t, err)
	_, err = j1.Append(ctx, Entry{ID: "b", Method: "GET", Path: "y"})
	require.NoError(t, err)
	require.NoError(t, j1.Close())

	j2, err := Open(path)
	require.NoError(t, err)
	defer j2.Close()

	c, err := j2.Append(ctx, Entry{ID: "c", Method: "GET", Path: "z"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.Seq)

	entries, err := j2.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestRecorder_JournalsRequests(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	upstream := errors.New("remote error 400: Pole 'kod' je povinné.")
	ft := testutil.NewFakeTransport().
		Respond(document.Document{"adresar": []any{map[string]any{"id": "1"}}}).
		Fail(upstream)

	rec := Wrap(ft, j,
		WithIDs(testutil.NewSequentialIDs("entry").New),
		WithClock(fixedClock(start, 250*time.Millisecond)),
	)
	ops := resource.New(rec)

	rows, err := ops.FindAll(ctx, "adresar", query.Query{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, _, err = ops.Insert(ctx, "adresar", map[string]any{"nazev": "ACME"})
	assert.ErrorIs(t, err, upstream)

	entries, err := j.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "entry-0001", first.ID)
	assert.Equal(t, "GET", first.Method)
	assert.Equal(t, "adresar.json?start=0&limit=1&code-as-id=true", first.Path)
	assert.Equal(t, OutcomeOK, first.Outcome)
	assert.Nil(t, first.Body)
	assert.True(t, start.Equal(first.StartedAt))
	assert.Equal(t, 250*time.Millisecond, first.Duration)

	second := entries[1]
	assert.Equal(t, "PUT", second.Method)
	assert.Equal(t, "application/json", second.ContentType)
	assert.Equal(t, `{"@update":"fail","adresar":{"nazev":"ACME"}}`, string(second.Body))
	assert.Equal(t, OutcomeError, second.Outcome)
	assert.Equal(t, upstream.Error(), second.Error)

	failures, err := j.Failures(ctx)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, second.ID, failures[0].ID)
}

func TestRecorder_CanceledContextStillJournaled(t *testing.T) {
	j := createTestJournal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := Wrap(testutil.NewFakeTransport(), j, WithIDs(testutil.NewSequentialIDs("e").New))
	_, err := rec.Do(ctx, resource.PrepareCount("adresar", nil))
	assert.ErrorIs(t, err, context.Canceled)

	entries, err := j.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, OutcomeError, entries[0].Outcome)
}

func TestRecorder_JournalFailureDoesNotFailRequest(t *testing.T) {
	j := createTestJournal(t)
	require.NoError(t, j.Close())

	ft := testutil.NewFakeTransport().Respond(document.Document{"@rowCount": "3"})
	n, err := resource.New(Wrap(ft, j)).Count(context.Background(), "adresar", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
