package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/roach88/flexi/internal/document"
	"github.com/roach88/flexi/internal/resource"
)

// Recorder is a resource.Transport that journals every call before
// returning the wrapped transport's result unchanged.
//
// A failed journal write is logged and never fails the request.
type Recorder struct {
	next    resource.Transport
	journal *Journal
	logger  zerolog.Logger
	newID   func() string
	now     func() time.Time
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithIDs sets the entry id generator. Default: random UUIDs.
func WithIDs(newID func() string) RecorderOption {
	return func(r *Recorder) {
		r.newID = newID
	}
}

// WithClock sets the wall clock used for StartedAt and Duration.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		r.now = now
	}
}

// WithLogger sets the logger for journal write failures.
func WithLogger(logger zerolog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// Wrap returns a Recorder that journals calls to next in j.
func Wrap(next resource.Transport, j *Journal, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		next:    next,
		journal: j,
		logger:  zerolog.Nop(),
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do implements resource.Transport.
func (r *Recorder) Do(ctx context.Context, req resource.PreparedRequest) (document.Document, error) {
	start := r.now()
	doc, err := r.next.Do(ctx, req)

	e := Entry{
		ID:          r.newID(),
		Method:      req.Method,
		Path:        req.Path,
		ContentType: req.ContentType,
		Body:        req.Body,
		Outcome:     OutcomeOK,
		StartedAt:   start,
		Duration:    r.now().Sub(start),
	}
	if err != nil {
		e.Outcome = OutcomeError
		e.Error = err.Error()
	}

	// The request already happened; a canceled ctx must not drop its entry.
	if _, jerr := r.journal.Append(context.WithoutCancel(ctx), e); jerr != nil {
		r.logger.Warn().Err(jerr).Str("path", req.Path).Msg("journal write failed")
	}
	return doc, err
}
