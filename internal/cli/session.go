package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/roach88/flexi/internal/config"
	"github.com/roach88/flexi/internal/journal"
	"github.com/roach88/flexi/internal/resource"
	"github.com/roach88/flexi/internal/transport"
)

// session is the per-command wiring: logger, transport, optional journal
// and metrics registry.
type session struct {
	ops      *resource.Operations
	logger   zerolog.Logger
	journal  *journal.Journal
	registry *prometheus.Registry
	textfile string
}

// openSession builds the transport stack for one command. The config is
// required unless opts.Transport is set.
func openSession(opts *RootOptions, errOut io.Writer) (*session, error) {
	var cfg *config.Config
	if opts.ConfigPath != "" || opts.Transport == nil {
		loaded, err := config.LoadWithFallback(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	logging := config.LoggingConfig{Level: "info", Format: "json"}
	if cfg != nil {
		logging = cfg.Logging
	}
	s := &session{logger: newLogger(logging, opts.Verbose, errOut)}

	next := opts.Transport
	if next == nil {
		var metrics *transport.Metrics
		if cfg.Metrics.Enabled {
			s.registry = prometheus.NewRegistry()
			s.textfile = cfg.Metrics.Textfile
			metrics = transport.NewMetrics(s.registry)
		}

		client, err := transport.New(transport.Config{
			BaseURL:  cfg.Server.URL,
			Company:  cfg.Server.Company,
			Username: cfg.Server.Username,
			Password: cfg.Server.Password,
			Timeout:  cfg.Server.Timeout,
			Headers:  cfg.Server.Headers,
			Logger:   s.logger,
			Metrics:  metrics,
		})
		if err != nil {
			return nil, err
		}
		next = client
	}

	journalPath := opts.Journal
	if journalPath == "" && cfg != nil {
		journalPath = cfg.Journal.Path
	}
	if journalPath != "" {
		j, err := journal.Open(journalPath)
		if err != nil {
			return nil, err
		}
		s.journal = j
		next = journal.Wrap(next, j, journal.WithLogger(s.logger))
	}

	s.ops = resource.New(next)
	return s, nil
}

// Close flushes metrics and closes the journal.
func (s *session) Close() error {
	var errs []error
	if s.registry != nil {
		if err := prometheus.WriteToTextfile(s.textfile, s.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// newLogger builds the CLI logger. Logs go to w (stderr) so they never mix
// with command output. --verbose forces debug level.
func newLogger(cfg config.LoggingConfig, verbose bool, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	if strings.EqualFold(cfg.Format, "console") {
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		return zerolog.New(output).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// operation pairs the pure request builder of a command with its execution.
type operation struct {
	prepare func() (resource.PreparedRequest, error)
	execute func(ctx context.Context, ops *resource.Operations) (any, error)
}

// runOperation prints the prepared request under --dry-run, otherwise opens
// a session and executes the operation. Errors building the request are
// input errors; errors once it is sent exit with ExitFailure.
func runOperation(ctx context.Context, opts *RootOptions, f *OutputFormatter, op operation) error {
	req, err := op.prepare()
	if err != nil {
		return f.Fail(ErrCodeInput, err)
	}
	if opts.DryRun {
		return f.Success(describeRequest(req))
	}

	s, err := openSession(opts, f.GetErrWriter())
	if err != nil {
		return f.Fail(ErrCodeConfig, err)
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			s.logger.Warn().Err(cerr).Msg("session close failed")
		}
	}()

	result, err := op.execute(ctx, s.ops)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if err != nil {
		return f.FailRequest(err)
	}
	return f.Success(result)
}

// RequestView is the printable form of a PreparedRequest.
type RequestView struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	ContentType string `json:"content_type,omitempty"`
	Body        string `json:"body,omitempty"`
}

func (v RequestView) String() string {
	var b strings.Builder
	b.WriteString(v.Method)
	b.WriteString(" ")
	b.WriteString(v.Path)
	if v.ContentType != "" {
		b.WriteString("\nContent-Type: ")
		b.WriteString(v.ContentType)
	}
	if v.Body != "" {
		b.WriteString("\n\n")
		b.WriteString(v.Body)
	}
	return b.String()
}

func describeRequest(req resource.PreparedRequest) RequestView {
	v := RequestView{Method: req.Method, Path: req.Path}
	if req.Body != nil {
		v.ContentType = req.ContentType
		v.Body = string(req.Body)
	}
	return v
}
