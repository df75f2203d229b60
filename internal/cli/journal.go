package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/flexi/internal/config"
	"github.com/roach88/flexi/internal/journal"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Failures bool
}

// JournalEntryView is the printable form of a journal entry.
type JournalEntryView struct {
	Seq        int64  `json:"seq"`
	ID         string `json:"id"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Outcome    string `json:"outcome"`
	Error      string `json:"error,omitempty"`
	StartedAt  string `json:"started_at"`
	DurationMS int64  `json:"duration_ms"`
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List requests recorded in the journal",
		Long: `List the requests recorded in the local journal database, oldest first.

The journal path comes from --journal or journal.path in the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Failures, "failures", false, "only list failed requests")
	return cmd
}

func runJournal(opts *JournalOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	path := opts.Journal
	if path == "" {
		cfg, err := config.LoadWithFallback(opts.ConfigPath)
		if err != nil {
			return formatter.Fail(ErrCodeConfig, err)
		}
		path = cfg.Journal.Path
	}
	if path == "" {
		return formatter.Fail(ErrCodeConfig, fmt.Errorf("no journal configured: pass --journal or set journal.path"))
	}

	j, err := journal.Open(path)
	if err != nil {
		return formatter.Fail(ErrCodeJournal, err)
	}
	defer j.Close()

	var entries []journal.Entry
	if opts.Failures {
		entries, err = j.Failures(cmd.Context())
	} else {
		entries, err = j.Entries(cmd.Context())
	}
	if err != nil {
		return formatter.Fail(ErrCodeJournal, err)
	}

	views := make([]JournalEntryView, len(entries))
	for i, e := range entries {
		views[i] = JournalEntryView{
			Seq:        e.Seq,
			ID:         e.ID,
			Method:     e.Method,
			Path:       e.Path,
			Outcome:    e.Outcome,
			Error:      e.Error,
			StartedAt:  e.StartedAt.Format("2006-01-02T15:04:05.000Z07:00"),
			DurationMS: e.Duration.Milliseconds(),
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(views)
	}

	for _, v := range views {
		line := fmt.Sprintf("%4d %s %-6s %s %s", v.Seq, v.StartedAt, v.Method, v.Outcome, v.Path)
		if v.Error != "" {
			line += "  " + v.Error
		}
		fmt.Fprintln(formatter.Writer, line)
	}
	return nil
}
