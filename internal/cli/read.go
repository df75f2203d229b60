package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/flexi/internal/query"
	"github.com/roach88/flexi/internal/resource"
)

// GetOptions holds flags for the get command.
type GetOptions struct {
	*RootOptions
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GetOptions{RootOptions: rootOpts}

	return &cobra.Command{
		Use:   "get <resource> <id>",
		Short: "Fetch one record by id or code",
		Long: `Fetch one record by numeric id or code alias.

Example:
  flexi get adresar 123
  flexi get adresar code:ACME`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, id := args[0], args[1]
			formatter := newFormatter(opts.RootOptions, cmd)

			return runOperation(cmd.Context(), opts.RootOptions, formatter, operation{
				prepare: func() (resource.PreparedRequest, error) {
					return resource.PrepareFindOne(res, id), nil
				},
				execute: func(ctx context.Context, ops *resource.Operations) (any, error) {
					row, ok, err := ops.FindOne(ctx, res, id)
					if err != nil {
						return nil, err
					}
					if !ok {
						_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("%s %s not found", res, id), nil)
						return nil, NewExitError(ExitFailure, ErrCodeNotFound)
					}
					return row, nil
				},
			})
		},
	}
}

// FindOptions holds flags for the find command.
type FindOptions struct {
	*RootOptions
	Query queryFlags
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FindOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "find <resource>",
		Short: "List records matching a query",
		Long: `List records matching a query. Records are printed one per line as
canonical JSON in text mode.

Example:
  flexi find faktura-vydana --query unpaid.yaml --limit 20
  flexi find adresar --where mesto=Brno --order nazev --select kod,nazev`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := args[0]
			formatter := newFormatter(opts.RootOptions, cmd)

			q, err := opts.Query.build(cmd.InOrStdin())
			if err != nil {
				return formatter.Fail(ErrCodeInput, err)
			}
			logWarnings(formatter, q)

			return runOperation(cmd.Context(), opts.RootOptions, formatter, operation{
				prepare: func() (resource.PreparedRequest, error) {
					return resource.PrepareFindAll(res, q), nil
				},
				execute: func(ctx context.Context, ops *resource.Operations) (any, error) {
					rows, err := ops.FindAll(ctx, res, q)
					if err != nil {
						return nil, err
					}
					formatter.VerboseLog("Found %d record(s)", len(rows))
					return rows, nil
				},
			})
		},
	}

	opts.Query.bindListing(cmd)
	return cmd
}

// CountOptions holds flags for the count command.
type CountOptions struct {
	*RootOptions
	Query queryFlags
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CountOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "count <resource>",
		Short: "Count records matching a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := args[0]
			formatter := newFormatter(opts.RootOptions, cmd)

			q, err := opts.Query.build(cmd.InOrStdin())
			if err != nil {
				return formatter.Fail(ErrCodeInput, err)
			}
			logWarnings(formatter, q)

			return runOperation(cmd.Context(), opts.RootOptions, formatter, operation{
				prepare: func() (resource.PreparedRequest, error) {
					return resource.PrepareCount(res, q.Conditions), nil
				},
				execute: func(ctx context.Context, ops *resource.Operations) (any, error) {
					return ops.Count(ctx, res, q.Conditions)
				},
			})
		},
	}

	opts.Query.bindConditions(cmd)
	return cmd
}

func logWarnings(f *OutputFormatter, q query.Query) {
	for _, w := range query.Validate(q).Warnings {
		fmt.Fprintf(f.GetErrWriter(), "warning: %s\n", w)
	}
}
