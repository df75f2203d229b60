package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/flexi/internal/resource"
)

// InsertOptions holds flags for the insert command.
type InsertOptions struct {
	*RootOptions
	Values valueFlags
}

// InsertResult reports the identifier of a created record.
type InsertResult struct {
	ID string `json:"id"`
}

func (r InsertResult) String() string {
	return r.ID
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InsertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "insert <resource>",
		Short: "Create a record",
		Long: `Create a record. Never updates an existing one. Prints the new record's
code alias when the server reports one, otherwise its id.

Example:
  flexi insert adresar --set kod=ACME --set nazev="ACME s.r.o."
  flexi insert faktura-vydana --values invoice.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := args[0]
			formatter := newFormatter(opts.RootOptions, cmd)

			values, err := opts.Values.build(cmd.InOrStdin())
			if err != nil {
				return formatter.Fail(ErrCodeInput, err)
			}

			return runOperation(cmd.Context(), opts.RootOptions, formatter, operation{
				prepare: func() (resource.PreparedRequest, error) {
					return resource.PrepareInsert(res, values)
				},
				execute: func(ctx context.Context, ops *resource.Operations) (any, error) {
					id, ok, err := ops.Insert(ctx, res, values)
					if err != nil {
						return nil, err
					}
					if !ok {
						_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("server reported no identifier for the new %s", res), nil)
						return nil, NewExitError(ExitFailure, ErrCodeGeneric)
					}
					return InsertResult{ID: id}, nil
				},
			})
		},
	}

	opts.Values.bind(cmd)
	return cmd
}

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	Values valueFlags
	Query  queryFlags
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <resource>",
		Short: "Update every record matching a query",
		Long: `Write field values to every record matching the conditions. Never
creates records.

Example:
  flexi update adresar --where kod=ACME --set nazev="ACME a.s."`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := args[0]
			formatter := newFormatter(opts.RootOptions, cmd)

			values, err := opts.Values.build(cmd.InOrStdin())
			if err != nil {
				return formatter.Fail(ErrCodeInput, err)
			}
			q, err := opts.Query.build(cmd.InOrStdin())
			if err != nil {
				return formatter.Fail(ErrCodeInput, err)
			}
			logWarnings(formatter, q)

			return runOperation(cmd.Context(), opts.RootOptions, formatter, operation{
				prepare: func() (resource.PreparedRequest, error) {
					return resource.PrepareUpdate(res, values, q.Conditions)
				},
				execute: func(ctx context.Context, ops *resource.Operations) (any, error) {
					if err := ops.Update(ctx, res, values, q.Conditions); err != nil {
						return nil, err
					}
					return "updated", nil
				},
			})
		},
	}

	opts.Values.bind(cmd)
	opts.Query.bindConditions(cmd)
	return cmd
}

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	Query queryFlags
	All   bool
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete <resource>",
		Short: "Delete every record matching a query",
		Long: `Delete every record matching the conditions. A delete without
conditions is refused unless --all is given.

Example:
  flexi delete adresar --where kod=ACME`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := args[0]
			formatter := newFormatter(opts.RootOptions, cmd)

			q, err := opts.Query.build(cmd.InOrStdin())
			if err != nil {
				return formatter.Fail(ErrCodeInput, err)
			}
			if len(q.Conditions) == 0 && !opts.All {
				return formatter.Fail(ErrCodeInput, fmt.Errorf("refusing to delete every %s without --all", res))
			}
			logWarnings(formatter, q)

			return runOperation(cmd.Context(), opts.RootOptions, formatter, operation{
				prepare: func() (resource.PreparedRequest, error) {
					return resource.PrepareDelete(res, q.Conditions)
				},
				execute: func(ctx context.Context, ops *resource.Operations) (any, error) {
					if err := ops.Delete(ctx, res, q.Conditions); err != nil {
						return nil, err
					}
					return "deleted", nil
				},
			})
		},
	}

	opts.Query.bindConditions(cmd)
	cmd.Flags().BoolVar(&opts.All, "all", false, "allow a delete without conditions")
	return cmd
}
