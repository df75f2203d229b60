package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/flexi/internal/query"
	"github.com/roach88/flexi/internal/queryflexi"
	"github.com/roach88/flexi/internal/resource"
)

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	*RootOptions
	Query    queryFlags
	Resource string
}

// FilterResult is the compiled form of a query.
type FilterResult struct {
	Filter   string   `json:"filter"`
	Order    []string `json:"order,omitempty"`
	Select   []string `json:"select,omitempty"`
	Path     string   `json:"path,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filter [query-file]",
		Short: "Compile a query into the server's filter syntax",
		Long: `Compile a YAML query into the server's filter expression without
contacting the server.

Example:
  flexi filter invoices.yaml
  flexi filter --where kod=ACME --order -datVyst --resource adresar`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Query.File = args[0]
			}
			return runFilter(opts, cmd)
		},
	}

	opts.Query.bindListing(cmd)
	cmd.Flags().StringVar(&opts.Resource, "resource", "", "also print the list request path for this resource")

	return cmd
}

func runFilter(opts *FilterOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	q, err := opts.Query.build(cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(ErrCodeInput, err)
	}

	filter, _ := queryflexi.Compile(q.Conditions)
	result := FilterResult{
		Filter:   filter,
		Order:    queryflexi.Order(q.Order),
		Select:   queryflexi.EscapeSelection(q.Selection),
		Warnings: query.Validate(q).Warnings,
	}
	if len(result.Select) == 0 {
		result.Select = nil
	}
	if opts.Resource != "" {
		result.Path = resource.PrepareFindAll(opts.Resource, q).Path
	}

	formatter.VerboseLog("Compiled %d condition(s)", len(q.Conditions))

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintln(w, result.Filter)
	if len(result.Order) > 0 {
		fmt.Fprintf(w, "order: %s\n", strings.Join(result.Order, "&"))
	}
	if len(result.Select) > 0 {
		fmt.Fprintf(w, "select: %s\n", strings.Join(result.Select, ","))
	}
	if result.Path != "" {
		fmt.Fprintf(w, "path: %s\n", result.Path)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(formatter.GetErrWriter(), "warning: %s\n", warning)
	}
	return nil
}
