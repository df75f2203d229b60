package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/flexi/internal/resource"
)

// CallOptions holds flags for the call command.
type CallOptions struct {
	*RootOptions
	Suffix      string
	Method      string
	ContentType string
	Data        string
}

// NewCallCommand creates the call command.
func NewCallCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CallOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "call <resource>",
		Short: "Send a raw request to a resource endpoint",
		Long: `Send a passthrough request. The suffix is appended to the resource
as-is; it defaults to ".json". The body is sent for PUT and POST only.

Example:
  flexi call faktura-vydana --suffix /123/stav-mailu.json
  flexi call faktura-vydana --suffix /123/odeslani-dokladu.xml --method PUT --content-type application/xml --data mail.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := args[0]
			formatter := newFormatter(opts.RootOptions, cmd)

			var data any
			if opts.Data != "" {
				raw, err := readInput(opts.Data, cmd.InOrStdin())
				if err != nil {
					return formatter.Fail(ErrCodeInput, err)
				}
				data = raw
			}

			return runOperation(cmd.Context(), opts.RootOptions, formatter, operation{
				prepare: func() (resource.PreparedRequest, error) {
					return resource.PrepareCustom(res, opts.Suffix, opts.Method, opts.ContentType, data)
				},
				execute: func(ctx context.Context, ops *resource.Operations) (any, error) {
					return ops.Custom(ctx, res, opts.Suffix, opts.Method, opts.ContentType, data)
				},
			})
		},
	}

	cmd.Flags().StringVar(&opts.Suffix, "suffix", "", "path appended to the resource (default \".json\")")
	cmd.Flags().StringVarP(&opts.Method, "method", "X", "GET", "HTTP method (GET, PUT, POST, DELETE)")
	cmd.Flags().StringVar(&opts.ContentType, "content-type", "", "request content type (default application/json)")
	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "request body file ('-' for stdin)")
	return cmd
}
