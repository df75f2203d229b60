package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/flexi/internal/query"
)

// queryFlags are the flags shared by commands that select records.
type queryFlags struct {
	File   string
	Where  []string
	Order  []string
	Select []string
	Limit  int
	Offset int
}

// bindConditions registers the condition flags.
func (q *queryFlags) bindConditions(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&q.File, "query", "q", "", "YAML query file ('-' for stdin)")
	cmd.Flags().StringArrayVarP(&q.Where, "where", "w", nil, "equality condition property=value (repeatable, AND-joined)")
}

// bindListing registers the condition flags plus ordering, selection and
// the result window.
func (q *queryFlags) bindListing(cmd *cobra.Command) {
	q.bindConditions(cmd)
	cmd.Flags().StringArrayVar(&q.Order, "order", nil, "order field, '-field' for descending (repeatable)")
	cmd.Flags().StringSliceVar(&q.Select, "select", nil, "fields to return")
	cmd.Flags().IntVar(&q.Limit, "limit", -1, "maximum number of records (overrides the query file)")
	cmd.Flags().IntVar(&q.Offset, "offset", -1, "number of records to skip (overrides the query file)")
}

// build merges the query file with the command-line flags. Flag conditions
// are appended to the file's conditions; flag ordering and selection replace
// the file's.
func (q *queryFlags) build(stdin io.Reader) (query.Query, error) {
	var out query.Query
	if q.File != "" {
		data, err := readInput(q.File, stdin)
		if err != nil {
			return query.Query{}, err
		}
		out, err = query.Parse(data)
		if err != nil {
			return query.Query{}, fmt.Errorf("%s: %w", q.File, err)
		}
	}

	for _, w := range q.Where {
		property, value, ok := strings.Cut(w, "=")
		if !ok || property == "" {
			return query.Query{}, fmt.Errorf("invalid --where %q: expected property=value", w)
		}
		out.Conditions = append(out.Conditions, query.Where(property, query.OpEq, value))
	}

	if len(q.Order) > 0 {
		out.Order = nil
		for _, o := range q.Order {
			if field, ok := strings.CutPrefix(o, "-"); ok {
				out.Order = append(out.Order, query.Desc(field))
			} else {
				out.Order = append(out.Order, query.Asc(o))
			}
		}
	}
	if len(q.Select) > 0 {
		out.Selection = q.Select
	}
	if q.Limit >= 0 {
		out.Limit = q.Limit
	}
	if q.Offset >= 0 {
		out.Offset = q.Offset
	}
	return out, nil
}

// valueFlags carry the field values of insert and update.
type valueFlags struct {
	File string
	Set  []string
}

func (v *valueFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&v.File, "values", "", "YAML or JSON file with field values ('-' for stdin)")
	cmd.Flags().StringArrayVar(&v.Set, "set", nil, "field value property=value (repeatable, overrides --values)")
}

func (v *valueFlags) build(stdin io.Reader) (map[string]any, error) {
	values := map[string]any{}
	if v.File != "" {
		data, err := readInput(v.File, stdin)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("%s: parse values: %w", v.File, err)
		}
		if values == nil {
			values = map[string]any{}
		}
	}

	for _, s := range v.Set {
		property, value, ok := strings.Cut(s, "=")
		if !ok || property == "" {
			return nil, fmt.Errorf("invalid --set %q: expected property=value", s)
		}
		values[property] = value
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("no values given: use --values or --set")
	}
	return values, nil
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
