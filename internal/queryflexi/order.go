package queryflexi

import (
	"net/url"

	"github.com/roach88/flexi/internal/query"
)

// Order converts sort keys to order=<field@A|D> query parameters, in
// precedence order. Any direction other than "asc" sorts descending.
func Order(spec query.OrderSpec) []string {
	params := make([]string, 0, len(spec))
	for _, o := range spec {
		code := "D"
		if o.Ascending() {
			code = "A"
		}
		params = append(params, "order="+url.QueryEscape(o.Field+"@"+code))
	}
	return params
}
