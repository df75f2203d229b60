package resource

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/roach88/flexi/internal/document"
	"github.com/roach88/flexi/internal/query"
	"github.com/roach88/flexi/internal/queryflexi"
)

// Content types sent to the provider.
const (
	ContentTypeJSON = "application/json"
	ContentTypeXML  = "application/xml"
)

// PreparedRequest is a fully built call for the transport to execute.
// Path is relative to the company endpoint and already percent-encoded.
// A nil Body means the request carries none.
type PreparedRequest struct {
	Method      string
	Path        string
	Body        []byte
	ContentType string
}

// PrepareFindOne builds GET <resource>/<id>.json?code-as-id=true.
func PrepareFindOne(resource, id string) PreparedRequest {
	return PreparedRequest{
		Method: MethodGet,
		Path:   url.PathEscape(resource) + "/" + url.PathEscape(id) + ".json?code-as-id=true",
	}
}

// PrepareFindAll builds the list request for q.
//
// The filter is a path segment, not a query parameter. Query parameters are
// emitted in the order: order..., start, limit, detail, code-as-id. start and
// limit are always present, even when zero.
func PrepareFindAll(resource string, q query.Query) PreparedRequest {
	params := queryflexi.Order(q.Order)
	params = append(params,
		"start="+strconv.Itoa(q.Offset),
		"limit="+strconv.Itoa(q.Limit),
	)
	if len(q.Selection) > 0 {
		detail := "custom:" + strings.Join(queryflexi.EscapeSelection(q.Selection), ",")
		params = append(params, "detail="+url.QueryEscape(detail))
	}
	params = append(params, "code-as-id=true")

	return PreparedRequest{
		Method: MethodGet,
		Path:   filteredPath(resource, q.Conditions) + ".json?" + strings.Join(params, "&"),
	}
}

// PrepareCount builds a minimal-detail request that only asks for the row count.
func PrepareCount(resource string, conds []query.Condition) PreparedRequest {
	return PreparedRequest{
		Method: MethodGet,
		Path:   filteredPath(resource, conds) + ".json?detail=id&add-row-count=true",
	}
}

// PrepareInsert builds PUT <resource>.json?code-in-response=true with body
// {"@update":"fail","<resource>":values}. "@update":"fail" keeps the call
// from silently updating an existing record.
func PrepareInsert(resource string, values map[string]any) (PreparedRequest, error) {
	body, err := document.MarshalCanonical(map[string]any{
		"@update": "fail",
		resource:  values,
	})
	if err != nil {
		return PreparedRequest{}, err
	}
	return PreparedRequest{
		Method:      MethodPut,
		Path:        url.PathEscape(resource) + ".json?code-in-response=true",
		Body:        body,
		ContentType: ContentTypeJSON,
	}, nil
}

// PrepareUpdate builds an XML update that must not create records.
func PrepareUpdate(resource string, values map[string]any, conds []query.Condition) (PreparedRequest, error) {
	body, err := updateXML(resource, values, conds)
	if err != nil {
		return PreparedRequest{}, err
	}
	return PreparedRequest{
		Method:      MethodPut,
		Path:        url.PathEscape(resource) + ".xml",
		Body:        body,
		ContentType: ContentTypeXML,
	}, nil
}

// PrepareDelete builds an XML delete of every record matching conds.
func PrepareDelete(resource string, conds []query.Condition) (PreparedRequest, error) {
	body, err := deleteXML(resource, conds)
	if err != nil {
		return PreparedRequest{}, err
	}
	return PreparedRequest{
		Method:      MethodPut,
		Path:        url.PathEscape(resource) + ".xml",
		Body:        body,
		ContentType: ContentTypeXML,
	}, nil
}

// PrepareCustom builds a passthrough call. suffix is appended to the resource
// verbatim; when empty, ".json" is used. contentType defaults to JSON.
// Bodies are only attached to PUT and POST.
func PrepareCustom(resource, suffix, method, contentType string, data any) (PreparedRequest, error) {
	method = strings.ToUpper(method)
	if !isSupportedMethod(method) {
		return PreparedRequest{}, &UnsupportedMethodError{Method: method}
	}
	if suffix == "" {
		suffix = ".json"
	}
	if contentType == "" {
		contentType = ContentTypeJSON
	}

	req := PreparedRequest{
		Method:      method,
		Path:        url.PathEscape(resource) + suffix,
		ContentType: contentType,
	}
	if method == MethodPut || method == MethodPost {
		body, err := encodeBody(data)
		if err != nil {
			return PreparedRequest{}, err
		}
		req.Body = body
	}
	return req, nil
}

// filteredPath returns the escaped resource, followed by the escaped
// parenthesized filter segment when conds is non-empty.
func filteredPath(resource string, conds []query.Condition) string {
	path := url.PathEscape(resource)
	if filter, ok := queryflexi.Compile(conds); ok {
		path += "/" + url.PathEscape("("+filter+")")
	}
	return path
}

// encodeBody passes text through and encodes anything else as canonical JSON.
func encodeBody(data any) ([]byte, error) {
	switch d := data.(type) {
	case nil:
		return nil, nil
	case []byte:
		return d, nil
	case string:
		return []byte(d), nil
	default:
		return document.MarshalCanonical(d)
	}
}
