// Package resource maps ORM-style reads and writes onto Flexi REST calls.
//
// Every operation is split in two: a pure Prepare* function that builds the
// PreparedRequest, and an Operations method that hands it to the Transport
// and reshapes the decoded response. Each method issues exactly one request;
// retries, timeouts and cancellation belong to the transport.
//
// Operations holds no mutable state and is safe for concurrent use whenever
// its Transport is.
package resource

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/flexi/internal/document"
	"github.com/roach88/flexi/internal/query"
)

// RowCountField is the envelope field carrying the total of a count request.
const RowCountField = "@rowCount"

// Transport executes prepared requests and returns the decoded response.
// Provider and network failures are returned as errors.
type Transport interface {
	Do(ctx context.Context, req PreparedRequest) (document.Document, error)
}

// Operations performs resource reads and writes over a Transport.
type Operations struct {
	transport Transport
}

// New creates Operations bound to t.
func New(t Transport) *Operations {
	return &Operations{transport: t}
}

// FindOne fetches a single record by id or code alias ("code:ABC").
// Returns ok == false when the provider returns no row.
func (o *Operations) FindOne(ctx context.Context, resource, id string) (document.Record, bool, error) {
	doc, err := o.transport.Do(ctx, PrepareFindOne(resource, id))
	if err != nil {
		return nil, false, fmt.Errorf("find %s/%s: %w", resource, id, err)
	}

	rows, err := aliasedRows(doc, resource)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

// FindAll lists records matching q. Returns nil when nothing matches.
func (o *Operations) FindAll(ctx context.Context, resource string, q query.Query) ([]document.Record, error) {
	doc, err := o.transport.Do(ctx, PrepareFindAll(resource, q))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", resource, err)
	}

	rows, err := aliasedRows(doc, resource)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows, nil
}

// Count returns how many records match conds.
func (o *Operations) Count(ctx context.Context, resource string, conds []query.Condition) (int, error) {
	doc, err := o.transport.Do(ctx, PrepareCount(resource, conds))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", resource, err)
	}

	n, ok := doc.Int(RowCountField)
	if !ok {
		return 0, fmt.Errorf("count %s: %w", resource,
			&document.MalformedResponseError{Resource: resource, Field: RowCountField})
	}
	return n, nil
}

// Insert creates a record and returns its identifier. A code alias
// ("code:<code>") is preferred over the numeric id. ok is false when the
// response names no result for resource; callers should treat that as a soft
// failure.
func (o *Operations) Insert(ctx context.Context, resource string, values map[string]any) (string, bool, error) {
	req, err := PrepareInsert(resource, values)
	if err != nil {
		return "", false, fmt.Errorf("insert %s: %w", resource, err)
	}

	doc, err := o.transport.Do(ctx, req)
	if err != nil {
		return "", false, fmt.Errorf("insert %s: %w", resource, err)
	}

	id, ok := InsertedID(doc, resource)
	return id, ok, nil
}

// Update writes values to every record matching conds. It never creates
// records. Provider failures are returned.
func (o *Operations) Update(ctx context.Context, resource string, values map[string]any, conds []query.Condition) error {
	req, err := PrepareUpdate(resource, values, conds)
	if err != nil {
		return fmt.Errorf("update %s: %w", resource, err)
	}
	if _, err := o.transport.Do(ctx, req); err != nil {
		return fmt.Errorf("update %s: %w", resource, err)
	}
	return nil
}

// Delete removes every record matching conds.
func (o *Operations) Delete(ctx context.Context, resource string, conds []query.Condition) error {
	req, err := PrepareDelete(resource, conds)
	if err != nil {
		return fmt.Errorf("delete %s: %w", resource, err)
	}
	if _, err := o.transport.Do(ctx, req); err != nil {
		return fmt.Errorf("delete %s: %w", resource, err)
	}
	return nil
}

// Custom sends a passthrough request and returns the raw decoded response.
// See PrepareCustom for how the request is built.
func (o *Operations) Custom(ctx context.Context, resource, suffix, method, contentType string, data any) (document.Document, error) {
	req, err := PrepareCustom(resource, suffix, method, contentType, data)
	if err != nil {
		return nil, err
	}

	doc, err := o.transport.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, resource, err)
	}
	return doc, nil
}

// InsertedID scans the results list of an insert response for the entry
// whose ref mentions resource. Within that entry a code wins over an id.
func InsertedID(doc document.Document, resource string) (string, bool) {
	results, ok := doc.Collection("results")
	if !ok {
		return "", false
	}

	for _, r := range results {
		ref, _ := r.String("ref")
		if !strings.Contains(ref, resource) {
			continue
		}
		if code, ok := r.String("code"); ok && code != "" {
			return document.CodePrefix + code, true
		}
		if id, ok := r.String("id"); ok && id != "" {
			return id, true
		}
	}
	return "", false
}

func aliasedRows(doc document.Document, resource string) ([]document.Record, error) {
	doc, err := document.AliasIdentity(doc, resource)
	if err != nil {
		return nil, err
	}
	rows, _ := doc.Collection(resource)
	return rows, nil
}
