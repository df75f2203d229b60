package document

import (
	"errors"
	"fmt"
)

// MalformedResponseError reports a response without the expected top-level
// resource collection, or without the envelope Field an operation reads. In
// practice this means a protocol flag such as code-as-id=true was not honored
// upstream.
type MalformedResponseError struct {
	Resource string
	Field    string
}

func (e *MalformedResponseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed response: %q response has no %s", e.Resource, e.Field)
	}
	return fmt.Sprintf("malformed response: missing %q collection", e.Resource)
}

// IsMalformedResponse returns true if err is, or wraps, a MalformedResponseError.
func IsMalformedResponse(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}
