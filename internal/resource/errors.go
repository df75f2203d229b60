package resource

import (
	"errors"
	"fmt"
	"net/http"
)

// Methods accepted by Custom.
const (
	MethodGet    = http.MethodGet
	MethodPut    = http.MethodPut
	MethodPost   = http.MethodPost
	MethodDelete = http.MethodDelete
)

func isSupportedMethod(m string) bool {
	switch m {
	case MethodGet, MethodPut, MethodPost, MethodDelete:
		return true
	}
	return false
}

// UnsupportedMethodError is returned by Custom for any method outside
// GET, PUT, POST and DELETE.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("unsupported method %q: must be one of GET, PUT, POST, DELETE", e.Method)
}

// IsUnsupportedMethod returns true if err is, or wraps, an UnsupportedMethodError.
func IsUnsupportedMethod(err error) bool {
	var ue *UnsupportedMethodError
	return errors.As(err, &ue)
}

// InvalidFieldError reports an update value key that cannot be written as an
// XML element, such as "nazev@" or "@removeAll".
type InvalidFieldError struct {
	Key string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field key %q: want name or name@attribute", e.Key)
}
