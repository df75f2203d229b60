package transport

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/roach88/flexi/internal/document"
)

// RemoteError is a non-success HTTP response from the server.
type RemoteError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if err is, or wraps, a 404 RemoteError.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized returns true if err is, or wraps, a 401 RemoteError.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

func hasStatus(err error, status int) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode == status
	}
	return false
}

// remoteMessage extracts the provider's error messages from an error body.
// Flexi reports them as results[].errors[].message inside the envelope, in
// JSON or XML; any other body is returned trimmed.
func remoteMessage(body []byte, xmlBody bool) string {
	doc, err := decodeBody(bytes.NewReader(body), xmlBody)
	if err == nil {
		if msgs := errorMessages(doc); len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
		if msg, ok := doc["message"].(string); ok && msg != "" {
			return msg
		}
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "empty response"
	}
	return text
}

func errorMessages(doc document.Document) []string {
	results, ok := doc.Collection("results")
	if !ok {
		return nil
	}

	var msgs []string
	for _, r := range results {
		errs, ok := r["errors"].([]any)
		if !ok {
			continue
		}
		for _, e := range errs {
			var msg string
			switch entry := e.(type) {
			case map[string]any:
				msg = entryMessage(entry)
			case string:
				msg = entry
			}
			if msg != "" {
				msgs = append(msgs, msg)
			}
		}
	}
	return msgs
}

// entryMessage reads one error entry. XML errors may carry the text as a
// message attribute or as the element body.
func entryMessage(entry map[string]any) string {
	for _, key := range []string{"message", "@message", "#text"} {
		if msg, ok := entry[key].(string); ok && msg != "" {
			return msg
		}
	}
	return ""
}
