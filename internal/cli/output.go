package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/flexi/internal/document"
	"github.com/roach88/flexi/internal/resource"
	"github.com/roach88/flexi/internal/transport"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The server rejected or failed the request
	ExitCommandError = 2 // Command error (bad config, unreadable input, invalid flags)
)

// Error codes reported in CLIError.Code.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeConfig      = "E002" // Configuration missing or invalid
	ErrCodeInput       = "E003" // Query or values file unreadable or invalid
	ErrCodeRemote      = "E004" // Server returned an error status
	ErrCodeNotFound    = "E005" // Record not found
	ErrCodeUnsupported = "E006" // Unsupported method for call
	ErrCodeMalformed   = "E007" // Response missing the expected collection
	ErrCodeJournal     = "E008" // Journal database error
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// In text mode, documents and records are printed as canonical JSON.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	switch v := data.(type) {
	case string:
		_, err := fmt.Fprintln(f.Writer, v)
		return err
	case []document.Record:
		for _, r := range v {
			if err := f.writeCanonical(r); err != nil {
				return err
			}
		}
		return nil
	case document.Record, document.Document, map[string]any:
		return f.writeCanonical(v)
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

func (f *OutputFormatter) writeCanonical(v any) error {
	data, err := document.MarshalCanonical(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f.Writer, string(data))
	return err
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// Fail reports err through the formatter and returns the matching ExitError.
// Remote and malformed-response failures exit with ExitFailure; everything
// else is a command error.
func (f *OutputFormatter) Fail(code string, err error) error {
	return f.fail(ExitCommandError, code, err)
}

// FailRequest reports a failure that happened after a request was sent, such
// as a network error or an unreadable response. It exits with ExitFailure.
func (f *OutputFormatter) FailRequest(err error) error {
	return f.fail(ExitFailure, ErrCodeGeneric, err)
}

func (f *OutputFormatter) fail(exit int, code string, err error) error {
	var details any

	var re *transport.RemoteError
	switch {
	case errors.As(err, &re):
		code = ErrCodeRemote
		exit = ExitFailure
		details = map[string]any{"status": re.StatusCode, "request_id": re.RequestID}
	case resource.IsUnsupportedMethod(err):
		code = ErrCodeUnsupported
		exit = ExitCommandError
	case document.IsMalformedResponse(err):
		code = ErrCodeMalformed
		exit = ExitFailure
	}

	_ = f.Error(code, err.Error(), details)
	return WrapExitError(exit, code, err)
}
