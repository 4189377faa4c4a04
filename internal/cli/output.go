package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"kintai/internal/record"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // successful execution
	ExitRejected     = 1 // the clock action was rejected by validation
	ExitCommandError = 2 // command error (bad arguments, database failures)
)

// ExitError carries a specific exit code out of a command. Quiet marks
// errors the command already rendered for the user, so the entry point
// only sets the exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
	Quiet   bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Validation
// rejections map to ExitRejected; anything else unclassified is a
// command error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if record.IsValidation(err) {
		return ExitRejected
	}
	return ExitCommandError
}

// IsQuiet reports whether the command already rendered err itself.
func IsQuiet(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Quiet
}

// Formatter handles JSON vs text output for command results.
type Formatter struct {
	Format string
	Writer io.Writer
}

// Response is the JSON envelope for command output.
type Response struct {
	Status string `json:"status"` // "ok" or "error"
	Data   any    `json:"data,omitempty"`
	Error  *Fault `json:"error,omitempty"`
}

// Fault is the error half of a Response.
type Fault struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a result. In text mode data's string form is printed
// as-is; structured values should pre-render themselves.
func (f *Formatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Reject writes a validation rejection. The message is shown to the
// user verbatim; validation messages are written for that.
func (f *Formatter) Reject(ve *record.ValidationError) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{
			Status: "error",
			Error:  &Fault{Code: string(ve.Code), Message: ve.Message},
		})
	}
	_, err := fmt.Fprintf(f.Writer, "rejected: %s\n", ve.Message)
	return err
}
