package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/finrel/internal/acset"
	"github.com/roach88/finrel/internal/colimit"
	"github.com/roach88/finrel/internal/homsearch"
	"github.com/roach88/finrel/internal/join"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Failing scenarios or invalid specs
	ExitCommandError = 2 // Bad paths, unknown names, rejected queries
)

// ExitError carries the process exit code for an error returned by a
// command.
type ExitError struct {
	Code    int
	Message string
	Err     error
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

// NewExitError returns an ExitError with no underlying error.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// GetExitCode extracts the exit code from an error: ExitSuccess for nil,
// ExitFailure for anything that is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as text or as a JSON envelope.
// Diagnostics go to ErrWriter so they never interleave with JSON.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error half of CLIResponse.
type CLIError struct {
	Code    string `json:"code"` // E001..E021
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// report is a command result with a text rendering. In JSON mode the
// result itself becomes the envelope's data.
type report interface {
	writeText(w io.Writer)
}

// Emit writes a successful result.
func (f *OutputFormatter) Emit(r report) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: r})
	}
	r.writeText(f.Writer)
	return nil
}

// Error writes a failure. Text mode shows details only under --verbose.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog writes a diagnostic line under --verbose.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// commandError reports a command-level error (exit code 2).
func commandError(f *OutputFormatter, code, message string) error {
	_ = f.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// QueryFailure is the JSON detail of an E021 error: the library error code
// behind the rejection, and the offending option where the search names one.
type QueryFailure struct {
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
}

func (q QueryFailure) String() string {
	if q.Field != "" {
		return q.Kind + " (" + q.Field + ")"
	}
	return q.Kind
}

// queryFailure classifies an error from homsearch, join, colimit or acset.
// It returns nil for errors none of them raised.
func queryFailure(err error) *QueryFailure {
	var (
		cfgErr   *homsearch.ConfigError
		joinErr  *join.Error
		colErr   *colimit.QuotientError
		acsetErr *acset.Error
	)
	switch {
	case errors.As(err, &cfgErr):
		return &QueryFailure{Kind: cfgErr.Code, Field: cfgErr.Field}
	case errors.As(err, &joinErr):
		return &QueryFailure{Kind: string(joinErr.Code)}
	case errors.As(err, &colErr):
		return &QueryFailure{Kind: string(colErr.Code)}
	case errors.As(err, &acsetErr):
		return &QueryFailure{Kind: string(acsetErr.Code)}
	}
	return nil
}

// queryError reports a rejected query as E021 with its QueryFailure.
func queryError(f *OutputFormatter, err error) error {
	var details any
	if q := queryFailure(err); q != nil {
		details = q
	}
	_ = f.Error(ErrCodeQuery, err.Error(), details)
	return &ExitError{Code: ExitCommandError, Message: ErrCodeQuery, Err: err}
}

func (r HomResult) writeText(w io.Writer) {
	for i, h := range r.rendered {
		fmt.Fprintf(w, "%d: %s\n", i+1, h)
	}
	switch {
	case r.Count == 0:
		fmt.Fprintf(w, "no homomorphism %s -> %s\n", r.From, r.To)
	case r.listing:
		fmt.Fprintf(w, "%d homomorphism(s) %s -> %s\n", r.Count, r.From, r.To)
	}
}

func (r JoinResult) writeText(w io.Writer) {
	for _, t := range r.Tuples {
		fmt.Fprintln(w, t)
	}
	fmt.Fprintf(w, "%d tuple(s)\n", r.Count)
}

func (r ColimitResult) writeText(w io.Writer) {
	fmt.Fprintf(w, "%d class(es)\n", r.Classes)
	for i, leg := range r.Legs {
		fmt.Fprintf(w, "leg %d: %v\n", i, leg)
	}
	fmt.Fprintf(w, "projection: %v\n", r.Projection)
}

func (r ValidationResult) writeText(w io.Writer) {
	for _, warn := range r.Errors {
		fmt.Fprintf(w, "warning %s: %s: %s\n", warn.Code, warn.Field, warn.Message)
	}
	fmt.Fprintf(w, "✓ All specs valid (%d schemas, %d instances, %d functions)\n",
		r.Schemas, r.Instances, r.Functions)
}
