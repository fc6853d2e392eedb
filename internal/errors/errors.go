// Package errors provides structured error handling for the astrobiomers CLI.
//
// It defines UserError, a type that carries structured error information —
// what went wrong, why, and how to fix it — plus a semantic exit code per
// category, matching the taxonomy in spec.md §7 (AcquisitionError,
// PreprocessError, ExtractorError, ResolutionError/AlignmentError,
// LoaderError, ConfigError, FatalError).
package errors

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Exit codes for different error categories.
const (
	ExitSuccess = 0

	// ExitConfig indicates a ConfigError (§7): missing/invalid configuration.
	ExitConfig = 1

	// ExitLoader indicates a LoaderError (§7): constraint violation, null
	// key, or batch transaction failure.
	ExitLoader = 2

	// ExitNetwork indicates an AcquisitionError/ResolutionError/AlignmentError
	// caused by an unreachable external service after retries.
	ExitNetwork = 3

	// ExitInput indicates invalid user input (bad CLI arguments).
	ExitInput = 4

	ExitPermission = 5
	ExitNotFound   = 6

	// ExitFatal indicates a FatalError (§7): unrecoverable condition such as
	// the graph database being unreachable when --load-graph was requested.
	ExitFatal = 9

	// ExitInternal signals an unexpected internal error ("this is a bug").
	ExitInternal = 10
)

// UserError represents an error with structured context for end users.
type UserError struct {
	Message  string
	Cause    string
	Fix      string
	ExitCode int
	Err      error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a ConfigError (§7). The pipeline refuses to start.
func NewConfigError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitConfig, Err: err}
}

// NewAcquisitionError creates an AcquisitionError (§7): a source was
// unavailable after exhausting its retry budget. Aborts that source only.
func NewAcquisitionError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitNetwork, Err: err}
}

// NewPreprocessError creates a PreprocessError (§7): malformed text. The
// paper is dropped from downstream stages, not the whole run.
func NewPreprocessError(msg, cause string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, ExitCode: ExitInput, Err: err}
}

// NewExtractorError creates an ExtractorError (§7): model inference failure
// on a single paper. That paper contributes no mentions for that extractor.
func NewExtractorError(msg, cause string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, ExitCode: ExitInternal, Err: err}
}

// NewResolutionError creates a ResolutionError (§7): external service
// failure or ambiguous result. The mention is retained without an external id.
func NewResolutionError(msg, cause string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, ExitCode: ExitNetwork, Err: err}
}

// NewAlignmentError creates an AlignmentError (§7), same semantics as
// NewResolutionError but for ontology lookups.
func NewAlignmentError(msg, cause string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, ExitCode: ExitNetwork, Err: err}
}

// NewLoaderError creates a LoaderError (§7): constraint violation, null
// key, or batch transaction failure. Only that batch is rolled back.
func NewLoaderError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitLoader, Err: err}
}

// NewFatalError creates a FatalError (§7): unrecoverable, halts the pipeline.
func NewFatalError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitFatal, Err: err}
}

// NewInputError creates an input validation error for bad CLI arguments.
func NewInputError(msg, cause, fix string) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitInput}
}

// NewInternalError creates an error for unexpected/bug conditions.
func NewInternalError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitInternal, Err: err}
}

var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format returns a formatted error message for terminal display.
func (e *UserError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprint("Error: "))
	out.WriteString(e.Message)
	out.WriteString("\n")

	if e.Cause != "" {
		out.WriteString(colorCause.Sprint("Cause: "))
		out.WriteString(e.Cause)
		out.WriteString("\n")
	}

	if e.Fix != "" {
		out.WriteString(colorFix.Sprint("Fix:   "))
		out.WriteString(e.Fix)
		out.WriteString("\n")
	}

	return out.String()
}

// ErrorJSON is the JSON-serializable form of UserError.
type ErrorJSON struct {
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{Error: e.Message, Cause: e.Cause, Fix: e.Fix, ExitCode: e.ExitCode}
}

// FatalError prints err and exits with its exit code. A nil err is a no-op
// and returns at once; for any other err it never returns.
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}

	if ue, ok := err.(*UserError); ok {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			_ = enc.Encode(ue.ToJSON())
		} else {
			fmt.Fprint(os.Stderr, ue.Format(false))
		}
		os.Exit(ue.ExitCode)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitInternal)
}
