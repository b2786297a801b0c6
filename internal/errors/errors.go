// Package errors provides structured error handling for the projectmap CLI.
//
// It defines UserError, a type that carries what went wrong, why, and how to
// fix it, plus a semantic exit code per category. Warnings (parse warnings,
// degraded git state, skipped files) are not UserErrors: they never reach
// the CLI boundary as a failure, and are instead accumulated into the
// relevant artifact or a per-run warning list.
//
// # Usage
//
//	err := errors.NewFilesystemError(
//	    "cannot read project root",
//	    "permission denied on /srv/app",
//	    "check directory permissions or run with a user that can read it",
//	    underlyingErr,
//	)
//	if err != nil {
//	    errors.FatalError(err, jsonMode)
//	}
//
// # Exit codes
//
//   - ExitSuccess (0): successful execution
//   - ExitInput (1): invalid arguments, missing/unreadable project path
//   - ExitFilesystem (2): permission denied, I/O failure on a specific file
//   - ExitQueryType (2): `query` given a type outside contract.QueryTypes
//     (spec.md §6 assigns this the same code as ExitFilesystem; the two
//     never fire in the same command invocation)
//   - ExitSchema (3): compression schema missing or invalid
//   - ExitGit (4): git subprocess failure surfaced as fatal (rare; git issues
//     normally degrade rather than fail)
//   - ExitIntegrity (5): validate found missing/unparseable artifacts
//   - ExitWrite (6): atomic artifact write failed
//   - ExitInternal (10): bug — unexpected nil, assertion failure, panic recovery
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
	ExitSuccess    = 0
	ExitInput      = 1
	ExitFilesystem = 2
	// ExitQueryType is `query`'s unknown-type exit code, per spec.md §6
	// ("Unknown type → exit 2 and enumerate valid types").
	ExitQueryType = 2
	ExitSchema    = 3
	ExitGit       = 4
	ExitIntegrity = 5
	ExitWrite     = 6
	ExitInternal  = 10
)

// NewQueryTypeError creates an error for `query` given a type outside
// contract.QueryTypes. fix should enumerate the valid types.
func NewQueryTypeError(msg, fix string) *UserError {
	return &UserError{Message: msg, Fix: fix, ExitCode: ExitQueryType}
}

// UserError represents an error with structured context for end users.
type UserError struct {
	// Message describes what went wrong in user-friendly language.
	Message string

	// Cause explains why the error occurred (diagnostic information).
	Cause string

	// Fix provides an actionable suggestion on how to resolve the error.
	Fix string

	// ExitCode is the exit code that should be used when exiting due to this error.
	ExitCode int

	// Err is the underlying error that caused this error (optional).
	Err error
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

// NewInputError creates an error for invalid CLI arguments or an unreadable
// project root. Input errors typically do not wrap an underlying error.
func NewInputError(msg, cause, fix string) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitInput}
}

// NewFilesystemError creates an error for a per-file or per-root I/O
// failure (permission denied, unreadable root).
func NewFilesystemError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitFilesystem, Err: err}
}

// NewSchemaError creates an error for a missing or invalid compression
// schema file. Generation degrades to level-1-only compression rather than
// failing; this constructor is for the `validate` path, where a corrupt
// schema is reported as fatal.
func NewSchemaError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitSchema, Err: err}
}

// NewGitError creates an error for a git subprocess failure. Most git
// failures degrade gracefully (no-git sentinel, full refresh) and never
// reach this constructor; it exists for paths where a caller explicitly
// requires git (none in the default CLI flow today).
func NewGitError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitGit, Err: err}
}

// NewIntegrityError creates an error for the `validate` subcommand: a
// required artifact is missing, unparseable, or internally inconsistent
// (broken forward/reverse mirror, schema violation).
func NewIntegrityError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitIntegrity, Err: err}
}

// NewWriteError creates an error for an atomic artifact write failure. The
// caller is expected to have already cleaned up the staging file.
func NewWriteError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitWrite, Err: err}
}

// NewInternalError creates an error for unexpected conditions that
// indicate a bug in the program.
func NewInternalError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitInternal, Err: err}
}

// Color definitions for error formatting.
var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format returns a formatted error message for terminal display, respecting
// NO_COLOR and the explicit noColor parameter.
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

// ErrorJSON represents error information in JSON format, used as the
// `error` field of the CLI's {success, data?, error?, message?} envelope.
type ErrorJSON struct {
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{
		Error:    e.Message,
		Cause:    e.Cause,
		Fix:      e.Fix,
		ExitCode: e.ExitCode,
	}
}

// FatalError prints the error and exits with the appropriate code. It never
// returns.
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
