// Package output provides utilities for consistent CLI output formatting.
//
// It handles JSON encoding for machine-readable output, ensuring every
// subcommand emits the same top-level envelope shape. It complements the
// ui package (human-readable rendering) and the errors package (structured
// failures).
//
// # Usage
//
//	result := Envelope{Success: true, Data: summary}
//	if err := output.JSON(result); err != nil {
//	    errors.FatalError(err, true)
//	}
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	cerrors "github.com/kraklabs/projectmap/internal/errors"
)

// Envelope is the single JSON object every subcommand emits on stdout:
// {success, data?, error?, message?}.
type Envelope struct {
	Success bool                 `json:"success"`
	Data    any                  `json:"data,omitempty"`
	Error   *cerrors.ErrorJSON   `json:"error,omitempty"`
	Message string               `json:"message,omitempty"`
}

// Ok builds a successful envelope wrapping data.
func Ok(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// OkMessage builds a successful envelope with only a human-readable message.
func OkMessage(msg string) Envelope {
	return Envelope{Success: true, Message: msg}
}

// Fail builds a failed envelope from a UserError.
func Fail(err *cerrors.UserError) Envelope {
	j := err.ToJSON()
	return Envelope{Success: false, Error: &j}
}

// JSON writes data as pretty-printed JSON to stdout, 2-space indented.
func JSON(data any) error {
	return JSONTo(os.Stdout, data)
}

// JSONTo writes data as pretty-printed JSON to the specified writer.
func JSONTo(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

// JSONCompact writes data as compact JSON to stdout.
func JSONCompact(data any) error {
	return JSONCompactTo(os.Stdout, data)
}

// JSONCompactTo writes data as compact JSON to the specified writer.
func JSONCompactTo(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

// JSONError writes an envelope-shaped error as JSON to stderr.
func JSONError(err error) error {
	return JSONErrorTo(os.Stderr, err)
}

// JSONErrorTo writes an envelope-shaped error as JSON to the specified writer.
func JSONErrorTo(w io.Writer, err error) error {
	var envelope Envelope
	if ue, ok := err.(*cerrors.UserError); ok {
		envelope = Fail(ue)
	} else {
		envelope = Envelope{Success: false, Error: &cerrors.ErrorJSON{Error: err.Error()}}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(envelope); encErr != nil {
		return fmt.Errorf("JSON error encoding failed: %w", encErr)
	}
	return nil
}
