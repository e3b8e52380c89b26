// Package errors provides sentinel errors and error types for the pgn-extract tool.
// It defines common error conditions and structured error types that preserve
// context while allowing error inspection with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrIllegalMove indicates a move that violates chess rules.
	ErrIllegalMove = errors.New("illegal move")

	// ErrParseFailure indicates a general PGN parsing error.
	ErrParseFailure = errors.New("parse failure")

	// ErrCQLSyntax indicates a Chess Query Language syntax error.
	ErrCQLSyntax = errors.New("CQL syntax error")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDuplicateGame indicates a duplicate game was detected.
	ErrDuplicateGame = errors.New("duplicate game")

	// ErrMissingTag indicates a required PGN tag is missing.
	ErrMissingTag = errors.New("missing required tag")

	// ErrMaterialMismatch indicates material pattern doesn't match.
	ErrMaterialMismatch = errors.New("material pattern mismatch")
)

// GameError wraps errors with game context, including game number,
// ply position, and move information. It implements the error interface
// and supports unwrapping via errors.Is() and errors.As().
type GameError struct {
	Err      error  // The underlying error
	GameNum  int    // 1-based game number in the file
	PlyNum   int    // Ply number where error occurred (0 if not applicable)
	MoveText string // The move text that caused the error (if applicable)
	File     string // Source file name (if known)
	Line     int    // Line number in source file (if known)
}

// Error returns a formatted error message including all available context.
func (e *GameError) Error() string {
	parts := make([]string, 0, 4)
	if e.File != "" {
		parts = append(parts, fileLocation(e.File, e.Line, 0))
	}
	parts = append(parts, fmt.Sprintf("game %d", e.GameNum))
	if e.PlyNum > 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.PlyNum))
	}
	if e.MoveText != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.MoveText))
	}
	return withCause(strings.Join(parts, ", "), e.Err)
}

// fileLocation renders a "file", "file:line", or "file:line:column"
// prefix, omitting trailing components that are unset (<= 0).
func fileLocation(file string, line, column int) string {
	if line <= 0 {
		return file
	}
	if column <= 0 {
		return fmt.Sprintf("%s:%d", file, line)
	}
	return fmt.Sprintf("%s:%d:%d", file, line, column)
}

// withCause appends ": cause" to context when cause is non-nil, and
// falls back to the bare cause when there is no context to prefix it.
func withCause(context string, cause error) string {
	switch {
	case cause == nil:
		return context
	case context == "":
		return cause.Error()
	default:
		return fmt.Sprintf("%s: %v", context, cause)
	}
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As()
// to work through the GameError wrapper.
func (e *GameError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing error with file location context.
// It's used for PGN and CQL parsing errors.
type ParseError struct {
	Err      error  // The underlying error
	File     string // Source file name
	Line     int    // Line number (1-based)
	Column   int    // Column number (1-based)
	Expected string // What was expected (for syntax errors)
	Got      string // What was found instead
}

// Error returns a formatted error message with location and context.
func (e *ParseError) Error() string {
	parts := make([]string, 0, 2)
	if e.File != "" {
		parts = append(parts, fileLocation(e.File, e.Line, e.Column))
	}
	if expectation := e.expectation(); expectation != "" {
		parts = append(parts, expectation)
	}

	context := strings.Join(parts, ": ")
	switch {
	case e.Err != nil && context != "":
		return fmt.Sprintf("%s: %v", context, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case context != "":
		return context
	default:
		return "parse error"
	}
}

// expectation renders the "expected X, got Y" fragment, degrading
// gracefully when only one side is known.
func (e *ParseError) expectation() string {
	switch {
	case e.Expected != "" && e.Got != "":
		return fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
	case e.Expected != "":
		return fmt.Sprintf("expected %s", e.Expected)
	case e.Got != "":
		return fmt.Sprintf("unexpected %s", e.Got)
	default:
		return ""
	}
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
