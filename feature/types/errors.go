package types

import (
	"errors"
	"fmt"
)

// ErrInvalidDefinition is matched by every ParseError.
var ErrInvalidDefinition = errors.New("invalid type definition")

// ParseError reports a malformed type definition source.
type ParseError struct {
	// Source is the file path or label the definition came from.
	Source string
	// Field names the offending field, e.g. "types[0].propertyDefinitions.tst:flag.propertyType".
	Field string
	// Reason is a short human readable description.
	Reason string
	// Err is the underlying decode error, if any.
	Err error
}

func (e *ParseError) Error() string {
	msg := e.Source
	if e.Field != "" {
		msg += ": " + e.Field
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches ErrInvalidDefinition.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidDefinition
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func fieldErr(source, field, format string, args ...any) *ParseError {
	return &ParseError{Source: source, Field: field, Reason: fmt.Sprintf(format, args...)}
}
