package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is one problem found in a document.
type ValidationError struct {
	Key    string // location, e.g. "mover.movers[1].selector"
	Reason string
	Value  any // offending value, if any
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("%s: %s (got %v)", e.Key, e.Reason, e.Value)
}

// AggregateError collects every problem of a document so they can be
// fixed in one pass.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return "invalid document: " + e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid document: %d problems", len(e.Errors))
	for _, err := range e.Errors {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap exposes the individual problems to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns the problems carried by err, or nil when err is
// not a validation failure.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
