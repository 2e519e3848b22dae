package model

import "fmt"

// DecodeError records a malformed event or struct payload. It is fatal to
// the single derivation that consumed the payload, not to other resources.
type DecodeError struct {
	Source string
	Field  string
	Value  string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %s.%s=%q: %v", e.Source, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("decode %s.%s=%q", e.Source, e.Field, e.Value)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NewDecodeError builds a DecodeError for a field of a source record.
func NewDecodeError(source, field, value string, err error) *DecodeError {
	return &DecodeError{Source: source, Field: field, Value: value, Err: err}
}

// TransportError records an unreachable or failed gateway call. It is
// retried on the next poll tick and surfaced to consumers, never swallowed.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError wraps a gateway failure with the operation name.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}
