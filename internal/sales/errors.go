package sales

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompleteRange is returned when only one bound of a date range is given.
	ErrIncompleteRange = errors.New("date range requires both start and end")
	// ErrInvertedRange is returned when the range start falls after its end.
	ErrInvertedRange = errors.New("date range start is after end")
	// ErrMalformedDate is returned when a range bound is not a dd/mm/yyyy date.
	ErrMalformedDate = errors.New("date must be in dd/mm/yyyy format")
)

// MissingFieldError reports a required column absent from the input table.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required column not found: %s", e.Field)
}

// MalformedTimestampError reports a timestamp cell that matches no supported layout.
type MalformedTimestampError struct {
	Row   int
	Value string
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("row %d: cannot parse %s=%q as a timestamp", e.Row, ColumnTimestamp, e.Value)
}

// InvalidValueError reports a present column whose cell is empty or out of domain.
type InvalidValueError struct {
	Row    int
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("row %d: invalid %s=%q: %s", e.Row, e.Field, e.Value, e.Reason)
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}

// EmptyResultError reports that no transaction survived validation and filtering.
type EmptyResultError struct {
	Range DateRange
}

func (e *EmptyResultError) Error() string {
	if e.Range.IsZero() {
		return "no transactions found in input"
	}
	return fmt.Sprintf("no transactions found between %s and %s", e.Range.Start, e.Range.End)
}
