package core

// errors.go defines the failures the cleaning engine can report.
//
// Each failure has a sentinel for errors.Is checks and a typed error that
// carries the details for errors.As. The typed errors unwrap to their
// sentinel, so callers can use whichever form they need:
//
//	if errors.Is(err, core.ErrWouldEmptyDataset) { ... }
//
//	var ice *core.InvalidColumnError
//	if errors.As(err, &ice) { log(ice.Columns) }

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnreadableInput means the uploaded bytes could not be decoded into a
	// table. The upload is abandoned; nothing is retried.
	ErrUnreadableInput = errors.New("unreadable input")

	// ErrInvalidColumn means an operation referenced a column that is not in
	// the table. This is a caller bug, not a user error.
	ErrInvalidColumn = errors.New("invalid column")

	// ErrWouldEmptyDataset means an operation would remove every row. The
	// operation is rejected and the held table is left as it was.
	ErrWouldEmptyDataset = errors.New("would delete all rows")

	// ErrUndefinedAggregate means a numeric column has no values to average.
	ErrUndefinedAggregate = errors.New("undefined aggregate")

	// ErrNonFiniteAggregate means a numeric column's mean is infinite or
	// undefined because its values include infinities.
	ErrNonFiniteAggregate = errors.New("non-finite aggregate")

	// ErrInvalidTable is returned by NewTable when its invariants do not hold.
	ErrInvalidTable = errors.New("invalid table")

	// ErrNoDataset is returned by Workspace operations before a table has
	// been loaded into the session.
	ErrNoDataset = errors.New("no dataset loaded")
)

// UnreadableInputError wraps a decode failure for one upload.
type UnreadableInputError struct {
	Source string // file name or format
	Err    error
}

func (e *UnreadableInputError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("unreadable input: %v", e.Err)
	}
	return fmt.Sprintf("unreadable input %s: %v", e.Source, e.Err)
}

func (e *UnreadableInputError) Unwrap() []error {
	return []error{ErrUnreadableInput, e.Err}
}

// InvalidColumnError lists the column names that were not found.
type InvalidColumnError struct {
	Columns []string
}

func (e *InvalidColumnError) Error() string {
	return fmt.Sprintf("invalid column: not in table: %s", strings.Join(e.Columns, ", "))
}

func (e *InvalidColumnError) Unwrap() error { return ErrInvalidColumn }

// WouldEmptyDatasetError reports a rejected operation that would have removed
// all Rows of the table.
type WouldEmptyDatasetError struct {
	Operation string
	Rows      int
}

func (e *WouldEmptyDatasetError) Error() string {
	return fmt.Sprintf("%s would delete all rows (%d)", e.Operation, e.Rows)
}

func (e *WouldEmptyDatasetError) Unwrap() error { return ErrWouldEmptyDataset }

// UndefinedAggregateError names the numeric columns whose mean is undefined
// because they have no non-missing values.
type UndefinedAggregateError struct {
	Columns []string
}

func (e *UndefinedAggregateError) Error() string {
	return fmt.Sprintf("undefined aggregate: mean of empty numeric column: %s", strings.Join(e.Columns, ", "))
}

func (e *UndefinedAggregateError) Unwrap() error { return ErrUndefinedAggregate }

// NonFiniteAggregateError names the numeric columns whose mean is not a
// finite number.
type NonFiniteAggregateError struct {
	Columns []string
}

func (e *NonFiniteAggregateError) Error() string {
	return fmt.Sprintf("non-finite aggregate: mean is not finite: %s", strings.Join(e.Columns, ", "))
}

func (e *NonFiniteAggregateError) Unwrap() error { return ErrNonFiniteAggregate }
