package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is the kind of every error caused by a malformed
	// query, update or option. Use [errors.Is] to test for it.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupportedOperation is the kind of errors returned when an
	// operation cannot be performed in the given conditions.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrNotFound is returned when a document is expected but missing.
	ErrNotFound = errors.New("document not found")
	// ErrCannotModifyID is returned when an update would change a
	// document's _id.
	ErrCannotModifyID = errors.New("cannot modify document _id")
)

// ErrTargetNil is returned when the passed target, which should be a pointer,
// is passed as a nil value.
type ErrTargetNil struct{}

func (e ErrTargetNil) Error() string { return "target interface is nil" }

// ErrPageValue is returned when a page size or number is negative.
type ErrPageValue struct {
	Name  string
	Value int
}

func (e ErrPageValue) Error() string {
	return fmt.Sprintf("%s cannot be negative, got %d", e.Name, e.Value)
}

func (e ErrPageValue) Unwrap() error { return ErrInvalidArgument }

// ErrPagination is returned when only one of page size and page number is
// set.
type ErrPagination struct {
	PageSize   int
	PageNumber int
}

func (e ErrPagination) Error() string {
	return fmt.Sprintf("page size and page number must be set together, got size %d and number %d", e.PageSize, e.PageNumber)
}

func (e ErrPagination) Unwrap() error { return ErrInvalidArgument }

// ErrOperatorValue is returned when a criterion value does not have the shape
// its operator requires.
type ErrOperatorValue struct {
	Operator Operator
	Value    any
	Want     string
}

func (e ErrOperatorValue) Error() string {
	return fmt.Sprintf("operator %s requires %s, got %T", e.Operator, e.Want, e.Value)
}

func (e ErrOperatorValue) Unwrap() error { return ErrInvalidArgument }

// ErrUnknownOperator is returned when a criterion uses an operator the
// translator does not know.
type ErrUnknownOperator struct {
	Operator Operator
}

func (e ErrUnknownOperator) Error() string {
	return fmt.Sprintf("unknown operator %s", e.Operator)
}

func (e ErrUnknownOperator) Unwrap() error { return ErrInvalidArgument }

// ErrCombinatorCount is returned when a sequence does not have exactly one
// combinator less than items.
type ErrCombinatorCount struct {
	Items       int
	Combinators int
}

func (e ErrCombinatorCount) Error() string {
	return fmt.Sprintf("%d items need %d combinators, got %d", e.Items, max(e.Items-1, 0), e.Combinators)
}

func (e ErrCombinatorCount) Unwrap() error { return ErrInvalidArgument }

// ErrReadPreference is returned when parsing an unknown read preference.
type ErrReadPreference struct {
	Value string
}

func (e ErrReadPreference) Error() string {
	return fmt.Sprintf("unknown read preference %q", e.Value)
}

func (e ErrReadPreference) Unwrap() error { return ErrInvalidArgument }

// ErrRemoveField is returned when a remove operation has a field that cannot
// be split into list and attribute.
type ErrRemoveField struct {
	Field string
}

func (e ErrRemoveField) Error() string {
	return fmt.Sprintf("invalid remove field %q", e.Field)
}

func (e ErrRemoveField) Unwrap() error { return ErrInvalidArgument }

// ErrUnsupported describes an [ErrUnsupportedOperation].
type ErrUnsupported struct {
	Operation string
	Reason    string
}

func (e ErrUnsupported) Error() string {
	return fmt.Sprintf("%s is not supported %s", e.Operation, e.Reason)
}

func (e ErrUnsupported) Unwrap() error { return ErrUnsupportedOperation }
