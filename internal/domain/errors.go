package domain

import (
	"fmt"
	"strings"
)

// MissingFilterError reports a search request that carried no filter
// parameters at all.
type MissingFilterError struct {
	Resource Resource
}

func (e *MissingFilterError) Error() string {
	return fmt.Sprintf("no query parameters provided for %s search", e.Resource)
}

// InvalidFieldsError reports filter keys outside the resource's allow-list.
// The whole request is rejected; no partial filtering is ever applied.
type InvalidFieldsError struct {
	Resource Resource
	Fields   []string
}

func (e *InvalidFieldsError) Error() string {
	return fmt.Sprintf("invalid query parameters: %s", strings.Join(e.Fields, ", "))
}

// InvalidValueError reports a filter value that failed a type or range
// check before any store round trip was made.
type InvalidValueError struct {
	Field  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}

// ExecutionError wraps a failure from the underlying store. It is never
// retried here; callers map it to an opaque server-side failure.
type ExecutionError struct {
	Op  string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
