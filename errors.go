package tsql

import "fmt"

// CoerceError reports a value that cannot serve a clause role.
//
// It is returned by constructors that accept loosely typed operands, e.g.
// [CrossApply], and can be matched with [errors.As].
type CoerceError struct {
	// Role is the expected clause role, e.g. "FROM clause".
	Role string
	// Value is the rejected value.
	Value any
}

// Error implements error.
func (e *CoerceError) Error() string {
	return fmt.Sprintf("%s expected, got %T", e.Role, e.Value)
}
