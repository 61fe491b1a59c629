package engine

import (
	"errors"
	"fmt"
)

// ErrUnknownFunction and ErrArityMismatch are sentinels an Application's
// ResolveFilterFunction/ResolveActionFunction should wrap (fmt.Errorf with
// %w) so compile can translate them into the typed diagnostics below
// without the Application needing to know about engine's error types.
var (
	ErrUnknownFunction = errors.New("unknown function")
	ErrArityMismatch   = errors.New("arity mismatch")
)

// UnknownFunction is raised when a CALL names a function absent from the
// relevant registry (spec §7).
type UnknownFunction struct {
	Name string
	Line int
	Col  int
}

func (e *UnknownFunction) Error() string {
	return fmt.Sprintf("%d:%d: unknown function %q", e.Line, e.Col, e.Name)
}

// ArityMismatch is raised when a CALL's argument count/shape does not match
// the function's registered arity signature (spec §7).
type ArityMismatch struct {
	Name    string
	Message string
	Line    int
	Col     int
}

func (e *ArityMismatch) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Col, e.Name, e.Message)
}

// UnknownField is raised when a filter or template references a field name
// absent from the mapping accessor table (spec §7).
type UnknownField struct {
	Name string
	Line int
	Col  int
}

func (e *UnknownField) Error() string {
	return fmt.Sprintf("%d:%d: unknown field %q", e.Line, e.Col, e.Name)
}

// IllegalArgument is raised when a function argument's value is
// syntactically well-formed but unusable for the field it targets (spec
// §7), e.g. assigning null to a required identifier field like object_id.
// Applications surface it as the Cause of a FunctionRuntimeError.
type IllegalArgument struct {
	Field   string
	Message string
}

func (e *IllegalArgument) Error() string {
	return fmt.Sprintf("illegal argument for field %q: %s", e.Field, e.Message)
}

// FunctionRuntimeError wraps a failure raised by a user-supplied function
// during process (spec §7). Non-strict applications drop the offending
// mapping and continue; strict applications surface this from Process.
type FunctionRuntimeError struct {
	Name  string
	Cause error
}

func (e *FunctionRuntimeError) Error() string {
	return fmt.Sprintf("function %q: %v", e.Name, e.Cause)
}

func (e *FunctionRuntimeError) Unwrap() error { return e.Cause }
