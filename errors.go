package transit

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidPath indicates a field path is malformed or does not resolve
	// against the type it is applied to.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNoMapper indicates a nested type pair has no registered class map
	// and the two types are not structurally identical.
	ErrNoMapper = errors.New("no mapper registered")

	// ErrNullDestination indicates an absent source value was routed to a
	// destination field that cannot hold nil.
	ErrNullDestination = errors.New("null destination violation")

	// ErrDuplicateFieldRule indicates a strict factory rejected a rule that
	// would silently override another.
	ErrDuplicateFieldRule = errors.New("duplicate field rule")

	// ErrUnknownConverter indicates a rule names a converter that was not registered.
	ErrUnknownConverter = errors.New("unknown converter")

	// ErrConvert indicates a converter failed for a field value.
	ErrConvert = errors.New("convert failed")

	// ErrHook indicates a custom mapper or an AfterMap method failed.
	ErrHook = errors.New("mapping hook failed")

	// ErrUnknownType indicates a document referenced a type that was never declared.
	ErrUnknownType = errors.New("unknown type")

	// ErrDecode indicates the codec failed to decode a mapping document.
	ErrDecode = errors.New("decode failed")

	// ErrEncode indicates the codec failed to encode a mapping document.
	ErrEncode = errors.New("encode failed")
)

// PathError reports a field path that could not be parsed or resolved.
type PathError struct {
	Err    error        // Underlying sentinel error (ErrInvalidPath)
	Expr   string       // Path expression as written
	Type   reflect.Type // Type the path was resolved against, nil for syntax errors
	Reason string       // Human readable detail
}

func (e *PathError) Error() string {
	if e.Type != nil {
		return fmt.Sprintf("%s %q on %s: %s", e.Err.Error(), e.Expr, e.Type, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", e.Err.Error(), e.Expr, e.Reason)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// MappingError represents a failure while mapping a source value.
// It wraps a sentinel error with the type pair and field involved.
type MappingError struct {
	Err    error        // Underlying sentinel error (ErrNoMapper, ErrNullDestination, etc.)
	Source reflect.Type // Source type of the failing pair
	Dest   reflect.Type // Destination type of the failing pair
	Field  string       // Destination path, empty when the failure is type level
	Cause  error        // Original error, if any
}

func (e *MappingError) Error() string {
	msg := fmt.Sprintf("%s: %s -> %s", e.Err.Error(), typeName(e.Source), typeName(e.Dest))
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %s)", e.Field)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// DocumentError represents a decode/encode failure of a mapping document.
type DocumentError struct {
	Err   error // Underlying sentinel error (ErrDecode, ErrEncode)
	Cause error // Original error from the codec
}

func (e *DocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// newPathError creates a PathError for syntax or resolution failures.
func newPathError(expr string, typ reflect.Type, format string, args ...any) error {
	return &PathError{
		Err:    ErrInvalidPath,
		Expr:   expr,
		Type:   typ,
		Reason: fmt.Sprintf(format, args...),
	}
}

// newMappingError creates a MappingError for a type pair.
func newMappingError(sentinel error, src, dst reflect.Type, field string, cause error) error {
	return &MappingError{
		Err:    sentinel,
		Source: src,
		Dest:   dst,
		Field:  field,
		Cause:  cause,
	}
}

// newDocumentError creates a DocumentError for codec failures.
func newDocumentError(sentinel error, cause error) error {
	return &DocumentError{
		Err:   sentinel,
		Cause: cause,
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
