package trade

import (
	"errors"
	"fmt"
)

// Kind classifies a failure of an aggregation operation.
type Kind int

const (
	// KindStoreUnavailable means the store connection or a query against it failed.
	KindStoreUnavailable Kind = iota + 1
	// KindSchemaMismatch means expected columns are missing from the Ports table.
	KindSchemaMismatch
	// KindDivisionUndefined means an aggregation's denominator is zero.
	KindDivisionUndefined
)

func (k Kind) String() string {
	switch k {
	case KindStoreUnavailable:
		return "store unavailable"
	case KindSchemaMismatch:
		return "schema mismatch"
	case KindDivisionUndefined:
		return "division undefined"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against *Error values.
var (
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrSchemaMismatch    = errors.New("schema mismatch")
	ErrDivisionUndefined = errors.New("division undefined")
)

// Error carries the kind of failure, the operation that raised it and the
// offending parameter (year, country, scale factor...), if any.
type Error struct {
	Kind  Kind
	Op    string
	Param any
	Err   error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.String()
	if e.Param != nil {
		msg += fmt.Sprintf(" (%v)", e.Param)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrStoreUnavailable:
		return e.Kind == KindStoreUnavailable
	case ErrSchemaMismatch:
		return e.Kind == KindSchemaMismatch
	case ErrDivisionUndefined:
		return e.Kind == KindDivisionUndefined
	}
	return false
}

// StoreUnavailable wraps a store failure raised while running op.
func StoreUnavailable(op string, param any, err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Op: op, Param: param, Err: err}
}

// SchemaMismatch reports the columns missing from the store.
func SchemaMismatch(op string, missing []string) *Error {
	return &Error{Kind: KindSchemaMismatch, Op: op, Param: missing}
}

// DivisionUndefined reports a zero denominator in op.
func DivisionUndefined(op string, param any) *Error {
	return &Error{Kind: KindDivisionUndefined, Op: op, Param: param}
}

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}
