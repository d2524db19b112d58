package core

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every typed error below matches exactly one of these
// through errors.Is.
var (
	ErrDeclaration = errors.New("illegal declaration")
	ErrNullability = errors.New("required field set to null")
	ErrLength      = errors.New("value exceeds maximum length")
	ErrPattern     = errors.New("value does not match pattern")
	ErrNoAdapter   = errors.New("no adapter")
	ErrResolution  = errors.New("reference cannot be resolved")
	ErrBind        = errors.New("field binding mismatch")
)

// DeclarationError reports an invalid record type declaration. It aborts the
// whole registry build.
type DeclarationError struct {
	Type   string
	Member string
	Reason string
}

func (e *DeclarationError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("%s %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("%s.%s %s", e.Type, e.Member, e.Reason)
}

func (e *DeclarationError) Unwrap() error { return ErrDeclaration }

// NullabilityError is returned when null is written to a required field.
type NullabilityError struct {
	Type  string
	Field string
}

func (e *NullabilityError) Error() string {
	return fmt.Sprintf("%s.%s is required", e.Type, e.Field)
}

func (e *NullabilityError) Unwrap() error { return ErrNullability }

// LengthError is returned when bounded text is longer than its declared length.
type LengthError struct {
	Type  string
	Field string
	Max   int
	Got   int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s.%s accepts at most %d characters, got %d", e.Type, e.Field, e.Max, e.Got)
}

func (e *LengthError) Unwrap() error { return ErrLength }

// PatternError is returned when a text value does not match the field pattern.
type PatternError struct {
	Type    string
	Field   string
	Pattern string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s.%s does not match pattern %q", e.Type, e.Field, e.Pattern)
}

func (e *PatternError) Unwrap() error { return ErrPattern }

// NoAdapterError is returned at render time when a profile has no type
// adapter for a variant.
type NoAdapterError struct {
	Profile string
	Variant Variant
}

func (e *NoAdapterError) Error() string {
	return fmt.Sprintf("no adapter for %s in profile %q", e.Variant, e.Profile)
}

func (e *NoAdapterError) Unwrap() error { return ErrNoAdapter }

// ResolutionError is returned when a REF or CODEREF field points at a target
// that cannot be found.
type ResolutionError struct {
	Field string
	Key   string
	Cause error
}

func (e *ResolutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot resolve %s -> %s: %v", e.Field, e.Key, e.Cause)
	}
	return fmt.Sprintf("cannot resolve %s -> %s", e.Field, e.Key)
}

func (e *ResolutionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrResolution, e.Cause}
	}
	return []error{ErrResolution}
}

// BindError is returned when a typed container is requested for a field of a
// different variant, or for a field that does not exist.
type BindError struct {
	Type  string
	Field string
	Want  string
	Got   Variant
}

func (e *BindError) Error() string {
	if e.Got == VariantInvalid {
		return fmt.Sprintf("%s has no field %q", e.Type, e.Field)
	}
	return fmt.Sprintf("%s.%s is %s, not %s", e.Type, e.Field, e.Got, e.Want)
}

func (e *BindError) Unwrap() error { return ErrBind }

// ErrCodeNotFound is returned by a CodeResolver for an unknown key.
var ErrCodeNotFound = errors.New("code object not found")

// ErrTarget is matched by TargetError.
var ErrTarget = errors.New("reference target rejected")

// TargetError is returned when a REF or CODEREF field is given a target of the
// wrong type or from another session.
type TargetError struct {
	Field  string
	Want   string
	Got    string
	Reason string
}

func (e *TargetError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s cannot reference %s: %s", e.Field, e.Got, e.Reason)
	}
	return fmt.Sprintf("%s accepts %s, got %s", e.Field, e.Want, e.Got)
}

func (e *TargetError) Unwrap() error { return ErrTarget }
