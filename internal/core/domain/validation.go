package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Invariant names a rule a build configuration must satisfy.
type Invariant string

// Invariants checked during resolution.
const (
	InvariantSdkOrdering       Invariant = "sdk-ordering"
	InvariantSdkLevel          Invariant = "sdk-level"
	InvariantNamespace         Invariant = "namespace"
	InvariantApplicationID     Invariant = "application-id"
	InvariantVersionCode       Invariant = "version-code"
	InvariantVersionName       Invariant = "version-name"
	InvariantSigningProfile    Invariant = "signing-profile"
	InvariantABI               Invariant = "abi"
	InvariantPluginOrder       Invariant = "plugin-order"
	InvariantJavaCompatibility Invariant = "java-compatibility"
	InvariantNdkVersion        Invariant = "ndk-version"
	InvariantDependency        Invariant = "dependency"
	InvariantRepository        Invariant = "repository"
)

// Violation is a single broken invariant.
type Violation struct {
	Invariant Invariant
	Field     string
	Message   string
}

// String formats the violation as "field: message (invariant)".
func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Field, v.Message, v.Invariant)
}

// ValidationError reports every invariant a document violates.
// It is the only error kind resolution produces and is never retried.
type ValidationError struct {
	Violations []Violation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrValidation so callers can match with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Has reports whether the error contains a violation of inv.
func (e *ValidationError) Has(inv Invariant) bool {
	return slices.ContainsFunc(e.Violations, func(v Violation) bool {
		return v.Invariant == inv
	})
}

// Validator accumulates violations found while resolving a document.
type Validator struct {
	violations []Violation
}

// NewValidator creates an empty Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Add records a violation.
func (v *Validator) Add(inv Invariant, field, message string) {
	v.violations = append(v.violations, Violation{
		Invariant: inv,
		Field:     field,
		Message:   message,
	})
}

// Addf records a violation with a formatted message.
func (v *Validator) Addf(inv Invariant, field, format string, args ...any) {
	v.Add(inv, field, fmt.Sprintf(format, args...))
}

// Valid reports whether no violation has been recorded.
func (v *Validator) Valid() bool {
	return len(v.violations) == 0
}

// Err returns a *ValidationError holding a copy of the violations, or nil.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return &ValidationError{Violations: slices.Clone(v.violations)}
}
