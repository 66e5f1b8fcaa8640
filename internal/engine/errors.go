// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures. Kinds are part of the API contract:
// callers map them to transport codes and decide retryability.
// DependencyFailure is the only transient kind; all others are terminal
// for the given input and should not be retried unmodified.
type Kind string

const (
	KindPermissionDenied  Kind = "permission_denied"
	KindTemplateNotFound  Kind = "template_not_found"
	KindPostNotFound      Kind = "post_not_found"
	KindIncompatibleType  Kind = "incompatible_type"
	KindValidationFailed  Kind = "validation_failed"
	KindDependencyFailure Kind = "dependency_failure"
)

// Error is a classified engine failure with a human-readable message.
// The calling UI displays Message as-is; Err carries the underlying
// cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// newError builds a classified engine error.
func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// dependencyFailure wraps a content-repository error as the one
// retryable kind.
func dependencyFailure(op string, err error) *Error {
	return newError(KindDependencyFailure, "The content repository failed to complete the operation.", fmt.Errorf("%s: %w", op, err))
}

// KindOf returns the Kind of an engine error, or the empty string for
// any other error (including nil).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is an engine error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
