// MIT License
//
// Copyright (c) 2026 Silo Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidActorID is returned when an actor identity fails validation.
	// A valid name must consist of only alphanumeric characters ([a-zA-Z0-9]),
	// with optional hyphens, underscores or dots that are not leading.
	ErrInvalidActorID = errors.New("invalid actor identity, must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-', '_' or '.')")

	// ErrKindNotRegistered is returned when dispatching to an actor kind that
	// was never registered with the runtime.
	ErrKindNotRegistered = errors.New("actor kind is not registered")

	// ErrActivationFailure indicates that creating or activating an actor
	// instance failed. No instance is published when this error is returned.
	ErrActivationFailure = errors.New("actor activation failed")

	// ErrDeactivationFailure indicates that the deactivation hook or the
	// instance teardown failed. The instance is removed and destroyed regardless.
	ErrDeactivationFailure = errors.New("actor deactivation failed")

	// ErrInvalidInvocation is returned for caller mistakes such as unsupported
	// parameter arity. It is never converted into a remote fault response.
	ErrInvalidInvocation = errors.New("invalid actor invocation")

	// ErrMethodNotFound is returned when a method name or an
	// interface-id/method-id pair cannot be resolved. It is a caller error,
	// distinguishable from application faults.
	ErrMethodNotFound = errors.New("actor method not found")

	// ErrTooManyParameters is returned by plain dispatch when the target
	// method declares more than one parameter. That transport path supports
	// at most one argument.
	ErrTooManyParameters = errors.New("plain dispatch supports at most one method parameter")

	// ErrRuntimeStopped is returned when the runtime is no longer accepting
	// dispatches.
	ErrRuntimeStopped = errors.New("actor runtime is stopped")

	// ErrSchedulerNotStarted is returned when scheduling a reminder or timer
	// before the scheduler has started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")
)

// NewErrActivationFailure wraps a base error with ErrActivationFailure to
// indicate an actor activation failure.
func NewErrActivationFailure(err error) error {
	return errors.Join(ErrActivationFailure, err)
}

// NewErrDeactivationFailure wraps a base error with ErrDeactivationFailure to
// indicate an actor deactivation failure.
func NewErrDeactivationFailure(err error) error {
	return errors.Join(ErrDeactivationFailure, err)
}

// NewErrInvalidActorID wraps a base error with ErrInvalidActorID to indicate
// an actor identity issue.
func NewErrInvalidActorID(err error) error {
	return errors.Join(ErrInvalidActorID, err)
}

// NewErrKindNotRegistered formats an ErrKindNotRegistered with the given kind.
func NewErrKindNotRegistered(kind string) error {
	return fmt.Errorf("kind=(%s) %w", kind, ErrKindNotRegistered)
}

// NewErrMethodNotFound formats an ErrMethodNotFound with the given method name.
func NewErrMethodNotFound(name string) error {
	return fmt.Errorf("method=(%s) %w", name, ErrMethodNotFound)
}

// NewErrRemotedMethodNotFound formats an ErrMethodNotFound with the given
// interface-id/method-id pair.
func NewErrRemotedMethodNotFound(interfaceID, methodID int32) error {
	return fmt.Errorf("interface=(%d) method=(%d) %w", interfaceID, methodID, ErrMethodNotFound)
}

// NewErrInvalidInvocation wraps a base error with ErrInvalidInvocation for
// additional context.
func NewErrInvalidInvocation(err error) error {
	return errors.Join(ErrInvalidInvocation, err)
}

// PanicError wraps a panic recovered from user-supplied actor code.
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}
