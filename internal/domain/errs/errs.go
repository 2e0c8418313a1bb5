// Package errs holds the failure kinds shared by the intake and prediction pipelines.
//
// Every failure is scoped to a single request. Callers test for a kind with errors.Is
// (errors.Is(err, errs.ErrPersistence)) and recover field detail for validation failures
// with errors.As into *ValidationError.
package errs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrPersistence  = errors.New("persistence failed")
	ErrPrediction   = errors.New("prediction failed")
	ErrNotification = errors.New("notification failed")
	ErrTimeout      = errors.New("external call timed out")
)

// Error wraps a cause with the failure kind and the operation that produced it.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	out := []error{e.Kind}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		out = append(out, ErrTimeout)
	}
	return out
}

// Wrap returns nil for a nil cause.
func Wrap(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func Persistence(op string, err error) error {
	return Wrap(ErrPersistence, op, err)
}

func Prediction(op string, err error) error {
	return Wrap(ErrPrediction, op, err)
}

func Notification(op string, err error) error {
	return Wrap(ErrNotification, op, err)
}

// ValidationError rejects a whole submission. Fields maps the offending field to a message.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(names, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsTimeout reports whether err came from an external call that ran out of time.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}
