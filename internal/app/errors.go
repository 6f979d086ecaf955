package app

import (
	"fmt"
)

// ValidationError reports missing or malformed caller input. Never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports that a referenced plan or user does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// DispatchError wraps a failure of the email sender.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("failed to dispatch email: %v", e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a failed database read or write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
