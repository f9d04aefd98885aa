package todo

import (
	"errors"
	"fmt"
	"net/http"

	"todo-api/internal/store"
)

// Op names a handler operation.
type Op string

const (
	OpCreate Op = "create"
	OpList   Op = "list"
	OpUpdate Op = "update"
)

// defaultFailureStatus is returned when a store error carries no status of its own.
const defaultFailureStatus = http.StatusNotImplemented

// ValidationError reports a request body that failed the shape check for Op.
type ValidationError struct {
	Op     Op
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: validation failed: %s", e.Op, e.Reason)
}

// Message is the fixed client-facing text for the failed operation.
func (e *ValidationError) Message() string {
	switch e.Op {
	case OpUpdate:
		return "Couldn't update the todo item."
	default:
		return "Couldn't create the todo item."
	}
}

// StoreFailure reports a failed store call. Err is for server-side logs only.
type StoreFailure struct {
	Op      Op
	Outcome store.Outcome
	Err     error
}

func (e *StoreFailure) Error() string {
	return fmt.Sprintf("%s: store %s: %v", e.Op, e.Outcome, e.Err)
}

func (e *StoreFailure) Unwrap() error { return e.Err }

// Message is the fixed client-facing text for the failed operation.
func (e *StoreFailure) Message() string {
	switch e.Op {
	case OpCreate:
		return "Couldn't create the todo item."
	case OpList:
		return "Couldn't fetch the todos."
	default:
		return "Couldn't fetch the todo item."
	}
}

// Status is the HTTP status for the failure: the underlying error's own code when it
// has one, 504 on timeout, else 501.
func (e *StoreFailure) Status() int {
	var sc interface{ StatusCode() int }
	if errors.As(e.Err, &sc) && sc.StatusCode() >= 500 {
		return sc.StatusCode()
	}
	if e.Outcome == store.OutcomeTimeout {
		return http.StatusGatewayTimeout
	}
	return defaultFailureStatus
}

func storeFailure(op Op, err error) *StoreFailure {
	return &StoreFailure{Op: op, Outcome: store.Classify(err), Err: err}
}
