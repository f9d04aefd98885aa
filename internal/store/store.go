// Package store defines the durable item store contract shared by every backend.
package store

import (
	"context"
	"errors"
	"net"

	"todo-api/internal/models"
)

var (
	// ErrNotFound is returned by UpdateFields when no record exists at the id.
	ErrNotFound = errors.New("store: item not found")
	// ErrConditionFailed is returned when an Update precondition does not hold.
	ErrConditionFailed = errors.New("store: condition failed")
	// ErrConflict marks a write aborted by a concurrent transaction.
	ErrConflict = errors.New("store: write conflict")
	// ErrTimeout marks a call the backend canceled or timed out.
	ErrTimeout = errors.New("store: timeout")
)

// Update names the mutable fields rewritten by UpdateFields.
type Update struct {
	Text      string
	Checked   bool
	UpdatedAt int64

	// IfUpdatedAt, when set, applies the update only if the stored updatedAt equals it.
	IfUpdatedAt *int64
}

// Store is a keyed item store with no business logic.
type Store interface {
	// Put inserts or fully overwrites the record at item.ID.
	Put(ctx context.Context, item models.Item) error
	// ScanAll returns every stored record in no particular order.
	ScanAll(ctx context.Context) ([]models.Item, error)
	// UpdateFields rewrites text, checked and updatedAt of the record at id and
	// returns the full record after the update.
	UpdateFields(ctx context.Context, id string, u Update) (models.Item, error)
}

// Outcome is the discriminated result of a store call.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeConflict
	OutcomeTimeout
	OutcomeUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeConflict:
		return "conflict"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "unavailable"
	}
}

// Classify maps a store error to its Outcome.
func Classify(err error) Outcome {
	var netErr net.Error
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrConditionFailed), errors.Is(err, ErrConflict):
		return OutcomeConflict
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return OutcomeTimeout
	default:
		return OutcomeUnavailable
	}
}
