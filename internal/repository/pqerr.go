package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"todo-api/internal/store"
)

// Postgres SQLSTATE codes mapped onto store sentinels.
const (
	codeQueryCanceled        pq.ErrorCode = "57014"
	codeLockNotAvailable     pq.ErrorCode = "55P03"
	codeSerializationFailure pq.ErrorCode = "40001"
	codeDeadlockDetected     pq.ErrorCode = "40P01"
)

// classify marks err with the store sentinel matching its Postgres code, keeping
// the original error in the chain. Unknown codes and non-pq errors pass through.
func classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case codeQueryCanceled, codeLockNotAvailable:
		return fmt.Errorf("%w: %w", store.ErrTimeout, err)
	case codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%w: %w", store.ErrConflict, err)
	default:
		return err
	}
}
