package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Outcome
	}{
		{"nil", nil, OutcomeOK},
		{"not found", ErrNotFound, OutcomeNotFound},
		{"wrapped not found", fmt.Errorf("update x: %w", ErrNotFound), OutcomeNotFound},
		{"condition", ErrConditionFailed, OutcomeConflict},
		{"write conflict", fmt.Errorf("%w: deadlock", ErrConflict), OutcomeConflict},
		{"backend timeout", fmt.Errorf("%w: canceling statement", ErrTimeout), OutcomeTimeout},
		{"deadline", fmt.Errorf("scan: %w", context.DeadlineExceeded), OutcomeTimeout},
		{"net timeout", timeoutErr{}, OutcomeTimeout},
		{"other", errors.New("connection refused"), OutcomeUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Fatalf("Classify(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestOutcomeString(t *testing.T) {
	if OutcomeNotFound.String() != "not_found" || OutcomeUnavailable.String() != "unavailable" {
		t.Fatalf("unexpected outcome names")
	}
}
