package upstream

import (
	"context"
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	if Wrap("find payments", 1, nil) != nil {
		t.Fatalf("expected nil for nil error")
	}

	err := Wrap("find payments", 42, context.DeadlineExceeded)
	if !errors.Is(err, ErrFetch) {
		t.Errorf("expected ErrFetch in chain")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected cause in chain")
	}
	if got := err.Error(); got != "find payments for raw id 42: context deadline exceeded" {
		t.Errorf("unexpected message %q", got)
	}

	again := Wrap("consolidate", 0, err)
	if again != err {
		t.Errorf("expected already wrapped error to be returned unchanged")
	}
}
