package retry_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/postforge/media-mirror/pkg/retry"
)

func TestDoEventuallySucceeds(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %s", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestDoGivesUp(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return errors.New("always")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3 (initial + 2 retries)", calls)
	}
}

func TestDoPermanent(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return retry.Permanent(errors.New("fatal"))
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, permanent errors must not retry", calls)
	}
}
