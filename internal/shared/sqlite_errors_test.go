package shared

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIsSQLiteConflictError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("SQLITE_BUSY: busy"), true},
		{errors.New("database is locked (5)"), true},
		{errors.New("no such table: receipts"), false},
	}
	for _, c := range cases {
		if got := IsSQLiteConflictError(c.err); got != c.want {
			t.Errorf("IsSQLiteConflictError(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestRetryOnConflict(t *testing.T) {
	policy := RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond}

	t.Run("succeeds after conflicts", func(t *testing.T) {
		calls := 0
		err := RetryOnConflict(context.Background(), policy, "test", func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked")
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Fatalf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("stops on other errors", func(t *testing.T) {
		calls := 0
		boom := errors.New("constraint failed")
		err := RetryOnConflict(context.Background(), policy, "test", func() error {
			calls++
			return boom
		})
		if !errors.Is(err, boom) || calls != 1 {
			t.Fatalf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		calls := 0
		err := RetryOnConflict(context.Background(), policy, "test", func() error {
			calls++
			return errors.New("SQLITE_BUSY")
		})
		if err == nil || calls != 3 {
			t.Fatalf("err=%v calls=%d", err, calls)
		}
	})
}
