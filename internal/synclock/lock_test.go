package synclock

import (
	"context"
	"testing"
	"time"
)

func TestLocalLockerIsExclusive(t *testing.T) {
	locker := NewLocker(nil)
	ctx := context.Background()

	token, acquired, err := locker.TryLock(ctx, "pass", time.Minute)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if !acquired || token == "" {
		t.Fatalf("expected lock acquired with token, got acquired=%v token=%q", acquired, token)
	}

	_, again, err := locker.TryLock(ctx, "pass", time.Minute)
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	if again {
		t.Fatal("held lock must not be acquired twice")
	}

	if err := locker.Release(ctx, "pass", token); err != nil {
		t.Fatalf("release: %v", err)
	}

	_, acquired, err = locker.TryLock(ctx, "pass", time.Minute)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	if !acquired {
		t.Fatal("released lock must be acquirable")
	}
}

func TestLocalLockerReleaseRequiresMatchingToken(t *testing.T) {
	locker := NewLocker(nil)
	ctx := context.Background()

	stale, acquired, err := locker.TryLock(ctx, "pass", time.Minute)
	if err != nil || !acquired {
		t.Fatalf("first acquire: acquired=%v err=%v", acquired, err)
	}
	if err := locker.Release(ctx, "pass", stale); err != nil {
		t.Fatalf("release: %v", err)
	}

	current, acquired, err := locker.TryLock(ctx, "pass", time.Minute)
	if err != nil || !acquired {
		t.Fatalf("second acquire: acquired=%v err=%v", acquired, err)
	}

	if err := locker.Release(ctx, "pass", stale); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	_, again, err := locker.TryLock(ctx, "pass", time.Minute)
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	if again {
		t.Fatal("stale token must not release the current holder's lock")
	}

	if err := locker.Release(ctx, "pass", current); err != nil {
		t.Fatalf("current release: %v", err)
	}
	_, acquired, err = locker.TryLock(ctx, "pass", time.Minute)
	if err != nil || !acquired {
		t.Fatalf("acquire after release: acquired=%v err=%v", acquired, err)
	}
}

func TestLockerRejectsBadArguments(t *testing.T) {
	locker := NewLocker(nil)
	ctx := context.Background()

	if _, _, err := locker.TryLock(ctx, "", time.Minute); err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, _, err := locker.TryLock(ctx, "pass", 0); err == nil {
		t.Fatal("expected error for non-positive ttl")
	}
}
