package fetch

import (
	"errors"
	"testing"
)

func TestTrackerLastDispatchWins(t *testing.T) {
	tracker := NewTracker()

	genA := tracker.Begin("services:shop_a")
	genB := tracker.Begin("services:shop_a")

	if tracker.Current("services:shop_a", genA) {
		t.Fatal("generation A should be stale after B was dispatched")
	}
	if !tracker.Current("services:shop_a", genB) {
		t.Fatal("generation B should be current")
	}
}

func TestTrackerKeysAreIndependent(t *testing.T) {
	tracker := NewTracker()

	genServices := tracker.Begin("services:shop_a")
	tracker.Begin("barbers:shop_a")

	if !tracker.Current("services:shop_a", genServices) {
		t.Fatal("a fetch for a different key must not invalidate services")
	}
}

func TestStateTransitions(t *testing.T) {
	s := IdleState[[]string]()
	if s.Status != Idle {
		t.Fatalf("status = %s, want idle", s.Status)
	}

	s = LoadingState[[]string]()
	if !s.IsLoading() {
		t.Fatal("expected loading")
	}

	s = LoadedState([]string{"Skin Fade"})
	if !s.IsLoaded() || len(s.Data) != 1 {
		t.Fatalf("state = %+v", s)
	}

	failure := errors.New("backend down")
	s = FailedState[[]string](failure)
	if !s.IsFailed() || !errors.Is(s.Err, failure) {
		t.Fatalf("state = %+v", s)
	}
}
