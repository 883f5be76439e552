package stack_error

import (
	"errors"
	"fmt"
	"testing"
)

func TestTrackErrorStackWrap(t *testing.T) {
	cause := errors.New("draft not found")
	te := TrackErrorStack(fmt.Errorf("load draft: %w", cause))

	if !errors.Is(te, cause) {
		t.Fatal("wrapped error lost the cause chain")
	}
	if te.Error() != "load draft: draft not found" {
		t.Fatalf("unexpected message: %q", te.Error())
	}
	if len(te.ErrStack) != 1 {
		t.Fatalf("expected one stack entry, got %d", len(te.ErrStack))
	}
}

func TestTrackErrorStackRewrap(t *testing.T) {
	te := TrackErrorStack(errors.New("save failed"))
	again := TrackErrorStack(te)

	if again != te {
		t.Fatal("rewrap must return the same tracker")
	}
	if len(again.ErrStack) != 2 {
		t.Fatalf("rewrap must append to the stack, got %d entries", len(again.ErrStack))
	}

	var unwrapped *TrackerError
	if !errors.As(fmt.Errorf("handler: %w", again), &unwrapped) {
		t.Fatal("tracker must survive further wrapping")
	}
}

func TestTrackerErrorAddContext(t *testing.T) {
	te := TrackErrorStack(errors.New("persist")).
		AddContext("draftId", "d1").
		AddContext("draftId", "d2").
		AddContext("attempt", 3)

	if te.Context["draftId"] != "d1" {
		t.Fatalf("first value must win, got %v", te.Context["draftId"])
	}
	if te.Context["attempt"] != 3 {
		t.Fatalf("unexpected attempt: %v", te.Context["attempt"])
	}

	// Логирование не должно падать без echo контекста
	GetError(nil, te)
	GetError(nil, errors.New("plain"))
}
