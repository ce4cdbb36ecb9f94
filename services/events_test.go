package services

import (
	"testing"
	"time"
)

func TestHubDeliversInOrder(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(7)
	defer cancel()

	statuses := []string{VerificationPending, VerificationApproved}
	for _, s := range statuses {
		hub.Publish(VerificationEvent{UserID: 7, Status: s, At: time.Now()})
	}

	for _, want := range statuses {
		select {
		case got := <-ch:
			if got.Status != want {
				t.Fatalf("expected status %q, got %q", want, got.Status)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestHubIsolatesUsers(t *testing.T) {
	hub := NewHub()
	mine, cancelMine := hub.Subscribe(1)
	defer cancelMine()
	theirs, cancelTheirs := hub.Subscribe(2)
	defer cancelTheirs()

	hub.Publish(VerificationEvent{UserID: 2, Status: VerificationRejected})

	select {
	case event := <-theirs:
		if event.UserID != 2 {
			t.Fatalf("expected event for user 2, got user %d", event.UserID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	select {
	case event := <-mine:
		t.Fatalf("expected no event for user 1, got %+v", event)
	default:
	}
}

func TestHubFanOut(t *testing.T) {
	hub := NewHub()
	first, cancelFirst := hub.Subscribe(3)
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe(3)
	defer cancelSecond()

	hub.Publish(VerificationEvent{UserID: 3, Status: VerificationApproved})

	for _, ch := range []<-chan VerificationEvent{first, second} {
		select {
		case event := <-ch:
			if event.Status != VerificationApproved {
				t.Fatalf("expected approved, got %q", event.Status)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for fan-out event")
		}
	}
}

func TestHubCancelClosesChannel(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(4)
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after cancel")
	}

	// Publishing after cancel must not panic or deliver anywhere.
	hub.Publish(VerificationEvent{UserID: 4, Status: VerificationPending})
}

func TestHubDisconnectsSlowSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(5)

	// Buffer is 16; the 17th publish must not block, and rather than shed
	// the newest event it must disconnect the subscriber. A session left
	// holding a truncated stream could believe a stale status.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 17; i++ {
			hub.Publish(VerificationEvent{UserID: 5, Status: VerificationPending})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	// The buffered events drain, then the channel reports closed.
	drained := 0
	for {
		_, open := <-ch
		if !open {
			break
		}
		drained++
	}
	if drained != 16 {
		t.Fatalf("expected 16 buffered events before the close, got %d", drained)
	}

	// Cancel after the hub already dropped us must not panic, and later
	// publishes must not either.
	cancel()
	hub.Publish(VerificationEvent{UserID: 5, Status: VerificationRejected})
}
