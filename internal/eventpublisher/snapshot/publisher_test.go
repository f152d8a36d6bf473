package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-firestore-hampter/internal/eventpublisher/event"
)

type harness struct {
	p    *snapshotPublisher
	src  chan event.Event
	done chan error
}

func start(t *testing.T, ctx context.Context) *harness {
	t.Helper()
	h := &harness{
		src:  make(chan event.Event),
		done: make(chan error, 1),
	}
	h.p = newPublisher(event.CommentsSnapshot, func(context.Context) <-chan event.Event { return h.src })
	go func() { h.done <- h.p.Start(ctx) }()
	return h
}

func (h *harness) emit(t *testing.T, e event.Event) {
	t.Helper()
	select {
	case h.src <- e:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher is not reading the source")
	}
}

func (h *harness) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("publisher did not stop")
		return nil
	}
}

func receive(t *testing.T, ch <-chan event.Event) event.Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		if !ok {
			t.Fatal("subscriber channel closed")
		}
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return event.Event{}
	}
}

func TestPublishInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := start(t, ctx)

	sub := make(chan event.Event, 1)
	h.p.Subscribe(sub)

	for i := 1; i <= 3; i++ {
		h.emit(t, event.Event{Type: event.CommentsSnapshot, Message: i})
		if got := receive(t, sub).Message; got != i {
			t.Fatalf("got message %v, want %d", got, i)
		}
	}
}

func TestLateSubscriberReceivesLatest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := start(t, ctx)

	early := make(chan event.Event, 1)
	h.p.Subscribe(early)
	h.emit(t, event.Event{Message: "first"})
	receive(t, early)
	h.emit(t, event.Event{Message: "second"})
	receive(t, early)

	late := make(chan event.Event, 1)
	h.p.Subscribe(late)
	if got := receive(t, late).Message; got != "second" {
		t.Errorf("late subscriber got %v, want second", got)
	}
}

func TestSubscribeBeforeFirstSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := start(t, ctx)

	sub := make(chan event.Event, 1)
	h.p.Subscribe(sub)

	select {
	case e := <-sub:
		t.Fatalf("unexpected replay %v", e)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := start(t, ctx)

	sub := make(chan event.Event, 1)
	h.p.Subscribe(sub)
	h.p.Unsubscribe(sub)
	h.p.Unsubscribe(sub)

	if _, ok := <-sub; ok {
		t.Error("channel still open after unsubscribe")
	}
	h.emit(t, event.Event{Message: 1})
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for write timeouts")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := start(t, ctx)

	slow := make(chan event.Event)
	h.p.Subscribe(slow)

	for i := 0; i < writeFailureThreshold; i++ {
		select {
		case h.src <- event.Event{Message: i}:
		case <-time.After(writeTimeout * (writeFailureThreshold + 2)):
			t.Fatal("publisher is not reading the source")
		}
	}

	deadline := time.Now().Add(writeTimeout * (writeFailureThreshold + 2))
	for h.p.submanager.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow subscriber was not dropped")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, ok := <-slow; ok {
		t.Error("dropped subscriber channel is still open")
	}
}

func TestStartStopsOnError(t *testing.T) {
	h := start(t, context.Background())

	sub := make(chan event.Event, 1)
	h.p.Subscribe(sub)

	streamErr := errors.New("listen failed")
	h.emit(t, event.Event{Err: streamErr})

	if got := receive(t, sub); !errors.Is(got.Err, streamErr) {
		t.Errorf("subscriber got %v, want the stream error", got.Err)
	}
	if err := h.wait(t); !errors.Is(err, streamErr) {
		t.Errorf("start returned %v", err)
	}
	if _, ok := <-sub; ok {
		t.Error("subscriber not closed after stop")
	}
}

func TestStartStopsWhenSourceCloses(t *testing.T) {
	h := start(t, context.Background())
	close(h.src)

	if err := h.wait(t); err != nil {
		t.Errorf("start returned %v, want nil", err)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := start(t, ctx)
	cancel()

	if err := h.wait(t); !errors.Is(err, context.Canceled) {
		t.Errorf("start returned %v", err)
	}
}
