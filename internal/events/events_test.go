package events

import (
	"testing"
	"time"

	"github.com/tucha-cloud/tucha/internal/process"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventProcessState)

	bus.PublishProcessState(process.Idle(), process.Running(process.UploadingFiles), "task-1")

	select {
	case received := <-ch:
		ev, ok := received.(*ProcessStateEvent)
		if !ok {
			t.Fatal("Expected ProcessStateEvent")
		}
		if kind, _ := ev.New.Kind(); kind != process.UploadingFiles {
			t.Errorf("Expected UploadingFiles, got %v", ev.New)
		}
		if ev.TaskID != "task-1" {
			t.Errorf("Expected task id 'task-1', got '%s'", ev.TaskID)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for event")
	}
}

func TestEventBus_DifferentEventTypes(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	stateCh := bus.Subscribe(EventProcessState)
	treeCh := bus.Subscribe(EventTreeRefreshed)

	bus.PublishTreeRefreshed("alice", 3)

	select {
	case ev := <-treeCh:
		tree := ev.(*TreeRefreshedEvent)
		if tree.Account != "alice" || tree.Files != 3 {
			t.Errorf("unexpected event %+v", tree)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for tree event")
	}

	select {
	case ev := <-stateCh:
		t.Errorf("state subscriber should not receive %v", ev.Type())
	default:
	}
}

func TestEventBus_SubscribeAll(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	all := bus.SubscribeAll()

	bus.PublishAccountsChanged([]string{"alice", "bob"}, "alice")
	bus.PublishViewChanged("cloud")

	var types []EventType
	for i := 0; i < 2; i++ {
		select {
		case ev := <-all:
			types = append(types, ev.Type())
		case <-time.After(100 * time.Millisecond):
			t.Fatal("Timeout waiting for event")
		}
	}
	if types[0] != EventAccountsChanged || types[1] != EventViewChanged {
		t.Errorf("unexpected order %v", types)
	}
}

func TestEventBus_NonBlocking(t *testing.T) {
	bus := NewEventBus(1)
	defer bus.Close()

	_ = bus.Subscribe(EventViewChanged)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			bus.PublishViewChanged("cloud")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
	if dropped := bus.Dropped(); dropped != 4 {
		t.Errorf("Expected 4 dropped events, got %d", dropped)
	}
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventViewChanged)
	bus.Unsubscribe(ch)
	bus.PublishViewChanged("cloud")

	select {
	case <-ch:
		t.Error("unsubscribed channel received an event")
	default:
	}
}

func TestEventBus_Close(t *testing.T) {
	bus := NewEventBus(10)
	ch := bus.Subscribe(EventProcessState)

	bus.Close()
	bus.Close() // idempotent

	if _, ok := <-ch; ok {
		t.Error("Expected channel to be closed")
	}

	// Publishing after close is a no-op
	bus.PublishProcessState(process.Idle(), process.Idle(), "")

	late := bus.Subscribe(EventProcessState)
	if _, ok := <-late; ok {
		t.Error("Expected subscription after close to be closed")
	}
}
