// Package events is the notification boundary between the engine and front ends.
// The engine publishes after each state transition; subscribers only observe.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/tucha-cloud/tucha/internal/constants"
	"github.com/tucha-cloud/tucha/internal/process"
)

// EventType names an event kind.
type EventType string

const (
	EventProcessState    EventType = "process_state"    // Process state slot overwritten
	EventTreeRefreshed   EventType = "tree_refreshed"   // An account's tree was rebuilt
	EventAccountsChanged EventType = "accounts_changed" // Client map or current account changed
	EventViewChanged     EventType = "view_changed"
)

// Event is implemented by every published event.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent carries the kind and publish time.
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// ProcessStateEvent carries the previous and current process state.
type ProcessStateEvent struct {
	BaseEvent
	Old    process.State
	New    process.State
	TaskID string // dispatch id of the operation that caused the transition, if any
}

// TreeRefreshedEvent is published after an account's tree is replaced.
type TreeRefreshedEvent struct {
	BaseEvent
	Account string
	Files   int
}

// AccountsChangedEvent lists the connected accounts after a change.
type AccountsChangedEvent struct {
	BaseEvent
	Accounts []string
	Current  string
}

// ViewChangedEvent reports a switch of the active view.
type ViewChangedEvent struct {
	BaseEvent
	View string
}

// EventBus fans events out to buffered subscriber channels.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []subscription
	bufferSize  int
	closed      bool
	dropped     atomic.Int64
}

// subscription receives events of kind, or every event when kind is empty.
type subscription struct {
	kind EventType
	ch   chan Event
}

// NewEventBus creates a bus whose subscriber channels hold bufferSize events,
// clamped to the configured bounds.
func NewEventBus(bufferSize int) *EventBus {
	switch {
	case bufferSize <= 0:
		bufferSize = constants.EventBusDefaultBuffer
	case bufferSize > constants.EventBusMaxBuffer:
		bufferSize = constants.EventBusMaxBuffer
	}
	return &EventBus{bufferSize: bufferSize}
}

// Subscribe returns a channel receiving events of one type.
func (eb *EventBus) Subscribe(eventType EventType) <-chan Event {
	return eb.subscribe(eventType)
}

// SubscribeAll returns a channel receiving every event.
func (eb *EventBus) SubscribeAll() <-chan Event {
	return eb.subscribe("")
}

func (eb *EventBus) subscribe(kind EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}
	ch := make(chan Event, eb.bufferSize)
	eb.subscribers = append(eb.subscribers, subscription{kind: kind, ch: ch})
	return ch
}

// Unsubscribe stops delivery to ch. The channel is not closed.
func (eb *EventBus) Unsubscribe(ch <-chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	kept := eb.subscribers[:0]
	for _, sub := range eb.subscribers {
		if sub.ch != ch {
			kept = append(kept, sub)
		}
	}
	eb.subscribers = kept
}

// Publish delivers event to every matching subscriber that has room.
// Events for a full subscriber are dropped and counted.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return
	}
	for _, sub := range eb.subscribers {
		if sub.kind != "" && sub.kind != event.Type() {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			eb.dropped.Add(1)
		}
	}
}

// Close closes every subscriber channel. Later calls do nothing.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}
	eb.closed = true
	for _, sub := range eb.subscribers {
		close(sub.ch)
	}
	eb.subscribers = nil
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (eb *EventBus) Dropped() int64 {
	return eb.dropped.Load()
}

func stamp(t EventType) BaseEvent {
	return BaseEvent{EventType: t, Time: time.Now()}
}

func (eb *EventBus) PublishProcessState(old, new process.State, taskID string) {
	eb.Publish(&ProcessStateEvent{BaseEvent: stamp(EventProcessState), Old: old, New: new, TaskID: taskID})
}

func (eb *EventBus) PublishTreeRefreshed(account string, files int) {
	eb.Publish(&TreeRefreshedEvent{BaseEvent: stamp(EventTreeRefreshed), Account: account, Files: files})
}

func (eb *EventBus) PublishAccountsChanged(accounts []string, current string) {
	eb.Publish(&AccountsChangedEvent{BaseEvent: stamp(EventAccountsChanged), Accounts: accounts, Current: current})
}

func (eb *EventBus) PublishViewChanged(view string) {
	eb.Publish(&ViewChangedEvent{BaseEvent: stamp(EventViewChanged), View: view})
}
