package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tendant/simple-signup/pkg/account"
)

type Kind string

const (
	AccountCreated  Kind = "account_created"
	AccountVerified Kind = "account_verified"
)

// Event carries a snapshot of the account at the time it was emitted.
type Event struct {
	Kind       Kind
	Account    account.Account
	OccurredAt time.Time
}

type Listener interface {
	Handle(ctx context.Context, event Event)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(ctx context.Context, event Event)

func (f ListenerFunc) Handle(ctx context.Context, event Event) {
	f(ctx, event)
}

type registration struct {
	id       uint64
	listener Listener
}

// Emitter delivers events to listeners registered per Kind. A nil *Emitter
// drops every event.
type Emitter struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[Kind][]registration
}

func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[Kind][]registration)}
}

// On registers l for kind and returns a function that removes it again.
func (e *Emitter) On(kind Kind, l Listener) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.listeners[kind] = append(e.listeners[kind], registration{id: id, listener: l})

	var once sync.Once
	return func() {
		once.Do(func() { e.remove(kind, id) })
	}
}

func (e *Emitter) remove(kind Kind, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	regs := e.listeners[kind]
	for i, r := range regs {
		if r.id == id {
			// copy so snapshots held by in-flight Emit calls stay intact
			next := make([]registration, 0, len(regs)-1)
			next = append(next, regs[:i]...)
			next = append(next, regs[i+1:]...)
			e.listeners[kind] = next
			return
		}
	}
}

// Emit calls the listeners for event.Kind synchronously, in registration
// order. A panicking listener is logged and the remaining listeners still run.
func (e *Emitter) Emit(ctx context.Context, event Event) {
	if e == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	e.mu.RLock()
	regs := e.listeners[event.Kind]
	e.mu.RUnlock()

	for _, r := range regs {
		e.dispatch(ctx, r.listener, event)
	}
}

func (e *Emitter) dispatch(ctx context.Context, l Listener, event Event) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Event listener panicked", "kind", event.Kind, "account_id", event.Account.ID, "panic", rec)
		}
	}()
	l.Handle(ctx, event)
}

// LogListener logs every event it receives.
func LogListener() Listener {
	return ListenerFunc(func(ctx context.Context, event Event) {
		slog.Info("Signup event",
			"kind", event.Kind,
			"account_id", event.Account.ID,
			"identifier", event.Account.Identifier,
			"occurred_at", event.OccurredAt,
		)
	})
}
