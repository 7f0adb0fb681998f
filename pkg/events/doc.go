// Package events lets callers observe account lifecycle changes.
//
// Listeners register explicitly per Kind:
//
//	emitter := events.NewEmitter()
//	unsubscribe := emitter.On(events.AccountVerified, events.ListenerFunc(
//	    func(ctx context.Context, ev events.Event) {
//	        // provision the account elsewhere
//	    }))
//	defer unsubscribe()
//
// Emit runs listeners synchronously on the caller's goroutine.
package events
