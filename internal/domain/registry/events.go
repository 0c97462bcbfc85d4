package registry

// EventKind names a registry change
type EventKind string

const (
	EventInitialized EventKind = "initialized"
	EventCreated     EventKind = "created"
	EventUpdated     EventKind = "updated"
	EventDeleted     EventKind = "deleted"
	EventCleared     EventKind = "cleared"
	EventReloaded    EventKind = "reloaded"
)

// Event describes one change. Count is the list length afterwards.
type Event struct {
	Kind  EventKind `json:"kind"`
	ID    string    `json:"id,omitempty"`
	Count int       `json:"count"`
}

// Subscribe registers fn for every subsequent change and returns a
// function that removes it. fn runs synchronously after the change is
// applied and must not block.
func (r *Registry) Subscribe(fn func(Event)) (unsubscribe func()) {
	r.subMu.Lock()
	key := r.nextSub
	r.nextSub++
	r.subs[key] = fn
	r.subMu.Unlock()

	return func() {
		r.subMu.Lock()
		delete(r.subs, key)
		r.subMu.Unlock()
	}
}

func (r *Registry) notify(ev Event) {
	r.subMu.RLock()
	fns := make([]func(Event), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.subMu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
