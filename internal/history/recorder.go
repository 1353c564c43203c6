package history

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"docgrip/internal/eventbus"
)

const writeTimeout = 5 * time.Second

// Recorder saves every submitted query to a Store
type Recorder struct {
	store       *Store
	bus         eventbus.EventBus
	keep        int
	log         zerolog.Logger
	unsubscribe func()

	// mu is held for each write so Close can wait for the one in progress
	mu     sync.Mutex
	closed bool
}

// NewRecorder subscribes to submitted searches on bus. When keep is positive
// the store is trimmed to that many entries after each write. Failed writes
// are published as ErrorEvents.
func NewRecorder(store *Store, bus eventbus.EventBus, keep int, log zerolog.Logger) *Recorder {
	r := &Recorder{
		store: store,
		bus:   bus,
		keep:  keep,
		log:   log.With().Str("component", "history").Logger(),
	}
	r.unsubscribe = bus.Subscribe(eventbus.EventSearchSubmitted, r.handle)
	return r
}

func (r *Recorder) handle(e eventbus.DomainEvent) {
	ev, ok := e.(eventbus.SearchSubmittedEvent)
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := r.store.Add(ctx, ev.Query, ev.At); err != nil {
		r.log.Warn().Err(err).Uint64("seq", ev.Seq).Msg("Failed to record query")
		r.bus.Publish(eventbus.ErrorEvent{Message: "could not save query to history", Err: err})
		return
	}
	if r.keep > 0 {
		if n, err := r.store.Trim(ctx, r.keep); err != nil {
			r.log.Warn().Err(err).Msg("Failed to trim history")
		} else if n > 0 {
			r.log.Debug().Int64("removed", n).Msg("Trimmed history")
		}
	}
}

// Close stops recording and waits for a write in progress. The store stays
// open; closing it is up to the caller.
func (r *Recorder) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}
