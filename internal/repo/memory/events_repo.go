package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lmarenco/eventreg/internal/domain/event"
)

// EventsRepo is a mutex-guarded map implementation of the events store,
// used by flow-level tests in place of postgres.
type EventsRepo struct {
	mu    sync.RWMutex
	items map[string]event.Event
}

func NewEventsRepo() *EventsRepo {
	return &EventsRepo{
		items: make(map[string]event.Event),
	}
}

func (r *EventsRepo) Create(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Name == e.Name &&
			existing.Location == e.Location &&
			existing.StartTime.Equal(e.StartTime) &&
			existing.EndTime.Equal(e.EndTime) {
			return event.ErrDuplicate
		}
	}

	r.items[e.ID] = e
	return nil
}

func (r *EventsRepo) ListUpcoming(_ context.Context, from time.Time) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]event.Event, 0, len(r.items))

	for _, e := range r.items {
		if !e.StartTime.Before(from) {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})

	return out, nil
}

func (r *EventsRepo) get(id string) (event.Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	return e, ok
}
