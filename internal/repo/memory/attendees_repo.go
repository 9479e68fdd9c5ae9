package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lmarenco/eventreg/internal/domain/attendee"
	"github.com/lmarenco/eventreg/internal/domain/event"
)

// AttendeesRepo mirrors the postgres repo's semantics, with the mutex
// standing in for the row lock.
type AttendeesRepo struct {
	mu     sync.Mutex
	events *EventsRepo
	items  []attendee.Attendee
}

func NewAttendeesRepo(events *EventsRepo) *AttendeesRepo {
	return &AttendeesRepo{events: events}
}

func (r *AttendeesRepo) Create(_ context.Context, req attendee.CreateAttendeeRequest, now time.Time) (attendee.Attendee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev, ok := r.events.get(req.EventID)

	if !ok {
		return attendee.Attendee{}, event.ErrNotFound
	}

	if r.countLocked(req.EventID) >= ev.MaxCapacity {
		return attendee.Attendee{}, attendee.ErrEventFull
	}

	for _, a := range r.items {
		if a.EventID == req.EventID && a.Email == req.Email {
			return attendee.Attendee{}, attendee.ErrAlreadyRegistered
		}
	}

	att := attendee.NewFromCreateRequest(req, now)
	r.items = append(r.items, att)

	return att, nil
}

func (r *AttendeesRepo) EventExists(_ context.Context, eventID string) (bool, error) {
	_, ok := r.events.get(eventID)
	return ok, nil
}

func (r *AttendeesRepo) CountForEvent(_ context.Context, eventID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.countLocked(eventID), nil
}

func (r *AttendeesRepo) ListPage(_ context.Context, eventID string, limit, offset int) ([]attendee.Attendee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matching := make([]attendee.Attendee, 0)

	for _, a := range r.items {
		if a.EventID == eventID {
			matching = append(matching, a)
		}
	}

	sort.Slice(matching, func(i, j int) bool {
		if matching[i].CreatedOn.Equal(matching[j].CreatedOn) {
			return matching[i].ID < matching[j].ID
		}
		return matching[i].CreatedOn.Before(matching[j].CreatedOn)
	})

	if offset >= len(matching) {
		return []attendee.Attendee{}, nil
	}

	end := offset + limit

	if end > len(matching) {
		end = len(matching)
	}

	return matching[offset:end], nil
}

func (r *AttendeesRepo) countLocked(eventID string) int {
	n := 0

	for _, a := range r.items {
		if a.EventID == eventID {
			n++
		}
	}

	return n
}
