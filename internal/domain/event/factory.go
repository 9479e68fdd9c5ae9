package event

import (
	"time"

	"github.com/google/uuid"
)

// New builds a persistable Event from validated params. The caller supplies
// now so creation timestamps stay deterministic under test.
func New(p Params, now time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Name:        p.Name,
		Location:    p.Location,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		MaxCapacity: p.MaxCapacity,
		CreatedOn:   now,
		ModifiedOn:  now,
	}
}
