package handlers

import (
	"time"

	"github.com/lmarenco/eventreg/internal/domain/attendee"
	"github.com/lmarenco/eventreg/internal/domain/event"
)

// timestamps are rendered in the server's configured zone
const timeLayout = "2006-01-02 15:04:05"

type EventView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	MaxCapacity int    `json:"max_capacity"`
	CreatedOn   string `json:"created_on"`
	Timezone    string `json:"timezone"`
}

type AttendeeView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedOn string `json:"created_on"`
}

func renderLocal(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(timeLayout)
}

func newEventView(e event.Event, loc *time.Location) EventView {
	return EventView{
		ID:          e.ID,
		Name:        e.Name,
		Location:    e.Location,
		StartTime:   renderLocal(e.StartTime, loc),
		EndTime:     renderLocal(e.EndTime, loc),
		MaxCapacity: e.MaxCapacity,
		CreatedOn:   renderLocal(e.CreatedOn, loc),
		Timezone:    loc.String(),
	}
}

func newAttendeeView(a attendee.Attendee, loc *time.Location) AttendeeView {
	return AttendeeView{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		CreatedOn: renderLocal(a.CreatedOn, loc),
	}
}
