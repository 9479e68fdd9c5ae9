package attendee

import (
	"errors"
	"fmt"
	"time"
)

type Attendee struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CreatedOn  time.Time `json:"created_on"`
	ModifiedOn time.Time `json:"modified_on"`
}

var ErrAlreadyRegistered = errors.New("Attendee already registered")
var ErrEventFull = errors.New("Event is full")

type CreateAttendeeRequest struct {
	EventID string `json:"-"`
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
}

// PageOutOfRangeError carries the requested page and how many pages actually
// exist; an event with zero attendees has zero pages, so even page 1 is out
// of range for it.
type PageOutOfRangeError struct {
	Page       int
	TotalPages int
}

func (e *PageOutOfRangeError) Error() string {
	return fmt.Sprintf("Page %d out of range. Only %d page(s) available.", e.Page, e.TotalPages)
}
