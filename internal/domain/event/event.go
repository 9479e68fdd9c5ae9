package event

import (
	"errors"
	"time"
)

type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	MaxCapacity int       `json:"max_capacity"`
	CreatedOn   time.Time `json:"created_on"`
	ModifiedOn  time.Time `json:"modified_on"`
}

var ErrNotFound = errors.New("Event not found")

// the (name, location, start_time, end_time) tuple is unique across events
var ErrDuplicate = errors.New("Duplicate event with same name, location, start_time, and end_time")

var (
	ErrInvalidFormat       = errors.New("Invalid data format for start_time, end_time, or max_capacity")
	ErrStartNotBeforeEnd   = errors.New("start_time must be earlier than end_time")
	ErrNonPositiveCapacity = errors.New("max_capacity must be a positive integer")
)

// MissingFieldsError reports every absent (or blank) required field at once,
// distinct from format and range failures.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	msg := "Missing required field(s): "

	for i, f := range e.Fields {
		if i > 0 {
			msg += ", "
		}
		msg += f
	}

	return msg
}
