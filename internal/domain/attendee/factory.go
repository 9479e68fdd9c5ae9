package attendee

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreateAttendeeRequest, now time.Time) Attendee {
	return Attendee{
		ID:         uuid.NewString(),
		EventID:    req.EventID,
		Name:       req.Name,
		Email:      req.Email,
		CreatedOn:  now,
		ModifiedOn: now,
	}
}
