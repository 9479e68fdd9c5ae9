package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmarenco/eventreg/internal/clock"
	"github.com/lmarenco/eventreg/internal/config"
	"github.com/lmarenco/eventreg/internal/domain/attendee"
	"github.com/lmarenco/eventreg/internal/domain/event"
	"github.com/lmarenco/eventreg/internal/utils"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
)

type AttendeesStore interface {
	Create(ctx context.Context, req attendee.CreateAttendeeRequest, now time.Time) (attendee.Attendee, error)
	EventExists(ctx context.Context, eventID string) (bool, error)
	CountForEvent(ctx context.Context, eventID string) (int, error)
	ListPage(ctx context.Context, eventID string, limit, offset int) ([]attendee.Attendee, error)
}

type AttendeesHandler struct {
	repo AttendeesStore
	clk  clock.Clock
	loc  *time.Location
}

func NewAttendeesHandler(repo AttendeesStore, clk clock.Clock, loc *time.Location) *AttendeesHandler {
	return &AttendeesHandler{
		repo: repo,
		clk:  clk,
		loc:  loc,
	}
}

func (h *AttendeesHandler) Register(ctx *gin.Context) {
	eventID := ctx.Param("id")

	// a malformed id references no event
	if !utils.IsUUID(eventID) {
		RespondNotFound(ctx, event.ErrNotFound.Error())
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	// a missing event wins over any problem with the body, so the lookup
	// comes first; the create transaction re-checks under the row lock
	exists, err := h.repo.EventExists(cctx, eventID)

	if err != nil {
		RespondBadRequest(ctx, err.Error())
		return
	}

	if !exists {
		RespondNotFound(ctx, event.ErrNotFound.Error())
		return
	}

	var req attendee.CreateAttendeeRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// URL param is the source of truth
	req.EventID = eventID

	att, err := h.repo.Create(cctx, req, h.clk.Now())

	if err != nil {
		switch {
		case errors.Is(err, event.ErrNotFound):
			RespondNotFound(ctx, event.ErrNotFound.Error())
		case errors.Is(err, attendee.ErrEventFull):
			RespondBadRequest(ctx, attendee.ErrEventFull.Error())
		case errors.Is(err, attendee.ErrAlreadyRegistered):
			RespondBadRequest(ctx, attendee.ErrAlreadyRegistered.Error())
		default:
			RespondBadRequest(ctx, err.Error())
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"id":      att.ID,
		"message": "Registration successful",
	})
}

func (h *AttendeesHandler) ListForEvent(ctx *gin.Context) {
	eventID := ctx.Param("id")

	page, err := strconv.Atoi(ctx.DefaultQuery("page", strconv.Itoa(defaultPage)))

	if err != nil {
		RespondBadRequest(ctx, "page must be an integer")
		return
	}

	perPage, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultPerPage)))

	if err != nil {
		RespondBadRequest(ctx, "limit must be an integer")
		return
	}

	if perPage < 1 {
		RespondBadRequest(ctx, "limit must be a positive integer")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	// an unknown (or malformed) event id behaves as an event with zero
	// attendees: zero pages, every page request out of range
	count := 0

	if utils.IsUUID(eventID) {
		count, err = h.repo.CountForEvent(cctx, eventID)

		if err != nil {
			RespondBadRequest(ctx, err.Error())
			return
		}
	}

	totalPages := TotalPages(count, perPage)

	if page < 1 || page > totalPages {
		RespondBadRequest(ctx, (&attendee.PageOutOfRangeError{Page: page, TotalPages: totalPages}).Error())
		return
	}

	atts, err := h.repo.ListPage(cctx, eventID, perPage, (page-1)*perPage)

	if err != nil {
		RespondBadRequest(ctx, err.Error())
		return
	}

	views := make([]AttendeeView, 0, len(atts))

	for _, a := range atts {
		views = append(views, newAttendeeView(a, h.loc))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"attendees":    views,
		"total_pages":  totalPages,
		"current_page": page,
		"count":        count,
		"next_page":    NextPage(page, totalPages),
		"prev_page":    PrevPage(page),
	})
}
