package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmarenco/eventreg/internal/cache"
	"github.com/lmarenco/eventreg/internal/clock"
	"github.com/lmarenco/eventreg/internal/config"
	"github.com/lmarenco/eventreg/internal/domain/event"
	"github.com/lmarenco/eventreg/internal/observability"
	"github.com/lmarenco/eventreg/internal/utils"
)

type EventsStore interface {
	Create(ctx context.Context, e event.Event) error
	ListUpcoming(ctx context.Context, from time.Time) ([]event.Event, error)
}

type EventsHandler struct {
	repo  EventsStore
	clk   clock.Clock
	loc   *time.Location
	store cache.Store
	prom  *observability.Prom
}

func NewEventsHandler(repo EventsStore, clk clock.Clock, loc *time.Location, store cache.Store, prom *observability.Prom) *EventsHandler {
	return &EventsHandler{
		repo:  repo,
		clk:   clk,
		loc:   loc,
		store: store,
		prom:  prom,
	}
}

func (h *EventsHandler) CreateEvent(ctx *gin.Context) {
	var req event.CreateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// all absent fields are reported in one message, before any format check
	if missing := req.MissingFields(); len(missing) > 0 {
		RespondUnprocessable(ctx, (&event.MissingFieldsError{Fields: missing}).Error())
		return
	}

	params, err := req.Parse(h.loc)

	if err != nil {
		RespondBadRequest(ctx, err.Error())
		return
	}

	e := event.New(params, h.clk.Now())

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err = h.repo.Create(cctx, e)

	if err != nil {
		if errors.Is(err, event.ErrDuplicate) {
			RespondBadRequest(ctx, event.ErrDuplicate.Error())
			return
		}

		RespondBadRequest(ctx, err.Error())
		return
	}

	h.invalidateUpcoming(cctx)

	ctx.JSON(http.StatusCreated, gin.H{
		"id":      e.ID,
		"message": "Event created",
	})
}

func (h *EventsHandler) ListUpcoming(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	now := h.clk.Now()
	key := utils.BuildUpcomingEventsCacheKey(h.loc.String(), now)

	if h.store != nil {
		cached, ok, err := h.store.Get(cctx, key)

		if err == nil && ok {
			if h.prom != nil {
				h.prom.CacheHits.WithLabelValues("events_upcoming").Inc()
			}
			RespondJSONBytesWithETag(ctx, http.StatusOK, cached)
			return
		}

		if h.prom != nil {
			h.prom.CacheMisses.WithLabelValues("events_upcoming").Inc()
		}
	}

	events, err := h.repo.ListUpcoming(cctx, now)

	if err != nil {
		RespondInternal(ctx, err.Error())
		return
	}

	views := make([]EventView, 0, len(events))

	for _, e := range events {
		views = append(views, newEventView(e, h.loc))
	}

	body, err := json.Marshal(views)

	if err != nil {
		RespondInternal(ctx, err.Error())
		return
	}

	if h.store != nil {
		// best effort; a failed cache write must not fail the request
		_ = h.store.Set(cctx, key, body)
	}

	RespondJSONBytesWithETag(ctx, http.StatusOK, body)
}

func (h *EventsHandler) invalidateUpcoming(ctx context.Context) {
	if h.store == nil {
		return
	}

	_ = h.store.Delete(ctx, utils.BuildUpcomingEventsCacheKey(h.loc.String(), h.clk.Now()))
}
