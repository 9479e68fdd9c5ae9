package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmarenco/eventreg/internal/cache"
	"github.com/lmarenco/eventreg/internal/clock"
	"github.com/lmarenco/eventreg/internal/domain/event"
	"github.com/lmarenco/eventreg/internal/http/handlers"
)

// keep gin quiet during tests
func init() {
	gin.SetMode(gin.TestMode)
}

type fakeEventsRepo struct {
	createFn func(ctx context.Context, e event.Event) error
	listFn   func(ctx context.Context, from time.Time) ([]event.Event, error)

	createCalls int
	listCalls   int
}

func (f *fakeEventsRepo) Create(ctx context.Context, e event.Event) error {
	f.createCalls++
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeEventsRepo) ListUpcoming(ctx context.Context, from time.Time) ([]event.Event, error) {
	f.listCalls++
	if f.listFn != nil {
		return f.listFn(ctx, from)
	}
	return []event.Event{}, nil
}

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func errBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("could not decode error body %q: %v", w.Body.String(), err)
	}

	return body.Error
}

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newEventsHandler(repo *fakeEventsRepo, store cache.Store) *handlers.EventsHandler {
	return handlers.NewEventsHandler(repo, clock.Fixed{At: testNow}, time.UTC, store, nil)
}

func TestCreateEvent(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakeEventsRepo)
		wantStatusCode int
		wantErr        string
	}{
		{
			name: "success",
			body: `{
				"name": "Go Meetup",
				"location": "Toronto",
				"start_time": "2026-09-10T18:00:00Z",
				"end_time": "2026-09-10T20:00:00Z",
				"max_capacity": 50
			}`,
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "string_capacity_accepted",
			body: `{
				"name": "Go Meetup",
				"location": "Toronto",
				"start_time": "2026-09-10T18:00:00Z",
				"end_time": "2026-09-10T20:00:00Z",
				"max_capacity": "50"
			}`,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "missing_fields_reported_together",
			body:           `{"location": "Toronto", "start_time": "2026-09-10T18:00:00Z", "end_time": "2026-09-10T20:00:00Z"}`,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantErr:        "Missing required field(s): name, max_capacity",
		},
		{
			name: "unparseable_datetime",
			body: `{
				"name": "Go Meetup",
				"location": "Toronto",
				"start_time": "not a date",
				"end_time": "2026-09-10T20:00:00Z",
				"max_capacity": 50
			}`,
			wantStatusCode: http.StatusBadRequest,
			wantErr:        "Invalid data format for start_time, end_time, or max_capacity",
		},
		{
			name: "start_not_before_end",
			body: `{
				"name": "Go Meetup",
				"location": "Toronto",
				"start_time": "2026-09-10T20:00:00Z",
				"end_time": "2026-09-10T18:00:00Z",
				"max_capacity": 50
			}`,
			wantStatusCode: http.StatusBadRequest,
			wantErr:        "start_time must be earlier than end_time",
		},
		{
			name: "zero_capacity",
			body: `{
				"name": "Go Meetup",
				"location": "Toronto",
				"start_time": "2026-09-10T18:00:00Z",
				"end_time": "2026-09-10T20:00:00Z",
				"max_capacity": 0
			}`,
			wantStatusCode: http.StatusBadRequest,
			wantErr:        "max_capacity must be a positive integer",
		},
		{
			name: "duplicate_event",
			body: `{
				"name": "Go Meetup",
				"location": "Toronto",
				"start_time": "2026-09-10T18:00:00Z",
				"end_time": "2026-09-10T20:00:00Z",
				"max_capacity": 50
			}`,
			repoSetUp: func(f *fakeEventsRepo) {
				f.createFn = func(ctx context.Context, e event.Event) error {
					return event.ErrDuplicate
				}
			},
			wantStatusCode: http.StatusBadRequest,
			wantErr:        "Duplicate event with same name, location, start_time, and end_time",
		},
		{
			name: "repo_error_echoed",
			body: `{
				"name": "Go Meetup",
				"location": "Toronto",
				"start_time": "2026-09-10T18:00:00Z",
				"end_time": "2026-09-10T20:00:00Z",
				"max_capacity": 50
			}`,
			repoSetUp: func(f *fakeEventsRepo) {
				f.createFn = func(ctx context.Context, e event.Event) error {
					return errors.New("db exploded")
				}
			},
			wantStatusCode: http.StatusBadRequest,
			wantErr:        "db exploded",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeEventsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := newEventsHandler(repo, nil)

			r := setupRouter(http.MethodPost, "/events", h.CreateEvent)

			req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantErr != "" {
				if got := errBody(t, w); got != tt.wantErr {
					t.Fatalf("got error %q, want %q", got, tt.wantErr)
				}
			}

			if tt.wantStatusCode == http.StatusCreated {
				var body struct {
					ID      string `json:"id"`
					Message string `json:"message"`
				}

				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode create body: %v", err)
				}

				if body.ID == "" || body.Message != "Event created" {
					t.Fatalf("unexpected create body: %s", w.Body.String())
				}
			}
		})
	}
}

func TestCreateEventStampsClock(t *testing.T) {
	repo := &fakeEventsRepo{}

	var got event.Event

	repo.createFn = func(ctx context.Context, e event.Event) error {
		got = e
		return nil
	}

	h := newEventsHandler(repo, nil)
	r := setupRouter(http.MethodPost, "/events", h.CreateEvent)

	body := `{
		"name": "Go Meetup",
		"location": "Toronto",
		"start_time": "2026-09-10T18:00:00Z",
		"end_time": "2026-09-10T20:00:00Z",
		"max_capacity": 50
	}`

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if !got.CreatedOn.Equal(testNow) || !got.ModifiedOn.Equal(testNow) {
		t.Fatalf("timestamps %v/%v, want %v", got.CreatedOn, got.ModifiedOn, testNow)
	}
}

func TestListUpcomingRendersLocalTimes(t *testing.T) {
	repo := &fakeEventsRepo{}

	repo.listFn = func(ctx context.Context, from time.Time) ([]event.Event, error) {
		if !from.Equal(testNow) {
			t.Fatalf("from = %v, want clock now %v", from, testNow)
		}

		return []event.Event{
			{
				ID:          "id-1",
				Name:        "Go Meetup",
				Location:    "Toronto",
				StartTime:   time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC),
				EndTime:     time.Date(2026, 9, 10, 20, 0, 0, 0, time.UTC),
				MaxCapacity: 50,
				CreatedOn:   testNow,
				ModifiedOn:  testNow,
			},
		}, nil
	}

	h := newEventsHandler(repo, nil)
	r := setupRouter(http.MethodGet, "/events", h.ListUpcoming)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var views []struct {
		ID        string `json:"id"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
		CreatedOn string `json:"created_on"`
		Timezone  string `json:"timezone"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode listing: %v", err)
	}

	if len(views) != 1 {
		t.Fatalf("got %d events, want 1", len(views))
	}

	v := views[0]

	if v.StartTime != "2026-09-10 18:00:00" || v.EndTime != "2026-09-10 20:00:00" {
		t.Fatalf("unexpected rendered times: %+v", v)
	}

	if v.CreatedOn != "2026-09-01 12:00:00" || v.Timezone != "UTC" {
		t.Fatalf("unexpected created_on/timezone: %+v", v)
	}
}

func TestListUpcomingEmpty(t *testing.T) {
	h := newEventsHandler(&fakeEventsRepo{}, nil)
	r := setupRouter(http.MethodGet, "/events", h.ListUpcoming)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}

	if w.Body.String() != "[]" {
		t.Fatalf("got body %q, want empty array", w.Body.String())
	}
}

func TestListUpcomingServedFromCache(t *testing.T) {
	repo := &fakeEventsRepo{}
	store := cache.NewMemory(time.Minute)

	h := newEventsHandler(repo, store)
	r := setupRouter(http.MethodGet, "/events", h.ListUpcoming)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}

	if repo.listCalls != 1 {
		t.Fatalf("repo queried %d times, want 1 (cache should serve repeats)", repo.listCalls)
	}
}

func TestListUpcomingETag(t *testing.T) {
	h := newEventsHandler(&fakeEventsRepo{}, nil)
	r := setupRouter(http.MethodGet, "/events", h.ListUpcoming)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	etag := w.Header().Get("ETag")

	if etag == "" {
		t.Fatal("expected an ETag header")
	}

	req = httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotModified {
		t.Fatalf("got status %d, want 304", w.Code)
	}
}

// stepClock is advanced by hand mid-test.
type stepClock struct {
	at time.Time
}

func (c *stepClock) Now() time.Time {
	return c.at
}

func TestListUpcomingCacheWindowRollsOver(t *testing.T) {
	start := testNow.Add(30 * time.Minute)

	repo := &fakeEventsRepo{}
	repo.listFn = func(ctx context.Context, from time.Time) ([]event.Event, error) {
		if start.Before(from) {
			return []event.Event{}, nil
		}

		return []event.Event{
			{
				ID:          "id-1",
				Name:        "Go Meetup",
				Location:    "Toronto",
				StartTime:   start,
				EndTime:     start.Add(2 * time.Hour),
				MaxCapacity: 50,
				CreatedOn:   testNow,
				ModifiedOn:  testNow,
			},
		}, nil
	}

	clk := &stepClock{at: testNow}

	// TTL far beyond the clock jump: a fresh read must come from the key
	// window rolling over, not from entry expiry
	h := handlers.NewEventsHandler(repo, clk, time.UTC, cache.NewMemory(24*time.Hour), nil)
	r := setupRouter(http.MethodGet, "/events", h.ListUpcoming)

	listEvents := func() []struct {
		ID string `json:"id"`
	} {
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status %d, body=%s", w.Code, w.Body.String())
		}

		var views []struct {
			ID string `json:"id"`
		}

		if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
			t.Fatalf("decode listing: %v", err)
		}

		return views
	}

	if got := listEvents(); len(got) != 1 {
		t.Fatalf("before start: got %d events, want 1", len(got))
	}

	// the event has started by now; the cached body from the earlier
	// window must not be served
	clk.at = testNow.Add(time.Hour)

	if got := listEvents(); len(got) != 0 {
		t.Fatalf("after start: got %d events, want 0 (started event served from cache)", len(got))
	}

	if repo.listCalls != 2 {
		t.Fatalf("repo queried %d time(s), want 2 (one per key window)", repo.listCalls)
	}
}
