package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lmarenco/eventreg/internal/domain/event"
	"github.com/lmarenco/eventreg/internal/observability"
)

type EventsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewEventsRepo(pool *pgxpool.Pool, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *EventsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *EventsRepo) Create(ctx context.Context, e event.Event) error {
	err := r.observe("events.create", func() error {
		_, execErr := r.pool.Exec(ctx,
			`INSERT INTO events (id, name, location, start_time, end_time, max_capacity, created_on, modified_on)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			e.ID, e.Name, e.Location, e.StartTime, e.EndTime, e.MaxCapacity, e.CreatedOn, e.ModifiedOn)
		return execErr
	})

	if err != nil {
		if IsUniqueViolation(err, "events_name_location_start_end_uniq") {
			return event.ErrDuplicate
		}
		return err
	}

	return nil
}

// ListUpcoming returns events starting at or after from, soonest first.
// The id tiebreak keeps the ordering stable across identical start times.
func (r *EventsRepo) ListUpcoming(ctx context.Context, from time.Time) (events []event.Event, err error) {
	err = r.observe("events.list_upcoming", func() error {
		rows, qerr := r.pool.Query(ctx,
			`SELECT id, name, location, start_time, end_time, max_capacity, created_on, modified_on
			 FROM events
			 WHERE start_time >= $1
			 ORDER BY start_time ASC, id ASC`,
			from)

		if qerr != nil {
			return qerr
		}

		defer rows.Close()

		events = make([]event.Event, 0)

		for rows.Next() {
			var e event.Event

			scanErr := rows.Scan(&e.ID, &e.Name, &e.Location, &e.StartTime, &e.EndTime, &e.MaxCapacity, &e.CreatedOn, &e.ModifiedOn)

			if scanErr != nil {
				return scanErr
			}

			events = append(events, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return events, nil
}
