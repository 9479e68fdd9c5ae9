package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lmarenco/eventreg/internal/domain/attendee"
	"github.com/lmarenco/eventreg/internal/domain/event"
	"github.com/lmarenco/eventreg/internal/observability"
)

type AttendeesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAttendeesRepo(pool *pgxpool.Pool, prom *observability.Prom) *AttendeesRepo {
	return &AttendeesRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *AttendeesRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Create runs the whole lookup-count-check-insert sequence in one
// transaction. The event row is locked before counting so concurrent
// registrations near capacity cannot over-admit, and the (event_id, email)
// unique index backstops the duplicate check.
//
// Check order is part of the contract: missing event, then capacity, then
// duplicate email.
func (repo *AttendeesRepo) Create(ctx context.Context, req attendee.CreateAttendeeRequest, now time.Time) (att attendee.Attendee, err error) {
	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{})

	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// 1) lock the event row
	var capacity int

	err = repo.observe("attendees.create.event_lock", func() error {
		return tx.QueryRow(ctx,
			`SELECT max_capacity FROM events WHERE id = $1 FOR UPDATE`,
			req.EventID).Scan(&capacity)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = event.ErrNotFound
		}
		return
	}

	// 2) capacity
	var current int

	err = repo.observe("attendees.create.capacity_check", func() error {
		return tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM attendees WHERE event_id = $1`,
			req.EventID).Scan(&current)
	})

	if err != nil {
		return
	}

	if current >= capacity {
		err = attendee.ErrEventFull
		return
	}

	// 3) duplicate email
	var exists bool

	err = repo.observe("attendees.create.duplicate_check", func() error {
		return tx.QueryRow(ctx, `SELECT EXISTS(
			SELECT 1 FROM attendees
			WHERE event_id = $1 AND email = $2
		)`, req.EventID, req.Email).Scan(&exists)
	})

	if err != nil {
		return
	}

	if exists {
		err = attendee.ErrAlreadyRegistered
		return
	}

	// 4) insert
	att = attendee.NewFromCreateRequest(req, now)

	err = repo.observe("attendees.create.insert", func() error {
		_, e := tx.Exec(ctx, `
		INSERT INTO attendees (id, event_id, name, email, created_on, modified_on)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, att.ID, att.EventID, att.Name, att.Email, att.CreatedOn, att.ModifiedOn)
		return e
	})

	if err != nil {
		if IsUniqueViolation(err, "attendees_event_email_uniq") {
			err = attendee.ErrAlreadyRegistered
		}
		return
	}

	err = tx.Commit(ctx)

	if err != nil {
		return
	}

	return
}

func (repo *AttendeesRepo) EventExists(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := repo.observe("attendees.event_exists", func() error {
		return repo.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists)
	})
	return exists, err
}

func (repo *AttendeesRepo) CountForEvent(ctx context.Context, eventID string) (int, error) {
	var total int
	err := repo.observe("attendees.count_for_event", func() error {
		return repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attendees WHERE event_id = $1`, eventID).Scan(&total)
	})
	return total, err
}

// ListPage returns one offset/limit window of an event's attendees, oldest
// registration first.
func (repo *AttendeesRepo) ListPage(ctx context.Context, eventID string, limit, offset int) (atts []attendee.Attendee, err error) {
	err = repo.observe("attendees.list_page", func() error {
		rows, qerr := repo.pool.Query(ctx,
			`SELECT id, event_id, name, email, created_on, modified_on
			 FROM attendees
			 WHERE event_id = $1
			 ORDER BY created_on ASC, id ASC
			 LIMIT $2 OFFSET $3`,
			eventID, limit, offset)

		if qerr != nil {
			return qerr
		}

		defer rows.Close()

		atts = make([]attendee.Attendee, 0, limit)

		for rows.Next() {
			var a attendee.Attendee

			scanErr := rows.Scan(&a.ID, &a.EventID, &a.Name, &a.Email, &a.CreatedOn, &a.ModifiedOn)

			if scanErr != nil {
				return scanErr
			}

			atts = append(atts, a)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return atts, nil
}
