package sqldb

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"day-planner/internal/domain"
	"day-planner/internal/errors"
)

const eventColumns = `id, user_id, name, date, starttime, endtime, type, xposition, width,
	backgroundcolor, color, recurring, recurringdays, recurringeventid, overlaytext`

const upsertEventQuery = `
	INSERT INTO events (` + eventColumns + `, updated_at)
	VALUES (:id, :user_id, :name, :date, :starttime, :endtime, :type, :xposition, :width,
		:backgroundcolor, :color, :recurring, :recurringdays, :recurringeventid, :overlaytext, CURRENT_TIMESTAMP)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		date = excluded.date,
		starttime = excluded.starttime,
		endtime = excluded.endtime,
		type = excluded.type,
		xposition = excluded.xposition,
		width = excluded.width,
		backgroundcolor = excluded.backgroundcolor,
		color = excluded.color,
		recurring = excluded.recurring,
		recurringdays = excluded.recurringdays,
		recurringeventid = excluded.recurringeventid,
		overlaytext = excluded.overlaytext,
		updated_at = CURRENT_TIMESTAMP
	WHERE events.user_id = excluded.user_id`

// LoadEvents returns every stored event of the user ordered by date and
// start time.
func (r *SQLRepository) LoadEvents(ctx context.Context, userID string) ([]domain.EventRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	ctx, cancel := r.readContext(ctx)
	defer cancel()

	query := `
	SELECT ` + eventColumns + `
	FROM events
	WHERE user_id = ?
	ORDER BY date ASC, starttime ASC, id ASC`

	return QueryMultiple[domain.EventRecord](ctx, r.db, query, "events", userID)
}

// SaveEvents upserts the records by id in one transaction. Either every
// record is written or none is. A record whose id belongs to another user
// aborts the batch with a conflict error.
func (r *SQLRepository) SaveEvents(ctx context.Context, userID string, records []domain.EventRecord) ([]domain.EventRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []domain.EventRecord{}, nil
	}
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	saved := make([]domain.EventRecord, len(records))
	err := InTx(ctx, r.db, "save events", func(tx *sqlx.Tx) error {
		for i, rec := range records {
			if rec.ID == "" {
				rec.ID = newID()
			}
			rec.UserID = userID

			result, err := tx.NamedExecContext(ctx, upsertEventQuery, rec)
			if err != nil {
				return err
			}
			n, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return errors.NewConflictError("event", fmt.Sprintf("id %s is owned by another user", rec.ID))
			}
			saved[i] = rec
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debugw("saved events", "user_id", userID, "count", len(saved))
	return saved, nil
}

// DeleteEvents removes the user's events with the given ids in one
// transaction and returns how many rows were deleted.
func (r *SQLRepository) DeleteEvents(ctx context.Context, userID string, ids []string) (int64, error) {
	if err := requireUser(userID); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	query, args, err := sqlx.In(`DELETE FROM events WHERE user_id = ? AND id IN (?)`, userID, ids)
	if err != nil {
		return 0, HandleDatabaseError("build delete events", err)
	}

	var deleted int64
	err = InTx(ctx, r.db, "delete events", func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		if err != nil {
			return err
		}
		deleted, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}

	r.logger.Debugw("deleted events", "user_id", userID, "requested", len(ids), "deleted", deleted)
	return deleted, nil
}
