package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"calendario/backend/internal/domain"
	"calendario/backend/internal/store"
)

type BookingRepo struct {
	db *bun.DB
}

func NewBookingRepo(db *bun.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

type bookingTx struct {
	tx bun.Tx
}

func (r *BookingRepo) FindSpace(ctx context.Context, id int64) (domain.Space, error) {
	return findSpace(ctx, r.db, id)
}

func (r *BookingRepo) FindAppointmentsBySpaceAndDate(ctx context.Context, spaceID int64, date string, excludeID int64) ([]domain.Appointment, error) {
	return findAppointmentsBySpaceAndDate(ctx, r.db, spaceID, date, excludeID)
}

func (r *BookingRepo) ListActiveSpaces(ctx context.Context) ([]domain.Space, error) {
	var rows []domain.Space
	err := r.db.NewSelect().
		Model(&rows).
		Where("status = ?", domain.SpaceStatusActive).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Space").
		OrderExpr("date ASC, start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) FindAppointment(ctx context.Context, id int64) (domain.Appointment, error) {
	var appt domain.Appointment
	err := r.db.NewSelect().
		Model(&appt).
		Where("a.id = ?", id).
		Relation("Space").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Appointment{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (r *BookingRepo) CountSeries(ctx context.Context, seriesID uuid.UUID) (int, error) {
	return countSeries(ctx, r.db, seriesID)
}

func (r *BookingRepo) InSpaceTransaction(ctx context.Context, spaceID int64, fn func(ctx context.Context, tx store.BookingTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockSpace(ctx, tx, spaceID); err != nil {
			return err
		}
		return fn(ctx, bookingTx{tx: tx})
	})
}

// lockSpace serializes booking operations per space for the duration of the
// transaction, so two requests racing for the last capacity slot cannot both
// pass their availability check.
func lockSpace(ctx context.Context, tx bun.Tx, spaceID int64) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(?)", spaceID).Exec(ctx)
	return err
}

func (t bookingTx) FindSpace(ctx context.Context, id int64) (domain.Space, error) {
	return findSpace(ctx, t.tx, id)
}

func (t bookingTx) FindAppointmentsBySpaceAndDate(ctx context.Context, spaceID int64, date string, excludeID int64) ([]domain.Appointment, error) {
	return findAppointmentsBySpaceAndDate(ctx, t.tx, spaceID, date, excludeID)
}

func (t bookingTx) InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	_, err := t.tx.NewInsert().Model(&appt).Returning("id, created_at, updated_at").Exec(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (t bookingTx) UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	res, err := t.tx.NewUpdate().
		Model(&appt).
		Column("title", "client_name", "date", "start_time", "end_time", "space_id", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return appt, nil
}

func (t bookingTx) UpdateSeriesFields(ctx context.Context, seriesID uuid.UUID, fields domain.SeriesFields) (int64, error) {
	res, err := t.tx.NewUpdate().
		Model((*domain.Appointment)(nil)).
		Set("title = ?", fields.Title).
		Set("client_name = ?", fields.ClientName).
		Set("start_time = ?", fields.StartTime).
		Set("end_time = ?", fields.EndTime).
		Set("space_id = ?", fields.SpaceID).
		Set("updated_at = ?", time.Now().UTC()).
		Where("series_id = ?", seriesID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t bookingTx) CountSeries(ctx context.Context, seriesID uuid.UUID) (int, error) {
	return countSeries(ctx, t.tx, seriesID)
}

func (t bookingTx) FindLastInSeries(ctx context.Context, seriesID uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := t.tx.NewSelect().
		Model(&appt).
		Where("series_id = ?", seriesID).
		OrderExpr("date DESC, start_time DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Appointment{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (t bookingTx) DeleteAppointment(ctx context.Context, id int64) error {
	res, err := t.tx.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (t bookingTx) DeleteSeries(ctx context.Context, seriesID uuid.UUID) (int64, error) {
	res, err := t.tx.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("series_id = ?", seriesID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func findSpace(ctx context.Context, db bun.IDB, id int64) (domain.Space, error) {
	var space domain.Space
	err := db.NewSelect().
		Model(&space).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Space{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Space{}, err
	}
	return space, nil
}

func findAppointmentsBySpaceAndDate(ctx context.Context, db bun.IDB, spaceID int64, date string, excludeID int64) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	q := db.NewSelect().
		Model(&rows).
		Where("space_id = ?", spaceID).
		Where("date = ?", date).
		OrderExpr("start_time ASC")
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func countSeries(ctx context.Context, db bun.IDB, seriesID uuid.UUID) (int, error) {
	return db.NewSelect().
		Model((*domain.Appointment)(nil)).
		Where("series_id = ?", seriesID).
		Count(ctx)
}
