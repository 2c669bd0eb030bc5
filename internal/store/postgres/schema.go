package postgres

import (
	"context"

	"github.com/uptrace/bun"

	"calendario/backend/internal/domain"
)

// CreateSchema creates the tables and the indexes the booking queries rely
// on. Safe to run repeatedly.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	models := []any{
		(*domain.Space)(nil),
		(*domain.Appointment)(nil),
		(*domain.Note)(nil),
	}
	for _, m := range models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	if _, err := db.NewCreateIndex().
		Model((*domain.Appointment)(nil)).
		Index("appointments_space_date_idx").
		Column("space_id", "date").
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}

	_, err := db.NewCreateIndex().
		Model((*domain.Appointment)(nil)).
		Index("appointments_series_idx").
		Column("series_id").
		IfNotExists().
		Exec(ctx)
	return err
}
