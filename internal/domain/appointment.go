package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Appointment is one booking of a space on one calendar date. Date and the
// clock values are stored in their wire forms (YYYY-MM-DD, HH:MM); both are
// fixed-width and zero-padded, so ordering them as text orders them in time.
//
// Members of a weekly series share a SeriesID distinct from any row id; a
// standalone appointment has none. Series membership is therefore a
// structural property, not a self-referencing parent link.
type Appointment struct {
	bun.BaseModel `bun:"table:appointments,alias:a"`

	ID          int64      `bun:"id,pk,autoincrement"`
	Title       string     `bun:"title,notnull"`
	ClientName  string     `bun:"client_name,notnull"`
	Date        string     `bun:"date,notnull"`
	StartTime   string     `bun:"start_time,notnull"`
	EndTime     string     `bun:"end_time,notnull"`
	SpaceID     int64      `bun:"space_id,notnull"`
	Space       *Space     `bun:"rel:belongs-to,join:space_id=id"`
	IsRecurring bool       `bun:"is_recurring,notnull,default:false"`
	SeriesID    *uuid.UUID `bun:"series_id,type:uuid,nullzero"`
	CreatedAt   time.Time  `bun:"created_at,notnull"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull"`

	// SeriesCount is derived, never stored: the number of appointments
	// sharing this one's SeriesID, or 1 for a standalone booking.
	SeriesCount int `bun:"-"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}

// SeriesFields are the attributes every member of a series shares by
// construction. A whole-series edit rewrites exactly these.
type SeriesFields struct {
	Title      string
	ClientName string
	StartTime  string
	EndTime    string
	SpaceID    int64
}
