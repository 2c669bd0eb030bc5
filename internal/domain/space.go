package domain

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

type SpaceStatus string

const (
	SpaceStatusActive   SpaceStatus = "Active"
	SpaceStatusInactive SpaceStatus = "Inactive"
)

// Space is a bookable unit with a capacity: the maximum number of
// appointments allowed to overlap at any instant. Capacity is at least 1.
// Only Active spaces are offered for new bookings.
type Space struct {
	bun.BaseModel `bun:"table:spaces"`

	ID        int64       `bun:"id,pk,autoincrement"`
	Name      string      `bun:"name,notnull"`
	Type      string      `bun:"type,notnull"`
	Capacity  int         `bun:"capacity,notnull"`
	Status    SpaceStatus `bun:"status,notnull"`
	CreatedAt time.Time   `bun:"created_at,notnull"`
	UpdatedAt time.Time   `bun:"updated_at,notnull"`
}

func (s *Space) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if s.Status == "" {
			s.Status = SpaceStatusActive
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		s.UpdatedAt = now
	}
	return nil
}
