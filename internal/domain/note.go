package domain

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Note is a free-text sidebar entry, unrelated to spaces or appointments.
type Note struct {
	bun.BaseModel `bun:"table:notes"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Content   string    `bun:"content,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

func (n *Note) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	return nil
}
