package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"calendario/backend/internal/domain"
)

// SpaceAdminRepo backs the administrative seeding flow. Spaces are created
// by seeding, rarely mutated, and never deleted here.
type SpaceAdminRepo struct {
	db *bun.DB
}

func NewSpaceAdminRepo(db *bun.DB) *SpaceAdminRepo {
	return &SpaceAdminRepo{db: db}
}

func (r *SpaceAdminRepo) ListSpaces(ctx context.Context) ([]domain.Space, error) {
	var rows []domain.Space
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertSpaceByName creates the space unless one with the same name already
// exists, which keeps re-running the seed harmless.
func (r *SpaceAdminRepo) UpsertSpaceByName(ctx context.Context, space domain.Space) (domain.Space, error) {
	var existing domain.Space
	err := r.db.NewSelect().
		Model(&existing).
		Where("name = ?", space.Name).
		Limit(1).
		Scan(ctx)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Space{}, err
	}

	_, err = r.db.NewInsert().Model(&space).Returning("id, created_at, updated_at").Exec(ctx)
	if err != nil {
		return domain.Space{}, err
	}
	return space, nil
}
