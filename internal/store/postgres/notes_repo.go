package postgres

import (
	"context"

	"github.com/uptrace/bun"

	"calendario/backend/internal/domain"
	"calendario/backend/internal/store"
)

type NoteRepo struct {
	db *bun.DB
}

func NewNoteRepo(db *bun.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

func (r *NoteRepo) ListNotes(ctx context.Context) ([]domain.Note, error) {
	var rows []domain.Note
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *NoteRepo) CreateNote(ctx context.Context, note domain.Note) (domain.Note, error) {
	_, err := r.db.NewInsert().Model(&note).Returning("id, created_at").Exec(ctx)
	if err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func (r *NoteRepo) DeleteNote(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*domain.Note)(nil)).
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
