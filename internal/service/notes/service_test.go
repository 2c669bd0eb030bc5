package notes

import (
	"context"
	"errors"
	"testing"
	"time"

	"calendario/backend/internal/domain"
	"calendario/backend/internal/store"
)

type fakeNoteRepo struct {
	listFn   func(ctx context.Context) ([]domain.Note, error)
	createFn func(ctx context.Context, note domain.Note) (domain.Note, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (f *fakeNoteRepo) ListNotes(ctx context.Context) ([]domain.Note, error) {
	return f.listFn(ctx)
}

func (f *fakeNoteRepo) CreateNote(ctx context.Context, note domain.Note) (domain.Note, error) {
	return f.createFn(ctx, note)
}

func (f *fakeNoteRepo) DeleteNote(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

func TestCreateTrimsContent(t *testing.T) {
	var stored domain.Note
	repo := &fakeNoteRepo{
		createFn: func(ctx context.Context, note domain.Note) (domain.Note, error) {
			stored = note
			stored.ID = 1
			stored.CreatedAt = time.Now().UTC()
			return stored, nil
		},
	}
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), "  llamar al cliente  ")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.Content != "llamar al cliente" {
		t.Fatalf("content = %q, want trimmed", created.Content)
	}
	if created.ID == 0 {
		t.Fatalf("created note missing id")
	}
}

func TestCreateRejectsEmptyContent(t *testing.T) {
	svc := NewService(&fakeNoteRepo{})

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.Create(context.Background(), content)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Create(%q) error = %v (%T), want *ValidationError", content, err, err)
		}
	}
}

func TestDeleteRequiresID(t *testing.T) {
	svc := NewService(&fakeNoteRepo{})

	err := svc.Delete(context.Background(), 0)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v (%T), want *ValidationError", err, err)
	}
}

func TestDeletePropagatesNotFound(t *testing.T) {
	repo := &fakeNoteRepo{
		deleteFn: func(ctx context.Context, id int64) error {
			return store.ErrNotFound
		},
	}
	svc := NewService(repo)

	if err := svc.Delete(context.Background(), 7); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want store.ErrNotFound", err)
	}
}
