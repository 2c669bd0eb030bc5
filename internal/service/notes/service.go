package notes

import (
	"context"
	"strings"

	"calendario/backend/internal/domain"
	"calendario/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

type Service struct {
	repo store.NoteRepository
}

func NewService(repo store.NoteRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Note, error) {
	return s.repo.ListNotes(ctx)
}

func (s *Service) Create(ctx context.Context, content string) (domain.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Note{}, &ValidationError{msg: "content is required"}
	}
	return s.repo.CreateNote(ctx, domain.Note{Content: content})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return &ValidationError{msg: "note id is required"}
	}
	return s.repo.DeleteNote(ctx, id)
}
