package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"calendario/backend/internal/domain"
	"calendario/backend/internal/service/notes"
	"calendario/backend/internal/store"
)

type notesService interface {
	List(ctx context.Context) ([]domain.Note, error)
	Create(ctx context.Context, content string) (domain.Note, error)
	Delete(ctx context.Context, id int64) error
}

type NotesHandler struct {
	svc notesService
	log *slog.Logger
}

func NewNotesHandler(svc notesService, log *slog.Logger) *NotesHandler {
	if log == nil {
		log = slog.Default()
	}
	return &NotesHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.notes")),
	}
}

type noteResponse struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

type createNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *NotesHandler) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.log.Error("notes list failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	out := make([]noteResponse, 0, len(rows))
	for _, n := range rows {
		out = append(out, toNoteResponse(n))
	}
	c.JSON(http.StatusOK, out)
}

func (h *NotesHandler) Create(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	note, err := h.svc.Create(c.Request.Context(), req.Content)
	if err != nil {
		var vErr *notes.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"message": vErr.Error()})
			return
		}
		h.log.Error("note create failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, toNoteResponse(note))
}

func (h *NotesHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "note id must be an integer"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "note not found"})
			return
		}
		var vErr *notes.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"message": vErr.Error()})
			return
		}
		h.log.Error("note delete failed", slog.Any("err", err), slog.Int64("note_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func toNoteResponse(n domain.Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		Content:   n.Content,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
}
