package store

import (
	"context"

	"github.com/google/uuid"

	"calendario/backend/internal/domain"
)

// AvailabilityReader is the slice of the store an availability check needs.
// Both the repository and its transactional view satisfy it, so a check can
// run standalone or inside a booking transaction.
type AvailabilityReader interface {
	FindSpace(ctx context.Context, id int64) (domain.Space, error)
	// FindAppointmentsBySpaceAndDate returns the appointments booked on one
	// space for one calendar date. excludeID, when non-zero, removes that
	// appointment from the result (editing a booking against itself).
	FindAppointmentsBySpaceAndDate(ctx context.Context, spaceID int64, date string, excludeID int64) ([]domain.Appointment, error)
}

// BookingTx is the transactional view handed to multi-step booking
// operations. Everything invoked through it commits or rolls back as one
// unit, serialized per space by the repository.
type BookingTx interface {
	AvailabilityReader

	InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	UpdateSeriesFields(ctx context.Context, seriesID uuid.UUID, fields domain.SeriesFields) (int64, error)
	CountSeries(ctx context.Context, seriesID uuid.UUID) (int, error)
	FindLastInSeries(ctx context.Context, seriesID uuid.UUID) (domain.Appointment, error)
	DeleteAppointment(ctx context.Context, id int64) error
	DeleteSeries(ctx context.Context, seriesID uuid.UUID) (int64, error)
}

type BookingRepository interface {
	AvailabilityReader

	ListActiveSpaces(ctx context.Context) ([]domain.Space, error)
	ListAppointments(ctx context.Context) ([]domain.Appointment, error)
	FindAppointment(ctx context.Context, id int64) (domain.Appointment, error)
	CountSeries(ctx context.Context, seriesID uuid.UUID) (int, error)

	// InSpaceTransaction runs fn inside one database transaction holding an
	// advisory lock on the space, so concurrent booking operations against
	// the same space cannot interleave between an availability check and
	// its write.
	InSpaceTransaction(ctx context.Context, spaceID int64, fn func(ctx context.Context, tx BookingTx) error) error
}

type NoteRepository interface {
	ListNotes(ctx context.Context) ([]domain.Note, error)
	CreateNote(ctx context.Context, note domain.Note) (domain.Note, error)
	DeleteNote(ctx context.Context, id int64) error
}

type SpaceAdminRepository interface {
	ListSpaces(ctx context.Context) ([]domain.Space, error)
	UpsertSpaceByName(ctx context.Context, space domain.Space) (domain.Space, error)
}
