package bookings

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"calendario/backend/internal/domain"
	"calendario/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// CapacityError rejects a booking because the space has no capacity left on
// a specific date. For a series operation, Staged is the number of
// occurrences written earlier in the same operation; the surrounding
// transaction rolls those back, so nothing is left behind.
type CapacityError struct {
	Date   string
	Staged int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("space has no capacity left on %s", e.Date)
}

type Service struct {
	repo  store.BookingRepository
	rules domain.RangeRules
}

func NewService(repo store.BookingRepository, rules domain.RangeRules) *Service {
	if rules.StepMinutes <= 0 {
		rules.StepMinutes = domain.DefaultRangeRules().StepMinutes
	}
	if rules.MinDurationMinutes <= 0 {
		rules.MinDurationMinutes = domain.DefaultRangeRules().MinDurationMinutes
	}
	return &Service{repo: repo, rules: rules}
}

// ValidateRange applies the configured step and minimum-duration rules.
func (s *Service) ValidateRange(startTime, endTime string) error {
	return s.rules.ValidateRange(startTime, endTime)
}

// CheckAvailability reports whether [startTime,endTime) on the given date
// can still be booked against the space's capacity. excludeID, when
// non-zero, removes that appointment from the overlap count so an edit is
// not blocked by its own current slot.
func (s *Service) CheckAvailability(ctx context.Context, spaceID int64, date, startTime, endTime string, excludeID int64) (bool, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return false, validationError("date must be YYYY-MM-DD")
	}
	if _, err := domain.MinuteOfDay(startTime); err != nil {
		return false, validationError("start_time must be HH:MM")
	}
	if _, err := domain.MinuteOfDay(endTime); err != nil {
		return false, validationError("end_time must be HH:MM")
	}
	return isAvailable(ctx, s.repo, spaceID, date, startTime, endTime, excludeID)
}

// isAvailable is the capacity-counting check: the proposed range is bookable
// iff strictly fewer than capacity existing appointments overlap it under
// half-open semantics. Capacity is re-read on every call.
func isAvailable(ctx context.Context, src store.AvailabilityReader, spaceID int64, date, startTime, endTime string, excludeID int64) (bool, error) {
	space, err := src.FindSpace(ctx, spaceID)
	if err != nil {
		return false, err
	}

	appts, err := src.FindAppointmentsBySpaceAndDate(ctx, spaceID, date, excludeID)
	if err != nil {
		return false, err
	}

	overlapping := 0
	for _, a := range appts {
		if domain.Overlaps(startTime, endTime, a.StartTime, a.EndTime) {
			overlapping++
		}
	}
	return overlapping < space.Capacity, nil
}

// SeriesTemplate carries the fields every occurrence of a series shares.
type SeriesTemplate struct {
	Title      string
	ClientName string
	StartTime  string
	EndTime    string
	SpaceID    int64
}

type CreateInput struct {
	Title      string
	ClientName string
	Date       string
	StartTime  string
	EndTime    string
	SpaceID    int64
	Recurring  bool
	Weeks      int
}

// Create books a single appointment, or a weekly series when Recurring is
// set with Weeks > 1. The whole series shares one fresh series id and is
// written inside one per-space transaction: a capacity conflict on any
// occurrence rolls everything back. Created appointments are returned in
// chronological order.
func (s *Service) Create(ctx context.Context, in CreateInput) ([]domain.Appointment, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	client := strings.TrimSpace(in.ClientName)
	if client == "" {
		return nil, validationError("client_name is required")
	}
	if in.SpaceID == 0 {
		return nil, validationError("space_id is required")
	}
	date, err := domain.ParseDate(in.Date)
	if err != nil {
		return nil, validationError("date must be YYYY-MM-DD")
	}
	if err := s.rules.ValidateRange(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	weeks := in.Weeks
	if weeks == 0 || !in.Recurring {
		weeks = 1
	}
	if weeks < 1 {
		return nil, validationError("weeks must be at least 1")
	}

	space, err := s.repo.FindSpace(ctx, in.SpaceID)
	if err != nil {
		return nil, err
	}
	if space.Status != domain.SpaceStatusActive {
		return nil, validationError("space is not open for booking")
	}

	var created []domain.Appointment
	err = s.repo.InSpaceTransaction(ctx, in.SpaceID, func(ctx context.Context, tx store.BookingTx) error {
		ok, err := isAvailable(ctx, tx, in.SpaceID, date.String(), in.StartTime, in.EndTime, 0)
		if err != nil {
			return err
		}
		if !ok {
			return &CapacityError{Date: date.String()}
		}

		var seriesID *uuid.UUID
		if in.Recurring && weeks > 1 {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			seriesID = &id
		}

		first, err := tx.InsertAppointment(ctx, domain.Appointment{
			Title:       title,
			ClientName:  client,
			Date:        date.String(),
			StartTime:   in.StartTime,
			EndTime:     in.EndTime,
			SpaceID:     in.SpaceID,
			IsRecurring: in.Recurring,
			SeriesID:    seriesID,
		})
		if err != nil {
			return err
		}
		created = append(created, first)

		if seriesID != nil {
			tmpl := SeriesTemplate{
				Title:      title,
				ClientName: client,
				StartTime:  in.StartTime,
				EndTime:    in.EndTime,
				SpaceID:    in.SpaceID,
			}
			rest, err := generateSeries(ctx, tx, tmpl, date.NextWeek(), weeks-1, *seriesID, 1)
			if err != nil {
				return err
			}
			created = append(created, rest...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateSeries appends occurrenceCount weekly occurrences to an existing
// series, starting at startDate, inside one per-space transaction.
func (s *Service) CreateSeries(ctx context.Context, tmpl SeriesTemplate, startDate string, occurrenceCount int, seriesID uuid.UUID) ([]domain.Appointment, error) {
	if occurrenceCount < 1 {
		return nil, validationError("occurrence count must be at least 1")
	}
	first, err := domain.ParseDate(startDate)
	if err != nil {
		return nil, validationError("start date must be YYYY-MM-DD")
	}
	if err := s.rules.ValidateRange(tmpl.StartTime, tmpl.EndTime); err != nil {
		return nil, err
	}

	var created []domain.Appointment
	err = s.repo.InSpaceTransaction(ctx, tmpl.SpaceID, func(ctx context.Context, tx store.BookingTx) error {
		created, err = generateSeries(ctx, tx, tmpl, first, occurrenceCount, seriesID, 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// generateSeries persists occurrenceCount occurrences dated startDate,
// startDate+7, startDate+14, ... Each occurrence's availability is
// re-checked immediately before its own insert; the first conflict aborts
// with the offending date and the transaction discards the staged rows.
// staged counts occurrences written earlier in the same logical operation.
func generateSeries(ctx context.Context, tx store.BookingTx, tmpl SeriesTemplate, startDate domain.Date, occurrenceCount int, seriesID uuid.UUID, staged int) ([]domain.Appointment, error) {
	created := make([]domain.Appointment, 0, occurrenceCount)
	for i := 0; i < occurrenceCount; i++ {
		date := startDate.AddDays(7 * i)

		ok, err := isAvailable(ctx, tx, tmpl.SpaceID, date.String(), tmpl.StartTime, tmpl.EndTime, 0)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &CapacityError{Date: date.String(), Staged: staged + len(created)}
		}

		appt, err := tx.InsertAppointment(ctx, domain.Appointment{
			Title:       tmpl.Title,
			ClientName:  tmpl.ClientName,
			Date:        date.String(),
			StartTime:   tmpl.StartTime,
			EndTime:     tmpl.EndTime,
			SpaceID:     tmpl.SpaceID,
			IsRecurring: true,
			SeriesID:    &seriesID,
		})
		if err != nil {
			return nil, err
		}
		created = append(created, appt)
	}
	return created, nil
}

type UpdateInput struct {
	ID            int64
	Title         string
	ClientName    string
	Date          string
	StartTime     string
	EndTime       string
	SpaceID       int64
	EditAllSeries bool
	// Weeks is the goal size of the series when editing all members. A goal
	// at or below the current member count leaves membership unchanged.
	Weeks int
}

type UpdateResult struct {
	// SeriesEdit reports which path ran.
	SeriesEdit bool
	// Updated is the rewritten appointment on a single edit.
	Updated domain.Appointment
	// MembersUpdated and Appended describe a whole-series edit.
	MembersUpdated int64
	Appended       []domain.Appointment
}

// Update rewrites one appointment, or — when EditAllSeries is set and the
// appointment belongs to a series — rewrites the shared fields of every
// member and extends the series to the goal week count. Extension appends
// occurrences after the chronologically last member; it never shortens.
func (s *Service) Update(ctx context.Context, in UpdateInput) (UpdateResult, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return UpdateResult{}, validationError("title is required")
	}
	client := strings.TrimSpace(in.ClientName)
	if client == "" {
		return UpdateResult{}, validationError("client_name is required")
	}
	if in.SpaceID == 0 {
		return UpdateResult{}, validationError("space_id is required")
	}
	if err := s.rules.ValidateRange(in.StartTime, in.EndTime); err != nil {
		return UpdateResult{}, err
	}

	original, err := s.repo.FindAppointment(ctx, in.ID)
	if err != nil {
		return UpdateResult{}, err
	}

	if in.EditAllSeries && original.SeriesID != nil {
		return s.updateSeries(ctx, *original.SeriesID, in, title, client)
	}
	return s.updateSingle(ctx, original, in, title, client)
}

func (s *Service) updateSingle(ctx context.Context, original domain.Appointment, in UpdateInput, title, client string) (UpdateResult, error) {
	date, err := domain.ParseDate(in.Date)
	if err != nil {
		return UpdateResult{}, validationError("date must be YYYY-MM-DD")
	}

	var updated domain.Appointment
	err = s.repo.InSpaceTransaction(ctx, in.SpaceID, func(ctx context.Context, tx store.BookingTx) error {
		ok, err := isAvailable(ctx, tx, in.SpaceID, date.String(), in.StartTime, in.EndTime, original.ID)
		if err != nil {
			return err
		}
		if !ok {
			return &CapacityError{Date: date.String()}
		}

		updated, err = tx.UpdateAppointment(ctx, domain.Appointment{
			ID:          original.ID,
			Title:       title,
			ClientName:  client,
			Date:        date.String(),
			StartTime:   in.StartTime,
			EndTime:     in.EndTime,
			SpaceID:     in.SpaceID,
			IsRecurring: original.IsRecurring,
			SeriesID:    original.SeriesID,
			CreatedAt:   original.CreatedAt,
		})
		return err
	})
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Updated: updated}, nil
}

func (s *Service) updateSeries(ctx context.Context, seriesID uuid.UUID, in UpdateInput, title, client string) (UpdateResult, error) {
	result := UpdateResult{SeriesEdit: true}
	tmpl := SeriesTemplate{
		Title:      title,
		ClientName: client,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		SpaceID:    in.SpaceID,
	}

	err := s.repo.InSpaceTransaction(ctx, in.SpaceID, func(ctx context.Context, tx store.BookingTx) error {
		n, err := tx.UpdateSeriesFields(ctx, seriesID, domain.SeriesFields{
			Title:      title,
			ClientName: client,
			StartTime:  in.StartTime,
			EndTime:    in.EndTime,
			SpaceID:    in.SpaceID,
		})
		if err != nil {
			return err
		}
		result.MembersUpdated = n

		count, err := tx.CountSeries(ctx, seriesID)
		if err != nil {
			return err
		}
		if in.Weeks <= count {
			return nil
		}

		last, err := tx.FindLastInSeries(ctx, seriesID)
		if err != nil {
			return err
		}
		lastDate, err := domain.ParseDate(last.Date)
		if err != nil {
			return err
		}

		appended, err := generateSeries(ctx, tx, tmpl, lastDate.NextWeek(), in.Weeks-count, seriesID, 0)
		if err != nil {
			return err
		}
		result.Appended = appended
		return nil
	})
	if err != nil {
		return UpdateResult{}, err
	}
	return result, nil
}

type DeleteResult struct {
	Deleted int64
	Series  bool
}

// Delete removes one appointment, or every member of its series when
// deleteAll is set and the appointment belongs to one.
func (s *Service) Delete(ctx context.Context, id int64, deleteAll bool) (DeleteResult, error) {
	appt, err := s.repo.FindAppointment(ctx, id)
	if err != nil {
		return DeleteResult{}, err
	}

	var result DeleteResult
	err = s.repo.InSpaceTransaction(ctx, appt.SpaceID, func(ctx context.Context, tx store.BookingTx) error {
		if deleteAll && appt.SeriesID != nil {
			n, err := tx.DeleteSeries(ctx, *appt.SeriesID)
			if err != nil {
				return err
			}
			result = DeleteResult{Deleted: n, Series: true}
			return nil
		}

		if err := tx.DeleteAppointment(ctx, appt.ID); err != nil {
			return err
		}
		result = DeleteResult{Deleted: 1}
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}
	return result, nil
}

// List returns every appointment ordered by date then start time, each with
// its space preloaded and its derived series count.
func (s *Service) List(ctx context.Context) ([]domain.Appointment, error) {
	appts, err := s.repo.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int)
	for i := range appts {
		sid := appts[i].SeriesID
		if sid == nil {
			appts[i].SeriesCount = 1
			continue
		}
		n, ok := counts[*sid]
		if !ok {
			n, err = s.repo.CountSeries(ctx, *sid)
			if err != nil {
				return nil, err
			}
			counts[*sid] = n
		}
		appts[i].SeriesCount = n
	}
	return appts, nil
}

// ListSpaces returns the spaces open for new bookings.
func (s *Service) ListSpaces(ctx context.Context) ([]domain.Space, error) {
	return s.repo.ListActiveSpaces(ctx)
}
