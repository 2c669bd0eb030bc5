package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"calendario/backend/internal/domain"
	"calendario/backend/internal/service/bookings"
	"calendario/backend/internal/store"
)

type bookingsService interface {
	CheckAvailability(ctx context.Context, spaceID int64, date, startTime, endTime string, excludeID int64) (bool, error)
	Create(ctx context.Context, in bookings.CreateInput) ([]domain.Appointment, error)
	Update(ctx context.Context, in bookings.UpdateInput) (bookings.UpdateResult, error)
	Delete(ctx context.Context, id int64, deleteAll bool) (bookings.DeleteResult, error)
	List(ctx context.Context) ([]domain.Appointment, error)
	ListSpaces(ctx context.Context) ([]domain.Space, error)
}

type BookingsHandler struct {
	svc bookingsService
	log *slog.Logger
}

func NewBookingsHandler(svc bookingsService, log *slog.Logger) *BookingsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &BookingsHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.bookings")),
	}
}

type createAppointmentRequest struct {
	Title       string `json:"title" binding:"required"`
	ClientName  string `json:"clientName" binding:"required"`
	Date        string `json:"date" binding:"required,date_ymd"`
	StartTime   string `json:"startTime" binding:"required,time_hhmm"`
	EndTime     string `json:"endTime" binding:"required,time_hhmm"`
	SpaceID     int64  `json:"spaceId" binding:"required"`
	IsRecurring bool   `json:"isRecurring"`
	Weeks       int    `json:"weeks" binding:"omitempty,min=1"`
}

type updateAppointmentRequest struct {
	Title         string `json:"title" binding:"required"`
	ClientName    string `json:"clientName" binding:"required"`
	Date          string `json:"date" binding:"omitempty,date_ymd"`
	StartTime     string `json:"startTime" binding:"required,time_hhmm"`
	EndTime       string `json:"endTime" binding:"required,time_hhmm"`
	SpaceID       int64  `json:"spaceId" binding:"required"`
	EditAllSeries bool   `json:"editAllSeries"`
	Weeks         int    `json:"weeks" binding:"omitempty,min=1"`
}

type spaceResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
}

type appointmentResponse struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	ClientName  string         `json:"clientName"`
	Date        string         `json:"date"`
	StartTime   string         `json:"startTime"`
	EndTime     string         `json:"endTime"`
	SpaceID     int64          `json:"spaceId"`
	IsRecurring bool           `json:"isRecurring"`
	SeriesID    *string        `json:"seriesId,omitempty"`
	SeriesCount int            `json:"seriesCount"`
	Space       *spaceResponse `json:"space,omitempty"`
}

func (h *BookingsHandler) ListSpaces(c *gin.Context) {
	log := h.log.With(slog.String("route", "ListSpaces"))

	spaces, err := h.svc.ListSpaces(c.Request.Context())
	if err != nil {
		h.writeError(c, log, err)
		return
	}

	out := make([]spaceResponse, 0, len(spaces))
	for _, s := range spaces {
		out = append(out, toSpaceResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingsHandler) CheckAvailability(c *gin.Context) {
	log := h.log.With(slog.String("route", "CheckAvailability"))

	spaceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "space id must be an integer"})
		return
	}

	var excludeID int64
	if raw := c.Query("excludeId"); raw != "" {
		excludeID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "excludeId must be an integer"})
			return
		}
	}

	available, err := h.svc.CheckAvailability(
		c.Request.Context(),
		spaceID,
		c.Query("date"),
		c.Query("startTime"),
		c.Query("endTime"),
		excludeID,
	)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (h *BookingsHandler) ListAppointments(c *gin.Context) {
	log := h.log.With(slog.String("route", "ListAppointments"))

	appts, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.writeError(c, log, err)
		return
	}

	out := make([]appointmentResponse, 0, len(appts))
	for _, a := range appts {
		out = append(out, toAppointmentResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingsHandler) CreateAppointment(c *gin.Context) {
	log := h.log.With(slog.String("route", "CreateAppointment"))

	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), bookings.CreateInput{
		Title:      req.Title,
		ClientName: req.ClientName,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		SpaceID:    req.SpaceID,
		Recurring:  req.IsRecurring,
		Weeks:      req.Weeks,
	})
	if err != nil {
		h.writeError(c, log, err)
		return
	}

	log.Info(
		"appointments created",
		slog.Int("count", len(created)),
		slog.Int64("space_id", req.SpaceID),
		slog.String("date", req.Date),
	)

	out := make([]appointmentResponse, 0, len(created))
	for _, a := range created {
		out = append(out, toAppointmentResponse(a))
	}
	c.JSON(http.StatusCreated, gin.H{"appointments": out})
}

func (h *BookingsHandler) UpdateAppointment(c *gin.Context) {
	log := h.log.With(slog.String("route", "UpdateAppointment"))

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "appointment id must be an integer"})
		return
	}

	var req updateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request", slog.Any("err", err), slog.Int64("appointment_id", id))
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := h.svc.Update(c.Request.Context(), bookings.UpdateInput{
		ID:            id,
		Title:         req.Title,
		ClientName:    req.ClientName,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		SpaceID:       req.SpaceID,
		EditAllSeries: req.EditAllSeries,
		Weeks:         req.Weeks,
	})
	if err != nil {
		h.writeError(c, log, err)
		return
	}

	if result.SeriesEdit {
		log.Info(
			"series updated",
			slog.Int64("appointment_id", id),
			slog.Int64("members_updated", result.MembersUpdated),
			slog.Int("appended", len(result.Appended)),
		)
		appended := make([]appointmentResponse, 0, len(result.Appended))
		for _, a := range result.Appended {
			appended = append(appended, toAppointmentResponse(a))
		}
		c.JSON(http.StatusOK, gin.H{
			"membersUpdated": result.MembersUpdated,
			"appended":       appended,
		})
		return
	}

	log.Info("appointment updated", slog.Int64("appointment_id", id))
	c.JSON(http.StatusOK, toAppointmentResponse(result.Updated))
}

func (h *BookingsHandler) DeleteAppointment(c *gin.Context) {
	log := h.log.With(slog.String("route", "DeleteAppointment"))

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "appointment id must be an integer"})
		return
	}
	deleteAll := c.Query("deleteAll") == "true"

	result, err := h.svc.Delete(c.Request.Context(), id, deleteAll)
	if err != nil {
		h.writeError(c, log, err)
		return
	}

	log.Info(
		"appointments deleted",
		slog.Int64("appointment_id", id),
		slog.Int64("deleted", result.Deleted),
		slog.Bool("series", result.Series),
	)
	c.JSON(http.StatusOK, gin.H{"deleted": result.Deleted, "series": result.Series})
}

func (h *BookingsHandler) writeError(c *gin.Context, log *slog.Logger, err error) {
	var vErr *bookings.ValidationError
	if errors.As(err, &vErr) {
		log.Warn("invalid request", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"message": vErr.Error()})
		return
	}
	var rErr *domain.InvalidRangeError
	if errors.As(err, &rErr) {
		log.Warn("invalid time range", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"message": rErr.Error()})
		return
	}
	var cErr *bookings.CapacityError
	if errors.As(err, &cErr) {
		log.Info("capacity conflict", slog.String("date", cErr.Date))
		c.JSON(http.StatusConflict, gin.H{"message": cErr.Error(), "date": cErr.Date})
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
		return
	}
	log.Error("request failed", slog.Any("err", err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}

func toSpaceResponse(s domain.Space) spaceResponse {
	return spaceResponse{
		ID:       s.ID,
		Name:     s.Name,
		Type:     s.Type,
		Capacity: s.Capacity,
		Status:   string(s.Status),
	}
}

func toAppointmentResponse(a domain.Appointment) appointmentResponse {
	out := appointmentResponse{
		ID:          a.ID,
		Title:       a.Title,
		ClientName:  a.ClientName,
		Date:        a.Date,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		SpaceID:     a.SpaceID,
		IsRecurring: a.IsRecurring,
		SeriesCount: a.SeriesCount,
	}
	if a.SeriesID != nil {
		sid := a.SeriesID.String()
		out.SeriesID = &sid
	}
	if a.Space != nil {
		space := toSpaceResponse(*a.Space)
		out.Space = &space
	}
	return out
}
