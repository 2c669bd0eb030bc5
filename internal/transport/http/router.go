package http

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"calendario/backend/internal/domain"
)

// RegisterValidators installs the wire-format rules on gin's binding
// validator: `date_ymd` for YYYY-MM-DD calendar dates and `time_hhmm` for
// HH:MM clock values.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected gin binding validator engine")
	}
	if err := v.RegisterValidation("date_ymd", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("time_hhmm", func(fl validator.FieldLevel) bool {
		_, err := domain.MinuteOfDay(fl.Field().String())
		return err == nil
	})
}

func NewRouter(bookings *BookingsHandler, notes *NotesHandler, log *slog.Logger) *gin.Engine {
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/spaces", bookings.ListSpaces)
	r.GET("/spaces/:id/availability", bookings.CheckAvailability)

	r.GET("/appointments", bookings.ListAppointments)
	r.POST("/appointments", bookings.CreateAppointment)
	r.PUT("/appointments/:id", bookings.UpdateAppointment)
	r.DELETE("/appointments/:id", bookings.DeleteAppointment)

	r.GET("/notes", notes.List)
	r.POST("/notes", notes.Create)
	r.DELETE("/notes/:id", notes.Delete)

	return r
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug(
			"request handled",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}
