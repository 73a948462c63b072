package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careqhq/careq/internal/booking"
	"github.com/careqhq/careq/internal/domain/appointment"
	"github.com/careqhq/careq/internal/domain/diagnosis"
	"github.com/careqhq/careq/internal/domain/doctor"
	"github.com/careqhq/careq/internal/domain/patient"
	"github.com/careqhq/careq/internal/domain/record"
	"github.com/careqhq/careq/internal/domain/symptom"
	"github.com/careqhq/careq/internal/service"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Step  string `json:"step,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	// Booking failures name the step that failed so partially completed
	// work stays diagnosable.
	var stepErr *booking.StepError
	if errors.As(err, &stepErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, patient.ErrPhoneAlreadyExists):
			status = http.StatusConflict
		case errors.Is(err, booking.ErrNoCapacity):
			status = http.StatusConflict
		case errors.Is(err, symptom.ErrTextTooShort):
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: stepErr.Err.Error(), Step: stepErr.Step})
		return
	}

	switch {
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, doctor.ErrDoctorNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, symptom.ErrSymptomNotFound),
		errors.Is(err, diagnosis.ErrDiagnosisNotFound),
		errors.Is(err, record.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, patient.ErrPhoneAlreadyExists),
		errors.Is(err, record.ErrRecordAlreadyExists),
		errors.Is(err, record.ErrFeedbackAlreadyExists),
		errors.Is(err, patient.ErrPasswordAlreadySet),
		errors.Is(err, booking.ErrNoCapacity):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, appointment.ErrInvalidStatusTransition),
		errors.Is(err, appointment.ErrNotReschedulable),
		errors.Is(err, appointment.ErrInvalidMode),
		errors.Is(err, patient.ErrInvalidGender),
		errors.Is(err, symptom.ErrTextTooShort),
		errors.Is(err, record.ErrInvalidRating),
		errors.Is(err, record.ErrDiagnosisRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, patient.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}
	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

// parseQueryDate accepts a YYYY-MM-DD query parameter.
func parseQueryDate(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + key + ": must be YYYY-MM-DD"})
		return nil, false
	}
	return &d, true
}
