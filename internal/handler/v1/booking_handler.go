package v1

import (
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careqhq/careq/internal/booking"
	"github.com/careqhq/careq/internal/config"
	"github.com/careqhq/careq/internal/domain/appointment"
	"github.com/careqhq/careq/internal/domain/patient"
)

type BookingHandler struct {
	svc *booking.Service
	cfg config.TriageConfig
	log *zap.Logger
}

func NewBookingHandler(svc *booking.Service, cfg config.TriageConfig, log *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, cfg: cfg, log: log}
}

type bookingRequest struct {
	FirstName               string `json:"first_name" binding:"required"`
	LastName                string `json:"last_name"`
	Age                     int    `json:"age" binding:"required"`
	Gender                  string `json:"gender" binding:"required"`
	Phone                   string `json:"phone" binding:"required"`
	Allergies               string `json:"allergies"`
	SymptomText             string `json:"symptom_text" binding:"required"`
	PreferredSpecialization string `json:"preferred_specialization" binding:"required"`
	Date                    string `json:"date" binding:"required"`
	Mode                    string `json:"mode"`
}

type bookingResponse struct {
	AppointmentID    string  `json:"appointment_id"`
	PatientID        string  `json:"patient_id"`
	DoctorName       string  `json:"doctor_name"`
	Specialization   string  `json:"specialization"`
	Date             string  `json:"date"`
	Time             string  `json:"time"`
	Status           string  `json:"status"`
	PredictedDisease string  `json:"predicted_disease"`
	Probability      float64 `json:"probability"`
	UrgencyLevel     int     `json:"urgency_level"`
	UrgencyReason    string  `json:"urgency_reason"`
	FallbackUsed     bool    `json:"fallback_used"`
}

// Create runs the full intake-to-confirmation flow.
func (h *BookingHandler) Create(c *gin.Context) {
	var req bookingRequest
	if !bindJSON(c, &req) {
		return
	}

	if fields := h.validateIntake(&req); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: fields,
		})
		return
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	mode := appointment.Mode(req.Mode)
	if req.Mode == "" {
		mode = appointment.ModeOffline
	}

	result, err := h.svc.Book(c.Request.Context(), &booking.Request{
		FirstName:               req.FirstName,
		LastName:                req.LastName,
		Age:                     req.Age,
		Gender:                  patient.Gender(req.Gender),
		Phone:                   req.Phone,
		Allergies:               req.Allergies,
		SymptomText:             req.SymptomText,
		PreferredSpecialization: req.PreferredSpecialization,
		Date:                    date,
		Mode:                    mode,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	doctorName := ""
	specialization := ""
	if result.Doctor != nil {
		doctorName = result.Doctor.Name
		if result.Doctor.Specialization != nil {
			specialization = result.Doctor.Specialization.Name
		}
	}

	respondCreated(c, bookingResponse{
		AppointmentID:    result.Appointment.ID.String(),
		PatientID:        result.Patient.ID.String(),
		DoctorName:       doctorName,
		Specialization:   specialization,
		Date:             result.Appointment.Date.Format("2006-01-02"),
		Time:             result.Appointment.Time,
		Status:           string(result.Appointment.Status),
		PredictedDisease: result.Diagnosis.PredictedDisease,
		Probability:      result.Diagnosis.Probability,
		UrgencyLevel:     result.Diagnosis.UrgencyLevel,
		UrgencyReason:    result.Diagnosis.UrgencyReason,
		FallbackUsed:     result.Diagnosis.Fallback,
	})
}

// validateIntake applies the strict boundary rules before the booking
// pipeline runs: configurable symptom minimum, 10-digit phone, and a
// date inside the booking horizon.
func (h *BookingHandler) validateIntake(req *bookingRequest) []string {
	var fields []string

	if len(strings.TrimSpace(req.SymptomText)) < h.cfg.SymptomMinLength {
		fields = append(fields, fmt.Sprintf("symptom_text must be at least %d characters", h.cfg.SymptomMinLength))
	}

	phone := strings.TrimSpace(req.Phone)
	if !isTenDigits(phone) {
		fields = append(fields, "phone must be exactly 10 digits")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		fields = append(fields, "date must be YYYY-MM-DD")
	} else {
		fields = append(fields, checkBookingDate(date, time.Now(), h.cfg.BookingHorizon)...)
	}

	if req.Mode != "" && !appointment.Mode(req.Mode).IsValid() {
		fields = append(fields, "mode must be Online or Offline")
	}

	return fields
}

// checkBookingDate compares calendar days in the server's local zone.
// Truncating the wall clock to 24h would snap to the UTC day boundary
// and reject "today" for callers west of UTC in the evening.
func checkBookingDate(date, now time.Time, horizon time.Duration) []string {
	var fields []string

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		fields = append(fields, "date cannot be in the past")
	}
	if date.After(today.Add(horizon)) {
		fields = append(fields, fmt.Sprintf("date must be within %d days", int(horizon.Hours()/24)))
	}
	return fields
}

func isTenDigits(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
