package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careqhq/careq/internal/service"
)

// PatientHandler serves the patient portal. All routes require a
// patient token; patients only ever see their own data.
type PatientHandler struct {
	patients     *service.PatientService
	appointments *service.AppointmentService
	records      *service.RecordService
	log          *zap.Logger
}

func NewPatientHandler(patients *service.PatientService, appointments *service.AppointmentService, records *service.RecordService, log *zap.Logger) *PatientHandler {
	return &PatientHandler{
		patients:     patients,
		appointments: appointments,
		records:      records,
		log:          log,
	}
}

// Get is the staff-side lookup of any patient by ID.
func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.patients.GetPatient(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"id":        p.ID,
		"full_name": p.FullName,
		"age":       p.Age,
		"gender":    p.Gender,
		"phone":     p.Phone,
		"allergies": p.Allergies,
	})
}

// AppointmentsOf is the staff-side view of a patient's appointment
// history.
func (h *PatientHandler) AppointmentsOf(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	entries, err := h.appointments.ListByPatient(c.Request.Context(), id, parseQueryInt(c, "limit", 50))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, entries)
}

func (h *PatientHandler) Profile(c *gin.Context) {
	claims := claimsFrom(c)

	p, err := h.patients.GetPatient(c.Request.Context(), claims.SubjectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"id":        p.ID,
		"full_name": p.FullName,
		"age":       p.Age,
		"gender":    p.Gender,
		"phone":     p.Phone,
		"allergies": p.Allergies,
	})
}

type updateAllergiesRequest struct {
	Allergies string `json:"allergies"`
}

func (h *PatientHandler) UpdateAllergies(c *gin.Context) {
	claims := claimsFrom(c)

	var req updateAllergiesRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.patients.UpdateAllergies(c.Request.Context(), claims.SubjectID, req.Allergies); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse[any]{Message: "allergies updated"})
}

func (h *PatientHandler) Appointments(c *gin.Context) {
	claims := claimsFrom(c)

	entries, err := h.appointments.ListByPatient(c.Request.Context(), claims.SubjectID, parseQueryInt(c, "limit", 50))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, entries)
}

func (h *PatientHandler) SymptomHistory(c *gin.Context) {
	claims := claimsFrom(c)

	entries, err := h.patients.SymptomHistory(c.Request.Context(), claims.SubjectID, parseQueryInt(c, "limit", 20))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, entries)
}

// Record returns the medical record for one of the patient's completed
// appointments, prescriptions included.
func (h *PatientHandler) Record(c *gin.Context) {
	claims := claimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.appointments.GetAppointment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if a.PatientID != claims.SubjectID {
		respondServiceError(c, service.ErrForbidden)
		return
	}

	rec, err := h.records.GetByAppointment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, rec)
}

type feedbackRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func (h *PatientHandler) SubmitFeedback(c *gin.Context) {
	claims := claimsFrom(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req feedbackRequest
	if !bindJSON(c, &req) {
		return
	}

	f, err := h.records.SubmitFeedback(c.Request.Context(), claims.SubjectID, id, req.Rating, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, f)
}
