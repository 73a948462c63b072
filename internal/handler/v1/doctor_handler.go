package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careqhq/careq/internal/domain/record"
	"github.com/careqhq/careq/internal/service"
)

// DoctorHandler serves the doctor portal: the day's schedule, record
// filing on completion, and prescription amendments.
type DoctorHandler struct {
	appointments *service.AppointmentService
	records      *service.RecordService
	log          *zap.Logger
}

func NewDoctorHandler(appointments *service.AppointmentService, records *service.RecordService, log *zap.Logger) *DoctorHandler {
	return &DoctorHandler{
		appointments: appointments,
		records:      records,
		log:          log,
	}
}

// Schedule lists the doctor's appointments, optionally narrowed to one
// date.
func (h *DoctorHandler) Schedule(c *gin.Context) {
	claims := claimsFrom(c)

	date, ok := parseQueryDate(c, "date")
	if !ok {
		return
	}

	entries, err := h.appointments.ListByDoctor(c.Request.Context(), claims.SubjectID, date, parseQueryInt(c, "limit", 50))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, entries)
}

type prescriptionLine struct {
	MedicineName string `json:"medicine_name" binding:"required"`
	Dosage       string `json:"dosage" binding:"required"`
	Duration     string `json:"duration"`
}

type createRecordRequest struct {
	Diagnosis     string             `json:"diagnosis" binding:"required"`
	Notes         string             `json:"notes"`
	Prescriptions []prescriptionLine `json:"prescriptions"`
}

// CreateRecord files the medical record and completes the appointment
// in one transaction.
func (h *DoctorHandler) CreateRecord(c *gin.Context) {
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
	if a.DoctorID != claims.SubjectID {
		respondServiceError(c, service.ErrForbidden)
		return
	}

	var req createRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &record.CreateRecordCommand{
		AppointmentID: id,
		Diagnosis:     req.Diagnosis,
		Notes:         req.Notes,
	}
	for _, line := range req.Prescriptions {
		cmd.Prescriptions = append(cmd.Prescriptions, record.PrescriptionLine{
			MedicineName: line.MedicineName,
			Dosage:       line.Dosage,
			Duration:     line.Duration,
		})
	}

	rec, err := h.records.CreateRecord(c.Request.Context(), cmd, callerName(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, rec)
}

type addPrescriptionsRequest struct {
	Prescriptions []prescriptionLine `json:"prescriptions" binding:"required"`
}

// AddPrescriptions appends lines to an already-filed record.
func (h *DoctorHandler) AddPrescriptions(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req addPrescriptionsRequest
	if !bindJSON(c, &req) {
		return
	}

	lines := make([]record.PrescriptionLine, 0, len(req.Prescriptions))
	for _, line := range req.Prescriptions {
		lines = append(lines, record.PrescriptionLine{
			MedicineName: line.MedicineName,
			Dosage:       line.Dosage,
			Duration:     line.Duration,
		})
	}

	if err := h.records.AddPrescriptions(c.Request.Context(), id, lines, callerName(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "prescriptions added"})
}

// Rating returns the doctor's average feedback score.
func (h *DoctorHandler) Rating(c *gin.Context) {
	claims := claimsFrom(c)

	rating, err := h.records.DoctorRating(c.Request.Context(), claims.SubjectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, rating)
}
