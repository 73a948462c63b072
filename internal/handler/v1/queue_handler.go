package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careqhq/careq/internal/domain/appointment"
	"github.com/careqhq/careq/internal/service"
)

type QueueHandler struct {
	svc *service.AppointmentService
	log *zap.Logger
}

func NewQueueHandler(svc *service.AppointmentService, log *zap.Logger) *QueueHandler {
	return &QueueHandler{svc: svc, log: log}
}

// List returns the urgency-ordered triage queue. Optional filters:
// date (YYYY-MM-DD), band (High/Medium/Low), specialization.
func (h *QueueHandler) List(c *gin.Context) {
	q := &appointment.QueueQuery{}

	date, ok := parseQueryDate(c, "date")
	if !ok {
		return
	}
	q.Date = date

	if raw := c.Query("band"); raw != "" {
		band := appointment.UrgencyBand(raw)
		if !band.IsValid() {
			respondError(c, http.StatusBadRequest, "band must be High, Medium or Low")
			return
		}
		q.Band = &band
	}

	if raw := c.Query("specialization"); raw != "" {
		q.Specialization = &raw
	}

	entries, err := h.svc.Queue(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, entries)
}

// Get returns the joined view of a single appointment.
func (h *QueueHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	entry, err := h.svc.GetEntry(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, entry)
}

// Cancel releases the appointment's slot.
func (h *QueueHandler) Cancel(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), id, callerName(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse[any]{Message: "appointment cancelled"})
}

type rescheduleRequest struct {
	Date string `json:"date" binding:"required"`
}

// Reschedule moves an active appointment to a regenerated slot on the
// target date.
func (h *QueueHandler) Reschedule(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req rescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	a, err := h.svc.Reschedule(c.Request.Context(), id, date, callerName(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"appointment_id": a.ID,
		"date":           a.Date.Format("2006-01-02"),
		"time":           a.Time,
		"status":         a.Status,
	})
}
