package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careqhq/careq/internal/service"
)

type AnalyticsHandler struct {
	svc *service.AnalyticsService
	log *zap.Logger
}

func NewAnalyticsHandler(svc *service.AnalyticsService, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, log: log}
}

func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, overview)
}

// Specializations backs the intake form's specialization dropdown.
func (h *AnalyticsHandler) Specializations(c *gin.Context) {
	names, err := h.svc.Specializations(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, names)
}

func (h *AnalyticsHandler) DiseaseDistribution(c *gin.Context) {
	rows, err := h.svc.DiseaseDistribution(c.Request.Context(), parseQueryInt(c, "limit", 10))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rows)
}

func (h *AnalyticsHandler) DoctorWorkloads(c *gin.Context) {
	rows, err := h.svc.DoctorWorkloads(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rows)
}

func (h *AnalyticsHandler) DailyTrends(c *gin.Context) {
	points, err := h.svc.DailyTrends(c.Request.Context(), parseQueryInt(c, "days", 14))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, points)
}
