package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careqhq/careq/internal/service"
)

type AuditHandler struct {
	svc *service.AuditService
	log *zap.Logger
}

func NewAuditHandler(svc *service.AuditService, log *zap.Logger) *AuditHandler {
	return &AuditHandler{svc: svc, log: log}
}

// List returns recent audit entries, newest first. Optional filters:
// action, table, limit.
func (h *AuditHandler) List(c *gin.Context) {
	entries, err := h.svc.List(c.Request.Context(), &service.AuditQuery{
		Action: c.Query("action"),
		Table:  c.Query("table"),
		Limit:  parseQueryInt(c, "limit", 100),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, entries)
}
