package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careqhq/careq/internal/service"
)

type AuthHandler struct {
	svc      *service.AuthService
	patients *service.PatientService
	log      *zap.Logger
}

func NewAuthHandler(svc *service.AuthService, patients *service.PatientService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, patients: patients, log: log}
}

type patientLoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) PatientLogin(c *gin.Context) {
	var req patientLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.svc.LoginPatient(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, pair)
}

type doctorLoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) DoctorLogin(c *gin.Context) {
	var req doctorLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.svc.LoginDoctor(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, pair)
}

type registerPasswordRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterPassword sets up portal access for a returning patient.
func (h *AuthHandler) RegisterPassword(c *gin.Context) {
	var req registerPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.patients.SetPassword(c.Request.Context(), req.Phone, req.Password); err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, gin.H{"message": "portal access enabled"})
}
