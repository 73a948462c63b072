package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careqhq/careq/internal/config"
	"github.com/careqhq/careq/internal/domain"
	"github.com/careqhq/careq/pkg/auth"
	"github.com/careqhq/careq/pkg/metrics"
)

type RouterDeps struct {
	Cfg        *config.Config
	JWTManager *auth.JWTManager
	Collector  *metrics.Collector
	Log        *zap.Logger

	Booking   *BookingHandler
	Queue     *QueueHandler
	Auth      *AuthHandler
	Patient   *PatientHandler
	Doctor    *DoctorHandler
	Analytics *AnalyticsHandler
	Audit     *AuditHandler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware(deps.Log))
	r.Use(MetricsMiddleware(deps.Collector))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
			"version": deps.Cfg.App.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(deps.Collector.Handler()))

	api := r.Group("/api/v1")

	// Intake: public, no portal account required.
	api.POST("/bookings", deps.Booking.Create)
	api.GET("/specializations", deps.Analytics.Specializations)

	// Auth.
	api.POST("/auth/patient/login", deps.Auth.PatientLogin)
	api.POST("/auth/patient/register", deps.Auth.RegisterPassword)
	api.POST("/auth/doctor/login", deps.Auth.DoctorLogin)

	// Triage queue and appointment management: staff surface.
	queue := api.Group("/queue", AuthMiddleware(deps.JWTManager), RequireRole(domain.RoleDoctor))
	{
		queue.GET("", deps.Queue.List)
	}

	appointments := api.Group("/appointments", AuthMiddleware(deps.JWTManager))
	{
		appointments.GET("/:id", deps.Queue.Get)
		appointments.POST("/:id/cancel", deps.Queue.Cancel)
		appointments.POST("/:id/reschedule", deps.Queue.Reschedule)
	}

	// Staff-side patient lookup.
	patients := api.Group("/patients", AuthMiddleware(deps.JWTManager), RequireRole(domain.RoleDoctor))
	{
		patients.GET("/:id", deps.Patient.Get)
		patients.GET("/:id/appointments", deps.Patient.AppointmentsOf)
	}

	// Patient portal.
	portal := api.Group("/portal", AuthMiddleware(deps.JWTManager), RequireRole(domain.RolePatient))
	{
		portal.GET("/profile", deps.Patient.Profile)
		portal.PUT("/allergies", deps.Patient.UpdateAllergies)
		portal.GET("/appointments", deps.Patient.Appointments)
		portal.GET("/symptoms", deps.Patient.SymptomHistory)
		portal.GET("/appointments/:id/record", deps.Patient.Record)
		portal.POST("/appointments/:id/feedback", deps.Patient.SubmitFeedback)
	}

	// Doctor portal.
	doctors := api.Group("/doctor", AuthMiddleware(deps.JWTManager), RequireRole(domain.RoleDoctor))
	{
		doctors.GET("/schedule", deps.Doctor.Schedule)
		doctors.GET("/rating", deps.Doctor.Rating)
		doctors.POST("/appointments/:id/record", deps.Doctor.CreateRecord)
		doctors.POST("/records/:id/prescriptions", deps.Doctor.AddPrescriptions)
	}

	// Analytics and audit: staff surface.
	analytics := api.Group("/analytics", AuthMiddleware(deps.JWTManager), RequireRole(domain.RoleDoctor))
	{
		analytics.GET("/overview", deps.Analytics.Overview)
		analytics.GET("/diseases", deps.Analytics.DiseaseDistribution)
		analytics.GET("/workloads", deps.Analytics.DoctorWorkloads)
		analytics.GET("/trends", deps.Analytics.DailyTrends)
	}

	api.GET("/audit", AuthMiddleware(deps.JWTManager), RequireRole(domain.RoleDoctor), deps.Audit.List)

	return r
}
