package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/careqhq/careq/internal/booking"
	"github.com/careqhq/careq/internal/config"
	v1 "github.com/careqhq/careq/internal/handler/v1"
	"github.com/careqhq/careq/internal/repository"
	"github.com/careqhq/careq/internal/scheduling"
	"github.com/careqhq/careq/internal/service"
	"github.com/careqhq/careq/internal/triage"
	"github.com/careqhq/careq/pkg/auth"
	"github.com/careqhq/careq/pkg/database"
	"github.com/careqhq/careq/pkg/logger"
	"github.com/careqhq/careq/pkg/metrics"
	"github.com/careqhq/careq/pkg/tracer"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting careq API",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		log.Fatal("initializing tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("connecting to database", zap.Error(err))
	}
	if err := database.Migrate(db, log); err != nil {
		log.Fatal("running migrations", zap.Error(err))
	}

	collector := metrics.NewCollector("careq")
	jwtManager := auth.NewJWTManager(cfg.JWT)

	if sqlDB, err := db.DB(); err == nil {
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
			}
		}()
	}

	// Repositories.
	patientRepo := repository.NewPatientRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	symptomRepo := repository.NewSymptomRepository(db)
	diagnosisRepo := repository.NewDiagnosisRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, collector, log)
	defer auditSvc.Shutdown()

	// Triage: the Gemini classifier is optional; without an API key the
	// analyzer runs on the keyword fallback alone.
	var classifier triage.Classifier
	if cfg.Triage.GeminiAPIKey != "" {
		gemini, err := triage.NewGeminiClassifier(context.Background(), cfg.Triage.GeminiAPIKey, cfg.Triage.GeminiModel)
		if err != nil {
			log.Fatal("initializing gemini classifier", zap.Error(err))
		}
		defer gemini.Close()
		classifier = gemini
	} else {
		log.Warn("GEMINI_API_KEY not set; triage will use the keyword fallback only")
	}
	analyzer := triage.NewAnalyzer(classifier, log)

	assigner := scheduling.NewAssigner(doctorRepo, log)

	bookingSvc := booking.NewService(
		patientRepo, symptomRepo, diagnosisRepo, doctorRepo, appointmentRepo,
		analyzer, assigner, auditSvc, collector, log,
	)
	patientSvc := service.NewPatientService(patientRepo, symptomRepo, auditSvc, log)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, doctorRepo, auditSvc, collector, log)
	recordSvc := service.NewRecordService(recordRepo, appointmentRepo, auditSvc, collector, log)
	analyticsSvc := service.NewAnalyticsService(patientRepo, doctorRepo, diagnosisRepo, appointmentRepo, log)
	authSvc := service.NewAuthService(patientRepo, doctorRepo, jwtManager, auditSvc, log)

	router := v1.NewRouter(v1.RouterDeps{
		Cfg:        cfg,
		JWTManager: jwtManager,
		Collector:  collector,
		Log:        log,

		Booking:   v1.NewBookingHandler(bookingSvc, cfg.Triage, log),
		Queue:     v1.NewQueueHandler(appointmentSvc, log),
		Auth:      v1.NewAuthHandler(authSvc, patientSvc, log),
		Patient:   v1.NewPatientHandler(patientSvc, appointmentSvc, recordSvc, log),
		Doctor:    v1.NewDoctorHandler(appointmentSvc, recordSvc, log),
		Analytics: v1.NewAnalyticsHandler(analyticsSvc, log),
		Audit:     v1.NewAuditHandler(auditSvc, log),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
