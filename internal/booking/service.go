package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/careqhq/careq/internal/domain/appointment"
	"github.com/careqhq/careq/internal/domain/diagnosis"
	"github.com/careqhq/careq/internal/domain/doctor"
	"github.com/careqhq/careq/internal/domain/patient"
	"github.com/careqhq/careq/internal/domain/symptom"
	"github.com/careqhq/careq/internal/scheduling"
	"github.com/careqhq/careq/internal/service"
	"github.com/careqhq/careq/pkg/metrics"
	"go.uber.org/zap"
)

// Step names surfaced in errors so partial completion is attributable.
const (
	StepCreatePatient     = "create patient"
	StepRecordSymptom     = "record symptom"
	StepAnalyzeSymptoms   = "analyze symptoms"
	StepSaveDiagnosis     = "save diagnosis"
	StepAssignDoctor      = "assign doctor"
	StepCreateAppointment = "create appointment"
)

// Analyzer is the diagnosis adapter. It always produces a result.
type Analyzer interface {
	Analyze(ctx context.Context, symptomText string) *diagnosis.Diagnosis
}

// DoctorFinder assigns the least-loaded doctor for a specialization
// and date.
type DoctorFinder interface {
	FindAvailableDoctor(ctx context.Context, specialization string, date time.Time) (*doctor.Doctor, error)
}

type Request struct {
	FirstName               string
	LastName                string
	Age                     int
	Gender                  patient.Gender
	Phone                   string
	Allergies               string
	SymptomText             string
	PreferredSpecialization string
	Date                    time.Time
	Mode                    appointment.Mode
}

type Result struct {
	Patient     *patient.Patient
	Symptom     *symptom.Symptom
	Diagnosis   *diagnosis.Diagnosis
	Doctor      *doctor.Doctor
	Appointment *appointment.Appointment
}

// Service runs one booking attempt as six gated steps. Each step
// commits independently; a failure aborts the remaining steps but does
// not roll back what already committed. A failure at doctor assignment
// or appointment creation therefore leaves the patient, symptom and
// diagnosis in place.
type Service struct {
	patients     patient.Repository
	symptoms     symptom.Repository
	diagnoses    diagnosis.Repository
	doctors      doctor.Repository
	appointments appointment.Repository

	analyzer Analyzer
	assigner DoctorFinder
	auditSvc *service.AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewService(
	patients patient.Repository,
	symptoms symptom.Repository,
	diagnoses diagnosis.Repository,
	doctors doctor.Repository,
	appointments appointment.Repository,
	analyzer Analyzer,
	assigner DoctorFinder,
	auditSvc *service.AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *Service {
	return &Service{
		patients:     patients,
		symptoms:     symptoms,
		diagnoses:    diagnoses,
		doctors:      doctors,
		appointments: appointments,
		analyzer:     analyzer,
		assigner:     assigner,
		auditSvc:     auditSvc,
		metrics:      collector,
		log:          log,
	}
}

func (s *Service) Book(ctx context.Context, req *Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// Step 1: create patient.
	p := &patient.Patient{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		FullName:  patient.DisplayName(req.FirstName, req.LastName),
		Age:       req.Age,
		Gender:    req.Gender,
		Phone:     strings.TrimSpace(req.Phone),
		Allergies: req.Allergies,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, &StepError{Step: StepCreatePatient, Err: err}
	}
	s.metrics.PatientsCreatedTotal.Inc()
	s.auditSvc.LogAsync(service.AuditEntry{
		Action: "CREATE", Table: "patients", RecordID: p.ID.String(),
		Description: "patient registered via intake",
	})

	// Step 2: record symptom.
	sym := &symptom.Symptom{
		PatientID: p.ID,
		Text:      strings.TrimSpace(req.SymptomText),
	}
	if err := s.symptoms.Create(ctx, sym); err != nil {
		return nil, &StepError{Step: StepRecordSymptom, Err: err}
	}

	// Step 3: analyze. Never fails; classifier outages resolve to the
	// keyword fallback.
	analyzeStart := time.Now()
	diag := s.analyzer.Analyze(ctx, sym.Text)
	s.metrics.TriageRequestDuration.Observe(time.Since(analyzeStart).Seconds())
	if diag.Fallback {
		s.metrics.TriageFallbackTotal.Inc()
	}

	// Step 4: persist diagnosis.
	diag.SymptomID = sym.ID
	diag.Clamp()
	if err := s.diagnoses.Create(ctx, diag); err != nil {
		return nil, &StepError{Step: StepSaveDiagnosis, Err: err}
	}

	// Step 5: assign doctor, retrying once with general medicine.
	doc, err := s.assignWithFallback(ctx, req.PreferredSpecialization, req.Date)
	if err != nil {
		return nil, err
	}

	// Step 6: generate slot and persist the appointment as Confirmed.
	count, err := s.doctors.CountAppointmentsOnDate(ctx, doc.ID, req.Date)
	if err != nil {
		return nil, &StepError{Step: StepCreateAppointment, Err: err}
	}
	slot := scheduling.GenerateSlot(diag.UrgencyLevel, count)

	appt := &appointment.Appointment{
		PatientID:    p.ID,
		DoctorID:     doc.ID,
		SymptomID:    sym.ID,
		UrgencyLevel: diag.UrgencyLevel,
		Date:         req.Date,
		Time:         slot.String(),
		Mode:         req.Mode,
		Status:       appointment.StatusConfirmed,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, &StepError{Step: StepCreateAppointment, Err: err}
	}

	s.metrics.AppointmentsTotal.WithLabelValues(string(appt.Status)).Inc()
	s.auditSvc.LogAsync(service.AuditEntry{
		Action: "CREATE", Table: "appointments", RecordID: appt.ID.String(),
		NewValues:   `{"status":"Confirmed"}`,
		Description: "appointment booked via intake",
	})
	s.log.Info("booking completed",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("doctor_id", doc.ID.String()),
		zap.Int("urgency", diag.UrgencyLevel),
		zap.String("time", appt.Time),
		zap.Bool("fallback_diagnosis", diag.Fallback),
	)

	return &Result{
		Patient:     p,
		Symptom:     sym,
		Diagnosis:   diag,
		Doctor:      doc,
		Appointment: appt,
	}, nil
}

func (s *Service) assignWithFallback(ctx context.Context, specialization string, date time.Time) (*doctor.Doctor, error) {
	doc, err := s.assigner.FindAvailableDoctor(ctx, specialization, date)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, doctor.ErrNoDoctorAvailable) {
		return nil, &StepError{Step: StepAssignDoctor, Err: err}
	}

	if specialization != doctor.GeneralSpecialization {
		s.log.Info("retrying doctor assignment with general medicine",
			zap.String("requested", specialization),
		)
		doc, err = s.assigner.FindAvailableDoctor(ctx, doctor.GeneralSpecialization, date)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, doctor.ErrNoDoctorAvailable) {
			return nil, &StepError{Step: StepAssignDoctor, Err: err}
		}
	}

	return nil, &StepError{Step: StepAssignDoctor, Err: ErrNoCapacity}
}

func validateRequest(req *Request) error {
	var errs []string

	if strings.TrimSpace(req.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if req.Age <= 0 || req.Age > 120 {
		errs = append(errs, "age must be between 1 and 120")
	}
	if !req.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}
	if strings.TrimSpace(req.Phone) == "" {
		errs = append(errs, "phone is required")
	}
	// Service-layer floor; the HTTP intake boundary enforces the
	// stricter configurable minimum.
	if len(strings.TrimSpace(req.SymptomText)) < symptom.MinLength {
		errs = append(errs, "symptom description too short")
	}
	if strings.TrimSpace(req.PreferredSpecialization) == "" {
		errs = append(errs, "preferred_specialization is required")
	}
	if req.Date.IsZero() {
		errs = append(errs, "appointment date is required")
	}
	if !req.Mode.IsValid() {
		errs = append(errs, "mode must be Online or Offline")
	}

	if len(errs) > 0 {
		return &service.ValidationError{Fields: errs}
	}
	return nil
}
