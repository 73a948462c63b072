package booking

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/careqhq/careq/internal/domain"
	"github.com/careqhq/careq/internal/domain/appointment"
	"github.com/careqhq/careq/internal/domain/diagnosis"
	"github.com/careqhq/careq/internal/domain/doctor"
	"github.com/careqhq/careq/internal/domain/patient"
	"github.com/careqhq/careq/internal/domain/symptom"
	"github.com/careqhq/careq/internal/scheduling"
	"github.com/careqhq/careq/internal/service"
	"github.com/careqhq/careq/internal/triage"
	"github.com/careqhq/careq/pkg/metrics"
)

type fakePatientRepo struct {
	patients []*patient.Patient
}

func (f *fakePatientRepo) Create(_ context.Context, p *patient.Patient) error {
	for _, existing := range f.patients {
		if existing.Phone == p.Phone {
			return patient.ErrPhoneAlreadyExists
		}
	}
	p.ID = uuid.New()
	f.patients = append(f.patients, p)
	return nil
}

func (f *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	for _, p := range f.patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

func (f *fakePatientRepo) GetByPhone(_ context.Context, phone string) (*patient.Patient, error) {
	for _, p := range f.patients {
		if p.Phone == phone {
			return p, nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

func (f *fakePatientRepo) UpdateAllergies(context.Context, uuid.UUID, string) error { return nil }
func (f *fakePatientRepo) SetPasswordHash(context.Context, uuid.UUID, string) error { return nil }
func (f *fakePatientRepo) List(context.Context, int) ([]*patient.Patient, error)    { return nil, nil }
func (f *fakePatientRepo) Statistics(context.Context) (*patient.Statistics, error)  { return nil, nil }

type fakeSymptomRepo struct {
	symptoms []*symptom.Symptom
}

func (f *fakeSymptomRepo) Create(_ context.Context, s *symptom.Symptom) error {
	s.ID = uuid.New()
	f.symptoms = append(f.symptoms, s)
	return nil
}

func (f *fakeSymptomRepo) GetByID(_ context.Context, id uuid.UUID) (*symptom.Symptom, error) {
	for _, s := range f.symptoms {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, symptom.ErrSymptomNotFound
}

func (f *fakeSymptomRepo) HistoryByPatient(context.Context, uuid.UUID, int) ([]symptom.HistoryEntry, error) {
	return nil, nil
}

type fakeDiagnosisRepo struct {
	diagnoses []*diagnosis.Diagnosis
}

func (f *fakeDiagnosisRepo) Create(_ context.Context, d *diagnosis.Diagnosis) error {
	d.ID = uuid.New()
	f.diagnoses = append(f.diagnoses, d)
	return nil
}

func (f *fakeDiagnosisRepo) GetBySymptomID(_ context.Context, symptomID uuid.UUID) (*diagnosis.Diagnosis, error) {
	for _, d := range f.diagnoses {
		if d.SymptomID == symptomID {
			return d, nil
		}
	}
	return nil, diagnosis.ErrDiagnosisNotFound
}

func (f *fakeDiagnosisRepo) DiseaseDistribution(context.Context, int) ([]diagnosis.DiseaseFrequency, error) {
	return nil, nil
}

// fakeDoctorRepo maps specialization name to doctors with fixed
// appointment counts.
type fakeDoctorRepo struct {
	bySpecialization map[string][]doctor.Load
	counts           map[uuid.UUID]int
}

func (f *fakeDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	for _, loads := range f.bySpecialization {
		for _, l := range loads {
			if l.Doctor.ID == id {
				d := l.Doctor
				return &d, nil
			}
		}
	}
	return nil, doctor.ErrDoctorNotFound
}

func (f *fakeDoctorRepo) GetByName(context.Context, string) (*doctor.Doctor, error) {
	return nil, doctor.ErrDoctorNotFound
}

func (f *fakeDoctorRepo) LoadsBySpecialization(_ context.Context, specialization string, _ time.Time) ([]doctor.Load, error) {
	return f.bySpecialization[specialization], nil
}

func (f *fakeDoctorRepo) CountAppointmentsOnDate(_ context.Context, doctorID uuid.UUID, _ time.Time) (int, error) {
	return f.counts[doctorID], nil
}

func (f *fakeDoctorRepo) ListSpecializations(context.Context) ([]string, error) { return nil, nil }
func (f *fakeDoctorRepo) Workloads(context.Context) ([]doctor.Workload, error)  { return nil, nil }

type fakeAppointmentRepo struct {
	appointments []*appointment.Appointment
	failCreate   error
}

func (f *fakeAppointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	a.ID = uuid.New()
	f.appointments = append(f.appointments, a)
	return nil
}

func (f *fakeAppointmentRepo) GetByID(context.Context, uuid.UUID) (*appointment.Appointment, error) {
	return nil, appointment.ErrAppointmentNotFound
}
func (f *fakeAppointmentRepo) UpdateStatus(context.Context, *appointment.Appointment) error {
	return nil
}
func (f *fakeAppointmentRepo) UpdateSchedule(context.Context, *appointment.Appointment) error {
	return nil
}
func (f *fakeAppointmentRepo) Queue(context.Context, *appointment.QueueQuery) ([]appointment.QueueEntry, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) GetEntry(context.Context, uuid.UUID) (*appointment.QueueEntry, error) {
	return nil, appointment.ErrAppointmentNotFound
}
func (f *fakeAppointmentRepo) List(context.Context, *appointment.ListQuery) ([]appointment.QueueEntry, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) DailyTrends(context.Context, int) ([]appointment.TrendPoint, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) UrgencyDistribution(context.Context) ([]appointment.UrgencyCount, error) {
	return nil, nil
}

type noopAuditRepo struct{}

func (noopAuditRepo) Create(context.Context, *domain.AuditLog) error { return nil }
func (noopAuditRepo) List(context.Context, *service.AuditQuery) ([]*domain.AuditLog, error) {
	return nil, nil
}

type harness struct {
	svc          *Service
	patients     *fakePatientRepo
	symptoms     *fakeSymptomRepo
	diagnoses    *fakeDiagnosisRepo
	doctors      *fakeDoctorRepo
	appointments *fakeAppointmentRepo
}

func newHarness(t *testing.T, doctors *fakeDoctorRepo) *harness {
	t.Helper()

	log := zap.NewNop()
	auditSvc := service.NewAuditService(noopAuditRepo{}, metrics.NewCollector("careq_audit_test"), log)
	t.Cleanup(auditSvc.Shutdown)

	h := &harness{
		patients:     &fakePatientRepo{},
		symptoms:     &fakeSymptomRepo{},
		diagnoses:    &fakeDiagnosisRepo{},
		doctors:      doctors,
		appointments: &fakeAppointmentRepo{},
	}

	// No classifier: every analysis resolves through the keyword
	// fallback, which keeps tests deterministic.
	analyzer := triage.NewAnalyzer(nil, log)
	assigner := scheduling.NewAssigner(doctors, log)

	h.svc = NewService(
		h.patients, h.symptoms, h.diagnoses, h.doctors, h.appointments,
		analyzer, assigner, auditSvc, metrics.NewCollector("careq_test"), log,
	)
	return h
}

func rosterWith(specialization string, counts ...int) *fakeDoctorRepo {
	repo := &fakeDoctorRepo{
		bySpecialization: map[string][]doctor.Load{},
		counts:           map[uuid.UUID]int{},
	}
	for i, count := range counts {
		d := doctor.Doctor{
			ID:   uuid.New(),
			Name: "Dr. " + specialization + " " + strconv.Itoa(i),
			Specialization: &doctor.Specialization{
				Name: specialization,
			},
		}
		repo.bySpecialization[specialization] = append(repo.bySpecialization[specialization],
			doctor.Load{Doctor: d, AppointmentCount: count})
		repo.counts[d.ID] = count
	}
	return repo
}

func validRequest() *Request {
	return &Request{
		FirstName:               "Ravi",
		LastName:                "Kumar",
		Age:                     54,
		Gender:                  patient.GenderMale,
		Phone:                   "9876543210",
		SymptomText:             "sudden crushing chest pain radiating to my left arm with shortness of breath",
		PreferredSpecialization: "Cardiology",
		Date:                    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Mode:                    appointment.ModeOffline,
	}
}

func TestBookCriticalSymptomsLandInMorningSlot(t *testing.T) {
	h := newHarness(t, rosterWith("Cardiology", 0))

	result, err := h.svc.Book(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 9, result.Diagnosis.UrgencyLevel)
	assert.Equal(t, "Emergency Medical Condition", result.Diagnosis.PredictedDisease)
	assert.True(t, result.Diagnosis.Fallback)
	assert.Equal(t, appointment.StatusConfirmed, result.Appointment.Status)

	// Urgency >= 8 books into the first band of the day.
	hour, err := strconv.Atoi(strings.Split(result.Appointment.Time, ":")[0])
	require.NoError(t, err)
	assert.Less(t, hour, 12, "critical booking should land before noon, got %s", result.Appointment.Time)

	assert.Equal(t, result.Patient.ID, result.Appointment.PatientID)
	assert.Equal(t, result.Symptom.ID, result.Appointment.SymptomID)
	assert.Equal(t, result.Diagnosis.SymptomID, result.Symptom.ID)
}

func TestBookAssignsLeastLoadedDoctor(t *testing.T) {
	roster := rosterWith("Cardiology", 5, 2, 8)
	h := newHarness(t, roster)

	result, err := h.svc.Book(context.Background(), validRequest())
	require.NoError(t, err)

	want := roster.bySpecialization["Cardiology"][1].Doctor.ID
	assert.Equal(t, want, result.Doctor.ID)
}

func TestBookFallsBackToGeneralMedicine(t *testing.T) {
	roster := rosterWith(doctor.GeneralSpecialization, 3)
	h := newHarness(t, roster)

	req := validRequest()
	req.PreferredSpecialization = "Dermatology"

	result, err := h.svc.Book(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, doctor.GeneralSpecialization, result.Doctor.Specialization.Name)
}

func TestBookNoCapacityNamesAssignStep(t *testing.T) {
	// Everyone at the cap, general medicine included.
	roster := rosterWith("Cardiology", doctor.DailyCapacity)
	roster.bySpecialization[doctor.GeneralSpecialization] = []doctor.Load{
		{Doctor: doctor.Doctor{ID: uuid.New(), Name: "Dr. General"}, AppointmentCount: doctor.DailyCapacity},
	}
	h := newHarness(t, roster)

	_, err := h.svc.Book(context.Background(), validRequest())
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepAssignDoctor, stepErr.Step)
	assert.ErrorIs(t, err, ErrNoCapacity)

	// Steps 1-4 committed and stay committed.
	assert.Len(t, h.patients.patients, 1)
	assert.Len(t, h.symptoms.symptoms, 1)
	assert.Len(t, h.diagnoses.diagnoses, 1)
	assert.Empty(t, h.appointments.appointments)
}

func TestBookDuplicatePhoneFailsAtPatientStep(t *testing.T) {
	h := newHarness(t, rosterWith("Cardiology", 0))

	_, err := h.svc.Book(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = h.svc.Book(context.Background(), validRequest())
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepCreatePatient, stepErr.Step)
	assert.ErrorIs(t, err, patient.ErrPhoneAlreadyExists)

	// Nothing past step 1 ran on the second attempt.
	assert.Len(t, h.symptoms.symptoms, 1)
	assert.Len(t, h.appointments.appointments, 1)
}

func TestBookValidationRejectsBeforeAnySideEffect(t *testing.T) {
	h := newHarness(t, rosterWith("Cardiology", 0))

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing first name", func(r *Request) { r.FirstName = "  " }},
		{"zero age", func(r *Request) { r.Age = 0 }},
		{"invalid gender", func(r *Request) { r.Gender = "Unknown" }},
		{"missing phone", func(r *Request) { r.Phone = "" }},
		{"short symptom text", func(r *Request) { r.SymptomText = "headache" }},
		{"missing specialization", func(r *Request) { r.PreferredSpecialization = "" }},
		{"zero date", func(r *Request) { r.Date = time.Time{} }},
		{"invalid mode", func(r *Request) { r.Mode = "Phone" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := h.svc.Book(context.Background(), req)
			require.Error(t, err)

			var validErr *service.ValidationError
			assert.ErrorAs(t, err, &validErr)
			assert.Empty(t, h.patients.patients)
		})
	}
}

func TestBookModerateSymptomsUseMiddayBand(t *testing.T) {
	h := newHarness(t, rosterWith("General Medicine", 0))

	req := validRequest()
	req.PreferredSpecialization = "General Medicine"
	req.Phone = "9000000001"
	req.SymptomText = "persistent cough and mild fever for the last three days"

	result, err := h.svc.Book(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Diagnosis.UrgencyLevel)
	// Urgency 4-7 books into the midday band starting at 12:00.
	assert.Equal(t, "12:00", result.Appointment.Time)
}
