package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/careqhq/careq/internal/domain/appointment"
	"github.com/careqhq/careq/internal/domain/diagnosis"
	"github.com/careqhq/careq/internal/domain/doctor"
	"github.com/careqhq/careq/internal/domain/patient"
)

// Overview is the top-line dashboard snapshot.
type Overview struct {
	TotalPatients  int64                      `json:"total_patients"`
	AverageAge     float64                    `json:"average_age"`
	Specialization []SpecializationDemand     `json:"specialization_demand"`
	Urgency        []appointment.UrgencyCount `json:"urgency_distribution"`
}

// SpecializationDemand counts active appointments per specialization.
type SpecializationDemand struct {
	Specialization string `json:"specialization"`
	Appointments   int64  `json:"appointments"`
}

type AnalyticsService struct {
	patients     patient.Repository
	doctors      doctor.Repository
	diagnoses    diagnosis.Repository
	appointments appointment.Repository
	log          *zap.Logger
}

func NewAnalyticsService(patients patient.Repository, doctors doctor.Repository, diagnoses diagnosis.Repository, appointments appointment.Repository, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		patients:     patients,
		doctors:      doctors,
		diagnoses:    diagnoses,
		appointments: appointments,
		log:          log,
	}
}

// DiseaseDistribution returns the most frequently predicted diseases.
func (s *AnalyticsService) DiseaseDistribution(ctx context.Context, limit int) ([]diagnosis.DiseaseFrequency, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.diagnoses.DiseaseDistribution(ctx, limit)
}

// Specializations lists the bookable specialization names for the
// intake form.
func (s *AnalyticsService) Specializations(ctx context.Context) ([]string, error) {
	return s.doctors.ListSpecializations(ctx)
}

// DoctorWorkloads aggregates per-doctor appointment counts and average
// urgency.
func (s *AnalyticsService) DoctorWorkloads(ctx context.Context) ([]doctor.Workload, error) {
	return s.doctors.Workloads(ctx)
}

// DailyTrends returns per-day appointment totals with urgency band
// breakdown for the last N days.
func (s *AnalyticsService) DailyTrends(ctx context.Context, days int) ([]appointment.TrendPoint, error) {
	if days <= 0 || days > 90 {
		days = 14
	}
	return s.appointments.DailyTrends(ctx, days)
}

// Overview assembles the dashboard summary from the underlying
// aggregates.
func (s *AnalyticsService) Overview(ctx context.Context) (*Overview, error) {
	stats, err := s.patients.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	urgency, err := s.appointments.UrgencyDistribution(ctx)
	if err != nil {
		return nil, err
	}

	workloads, err := s.doctors.Workloads(ctx)
	if err != nil {
		return nil, err
	}

	demand := make(map[string]int64)
	for _, w := range workloads {
		demand[w.Specialization] += w.Total
	}
	specs := make([]SpecializationDemand, 0, len(demand))
	for name, count := range demand {
		specs = append(specs, SpecializationDemand{Specialization: name, Appointments: count})
	}

	return &Overview{
		TotalPatients:  stats.TotalPatients,
		AverageAge:     stats.AverageAge,
		Specialization: specs,
		Urgency:        urgency,
	}, nil
}
