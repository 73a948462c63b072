package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/careqhq/careq/internal/domain/doctor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDoctorRepo implements doctor.Repository over fixed load rows.
type fakeDoctorRepo struct {
	loads []doctor.Load
	err   error
}

func (f *fakeDoctorRepo) GetByID(context.Context, uuid.UUID) (*doctor.Doctor, error) {
	return nil, doctor.ErrDoctorNotFound
}

func (f *fakeDoctorRepo) GetByName(context.Context, string) (*doctor.Doctor, error) {
	return nil, doctor.ErrDoctorNotFound
}

func (f *fakeDoctorRepo) LoadsBySpecialization(context.Context, string, time.Time) ([]doctor.Load, error) {
	return f.loads, f.err
}

func (f *fakeDoctorRepo) CountAppointmentsOnDate(context.Context, uuid.UUID, time.Time) (int, error) {
	return 0, nil
}

func (f *fakeDoctorRepo) ListSpecializations(context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeDoctorRepo) Workloads(context.Context) ([]doctor.Workload, error) {
	return nil, nil
}

func load(name string, count int) doctor.Load {
	return doctor.Load{
		Doctor:           doctor.Doctor{ID: uuid.New(), Name: name, Available: true},
		AppointmentCount: count,
	}
}

func TestFindAvailableDoctor_PicksLeastLoaded(t *testing.T) {
	repo := &fakeDoctorRepo{loads: []doctor.Load{
		load("Dr. Mehta", 5),
		load("Dr. Rao", 3),
		load("Dr. Iyer", 8),
	}}
	a := NewAssigner(repo, zap.NewNop())

	d, err := a.FindAvailableDoctor(context.Background(), "Cardiology", time.Now())

	require.NoError(t, err)
	assert.Equal(t, "Dr. Rao", d.Name)
}

func TestFindAvailableDoctor_ExcludesDoctorsAtCapacity(t *testing.T) {
	repo := &fakeDoctorRepo{loads: []doctor.Load{
		load("Dr. Full", doctor.DailyCapacity),
		load("Dr. Busy", doctor.DailyCapacity-1),
	}}
	a := NewAssigner(repo, zap.NewNop())

	d, err := a.FindAvailableDoctor(context.Background(), "Cardiology", time.Now())

	require.NoError(t, err)
	assert.Equal(t, "Dr. Busy", d.Name)
}

func TestFindAvailableDoctor_NoneAvailable(t *testing.T) {
	tests := []struct {
		name  string
		loads []doctor.Load
	}{
		{name: "empty specialization", loads: nil},
		{name: "everyone at capacity", loads: []doctor.Load{
			load("Dr. A", doctor.DailyCapacity),
			load("Dr. B", doctor.DailyCapacity+4),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAssigner(&fakeDoctorRepo{loads: tt.loads}, zap.NewNop())

			_, err := a.FindAvailableDoctor(context.Background(), "Dermatology", time.Now())

			assert.ErrorIs(t, err, doctor.ErrNoDoctorAvailable)
		})
	}
}

func TestPickLeastLoaded_TieKeepsFirstRow(t *testing.T) {
	loads := []doctor.Load{
		load("Dr. First", 2),
		load("Dr. Second", 2),
	}

	got := PickLeastLoaded(loads, doctor.DailyCapacity)

	require.NotNil(t, got)
	assert.Equal(t, "Dr. First", got.Doctor.Name)
}
