package scheduling

import (
	"context"
	"time"

	"github.com/careqhq/careq/internal/domain/doctor"
	"go.uber.org/zap"
)

// Assigner routes a booking to the least-loaded eligible doctor.
type Assigner struct {
	doctors doctor.Repository
	log     *zap.Logger
}

func NewAssigner(doctors doctor.Repository, log *zap.Logger) *Assigner {
	return &Assigner{doctors: doctors, log: log}
}

// FindAvailableDoctor picks the available doctor in the given
// specialization with the fewest Confirmed/Pending appointments on
// date, excluding anyone at or above the daily capacity cap. Returns
// doctor.ErrNoDoctorAvailable when nobody qualifies; the caller decides
// whether to retry with a fallback specialization.
func (a *Assigner) FindAvailableDoctor(ctx context.Context, specialization string, date time.Time) (*doctor.Doctor, error) {
	loads, err := a.doctors.LoadsBySpecialization(ctx, specialization, date)
	if err != nil {
		return nil, err
	}

	selected := PickLeastLoaded(loads, doctor.DailyCapacity)
	if selected == nil {
		a.log.Info("no doctor under capacity",
			zap.String("specialization", specialization),
			zap.Time("date", date),
		)
		return nil, doctor.ErrNoDoctorAvailable
	}

	a.log.Info("doctor assigned",
		zap.String("doctor_id", selected.Doctor.ID.String()),
		zap.String("specialization", specialization),
		zap.Int("same_day_appointments", selected.AppointmentCount),
	)

	return &selected.Doctor, nil
}

// PickLeastLoaded selects the load row with the fewest appointments
// among those strictly under the capacity cap. Ties keep the earlier
// row, so input order decides; repositories supply rows in stable
// doctor-ID order.
func PickLeastLoaded(loads []doctor.Load, capacity int) *doctor.Load {
	var best *doctor.Load
	for i := range loads {
		l := &loads[i]
		if l.AppointmentCount >= capacity {
			continue
		}
		if best == nil || l.AppointmentCount < best.AppointmentCount {
			best = l
		}
	}
	return best
}
