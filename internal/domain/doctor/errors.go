package doctor

import "errors"

var (
	ErrDoctorNotFound         = errors.New("doctor not found")
	ErrNoDoctorAvailable      = errors.New("no doctor available for this specialization and date")
	ErrSpecializationNotFound = errors.New("specialization not found")
)
