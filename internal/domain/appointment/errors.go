package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrNotReschedulable        = errors.New("only pending or confirmed appointments can be rescheduled")
	ErrInvalidMode             = errors.New("invalid consultation mode")
)
