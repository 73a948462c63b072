package record

import "errors"

var (
	ErrRecordNotFound        = errors.New("medical record not found")
	ErrRecordAlreadyExists   = errors.New("appointment already has a medical record")
	ErrFeedbackAlreadyExists = errors.New("feedback already submitted for this appointment")
	ErrInvalidRating         = errors.New("rating must be between 1 and 5")
	ErrDiagnosisRequired     = errors.New("diagnosis text is required")
)
