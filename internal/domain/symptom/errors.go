package symptom

import "errors"

var (
	ErrSymptomNotFound = errors.New("symptom not found")
	ErrTextTooShort    = errors.New("symptom text too short")
)
