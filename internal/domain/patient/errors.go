package patient

import "errors"

var (
	ErrPatientNotFound    = errors.New("patient not found")
	ErrPhoneAlreadyExists = errors.New("patient with this phone number already exists")
	ErrInvalidGender      = errors.New("invalid gender value")
	ErrPasswordAlreadySet = errors.New("patient already has a password")
	ErrInvalidCredentials = errors.New("invalid phone number or password")
)
