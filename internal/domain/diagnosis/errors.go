package diagnosis

import "errors"

var ErrDiagnosisNotFound = errors.New("diagnosis not found")
