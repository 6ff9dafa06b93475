package medication

import "errors"

var (
	ErrMedicationNotFound = errors.New("medication not found")
	ErrScheduleNotFound   = errors.New("schedule not found")
)
