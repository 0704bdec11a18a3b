package booking

import (
	"errors"
	"medibook-service/internal/pkg/exceptions"
)

// AsCustomError converts the guard's rejections into their HTTP facing
// errors. Anything else is returned unchanged.
func AsCustomError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNoWorkingHours):
		return exceptions.ErrDoctorDoesNotWorkOnThisDay(err)
	case errors.Is(err, ErrOutsideWorkingHours):
		return exceptions.ErrOutsideWorkingHours(err)
	case errors.Is(err, ErrDoctorUnavailable):
		return exceptions.ErrDoctorUnavailable(err)
	case errors.Is(err, ErrSlotAlreadyBooked):
		return exceptions.ErrSlotAlreadyBooked(err)
	case errors.Is(err, ErrConcurrencyConflict):
		return exceptions.ErrConcurrencyConflict(err)
	}
	return err
}
