// Package booking decides whether a proposed appointment interval may be
// placed on a doctor's calendar and commits it while holding the doctor's
// per-day reservation lock.
package booking

import (
	"errors"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/interval"
	"time"
)

var (
	ErrNoWorkingHours      = errors.New("doctor has no working hours on this day")
	ErrOutsideWorkingHours = errors.New("interval is outside working hours")
	ErrDoctorUnavailable   = errors.New("interval overlaps an unavailable time")
	ErrSlotAlreadyBooked   = errors.New("interval overlaps a scheduled appointment")
	ErrConcurrencyConflict = errors.New("reservation lost a concurrent booking race")
)

// CheckWorkingHours requires a rule for the weekday of iv.Start and iv to lie
// within [workStart, workEnd] of that rule in the deployment timezone.
func CheckWorkingHours(doctor *models.Doctor, iv interval.Interval) error {
	window, ok, err := doctor.WorkWindow(iv.Start, time.Local)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoWorkingHours
	}
	if !interval.Contains(window, iv) {
		return ErrOutsideWorkingHours
	}
	return nil
}

func CheckBlackouts(doctor *models.Doctor, iv interval.Interval) error {
	for _, blackout := range doctor.UnavailableTimes {
		if interval.Overlaps(blackout.Interval(), iv) {
			return ErrDoctorUnavailable
		}
	}
	return nil
}

// CheckConflicts rejects iv when it overlaps any appointment still occupying
// the calendar, other than excludeID.
func CheckConflicts(iv interval.Interval, existing []models.Appointment, excludeID string) error {
	for i := range existing {
		appointment := &existing[i]
		if excludeID != "" && appointment.ID == excludeID {
			continue
		}
		if !appointment.OccupiesCalendar() {
			continue
		}
		if interval.Overlaps(appointment.Interval(), iv) {
			return ErrSlotAlreadyBooked
		}
	}
	return nil
}
