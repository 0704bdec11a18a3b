// Package availability derives the bookable slots of a doctor for a calendar
// day from the weekly working hours, one-off blackouts and live bookings.
package availability

import (
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/interval"
	"time"
)

// Compute returns the full-length slots of the doctor's working window on
// the calendar day of date, in chronological order, using date's location.
// A day without a working hours rule yields no slots and no error.
//
// A slot is unavailable when it overlaps a blackout touching that day or a
// booked appointment that still occupies the calendar.
func Compute(doctor *models.Doctor, date time.Time, booked []models.Appointment, slotMinutes int) ([]models.TimeSlot, error) {
	if slotMinutes <= 0 {
		slotMinutes = constvars.DefaultSlotDurationInMinutes
	}

	loc := date.Location()
	window, ok, err := doctor.WorkWindow(date, loc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.TimeSlot{}, nil
	}

	day := interval.DayBounds(date, loc)
	busy := make([]interval.Interval, 0, len(doctor.UnavailableTimes)+len(booked))
	for _, blackout := range doctor.UnavailableTimes {
		if iv := blackout.Interval(); interval.Overlaps(iv, day) {
			busy = append(busy, iv)
		}
	}
	for i := range booked {
		if booked[i].OccupiesCalendar() {
			busy = append(busy, booked[i].Interval())
		}
	}

	parts := interval.Split(window, time.Duration(slotMinutes)*time.Minute)
	slots := make([]models.TimeSlot, 0, len(parts))
	for _, part := range parts {
		slots = append(slots, models.TimeSlot{
			Start:       part.Start,
			End:         part.End,
			IsAvailable: !overlapsAny(part, busy),
		})
	}
	return slots, nil
}

func overlapsAny(iv interval.Interval, others []interval.Interval) bool {
	for _, other := range others {
		if interval.Overlaps(iv, other) {
			return true
		}
	}
	return false
}
