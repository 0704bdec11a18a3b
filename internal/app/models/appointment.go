package models

import (
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/interval"
	"time"
)

type Appointment struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	PatientID      string    `json:"patientId" bson:"patientId"`
	DoctorID       string    `json:"doctorId" bson:"doctorId"`
	DateTime       time.Time `json:"dateTime" bson:"dateTime"`
	EndTime        time.Time `json:"endTime" bson:"endTime"`
	ReasonForVisit string    `json:"reasonForVisit" bson:"reasonForVisit"`
	Status         string    `json:"status" bson:"status"`
	Notes          string    `json:"notes,omitempty" bson:"notes,omitempty"`
	ReminderSent   bool      `json:"reminderSent" bson:"reminderSent"`
	ReminderTime   time.Time `json:"reminderTime" bson:"reminderTime"`
	TimeModel      `bson:",inline"`
}

func (a *Appointment) Interval() interval.Interval {
	return interval.Interval{Start: a.DateTime, End: a.EndTime}
}

// OccupiesCalendar is true only for scheduled appointments. Completed,
// cancelled and no-show appointments never block a booking.
func (a *Appointment) OccupiesCalendar() bool {
	return a.Status == constvars.AppointmentStatusScheduled
}

// ResetReminder derives the reminder fire time from DateTime and marks it as
// not yet sent.
func (a *Appointment) ResetReminder(lead time.Duration) {
	a.ReminderTime = a.DateTime.Add(-lead)
	a.ReminderSent = false
}

func IsAppointmentStatus(status string) bool {
	switch status {
	case constvars.AppointmentStatusScheduled,
		constvars.AppointmentStatusCompleted,
		constvars.AppointmentStatusCancelled,
		constvars.AppointmentStatusNoShow:
		return true
	}
	return false
}

// CanTransitionStatus allows scheduled -> completed|cancelled|no-show. Every
// other status is terminal.
func CanTransitionStatus(from, to string) bool {
	if from == to {
		return true
	}
	if from != constvars.AppointmentStatusScheduled {
		return false
	}
	switch to {
	case constvars.AppointmentStatusCompleted,
		constvars.AppointmentStatusCancelled,
		constvars.AppointmentStatusNoShow:
		return true
	}
	return false
}

type AppointmentFilter struct {
	PatientID string
	DoctorID  string
	Status    string
	From      *time.Time
	To        *time.Time
}
