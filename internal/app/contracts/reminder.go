package contracts

import (
	"context"
	"time"
)

// ReminderScheduler queues a reminder to fire at fireAt. It is fire and
// forget so implementations log their own failures.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, appointmentID, patientID string, fireAt time.Time)
}

// NotificationPublisher hands a due reminder to the delivery channel.
type NotificationPublisher interface {
	PublishReminderNotification(ctx context.Context, notification *ReminderNotification) error
}

type ReminderNotification struct {
	AppointmentID  string    `json:"appointmentId"`
	PatientID      string    `json:"patientId"`
	DoctorID       string    `json:"doctorId"`
	DateTime       time.Time `json:"dateTime"`
	EndTime        time.Time `json:"endTime"`
	ReasonForVisit string    `json:"reasonForVisit"`
}

type ReminderUsecase interface {
	DispatchReminder(ctx context.Context, appointmentID string, fireAt time.Time) (bool, error)
	DispatchDueReminders(ctx context.Context, now time.Time) (int, error)
}
