package contracts

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/interval"
	"time"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) (string, error)
	FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	FindAll(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
	// FindScheduledOverlapping returns the scheduled appointments of the doctor
	// overlapping window, skipping excludeID when it is not empty.
	FindScheduledOverlapping(ctx context.Context, doctorID string, window interval.Interval, excludeID string) ([]models.Appointment, error)
	// Update writes appointment only while the stored copy is still scheduled
	// and was last updated at expectedUpdatedAt. Anything else is a
	// concurrency conflict.
	Update(ctx context.Context, appointment *models.Appointment, expectedUpdatedAt time.Time) error
	Delete(ctx context.Context, appointmentID string) error
	DeleteByDoctorID(ctx context.Context, doctorID string) (int64, error)
	FindPendingReminders(ctx context.Context, now time.Time, limit int) ([]models.Appointment, error)
	// MarkReminderSent flips reminderSent only when the appointment is still
	// scheduled with the same reminderTime. It reports whether it did.
	MarkReminderSent(ctx context.Context, appointmentID string, reminderTime time.Time) (bool, error)
}

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, session *models.Session, request *requests.CreateAppointment) (*responses.Appointment, error)
	FindAll(ctx context.Context, session *models.Session, request *requests.FindAllAppointments) ([]responses.Appointment, error)
	FindByID(ctx context.Context, session *models.Session, appointmentID string) (*responses.Appointment, error)
	UpdateAppointment(ctx context.Context, session *models.Session, appointmentID string, request *requests.UpdateAppointment) (*responses.Appointment, error)
	DeleteAppointment(ctx context.Context, session *models.Session, appointmentID string) error
}
