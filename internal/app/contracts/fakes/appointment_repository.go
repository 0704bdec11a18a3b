// Package fakes holds in-memory implementations of the contracts interfaces
// for usecase and delivery tests.
package fakes

import (
	"context"
	"errors"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/interval"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const duplicateKeyCode = 11000

var errAppointmentModified = errors.New("appointment was changed or is no longer scheduled")

// AppointmentRepository mirrors the MongoDB repository, including the
// partial unique index on (doctorId, dateTime) for scheduled appointments.
type AppointmentRepository struct {
	mu           sync.Mutex
	appointments map[string]models.Appointment
	// FindDelay widens the race window between the conflict read and a
	// following write.
	FindDelay time.Duration
	Err       error
}

func NewAppointmentRepository(appointments ...models.Appointment) *AppointmentRepository {
	repo := &AppointmentRepository{appointments: map[string]models.Appointment{}}
	for _, appointment := range appointments {
		if appointment.ID == "" {
			appointment.ID = primitive.NewObjectID().Hex()
		}
		repo.appointments[appointment.ID] = appointment
	}
	return repo
}

func duplicateKeyError() error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: duplicateKeyCode, Message: "E11000 duplicate key error"}}}
}

func (r *AppointmentRepository) violatesScheduleIndex(candidate *models.Appointment) bool {
	if candidate.Status != constvars.AppointmentStatusScheduled {
		return false
	}
	for id, appointment := range r.appointments {
		if id == candidate.ID || appointment.Status != constvars.AppointmentStatusScheduled {
			continue
		}
		if appointment.DoctorID == candidate.DoctorID && appointment.DateTime.Equal(candidate.DateTime) {
			return true
		}
	}
	return false
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return "", r.Err
	}
	if appointment.ID == "" {
		appointment.ID = primitive.NewObjectID().Hex()
	}
	if r.violatesScheduleIndex(appointment) {
		return "", duplicateKeyError()
	}
	r.appointments[appointment.ID] = *appointment
	return appointment.ID, nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	appointment, ok := r.appointments[appointmentID]
	if !ok {
		return nil, nil
	}
	return &appointment, nil
}

func (r *AppointmentRepository) FindAll(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	result := []models.Appointment{}
	for _, appointment := range r.appointments {
		if filter.PatientID != "" && appointment.PatientID != filter.PatientID {
			continue
		}
		if filter.DoctorID != "" && appointment.DoctorID != filter.DoctorID {
			continue
		}
		if filter.Status != "" && appointment.Status != filter.Status {
			continue
		}
		if filter.From != nil && appointment.DateTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !appointment.DateTime.Before(*filter.To) {
			continue
		}
		result = append(result, appointment)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DateTime.Before(result[j].DateTime) })
	return result, nil
}

func (r *AppointmentRepository) FindScheduledOverlapping(ctx context.Context, doctorID string, window interval.Interval, excludeID string) ([]models.Appointment, error) {
	if r.FindDelay > 0 {
		time.Sleep(r.FindDelay)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	result := []models.Appointment{}
	for id, appointment := range r.appointments {
		if id == excludeID || appointment.DoctorID != doctorID || !appointment.OccupiesCalendar() {
			continue
		}
		if interval.Overlaps(appointment.Interval(), window) {
			result = append(result, appointment)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DateTime.Before(result[j].DateTime) })
	return result, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, appointment *models.Appointment, expectedUpdatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	stored, ok := r.appointments[appointment.ID]
	if !ok || stored.Status != constvars.AppointmentStatusScheduled || !stored.UpdatedAt.Equal(expectedUpdatedAt) {
		return exceptions.ErrConcurrencyConflict(errAppointmentModified)
	}
	if r.violatesScheduleIndex(appointment) {
		return duplicateKeyError()
	}
	r.appointments[appointment.ID] = *appointment
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, appointmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	delete(r.appointments, appointmentID)
	return nil
}

func (r *AppointmentRepository) DeleteByDoctorID(ctx context.Context, doctorID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var deleted int64
	for id, appointment := range r.appointments {
		if appointment.DoctorID == doctorID {
			delete(r.appointments, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *AppointmentRepository) FindPendingReminders(ctx context.Context, now time.Time, limit int) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	result := []models.Appointment{}
	for _, appointment := range r.appointments {
		if appointment.Status != constvars.AppointmentStatusScheduled || appointment.ReminderSent {
			continue
		}
		if appointment.ReminderTime.After(now) || !appointment.DateTime.After(now) {
			continue
		}
		result = append(result, appointment)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ReminderTime.Before(result[j].ReminderTime) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *AppointmentRepository) MarkReminderSent(ctx context.Context, appointmentID string, reminderTime time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	appointment, ok := r.appointments[appointmentID]
	if !ok || appointment.Status != constvars.AppointmentStatusScheduled || appointment.ReminderSent {
		return false, nil
	}
	if !appointment.ReminderTime.Equal(reminderTime) {
		return false, nil
	}
	appointment.ReminderSent = true
	r.appointments[appointmentID] = appointment
	return true, nil
}

// Snapshot returns a copy of every stored appointment.
func (r *AppointmentRepository) Snapshot() []models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]models.Appointment, 0, len(r.appointments))
	for _, appointment := range r.appointments {
		result = append(result, appointment)
	}
	return result
}
