package appointments

import (
	"context"
	"errors"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts/fakes"
	"medibook-service/internal/app/models"
	"medibook-service/internal/app/services/core/booking"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	doctorID     = "65f000000000000000000001"
	doctorUserID = "doctor-user-1"
)

var (
	admin         = &models.Session{UserID: "admin-1", Role: constvars.RoleAdmin}
	patient       = &models.Session{UserID: "patient-1", Role: constvars.RolePatient}
	otherPatient  = &models.Session{UserID: "patient-2", Role: constvars.RolePatient}
	doctorSession = &models.Session{UserID: doctorUserID, Role: constvars.RoleDoctor}
)

// 2030-03-04 is a Monday.
func at(hour, minute int) time.Time {
	return time.Date(2030, time.March, 4, hour, minute, 0, 0, time.Local)
}

type testEnv struct {
	uc           *appointmentUsecase
	appointments *fakes.AppointmentRepository
	doctors      *fakes.DoctorRepository
	scheduler    *fakes.ReminderScheduler
}

func newTestEnv() *testEnv {
	doctor := models.Doctor{
		ID:           doctorID,
		UserID:       doctorUserID,
		WorkingHours: []models.WorkingHoursRule{{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"}},
		UnavailableTimes: []models.UnavailableInterval{
			{StartDateTime: at(12, 0), EndDateTime: at(13, 0)},
		},
	}
	cfg := &config.InternalConfig{
		Booking:  config.AppBooking{LockTTLInSeconds: 10, LockWaitTimeoutInMilliseconds: 200, LockRetryIntervalInMilliseconds: 5},
		Reminder: config.AppReminder{LeadTimeInHours: 24},
	}
	appointments := fakes.NewAppointmentRepository()
	doctors := fakes.NewDoctorRepository(doctor)
	scheduler := &fakes.ReminderScheduler{}
	logger := zap.NewNop()

	return &testEnv{
		uc: &appointmentUsecase{
			AppointmentRepository: appointments,
			DoctorRepository:      doctors,
			Guard:                 booking.NewGuard(fakes.NewLocker(), doctors, appointments, cfg, logger),
			ReminderScheduler:     scheduler,
			InternalConfig:        cfg,
			Log:                   logger,
		},
		appointments: appointments,
		doctors:      doctors,
		scheduler:    scheduler,
	}
}

// interleavedAppointments runs afterFind once, right after the first lookup,
// to squeeze other writes in between a read and the write that follows it.
type interleavedAppointments struct {
	*fakes.AppointmentRepository
	afterFind func()
}

func (r *interleavedAppointments) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appointment, err := r.AppointmentRepository.FindByID(ctx, appointmentID)
	if hook := r.afterFind; hook != nil {
		r.afterFind = nil
		hook()
	}
	return appointment, err
}

// interleavedDoctors does the same for doctor lookups.
type interleavedDoctors struct {
	*fakes.DoctorRepository
	afterFind func()
}

func (r *interleavedDoctors) FindByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	doctor, err := r.DoctorRepository.FindByID(ctx, doctorID)
	if hook := r.afterFind; hook != nil {
		r.afterFind = nil
		hook()
	}
	return doctor, err
}

func createRequest(start, end time.Time) *requests.CreateAppointment {
	return &requests.CreateAppointment{
		DoctorID:       doctorID,
		DateTime:       start,
		EndTime:        end,
		ReasonForVisit: "checkup",
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr), "error should be a CustomError, got %v", err)
	return customErr.StatusCode
}

func ptr[T any](v T) *T {
	return &v
}

func TestCreateAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("Patient books a slot and a reminder is scheduled", func(t *testing.T) {
		env := newTestEnv()

		appointment, err := env.uc.CreateAppointment(ctx, patient, createRequest(at(10, 0), at(10, 30)))
		require.NoError(t, err)
		assert.NotEmpty(t, appointment.ID)
		assert.Equal(t, patient.UserID, appointment.PatientID)
		assert.Equal(t, constvars.AppointmentStatusScheduled, appointment.Status)
		assert.False(t, appointment.ReminderSent)
		assert.True(t, appointment.ReminderTime.Equal(at(10, 0).Add(-24*time.Hour)))

		scheduled := env.scheduler.Scheduled()
		require.Len(t, scheduled, 1)
		assert.Equal(t, appointment.ID, scheduled[0].AppointmentID)
		assert.True(t, scheduled[0].FireAt.Equal(appointment.ReminderTime))
	})

	t.Run("Patient id in the body is ignored for patients", func(t *testing.T) {
		env := newTestEnv()
		request := createRequest(at(10, 0), at(10, 30))
		request.PatientID = "patient-2"

		appointment, err := env.uc.CreateAppointment(ctx, patient, request)
		require.NoError(t, err)
		assert.Equal(t, patient.UserID, appointment.PatientID)
	})

	t.Run("Admin must name the patient", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.uc.CreateAppointment(ctx, admin, createRequest(at(10, 0), at(10, 30)))
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

		request := createRequest(at(10, 0), at(10, 30))
		request.PatientID = "patient-9"
		appointment, err := env.uc.CreateAppointment(ctx, admin, request)
		require.NoError(t, err)
		assert.Equal(t, "patient-9", appointment.PatientID)
	})

	t.Run("Doctors cannot create bookings", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.uc.CreateAppointment(ctx, doctorSession, createRequest(at(10, 0), at(10, 30)))
		assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	})

	t.Run("Duplicate booking is a conflict and the next slot is free", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.uc.CreateAppointment(ctx, patient, createRequest(at(10, 0), at(10, 30)))
		require.NoError(t, err)

		_, err = env.uc.CreateAppointment(ctx, otherPatient, createRequest(at(10, 0), at(10, 30)))
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
		assert.ErrorIs(t, err, booking.ErrSlotAlreadyBooked)

		_, err = env.uc.CreateAppointment(ctx, otherPatient, createRequest(at(10, 30), at(11, 0)))
		assert.NoError(t, err)
		assert.Len(t, env.scheduler.Scheduled(), 2, "rejected bookings should not schedule reminders")
	})

	t.Run("Domain rejections map to conflicts", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.uc.CreateAppointment(ctx, patient, createRequest(at(8, 0), at(8, 30)))
		assert.ErrorIs(t, err, booking.ErrOutsideWorkingHours)
		assert.Equal(t, http.StatusConflict, statusOf(t, err))

		_, err = env.uc.CreateAppointment(ctx, patient, createRequest(at(12, 0), at(12, 30)))
		assert.ErrorIs(t, err, booking.ErrDoctorUnavailable)
		assert.Equal(t, http.StatusConflict, statusOf(t, err))

		sunday := at(10, 0).AddDate(0, 0, -1)
		_, err = env.uc.CreateAppointment(ctx, patient, createRequest(sunday, sunday.Add(30*time.Minute)))
		assert.ErrorIs(t, err, booking.ErrNoWorkingHours)
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})

	t.Run("Blackout added after the doctor was read still rejects the booking", func(t *testing.T) {
		env := newTestEnv()
		doctors := &interleavedDoctors{DoctorRepository: env.doctors}
		doctors.afterFind = func() {
			doctor, err := env.doctors.FindByID(ctx, doctorID)
			require.NoError(t, err)
			doctor.UnavailableTimes = append(doctor.UnavailableTimes, models.UnavailableInterval{StartDateTime: at(10, 0), EndDateTime: at(11, 0)})
			require.NoError(t, env.doctors.Update(ctx, doctor))
		}
		env.uc.DoctorRepository = doctors

		_, err := env.uc.CreateAppointment(ctx, patient, createRequest(at(10, 0), at(10, 30)))
		assert.ErrorIs(t, err, booking.ErrDoctorUnavailable)
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
		assert.Empty(t, env.appointments.Snapshot())
	})

	t.Run("Invalid input and unknown doctor", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.uc.CreateAppointment(ctx, patient, createRequest(at(10, 30), at(10, 0)))
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

		request := createRequest(at(10, 0), at(10, 30))
		request.ReasonForVisit = "   "
		_, err = env.uc.CreateAppointment(ctx, patient, request)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

		request = createRequest(at(10, 0), at(10, 30))
		request.DoctorID = "65f0000000000000000000ff"
		_, err = env.uc.CreateAppointment(ctx, patient, request)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}

func TestUpdateAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("Cancellation frees the slot for a new booking", func(t *testing.T) {
		env := newTestEnv()
		first, err := env.uc.CreateAppointment(ctx, patient, createRequest(at(10, 0), at(10, 30)))
		require.NoError(t, err)

		cancelled, err := env.uc.UpdateAppointment(ctx, patient, first.ID, &requests.UpdateAppointment{Status: ptr(constvars.AppointmentStatusCancelled)})
		require.NoError(t, err)
		assert.Equal(t, constvars.AppointmentStatusCancelled, cancelled.Status)

		_, err = env.uc.CreateAppointment(ctx, otherPatient, createRequest(at(10, 0), at(10, 30)))
		assert.NoError(t, err)
	})

	t.Run("Rescheduling into an occupied slot is rejected", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.uc.CreateAppointment(ctx, patient, createRequest(at(10, 0), at(10, 30)))
		require.NoError(t, err)
		second, err := env.uc.CreateAppointment(ctx, otherPatient, createRequest(at(11, 0), at(11, 30)))
		require.NoError(t, err)

		_, err = env.uc.UpdateAppointment(ctx, otherPatient, second.ID, &requests.UpdateAppointment{
			DateTime: ptr(at(10, 15)),
			EndTime:  ptr(at(10, 45)),
		})
		assert.ErrorIs(t, err, booking.ErrSlotAlreadyBooked)
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})

	t.Run("Keeping the same time does not self conflict", func(t *testing.T) {
		env := newTestEnv()
		first, err := env.uc.CreateAppointment(ctx, patient, createRequest(at(10, 0), at(10, 30)))
		require.NoError(t, err)

		updated, err := env.uc.UpdateAppointment(ctx, patient, first.ID, &requests.UpdateAppointment{
			DateTime:       ptr(at(10, 0)),
			EndTime:        ptr(at(10, 30)),
			ReasonForVisit: ptr("follow up"),
		})
		require.NoError(t, err)
		assert.Equal(t, "follow up", updated.ReasonForVisit)
	})

	t.Run("Extending the end time re-validates the new window", func(t *testing.T) {
		env := newTestEnv()
		first, err := env.uc.CreateAppointment(ctx, patient, createRequest(at(11, 0), at(11, 30)))
		require.NoError(t, err)

		_, err = env.uc.UpdateAppointment(ctx, patient, first.ID, &requests.UpdateAppointment{EndTime: ptr(at(12, 30))})
		assert.ErrorIs(t, err, booking.ErrDoctorUnavailable)
	})

	t.Run("Rescheduling resets and reschedules the reminder", func(t *testing.T) {
		env := newTestEnv()
		first, err := env.uc.CreateAppointment(ctx, patient, createRequest(at(10, 0), at(10, 30)))
		require.NoError(t, err)
		_, err = env.appointments.MarkReminderSent(ctx, first.ID, first.ReminderTime)
		require.NoError(t, err)

		moved, err := env.uc.UpdateAppointment(ctx, patient, first.ID, &requests.UpdateAppointment{
			DateTime: ptr(at(14, 0)),
			EndTime:  ptr(at(14, 30)),
		})
		require.NoError(t, err)
		assert.False(t, moved.ReminderSent)
		assert.True(t, moved.ReminderTime.Equal(at(14, 0).Add(-24*time.Hour)))

		scheduled := env.scheduler.Scheduled()
		require.Len(t, scheduled, 2)
		assert.True(t, scheduled[1].FireAt.Equal(moved.ReminderTime))
	})

	t.Run("Terminal appointments cannot change", func(t *testing.T) {
		env := newTestEnv()
		first, err := env.uc.CreateAppointment(ctx, patient, createRequest(at(10, 0), at(10, 30)))
		require.NoError(t, err)
		_, err = env.uc.UpdateAppointment(ctx, doctorSession, first.ID, &requests.UpdateAppointment{Status: ptr(constvars.AppointmentStatusCompleted)})
		require.NoError(t, err)

		_, err = env.uc.UpdateAppointment(ctx, admin, first.ID, &requests.UpdateAppointment{Status: ptr(constvars.AppointmentStatusScheduled)})
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("Stale notes update cannot revive a cancelled appointment", func(t *testing.T) {
		env := newTestEnv()
		first, err := env.uc.CreateAppointment(ctx, patient, createRequest(at(10, 0), at(10, 30)))
		require.NoError(t, err)

		appointments := &interleavedAppointments{AppointmentRepository: env.appointments}
		appointments.afterFind = func() {
			_, err := env.uc.UpdateAppointment(ctx, patient, first.ID, &requests.UpdateAppointment{Status: ptr(constvars.AppointmentStatusCancelled)})
			require.NoError(t, err)
			_, err = env.uc.CreateAppointment(ctx, otherPatient, createRequest(at(10, 15), at(10, 45)))
			require.NoError(t, err)
		}
		env.uc.AppointmentRepository = appointments

		_, err = env.uc.UpdateAppointment(ctx, doctorSession, first.ID, &requests.UpdateAppointment{Notes: ptr("bring previous results")})
		assert.Equal(t, http.StatusConflict, statusOf(t, err))

		stored, err := env.appointments.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, constvars.AppointmentStatusCancelled, stored.Status)
		assert.Empty(t, stored.Notes)

		scheduled := 0
		for _, appointment := range env.appointments.Snapshot() {
			if appointment.OccupiesCalendar() {
				scheduled++
				assert.Equal(t, otherPatient.UserID, appointment.PatientID)
			}
		}
		assert.Equal(t, 1, scheduled)
	})

	t.Run("Second of two updates from the same read is a conflict", func(t *testing.T) {
		env := newTestEnv()
		first, err := env.uc.CreateAppointment(ctx, patient, createRequest(at(10, 0), at(10, 30)))
		require.NoError(t, err)
		read, err := env.appointments.FindByID(ctx, first.ID)
		require.NoError(t, err)

		_, err = env.uc.UpdateAppointment(ctx, patient, first.ID, &requests.UpdateAppointment{Notes: ptr("first")})
		require.NoError(t, err)

		read.Notes = "second"
		err = env.appointments.Update(ctx, read, read.UpdatedAt)
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})

	t.Run("Role limits on updates", func(t *testing.T) {
		env := newTestEnv()
		first, err := env.uc.CreateAppointment(ctx, patient, createRequest(at(10, 0), at(10, 30)))
		require.NoError(t, err)

		_, err = env.uc.UpdateAppointment(ctx, patient, first.ID, &requests.UpdateAppointment{Status: ptr(constvars.AppointmentStatusCompleted)})
		assert.Equal(t, http.StatusForbidden, statusOf(t, err), "patients may only cancel")

		_, err = env.uc.UpdateAppointment(ctx, doctorSession, first.ID, &requests.UpdateAppointment{DateTime: ptr(at(11, 0))})
		assert.Equal(t, http.StatusForbidden, statusOf(t, err), "doctors may not reschedule")

		_, err = env.uc.UpdateAppointment(ctx, otherPatient, first.ID, &requests.UpdateAppointment{Notes: ptr("hi")})
		assert.Equal(t, http.StatusNotFound, statusOf(t, err), "other patients should not see the appointment")

		updated, err := env.uc.UpdateAppointment(ctx, doctorSession, first.ID, &requests.UpdateAppointment{Notes: ptr("bring results")})
		require.NoError(t, err)
		assert.Equal(t, "bring results", updated.Notes)
	})
}

func TestFindAndDeleteAppointments(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	own, err := env.uc.CreateAppointment(ctx, patient, createRequest(at(10, 0), at(10, 30)))
	require.NoError(t, err)
	_, err = env.uc.CreateAppointment(ctx, otherPatient, createRequest(at(9, 0), at(9, 30)))
	require.NoError(t, err)

	t.Run("Patients only list their own appointments", func(t *testing.T) {
		list, err := env.uc.FindAll(ctx, patient, &requests.FindAllAppointments{PatientID: "patient-2"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, own.ID, list[0].ID)
	})

	t.Run("Doctors list their calendar in chronological order", func(t *testing.T) {
		list, err := env.uc.FindAll(ctx, doctorSession, &requests.FindAllAppointments{})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.True(t, list[0].DateTime.Before(list[1].DateTime))
	})

	t.Run("Admins filter by time range", func(t *testing.T) {
		list, err := env.uc.FindAll(ctx, admin, &requests.FindAllAppointments{From: at(9, 30).Format(time.RFC3339)})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, own.ID, list[0].ID)
	})

	t.Run("Invalid filters are rejected", func(t *testing.T) {
		_, err := env.uc.FindAll(ctx, admin, &requests.FindAllAppointments{Status: "pending"})
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("Visibility on find by id", func(t *testing.T) {
		_, err := env.uc.FindByID(ctx, patient, own.ID)
		assert.NoError(t, err)
		_, err = env.uc.FindByID(ctx, doctorSession, own.ID)
		assert.NoError(t, err)
		_, err = env.uc.FindByID(ctx, otherPatient, own.ID)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("Delete is limited to the owner and admins", func(t *testing.T) {
		err := env.uc.DeleteAppointment(ctx, doctorSession, own.ID)
		assert.Equal(t, http.StatusForbidden, statusOf(t, err))

		err = env.uc.DeleteAppointment(ctx, otherPatient, own.ID)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))

		require.NoError(t, env.uc.DeleteAppointment(ctx, patient, own.ID))
		_, err = env.uc.FindByID(ctx, admin, own.ID)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}
