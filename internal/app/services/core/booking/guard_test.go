package booking

import (
	"context"
	"errors"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts/fakes"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/interval"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// openLocker grants every lock, leaving only the store to catch races.
type openLocker struct{}

func (openLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	return true, "open", nil
}
func (openLocker) Unlock(ctx context.Context, key, lockValue string) error { return nil }
func (openLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

func testConfig() *config.InternalConfig {
	return &config.InternalConfig{Booking: config.AppBooking{
		LockTTLInSeconds:                10,
		LockWaitTimeoutInMilliseconds:   300,
		LockRetryIntervalInMilliseconds: 5,
	}}
}

func newAppointment(doctorID string, iv interval.Interval) *models.Appointment {
	return &models.Appointment{
		PatientID: "patient-1",
		DoctorID:  doctorID,
		DateTime:  iv.Start,
		EndTime:   iv.End,
		Status:    constvars.AppointmentStatusScheduled,
	}
}

func book(ctx context.Context, guard *Guard, repo *fakes.AppointmentRepository, doctor *models.Doctor, iv interval.Interval) (*models.Appointment, error) {
	appointment := newAppointment(doctor.ID, iv)
	_, err := guard.Reserve(ctx, ReserveInput{
		Doctor:   doctor,
		Interval: iv,
		Commit: func(ctx context.Context) error {
			_, err := repo.Create(ctx, appointment)
			return err
		},
	})
	return appointment, err
}

func TestGuardReserve(t *testing.T) {
	ctx := context.Background()
	doctor := mondayDoctor()

	t.Run("Exact duplicate is rejected and the adjacent slot is accepted", func(t *testing.T) {
		repo := fakes.NewAppointmentRepository()
		guard := NewGuard(fakes.NewLocker(), fakes.NewDoctorRepository(*doctor), repo, testConfig(), zap.NewNop())

		_, err := book(ctx, guard, repo, doctor, span(4, 10, 0, 10, 30))
		require.NoError(t, err)

		_, err = book(ctx, guard, repo, doctor, span(4, 10, 0, 10, 30))
		assert.ErrorIs(t, err, ErrSlotAlreadyBooked)

		_, err = book(ctx, guard, repo, doctor, span(4, 10, 30, 11, 0))
		assert.NoError(t, err, "the following slot should be bookable")
		assert.Len(t, repo.Snapshot(), 2)
	})

	t.Run("Cancellation frees the slot", func(t *testing.T) {
		repo := fakes.NewAppointmentRepository()
		guard := NewGuard(fakes.NewLocker(), fakes.NewDoctorRepository(*doctor), repo, testConfig(), zap.NewNop())

		first, err := book(ctx, guard, repo, doctor, span(4, 10, 0, 10, 30))
		require.NoError(t, err)

		first.Status = constvars.AppointmentStatusCancelled
		require.NoError(t, repo.Update(ctx, first, first.UpdatedAt))

		_, err = book(ctx, guard, repo, doctor, span(4, 10, 0, 10, 30))
		assert.NoError(t, err)
	})

	t.Run("Working hours and blackouts are checked before locking", func(t *testing.T) {
		locker := fakes.NewLocker()
		blocked := mondayDoctor()
		blocked.UnavailableTimes = []models.UnavailableInterval{{StartDateTime: at(4, 12, 0), EndDateTime: at(4, 13, 0)}}
		guard := NewGuard(locker, fakes.NewDoctorRepository(*doctor), fakes.NewAppointmentRepository(), testConfig(), zap.NewNop())

		_, err := book(ctx, guard, fakes.NewAppointmentRepository(), blocked, span(4, 17, 0, 17, 30))
		assert.ErrorIs(t, err, ErrOutsideWorkingHours)

		_, err = book(ctx, guard, fakes.NewAppointmentRepository(), blocked, span(4, 12, 0, 12, 30))
		assert.ErrorIs(t, err, ErrDoctorUnavailable)

		assert.Zero(t, locker.Calls, "rejected intervals should never take the lock")
	})

	t.Run("Schedule changes made after the caller read the doctor are enforced", func(t *testing.T) {
		blocked := *mondayDoctor()
		blocked.UnavailableTimes = []models.UnavailableInterval{{StartDateTime: at(4, 10, 0), EndDateTime: at(4, 11, 0)}}
		shortened := *mondayDoctor()
		shortened.WorkingHours = []models.WorkingHoursRule{{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}}

		tests := []struct {
			name    string
			current *fakes.DoctorRepository
			want    error
		}{
			{"blackout added", fakes.NewDoctorRepository(blocked), ErrDoctorUnavailable},
			{"hours shortened", fakes.NewDoctorRepository(shortened), ErrOutsideWorkingHours},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				locker := fakes.NewLocker()
				repo := fakes.NewAppointmentRepository()
				guard := NewGuard(locker, tt.current, repo, testConfig(), zap.NewNop())

				_, err := book(ctx, guard, repo, doctor, span(4, 10, 0, 10, 30))
				assert.ErrorIs(t, err, tt.want)
				assert.Empty(t, repo.Snapshot())
				assert.False(t, locker.IsHeld(LockKey(doctor.ID, at(4, 10, 0))))
			})
		}
	})

	t.Run("Doctor removed before the lock is taken", func(t *testing.T) {
		repo := fakes.NewAppointmentRepository()
		guard := NewGuard(fakes.NewLocker(), fakes.NewDoctorRepository(), repo, testConfig(), zap.NewNop())

		_, err := book(ctx, guard, repo, doctor, span(4, 10, 0, 10, 30))
		customErr := new(exceptions.CustomError)
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusNotFound, customErr.StatusCode)
		assert.Empty(t, repo.Snapshot())
	})

	t.Run("Concurrent bookings of the same slot yield exactly one success", func(t *testing.T) {
		repo := fakes.NewAppointmentRepository()
		repo.FindDelay = 20 * time.Millisecond
		guard := NewGuard(fakes.NewLocker(), fakes.NewDoctorRepository(*doctor), repo, testConfig(), zap.NewNop())

		const attempts = 4
		errs := make([]error, attempts)
		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = book(ctx, guard, repo, doctor, span(4, 14, 0, 14, 30))
			}(i)
		}
		wg.Wait()

		successes := 0
		for _, err := range errs {
			if err == nil {
				successes++
				continue
			}
			assert.True(t, errors.Is(err, ErrSlotAlreadyBooked) || errors.Is(err, ErrConcurrencyConflict), "losers should be rejected as conflicts, got %v", err)
		}
		assert.Equal(t, 1, successes, "only one booking should succeed")
		assert.Len(t, repo.Snapshot(), 1)
	})

	t.Run("Store unique index turns a lost race into a concurrency conflict", func(t *testing.T) {
		repo := fakes.NewAppointmentRepository()
		repo.FindDelay = 20 * time.Millisecond
		guard := NewGuard(openLocker{}, fakes.NewDoctorRepository(*doctor), repo, testConfig(), zap.NewNop())

		errs := make([]error, 2)
		var wg sync.WaitGroup
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = book(ctx, guard, repo, doctor, span(4, 15, 0, 15, 30))
			}(i)
		}
		wg.Wait()

		failures := 0
		for _, err := range errs {
			if err != nil {
				failures++
				assert.True(t, errors.Is(err, ErrSlotAlreadyBooked) || errors.Is(err, ErrConcurrencyConflict))
			}
		}
		assert.Equal(t, 1, failures)
		assert.Len(t, repo.Snapshot(), 1)
	})

	t.Run("Lock wait timeout is a concurrency conflict", func(t *testing.T) {
		locker := fakes.NewLocker()
		release := locker.Hold(LockKey(doctor.ID, at(4, 10, 0)))
		defer release()
		guard := NewGuard(locker, fakes.NewDoctorRepository(*doctor), fakes.NewAppointmentRepository(), testConfig(), zap.NewNop())

		_, err := book(ctx, guard, fakes.NewAppointmentRepository(), doctor, span(4, 10, 0, 10, 30))
		assert.ErrorIs(t, err, ErrConcurrencyConflict)

		customErr := new(exceptions.CustomError)
		require.True(t, errors.As(AsCustomError(err), &customErr))
		assert.Equal(t, http.StatusConflict, customErr.StatusCode)
	})

	t.Run("Lock is released after both success and rejection", func(t *testing.T) {
		locker := fakes.NewLocker()
		repo := fakes.NewAppointmentRepository()
		guard := NewGuard(locker, fakes.NewDoctorRepository(*doctor), repo, testConfig(), zap.NewNop())
		key := LockKey(doctor.ID, at(4, 10, 0))

		_, err := book(ctx, guard, repo, doctor, span(4, 10, 0, 10, 30))
		require.NoError(t, err)
		assert.False(t, locker.IsHeld(key))

		_, err = book(ctx, guard, repo, doctor, span(4, 10, 0, 10, 30))
		require.Error(t, err)
		assert.False(t, locker.IsHeld(key))
	})

	t.Run("Lock is released when the request is cancelled during commit", func(t *testing.T) {
		locker := fakes.NewLocker()
		guard := NewGuard(locker, fakes.NewDoctorRepository(*doctor), fakes.NewAppointmentRepository(), testConfig(), zap.NewNop())
		reqCtx, cancel := context.WithCancel(ctx)

		_, err := guard.Reserve(reqCtx, ReserveInput{
			Doctor:   doctor,
			Interval: span(4, 10, 0, 10, 30),
			Commit: func(ctx context.Context) error {
				cancel()
				return ctx.Err()
			},
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, locker.IsHeld(LockKey(doctor.ID, at(4, 10, 0))))
	})

	t.Run("Update into another appointment's slot is rejected, into its own slot accepted", func(t *testing.T) {
		repo := fakes.NewAppointmentRepository()
		guard := NewGuard(fakes.NewLocker(), fakes.NewDoctorRepository(*doctor), repo, testConfig(), zap.NewNop())

		first, err := book(ctx, guard, repo, doctor, span(4, 10, 0, 10, 30))
		require.NoError(t, err)
		second, err := book(ctx, guard, repo, doctor, span(4, 11, 0, 11, 30))
		require.NoError(t, err)

		move := func(appointment *models.Appointment, iv interval.Interval) error {
			_, err := guard.Reserve(ctx, ReserveInput{
				Doctor:               doctor,
				Interval:             iv,
				ExcludeAppointmentID: appointment.ID,
				Commit: func(ctx context.Context) error {
					appointment.DateTime, appointment.EndTime = iv.Start, iv.End
					return repo.Update(ctx, appointment, appointment.UpdatedAt)
				},
			})
			return err
		}

		assert.ErrorIs(t, move(second, span(4, 10, 0, 10, 30)), ErrSlotAlreadyBooked)
		assert.NoError(t, move(first, span(4, 10, 0, 10, 30)), "keeping the same time should not self-conflict")
		assert.NoError(t, move(first, span(4, 10, 15, 10, 45)), "shifting within its own slot should not self-conflict")
	})

	t.Run("Infrastructure errors propagate unchanged", func(t *testing.T) {
		repo := fakes.NewAppointmentRepository()
		repo.Err = exceptions.ErrMongoDBFindDocument(errors.New("no reachable servers"))
		guard := NewGuard(fakes.NewLocker(), fakes.NewDoctorRepository(*doctor), repo, testConfig(), zap.NewNop())

		_, err := book(ctx, guard, repo, doctor, span(4, 10, 0, 10, 30))
		require.Error(t, err)
		assert.Equal(t, repo.Err, AsCustomError(err))
	})
}
