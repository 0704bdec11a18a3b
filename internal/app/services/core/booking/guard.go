package booking

import (
	"context"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/interval"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const unlockTimeout = 5 * time.Second

type ReserveInput struct {
	Doctor   *models.Doctor
	Interval interval.Interval
	// ExcludeAppointmentID skips the appointment being rescheduled.
	ExcludeAppointmentID string
	// Commit persists the appointment. It runs while the lock is held.
	Commit func(ctx context.Context) error
}

// Reservation identifies the lock under which the appointment was committed.
type Reservation struct {
	Token   string
	LockKey string
}

type Guard struct {
	Locker                contracts.LockerService
	DoctorRepository      contracts.DoctorRepository
	AppointmentRepository contracts.AppointmentRepository
	InternalConfig        *config.InternalConfig
	Log                   *zap.Logger
}

func NewGuard(
	locker contracts.LockerService,
	doctorRepository contracts.DoctorRepository,
	appointmentRepository contracts.AppointmentRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) *Guard {
	return &Guard{
		Locker:                locker,
		DoctorRepository:      doctorRepository,
		AppointmentRepository: appointmentRepository,
		InternalConfig:        internalConfig,
		Log:                   logger,
	}
}

// LockKey is the reservation lock of the doctor's calendar day containing t.
func LockKey(doctorID string, t time.Time) string {
	d := t.In(time.Local)
	return fmt.Sprintf(constvars.BookingLockKeyFormat, doctorID, d.Year(), d.Month(), d.Day())
}

// Reserve validates input against working hours, blackouts and the live
// calendar, then runs Commit. input.Doctor only serves as a fast rejection:
// the doctor is read again once the doctor-day lock is held, and every check
// plus Commit run against that fresh copy under the lock.
func (g *Guard) Reserve(ctx context.Context, input ReserveInput) (*Reservation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	g.Log.Info("booking.Guard.Reserve called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, input.Doctor.ID),
		zap.Time(constvars.LoggingIntervalStartKey, input.Interval.Start),
		zap.Time(constvars.LoggingIntervalEndKey, input.Interval.End),
	)

	if err := g.checkSchedule(requestID, input.Doctor, input.Interval); err != nil {
		return nil, err
	}

	key := LockKey(input.Doctor.ID, input.Interval.Start)
	token, err := g.acquire(ctx, key)
	if err != nil {
		g.Log.Warn("booking.Guard.Reserve could not acquire reservation lock",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
		return nil, err
	}
	defer g.release(ctx, key, token)

	doctor, err := g.DoctorRepository.FindByID(ctx, input.Doctor.ID)
	if err != nil {
		g.Log.Error("booking.Guard.Reserve error calling DoctorRepository.FindByID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(nil)
	}
	if err := g.checkSchedule(requestID, doctor, input.Interval); err != nil {
		return nil, err
	}

	existing, err := g.AppointmentRepository.FindScheduledOverlapping(ctx, input.Doctor.ID, input.Interval, input.ExcludeAppointmentID)
	if err != nil {
		g.Log.Error("booking.Guard.Reserve error calling AppointmentRepository.FindScheduledOverlapping",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := CheckConflicts(input.Interval, existing, input.ExcludeAppointmentID); err != nil {
		g.Log.Info("booking.Guard.Reserve rejected by existing appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := input.Commit(ctx); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			g.Log.Warn("booking.Guard.Reserve commit hit the schedule unique index",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: %v", ErrConcurrencyConflict, err)
		}
		g.Log.Error("booking.Guard.Reserve commit failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	g.Log.Info("booking.Guard.Reserve succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRedisKey, key),
	)
	return &Reservation{Token: token, LockKey: key}, nil
}

func (g *Guard) checkSchedule(requestID string, doctor *models.Doctor, window interval.Interval) error {
	if err := CheckWorkingHours(doctor, window); err != nil {
		g.Log.Info("booking.Guard.checkSchedule rejected by working hours",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	if err := CheckBlackouts(doctor, window); err != nil {
		g.Log.Info("booking.Guard.checkSchedule rejected by unavailable time",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (g *Guard) acquire(ctx context.Context, key string) (string, error) {
	cfg := g.InternalConfig.Booking
	ttl := time.Duration(cfg.LockTTLInSeconds) * time.Second
	retry := time.Duration(cfg.LockRetryIntervalInMilliseconds) * time.Millisecond
	deadline := time.Now().Add(time.Duration(cfg.LockWaitTimeoutInMilliseconds) * time.Millisecond)

	for attempt := 1; ; attempt++ {
		acquired, token, err := g.Locker.TryLock(ctx, key, ttl)
		if err != nil {
			return "", err
		}
		if acquired {
			return token, nil
		}

		if retry <= 0 || !time.Now().Add(retry).Before(deadline) {
			g.Log.Debug("booking.Guard.acquire gave up waiting",
				zap.String(constvars.LoggingRedisKey, key),
				zap.Int(constvars.LoggingLockAttemptKey, attempt),
			)
			return "", ErrConcurrencyConflict
		}

		timer := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

// release runs on a context detached from the request so a cancelled caller
// still frees the lock.
func (g *Guard) release(ctx context.Context, key, token string) {
	unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unlockTimeout)
	defer cancel()

	if err := g.Locker.Unlock(unlockCtx, key, token); err != nil {
		g.Log.Error("booking.Guard.release failed to unlock",
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
	}
}
