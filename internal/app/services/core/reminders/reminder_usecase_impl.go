package reminders

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type reminderUsecase struct {
	AppointmentRepository contracts.AppointmentRepository
	NotificationPublisher contracts.NotificationPublisher
	InternalConfig        *config.InternalConfig
	Log                   *zap.Logger
	limiter               *rate.Limiter
	now                   func() time.Time
}

var (
	reminderUsecaseInstance contracts.ReminderUsecase
	onceReminderUsecase     sync.Once
)

func NewReminderUsecase(
	appointmentRepository contracts.AppointmentRepository,
	notificationPublisher contracts.NotificationPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ReminderUsecase {
	onceReminderUsecase.Do(func() {
		reminderUsecaseInstance = newReminderUsecase(appointmentRepository, notificationPublisher, internalConfig, logger)
	})
	return reminderUsecaseInstance
}

func newReminderUsecase(
	appointmentRepository contracts.AppointmentRepository,
	notificationPublisher contracts.NotificationPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) *reminderUsecase {
	limit := rate.Inf
	if perSecond := internalConfig.Reminder.DispatchRatePerSecond; perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &reminderUsecase{
		AppointmentRepository: appointmentRepository,
		NotificationPublisher: notificationPublisher,
		InternalConfig:        internalConfig,
		Log:                   logger,
		limiter:               rate.NewLimiter(limit, 1),
		now:                   time.Now,
	}
}

// DispatchReminder claims the reminder queued for fireAt and publishes the
// notification. It reports false without error when the reminder is stale:
// the appointment is gone, no longer scheduled, moved to another time, has
// already started or was already notified.
//
// The claim happens before publishing so a reminder is never sent twice.
func (uc *reminderUsecase) DispatchReminder(ctx context.Context, appointmentID string, fireAt time.Time) (bool, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reminderUsecase.DispatchReminder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.Time(constvars.LoggingFireAtKey, fireAt),
	)

	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		uc.Log.Error("reminderUsecase.DispatchReminder error calling AppointmentRepository.FindByID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return false, err
	}

	if appointment == nil || !appointment.OccupiesCalendar() || appointment.ReminderSent ||
		!appointment.ReminderTime.Equal(fireAt) || !appointment.DateTime.After(uc.now()) {
		uc.Log.Info("reminderUsecase.DispatchReminder skipped stale reminder",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		)
		return false, nil
	}

	claimed, err := uc.AppointmentRepository.MarkReminderSent(ctx, appointmentID, fireAt)
	if err != nil {
		uc.Log.Error("reminderUsecase.DispatchReminder error calling AppointmentRepository.MarkReminderSent",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return false, err
	}
	if !claimed {
		uc.Log.Info("reminderUsecase.DispatchReminder reminder claimed elsewhere",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		)
		return false, nil
	}

	notification := &contracts.ReminderNotification{
		AppointmentID:  appointment.ID,
		PatientID:      appointment.PatientID,
		DoctorID:       appointment.DoctorID,
		DateTime:       appointment.DateTime,
		EndTime:        appointment.EndTime,
		ReasonForVisit: appointment.ReasonForVisit,
	}
	err = uc.NotificationPublisher.PublishReminderNotification(ctx, notification)
	if err != nil {
		uc.Log.Error("reminderUsecase.DispatchReminder error publishing notification",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.Error(err),
		)
		return true, err
	}

	uc.Log.Info("reminderUsecase.DispatchReminder succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)
	return true, nil
}

// DispatchDueReminders sweeps reminders whose queued message never arrived.
// Dispatches are throttled by the configured rate.
func (uc *reminderUsecase) DispatchDueReminders(ctx context.Context, now time.Time) (int, error) {
	due, err := uc.AppointmentRepository.FindPendingReminders(ctx, now, uc.InternalConfig.Reminder.SweepBatchSize)
	if err != nil {
		uc.Log.Error("reminderUsecase.DispatchDueReminders error calling AppointmentRepository.FindPendingReminders",
			zap.Error(err),
		)
		return 0, err
	}

	sent := 0
	for _, appointment := range due {
		if err := uc.limiter.Wait(ctx); err != nil {
			return sent, err
		}
		ok, err := uc.DispatchReminder(ctx, appointment.ID, appointment.ReminderTime)
		if err != nil {
			uc.Log.Warn("reminderUsecase.DispatchDueReminders dispatch failed",
				zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
				zap.Error(err),
			)
			continue
		}
		if ok {
			sent++
		}
	}

	uc.Log.Info("reminderUsecase.DispatchDueReminders finished",
		zap.Int(constvars.LoggingDueCountKey, len(due)),
		zap.Int(constvars.LoggingSentCountKey, sent),
	)
	return sent, nil
}
