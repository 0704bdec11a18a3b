package appointments

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/app/services/core/booking"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/interval"
	"medibook-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Stored times are truncated to what MongoDB keeps so reminder fire times
// read back from the store compare equal to the ones queued.
const storedTimePrecision = time.Millisecond

type appointmentUsecase struct {
	AppointmentRepository contracts.AppointmentRepository
	DoctorRepository      contracts.DoctorRepository
	Guard                 *booking.Guard
	ReminderScheduler     contracts.ReminderScheduler
	InternalConfig        *config.InternalConfig
	Log                   *zap.Logger
}

var (
	appointmentUsecaseInstance contracts.AppointmentUsecase
	onceAppointmentUsecase     sync.Once
)

func NewAppointmentUsecase(
	appointmentRepository contracts.AppointmentRepository,
	doctorRepository contracts.DoctorRepository,
	guard *booking.Guard,
	reminderScheduler contracts.ReminderScheduler,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AppointmentUsecase {
	onceAppointmentUsecase.Do(func() {
		appointmentUsecaseInstance = &appointmentUsecase{
			AppointmentRepository: appointmentRepository,
			DoctorRepository:      doctorRepository,
			Guard:                 guard,
			ReminderScheduler:     reminderScheduler,
			InternalConfig:        internalConfig,
			Log:                   logger,
		}
	})
	return appointmentUsecaseInstance
}

func (uc *appointmentUsecase) reminderLead() time.Duration {
	hours := uc.InternalConfig.Reminder.LeadTimeInHours
	if hours <= 0 {
		hours = constvars.DefaultReminderLeadInHours
	}
	return time.Duration(hours) * time.Hour
}

func (uc *appointmentUsecase) CreateAppointment(ctx context.Context, session *models.Session, request *requests.CreateAppointment) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.CreateAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
	)

	if !session.HasRole(constvars.RolePatient, constvars.RoleAdmin) {
		uc.Log.Error("appointmentUsecase.CreateAppointment role not allowed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRoleKey, sessionRole(session)),
		)
		return nil, exceptions.ErrRoleNotAllowed(nil, sessionRole(session))
	}

	utils.SanitizeCreateAppointmentRequest(request)
	if session.IsPatient() {
		request.PatientID = session.UserID
	}

	err := utils.ValidateStruct(request)
	if err != nil {
		uc.Log.Error("appointmentUsecase.CreateAppointment error validating request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrInputValidation(err)
	}
	if request.PatientID == "" {
		return nil, exceptions.ErrPatientIDRequired(nil)
	}

	window, err := interval.New(request.DateTime.Truncate(storedTimePrecision), request.EndTime.Truncate(storedTimePrecision))
	if err != nil {
		return nil, exceptions.ErrInvalidAppointmentWindow(err)
	}

	doctor, err := uc.findDoctor(ctx, request.DoctorID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.CreateAppointment error finding doctor",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	appointment := &models.Appointment{
		PatientID:      request.PatientID,
		DoctorID:       doctor.ID,
		DateTime:       window.Start,
		EndTime:        window.End,
		ReasonForVisit: request.ReasonForVisit,
		Notes:          request.Notes,
		Status:         constvars.AppointmentStatusScheduled,
	}
	appointment.ResetReminder(uc.reminderLead())
	appointment.SetCreatedAt(time.Now().Truncate(storedTimePrecision))

	_, err = uc.Guard.Reserve(ctx, booking.ReserveInput{
		Doctor:   doctor,
		Interval: window,
		Commit: func(ctx context.Context) error {
			_, err := uc.AppointmentRepository.Create(ctx, appointment)
			return err
		},
	})
	if err != nil {
		uc.Log.Error("appointmentUsecase.CreateAppointment reservation failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, booking.AsCustomError(err)
	}

	uc.ReminderScheduler.ScheduleReminder(ctx, appointment.ID, appointment.PatientID, appointment.ReminderTime)

	uc.Log.Info("appointmentUsecase.CreateAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
	)
	return utils.BuildAppointmentResponse(appointment), nil
}

func (uc *appointmentUsecase) FindAll(ctx context.Context, session *models.Session, request *requests.FindAllAppointments) ([]responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Any(constvars.LoggingQueryParamsKey, request),
	)

	err := utils.ValidateStruct(request)
	if err != nil {
		uc.Log.Error("appointmentUsecase.FindAll error validating request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrInputValidation(err)
	}

	filter := models.AppointmentFilter{
		PatientID: request.PatientID,
		DoctorID:  request.DoctorID,
		Status:    request.Status,
	}
	if request.From != "" {
		from, _ := time.Parse(time.RFC3339, request.From)
		filter.From = &from
	}
	if request.To != "" {
		to, _ := time.Parse(time.RFC3339, request.To)
		filter.To = &to
	}

	switch {
	case session.IsPatient():
		filter.PatientID = session.UserID
	case session.IsDoctor():
		doctor, err := uc.DoctorRepository.FindByUserID(ctx, session.UserID)
		if err != nil {
			uc.Log.Error("appointmentUsecase.FindAll error calling DoctorRepository.FindByUserID",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, err
		}
		if doctor == nil {
			return []responses.Appointment{}, nil
		}
		filter.DoctorID = doctor.ID
	case session.IsAdmin():
	default:
		return nil, exceptions.ErrRoleNotAllowed(nil, sessionRole(session))
	}

	appointments, err := uc.AppointmentRepository.FindAll(ctx, filter)
	if err != nil {
		uc.Log.Error("appointmentUsecase.FindAll error calling AppointmentRepository.FindAll",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("appointmentUsecase.FindAll succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingResponseLengthKey, len(appointments)),
	)
	return utils.BuildAppointmentsResponse(appointments), nil
}

func (uc *appointmentUsecase) FindByID(ctx context.Context, session *models.Session, appointmentID string) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.findVisibleAppointment(ctx, session, appointmentID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.FindByID error finding appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("appointmentUsecase.FindByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return utils.BuildAppointmentResponse(appointment), nil
}

func (uc *appointmentUsecase) UpdateAppointment(ctx context.Context, session *models.Session, appointmentID string, request *requests.UpdateAppointment) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.UpdateAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	utils.SanitizeUpdateAppointmentRequest(request)
	err := utils.ValidateStruct(request)
	if err != nil {
		uc.Log.Error("appointmentUsecase.UpdateAppointment error validating request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrInputValidation(err)
	}

	appointment, err := uc.findVisibleAppointment(ctx, session, appointmentID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.UpdateAppointment error finding appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := authorizeUpdate(session, request); err != nil {
		uc.Log.Error("appointmentUsecase.UpdateAppointment change not allowed for role",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRoleKey, sessionRole(session)),
		)
		return nil, err
	}

	if !appointment.OccupiesCalendar() {
		return nil, exceptions.ErrAppointmentNotEditable(nil, appointment.Status)
	}

	nextStatus := appointment.Status
	if request.Status != nil {
		nextStatus = *request.Status
	}
	if !models.CanTransitionStatus(appointment.Status, nextStatus) {
		return nil, exceptions.ErrInvalidStatusTransition(nil, appointment.Status, nextStatus)
	}

	start, end := appointment.DateTime, appointment.EndTime
	if request.DateTime != nil {
		start = request.DateTime.Truncate(storedTimePrecision)
	}
	if request.EndTime != nil {
		end = request.EndTime.Truncate(storedTimePrecision)
	}
	window, err := interval.New(start, end)
	if err != nil {
		return nil, exceptions.ErrInvalidAppointmentWindow(err)
	}

	timeChanged := !start.Equal(appointment.DateTime) || !end.Equal(appointment.EndTime)
	startChanged := !start.Equal(appointment.DateTime)

	updated := *appointment
	updated.DateTime, updated.EndTime = window.Start, window.End
	updated.Status = nextStatus
	if request.ReasonForVisit != nil {
		updated.ReasonForVisit = *request.ReasonForVisit
	}
	if request.Notes != nil {
		updated.Notes = *request.Notes
	}
	if startChanged {
		updated.ResetReminder(uc.reminderLead())
	}
	updated.SetUpdatedAt(nextUpdatedAt(appointment.UpdatedAt))

	// The write only lands on the version read above, so a concurrent cancel
	// or reschedule turns this update into a conflict.
	commit := func(ctx context.Context) error {
		return uc.AppointmentRepository.Update(ctx, &updated, appointment.UpdatedAt)
	}

	if timeChanged && updated.OccupiesCalendar() {
		doctor, err := uc.findDoctor(ctx, appointment.DoctorID)
		if err != nil {
			uc.Log.Error("appointmentUsecase.UpdateAppointment error finding doctor",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, err
		}

		_, err = uc.Guard.Reserve(ctx, booking.ReserveInput{
			Doctor:               doctor,
			Interval:             window,
			ExcludeAppointmentID: appointment.ID,
			Commit:               commit,
		})
		if err != nil {
			uc.Log.Error("appointmentUsecase.UpdateAppointment reservation failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, booking.AsCustomError(err)
		}
	} else if err := commit(ctx); err != nil {
		uc.Log.Error("appointmentUsecase.UpdateAppointment error calling AppointmentRepository.Update",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if startChanged && updated.OccupiesCalendar() {
		uc.ReminderScheduler.ScheduleReminder(ctx, updated.ID, updated.PatientID, updated.ReminderTime)
	}

	uc.Log.Info("appointmentUsecase.UpdateAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, updated.ID),
	)
	return utils.BuildAppointmentResponse(&updated), nil
}

func (uc *appointmentUsecase) DeleteAppointment(ctx context.Context, session *models.Session, appointmentID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.DeleteAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	if !session.HasRole(constvars.RolePatient, constvars.RoleAdmin) {
		return exceptions.ErrRoleNotAllowed(nil, sessionRole(session))
	}

	appointment, err := uc.findVisibleAppointment(ctx, session, appointmentID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.DeleteAppointment error finding appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	err = uc.AppointmentRepository.Delete(ctx, appointment.ID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.DeleteAppointment error calling AppointmentRepository.Delete",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	uc.Log.Info("appointmentUsecase.DeleteAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return nil
}

// nextUpdatedAt is always later than previous at stored precision.
func nextUpdatedAt(previous time.Time) time.Time {
	now := time.Now().Truncate(storedTimePrecision)
	if !now.After(previous) {
		return previous.Truncate(storedTimePrecision).Add(storedTimePrecision)
	}
	return now
}

func (uc *appointmentUsecase) findDoctor(ctx context.Context, doctorID string) (*models.Doctor, error) {
	doctor, err := uc.DoctorRepository.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(nil)
	}
	return doctor, nil
}

// findVisibleAppointment hides appointments the caller does not own behind
// the same not found error as missing ones.
func (uc *appointmentUsecase) findVisibleAppointment(ctx context.Context, session *models.Session, appointmentID string) (*models.Appointment, error) {
	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound(nil)
	}

	switch {
	case session.IsAdmin():
		return appointment, nil
	case session.IsPatient():
		if appointment.PatientID == session.UserID {
			return appointment, nil
		}
	case session.IsDoctor():
		doctor, err := uc.DoctorRepository.FindByUserID(ctx, session.UserID)
		if err != nil {
			return nil, err
		}
		if doctor != nil && doctor.ID == appointment.DoctorID {
			return appointment, nil
		}
	}
	return nil, exceptions.ErrAppointmentNotFound(nil)
}

// authorizeUpdate limits patients to rescheduling, editing their reason and
// notes, and cancelling. Doctors may only set the status and notes.
func authorizeUpdate(session *models.Session, request *requests.UpdateAppointment) error {
	switch {
	case session.IsAdmin():
		return nil
	case session.IsPatient():
		if request.Status != nil && *request.Status != constvars.AppointmentStatusCancelled && *request.Status != constvars.AppointmentStatusScheduled {
			return exceptions.ErrRoleNotAllowed(nil, session.Role)
		}
		return nil
	case session.IsDoctor():
		if request.DateTime != nil || request.EndTime != nil || request.ReasonForVisit != nil {
			return exceptions.ErrRoleNotAllowed(nil, session.Role)
		}
		return nil
	}
	return exceptions.ErrRoleNotAllowed(nil, sessionRole(session))
}

func sessionRole(session *models.Session) string {
	if session == nil {
		return ""
	}
	return session.Role
}
