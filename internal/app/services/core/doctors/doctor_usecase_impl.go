package doctors

import (
	"context"
	"errors"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
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

var (
	errStartNotBeforeEnd = errors.New("start must be before end")
	errDuplicateDay      = errors.New("weekday already has a working hours rule")
)

type doctorUsecase struct {
	DoctorRepository      contracts.DoctorRepository
	AppointmentRepository contracts.AppointmentRepository
	Log                   *zap.Logger
}

var (
	doctorUsecaseInstance contracts.DoctorUsecase
	onceDoctorUsecase     sync.Once
)

func NewDoctorUsecase(
	doctorRepository contracts.DoctorRepository,
	appointmentRepository contracts.AppointmentRepository,
	logger *zap.Logger,
) contracts.DoctorUsecase {
	onceDoctorUsecase.Do(func() {
		doctorUsecaseInstance = &doctorUsecase{
			DoctorRepository:      doctorRepository,
			AppointmentRepository: appointmentRepository,
			Log:                   logger,
		}
	})
	return doctorUsecaseInstance
}

func (uc *doctorUsecase) CreateDoctor(ctx context.Context, session *models.Session, request *requests.UpsertDoctor) (*responses.Doctor, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.CreateDoctor called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	if !session.IsAdmin() {
		uc.Log.Error("doctorUsecase.CreateDoctor role not allowed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return nil, exceptions.ErrRoleNotAllowed(nil, sessionRole(session))
	}

	if err := validateSchedule(request); err != nil {
		uc.Log.Error("doctorUsecase.CreateDoctor invalid schedule",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	existing, err := uc.DoctorRepository.FindByUserID(ctx, request.UserID)
	if err != nil {
		uc.Log.Error("doctorUsecase.CreateDoctor error calling DoctorRepository.FindByUserID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if existing != nil {
		uc.Log.Error("doctorUsecase.CreateDoctor doctor already exists",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingUserIDKey, request.UserID),
		)
		return nil, exceptions.ErrDoctorAlreadyExists(nil)
	}

	doctor := &models.Doctor{}
	utils.BuildDoctorModel(doctor, request)
	doctor.SetCreatedAt(time.Now())

	doctorID, err := uc.DoctorRepository.Create(ctx, doctor)
	if err != nil {
		uc.Log.Error("doctorUsecase.CreateDoctor error calling DoctorRepository.Create",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	doctor.ID = doctorID

	uc.Log.Info("doctorUsecase.CreateDoctor succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)
	return utils.BuildDoctorResponse(doctor), nil
}

func (uc *doctorUsecase) FindAll(ctx context.Context, request *requests.FindAllDoctors) ([]responses.Doctor, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	doctors, err := uc.DoctorRepository.FindAll(ctx, models.DoctorFilter{Specialty: request.Specialty})
	if err != nil {
		uc.Log.Error("doctorUsecase.FindAll error calling DoctorRepository.FindAll",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("doctorUsecase.FindAll succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingResponseLengthKey, len(doctors)),
	)
	return utils.BuildDoctorsResponse(doctors), nil
}

func (uc *doctorUsecase) FindByID(ctx context.Context, doctorID string) (*responses.Doctor, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)

	doctor, err := uc.findDoctor(ctx, doctorID)
	if err != nil {
		uc.Log.Error("doctorUsecase.FindByID error finding doctor",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("doctorUsecase.FindByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return utils.BuildDoctorResponse(doctor), nil
}

func (uc *doctorUsecase) UpdateDoctor(ctx context.Context, session *models.Session, doctorID string, request *requests.UpsertDoctor) (*responses.Doctor, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.UpdateDoctor called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)

	if !session.HasRole(constvars.RoleAdmin, constvars.RoleDoctor) {
		return nil, exceptions.ErrRoleNotAllowed(nil, sessionRole(session))
	}

	doctor, err := uc.findDoctor(ctx, doctorID)
	if err != nil {
		uc.Log.Error("doctorUsecase.UpdateDoctor error finding doctor",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if session.IsDoctor() {
		if doctor.UserID != session.UserID {
			uc.Log.Error("doctorUsecase.UpdateDoctor doctor can only update own profile",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingUserIDKey, session.UserID),
			)
			return nil, exceptions.ErrRoleNotAllowed(nil, session.Role)
		}
		request.UserID = doctor.UserID
	}

	if err := validateSchedule(request); err != nil {
		uc.Log.Error("doctorUsecase.UpdateDoctor invalid schedule",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	utils.BuildDoctorModel(doctor, request)
	doctor.SetUpdatedAt(time.Now())

	if err := uc.DoctorRepository.Update(ctx, doctor); err != nil {
		uc.Log.Error("doctorUsecase.UpdateDoctor error calling DoctorRepository.Update",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("doctorUsecase.UpdateDoctor succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)
	return utils.BuildDoctorResponse(doctor), nil
}

// DeleteDoctor removes the profile and every appointment on its calendar.
func (uc *doctorUsecase) DeleteDoctor(ctx context.Context, session *models.Session, doctorID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.DeleteDoctor called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)

	if !session.IsAdmin() {
		return exceptions.ErrRoleNotAllowed(nil, sessionRole(session))
	}

	doctor, err := uc.findDoctor(ctx, doctorID)
	if err != nil {
		uc.Log.Error("doctorUsecase.DeleteDoctor error finding doctor",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	deleted, err := uc.AppointmentRepository.DeleteByDoctorID(ctx, doctor.ID)
	if err != nil {
		uc.Log.Error("doctorUsecase.DeleteDoctor error calling AppointmentRepository.DeleteByDoctorID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	if err := uc.DoctorRepository.Delete(ctx, doctor.ID); err != nil {
		uc.Log.Error("doctorUsecase.DeleteDoctor error calling DoctorRepository.Delete",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	uc.Log.Info("doctorUsecase.DeleteDoctor succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.Int64("deleted_appointments", deleted),
	)
	return nil
}

func (uc *doctorUsecase) findDoctor(ctx context.Context, doctorID string) (*models.Doctor, error) {
	doctor, err := uc.DoctorRepository.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(nil)
	}
	return doctor, nil
}

// validateSchedule runs the tag validation and the rules tags cannot
// express: ordered clocks, one rule per weekday and ordered blackouts.
func validateSchedule(request *requests.UpsertDoctor) error {
	utils.SanitizeDoctorRequest(request)
	if err := utils.ValidateStruct(request); err != nil {
		return exceptions.ErrInputValidation(err)
	}

	seen := make(map[int]bool, len(request.WorkingHours))
	for _, rule := range request.WorkingHours {
		if seen[rule.DayOfWeek] {
			return exceptions.ErrDuplicateWorkingHours(errDuplicateDay, rule.DayOfWeek)
		}
		seen[rule.DayOfWeek] = true

		start, err := interval.ParseClock(rule.StartTime)
		if err != nil {
			return exceptions.ErrInvalidWorkingHours(err, rule.DayOfWeek)
		}
		end, err := interval.ParseClock(rule.EndTime)
		if err != nil {
			return exceptions.ErrInvalidWorkingHours(err, rule.DayOfWeek)
		}
		if !start.Before(end) {
			return exceptions.ErrInvalidWorkingHours(errStartNotBeforeEnd, rule.DayOfWeek)
		}
	}

	for i, blackout := range request.UnavailableTimes {
		if !blackout.StartDateTime.Before(blackout.EndDateTime) {
			return exceptions.ErrInvalidUnavailableTime(errStartNotBeforeEnd, i)
		}
	}
	return nil
}

func sessionRole(session *models.Session) string {
	if session == nil {
		return ""
	}
	return session.Role
}
