package availability

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
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

type availabilityUsecase struct {
	DoctorRepository      contracts.DoctorRepository
	AppointmentRepository contracts.AppointmentRepository
	InternalConfig        *config.InternalConfig
	Log                   *zap.Logger
}

var (
	availabilityUsecaseInstance contracts.AvailabilityUsecase
	onceAvailabilityUsecase     sync.Once
)

func NewAvailabilityUsecase(
	doctorRepository contracts.DoctorRepository,
	appointmentRepository contracts.AppointmentRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AvailabilityUsecase {
	onceAvailabilityUsecase.Do(func() {
		availabilityUsecaseInstance = &availabilityUsecase{
			DoctorRepository:      doctorRepository,
			AppointmentRepository: appointmentRepository,
			InternalConfig:        internalConfig,
			Log:                   logger,
		}
	})
	return availabilityUsecaseInstance
}

func (uc *availabilityUsecase) GetDoctorAvailability(ctx context.Context, request *requests.DoctorAvailability) (*responses.DoctorAvailability, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("availabilityUsecase.GetDoctorAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
		zap.String(constvars.LoggingDateKey, request.Date),
	)

	err := utils.ValidateStruct(request)
	if err != nil {
		uc.Log.Error("availabilityUsecase.GetDoctorAvailability error validating request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrInputValidation(err)
	}

	date, err := utils.ParseDate(request.Date, time.Local)
	if err != nil {
		uc.Log.Error("availabilityUsecase.GetDoctorAvailability error parsing date",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrInvalidDate(err)
	}

	doctor, err := uc.DoctorRepository.FindByID(ctx, request.DoctorID)
	if err != nil {
		uc.Log.Error("availabilityUsecase.GetDoctorAvailability error calling DoctorRepository.FindByID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if doctor == nil {
		uc.Log.Error("availabilityUsecase.GetDoctorAvailability doctor not found",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
		)
		return nil, exceptions.ErrDoctorNotFound(nil)
	}

	booked, err := uc.AppointmentRepository.FindScheduledOverlapping(ctx, doctor.ID, interval.DayBounds(date, time.Local), "")
	if err != nil {
		uc.Log.Error("availabilityUsecase.GetDoctorAvailability error calling AppointmentRepository.FindScheduledOverlapping",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	slotMinutes := request.SlotMinutes
	if slotMinutes <= 0 {
		slotMinutes = uc.InternalConfig.App.SlotDurationInMinutes
	}
	if slotMinutes <= 0 {
		slotMinutes = constvars.DefaultSlotDurationInMinutes
	}

	slots, err := Compute(doctor, date, booked, slotMinutes)
	if err != nil {
		uc.Log.Error("availabilityUsecase.GetDoctorAvailability error computing slots",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctor.ID),
			zap.Error(err),
		)
		return nil, exceptions.ErrMongoDBDecodeDocument(err)
	}

	response := &responses.DoctorAvailability{
		DoctorID:    doctor.ID,
		Date:        request.Date,
		SlotMinutes: slotMinutes,
		Slots:       utils.BuildTimeSlotsResponse(slots),
	}

	uc.Log.Info("availabilityUsecase.GetDoctorAvailability succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingSlotCountKey, len(response.Slots)),
	)
	return response, nil
}
