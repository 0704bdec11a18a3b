package contracts

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) (string, error)
	FindByID(ctx context.Context, doctorID string) (*models.Doctor, error)
	FindByUserID(ctx context.Context, userID string) (*models.Doctor, error)
	FindAll(ctx context.Context, filter models.DoctorFilter) ([]models.Doctor, error)
	Update(ctx context.Context, doctor *models.Doctor) error
	Delete(ctx context.Context, doctorID string) error
}

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, session *models.Session, request *requests.UpsertDoctor) (*responses.Doctor, error)
	FindAll(ctx context.Context, request *requests.FindAllDoctors) ([]responses.Doctor, error)
	FindByID(ctx context.Context, doctorID string) (*responses.Doctor, error)
	UpdateDoctor(ctx context.Context, session *models.Session, doctorID string, request *requests.UpsertDoctor) (*responses.Doctor, error)
	DeleteDoctor(ctx context.Context, session *models.Session, doctorID string) error
}

type AvailabilityUsecase interface {
	GetDoctorAvailability(ctx context.Context, request *requests.DoctorAvailability) (*responses.DoctorAvailability, error)
}
