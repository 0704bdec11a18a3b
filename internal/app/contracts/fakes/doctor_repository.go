package fakes

import (
	"context"
	"medibook-service/internal/app/models"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DoctorRepository struct {
	mu      sync.Mutex
	doctors map[string]models.Doctor
	Err     error
}

func NewDoctorRepository(doctors ...models.Doctor) *DoctorRepository {
	repo := &DoctorRepository{doctors: map[string]models.Doctor{}}
	for _, doctor := range doctors {
		if doctor.ID == "" {
			doctor.ID = primitive.NewObjectID().Hex()
		}
		repo.doctors[doctor.ID] = doctor
	}
	return repo
}

func (r *DoctorRepository) Create(ctx context.Context, doctor *models.Doctor) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return "", r.Err
	}
	if doctor.ID == "" {
		doctor.ID = primitive.NewObjectID().Hex()
	}
	r.doctors[doctor.ID] = *doctor
	return doctor.ID, nil
}

func (r *DoctorRepository) FindByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	doctor, ok := r.doctors[doctorID]
	if !ok {
		return nil, nil
	}
	return &doctor, nil
}

func (r *DoctorRepository) FindByUserID(ctx context.Context, userID string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, doctor := range r.doctors {
		if doctor.UserID == userID {
			return &doctor, nil
		}
	}
	return nil, nil
}

func (r *DoctorRepository) FindAll(ctx context.Context, filter models.DoctorFilter) ([]models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	result := []models.Doctor{}
	for _, doctor := range r.doctors {
		if filter.Specialty != "" && doctor.Specialty != filter.Specialty {
			continue
		}
		result = append(result, doctor)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *DoctorRepository) Update(ctx context.Context, doctor *models.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.doctors[doctor.ID] = *doctor
	return nil
}

func (r *DoctorRepository) Delete(ctx context.Context, doctorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	delete(r.doctors, doctorID)
	return nil
}
