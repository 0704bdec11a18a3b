package requests

import "time"

type CreateAppointment struct {
	PatientID      string    `json:"patientId" validate:"omitempty,max=64"`
	DoctorID       string    `json:"doctorId" validate:"required,mongodb"`
	DateTime       time.Time `json:"dateTime" validate:"required"`
	EndTime        time.Time `json:"endTime" validate:"required,gtfield=DateTime"`
	ReasonForVisit string    `json:"reasonForVisit" validate:"required,max=500"`
	Notes          string    `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateAppointment is a partial update, nil fields are left untouched.
type UpdateAppointment struct {
	DateTime       *time.Time `json:"dateTime" validate:"omitempty"`
	EndTime        *time.Time `json:"endTime" validate:"omitempty"`
	ReasonForVisit *string    `json:"reasonForVisit" validate:"omitempty,min=1,max=500"`
	Notes          *string    `json:"notes" validate:"omitempty,max=2000"`
	Status         *string    `json:"status" validate:"omitempty,oneof=scheduled completed cancelled no-show"`
}

type FindAllAppointments struct {
	PatientID string `validate:"omitempty,max=64"`
	DoctorID  string `validate:"omitempty,mongodb"`
	Status    string `validate:"omitempty,oneof=scheduled completed cancelled no-show"`
	From      string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To        string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}
