package requests

import "time"

type UpsertDoctor struct {
	UserID           string            `json:"userId" validate:"required,max=64"`
	Name             string            `json:"name" validate:"required,max=120"`
	Specialty        string            `json:"specialty" validate:"required,max=80"`
	Bio              string            `json:"bio" validate:"omitempty,max=2000"`
	WorkingHours     []WorkingHours    `json:"workingHours" validate:"omitempty,max=7,dive"`
	UnavailableTimes []UnavailableTime `json:"unavailableTimes" validate:"omitempty,dive"`
}

type WorkingHours struct {
	DayOfWeek int    `json:"dayOfWeek" validate:"gte=0,lte=6"`
	StartTime string `json:"startTime" validate:"required,clock"`
	EndTime   string `json:"endTime" validate:"required,clock"`
}

type UnavailableTime struct {
	StartDateTime time.Time `json:"startDateTime" validate:"required"`
	EndDateTime   time.Time `json:"endDateTime" validate:"required,gtfield=StartDateTime"`
	Reason        string    `json:"reason" validate:"omitempty,max=200"`
}

type FindAllDoctors struct {
	Specialty string `validate:"omitempty,max=80"`
}

type DoctorAvailability struct {
	DoctorID    string `validate:"required,mongodb"`
	Date        string `validate:"required,date"`
	SlotMinutes int    `validate:"omitempty,gte=5,lte=240"`
}
