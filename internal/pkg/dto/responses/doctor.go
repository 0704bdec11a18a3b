package responses

import "time"

type Doctor struct {
	ID               string            `json:"id"`
	UserID           string            `json:"userId"`
	Name             string            `json:"name"`
	Specialty        string            `json:"specialty"`
	Bio              string            `json:"bio,omitempty"`
	WorkingHours     []WorkingHours    `json:"workingHours"`
	UnavailableTimes []UnavailableTime `json:"unavailableTimes"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

type WorkingHours struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type UnavailableTime struct {
	StartDateTime time.Time `json:"startDateTime"`
	EndDateTime   time.Time `json:"endDateTime"`
	Reason        string    `json:"reason,omitempty"`
}

type TimeSlot struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	IsAvailable bool      `json:"isAvailable"`
}

type DoctorAvailability struct {
	DoctorID    string     `json:"doctorId"`
	Date        string     `json:"date"`
	SlotMinutes int        `json:"slotMinutes"`
	Slots       []TimeSlot `json:"slots"`
}
