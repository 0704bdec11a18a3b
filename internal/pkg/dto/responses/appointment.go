package responses

import "time"

type Appointment struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patientId"`
	DoctorID       string    `json:"doctorId"`
	DateTime       time.Time `json:"dateTime"`
	EndTime        time.Time `json:"endTime"`
	ReasonForVisit string    `json:"reasonForVisit"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	ReminderSent   bool      `json:"reminderSent"`
	ReminderTime   time.Time `json:"reminderTime"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
