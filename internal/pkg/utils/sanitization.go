package utils

import (
	"medibook-service/internal/pkg/dto/requests"
	"strings"
)

func SanitizeDoctorRequest(input *requests.UpsertDoctor) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.Name = strings.Join(strings.Fields(input.Name), " ")
	input.Specialty = strings.ToLower(strings.TrimSpace(input.Specialty))
	input.Bio = strings.TrimSpace(input.Bio)
	for i := range input.UnavailableTimes {
		input.UnavailableTimes[i].Reason = strings.TrimSpace(input.UnavailableTimes[i].Reason)
	}
}

func SanitizeCreateAppointmentRequest(input *requests.CreateAppointment) {
	input.PatientID = strings.TrimSpace(input.PatientID)
	input.DoctorID = strings.TrimSpace(input.DoctorID)
	input.ReasonForVisit = strings.TrimSpace(input.ReasonForVisit)
	input.Notes = strings.TrimSpace(input.Notes)
}

func SanitizeUpdateAppointmentRequest(input *requests.UpdateAppointment) {
	if input.ReasonForVisit != nil {
		trimmed := strings.TrimSpace(*input.ReasonForVisit)
		input.ReasonForVisit = &trimmed
	}
	if input.Notes != nil {
		trimmed := strings.TrimSpace(*input.Notes)
		input.Notes = &trimmed
	}
	if input.Status != nil {
		normalized := strings.ToLower(strings.TrimSpace(*input.Status))
		input.Status = &normalized
	}
}
