package utils

import (
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
)

func BuildDoctorResponse(doctor *models.Doctor) *responses.Doctor {
	workingHours := make([]responses.WorkingHours, 0, len(doctor.WorkingHours))
	for _, rule := range doctor.WorkingHours {
		workingHours = append(workingHours, responses.WorkingHours{
			DayOfWeek: rule.DayOfWeek,
			StartTime: rule.StartTime,
			EndTime:   rule.EndTime,
		})
	}

	unavailableTimes := make([]responses.UnavailableTime, 0, len(doctor.UnavailableTimes))
	for _, blackout := range doctor.UnavailableTimes {
		unavailableTimes = append(unavailableTimes, responses.UnavailableTime{
			StartDateTime: blackout.StartDateTime,
			EndDateTime:   blackout.EndDateTime,
			Reason:        blackout.Reason,
		})
	}

	return &responses.Doctor{
		ID:               doctor.ID,
		UserID:           doctor.UserID,
		Name:             doctor.Name,
		Specialty:        doctor.Specialty,
		Bio:              doctor.Bio,
		WorkingHours:     workingHours,
		UnavailableTimes: unavailableTimes,
		CreatedAt:        doctor.CreatedAt,
		UpdatedAt:        doctor.UpdatedAt,
	}
}

func BuildDoctorsResponse(doctors []models.Doctor) []responses.Doctor {
	response := make([]responses.Doctor, 0, len(doctors))
	for i := range doctors {
		response = append(response, *BuildDoctorResponse(&doctors[i]))
	}
	return response
}

func BuildAppointmentResponse(appointment *models.Appointment) *responses.Appointment {
	return &responses.Appointment{
		ID:             appointment.ID,
		PatientID:      appointment.PatientID,
		DoctorID:       appointment.DoctorID,
		DateTime:       appointment.DateTime,
		EndTime:        appointment.EndTime,
		ReasonForVisit: appointment.ReasonForVisit,
		Status:         appointment.Status,
		Notes:          appointment.Notes,
		ReminderSent:   appointment.ReminderSent,
		ReminderTime:   appointment.ReminderTime,
		CreatedAt:      appointment.CreatedAt,
		UpdatedAt:      appointment.UpdatedAt,
	}
}

func BuildAppointmentsResponse(appointments []models.Appointment) []responses.Appointment {
	response := make([]responses.Appointment, 0, len(appointments))
	for i := range appointments {
		response = append(response, *BuildAppointmentResponse(&appointments[i]))
	}
	return response
}

func BuildTimeSlotsResponse(slots []models.TimeSlot) []responses.TimeSlot {
	response := make([]responses.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		response = append(response, responses.TimeSlot{
			Start:       slot.Start,
			End:         slot.End,
			IsAvailable: slot.IsAvailable,
		})
	}
	return response
}

// BuildDoctorModel copies the writable fields of request onto doctor.
func BuildDoctorModel(doctor *models.Doctor, request *requests.UpsertDoctor) {
	doctor.UserID = request.UserID
	doctor.Name = request.Name
	doctor.Specialty = request.Specialty
	doctor.Bio = request.Bio

	doctor.WorkingHours = make([]models.WorkingHoursRule, 0, len(request.WorkingHours))
	for _, rule := range request.WorkingHours {
		doctor.WorkingHours = append(doctor.WorkingHours, models.WorkingHoursRule{
			DayOfWeek: rule.DayOfWeek,
			StartTime: rule.StartTime,
			EndTime:   rule.EndTime,
		})
	}

	doctor.UnavailableTimes = make([]models.UnavailableInterval, 0, len(request.UnavailableTimes))
	for _, blackout := range request.UnavailableTimes {
		doctor.UnavailableTimes = append(doctor.UnavailableTimes, models.UnavailableInterval{
			StartDateTime: blackout.StartDateTime,
			EndDateTime:   blackout.EndDateTime,
			Reason:        blackout.Reason,
		})
	}
}
