package utils

import (
	"medibook-service/internal/pkg/dto/requests"
	"net/http"
	"strings"
)

func BuildFindAllAppointmentsRequest(r *http.Request) *requests.FindAllAppointments {
	query := r.URL.Query()
	return &requests.FindAllAppointments{
		PatientID: strings.TrimSpace(query.Get("patientId")),
		DoctorID:  strings.TrimSpace(query.Get("doctorId")),
		Status:    strings.TrimSpace(query.Get("status")),
		From:      strings.TrimSpace(query.Get("from")),
		To:        strings.TrimSpace(query.Get("to")),
	}
}

func BuildFindAllDoctorsRequest(r *http.Request) *requests.FindAllDoctors {
	return &requests.FindAllDoctors{
		Specialty: strings.TrimSpace(r.URL.Query().Get("specialty")),
	}
}
