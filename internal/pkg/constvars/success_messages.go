package constvars

const (
	// Generic messages
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	// Doctor-related messages
	CreateDoctorSuccessMessage    = "doctor created successfully"
	UpdateDoctorSuccessMessage    = "doctor updated successfully"
	DeleteDoctorSuccessMessage    = "doctor deleted successfully"
	GetDoctorSuccessMessage       = "get doctor successfully"
	GetDoctorsSuccessMessage      = "get doctors successfully"
	GetAvailabilitySuccessMessage = "get doctor availability successfully"

	// Appointment-related messages
	CreateAppointmentSuccessMessage = "appointment booked successfully"
	UpdateAppointmentSuccessMessage = "appointment updated successfully"
	DeleteAppointmentSuccessMessage = "appointment deleted successfully"
	GetAppointmentSuccessMessage    = "get appointment successfully"
	GetAppointmentsSuccessMessage   = "get appointments successfully"
)
