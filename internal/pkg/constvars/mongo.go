package constvars

const (
	MongoCollectionDoctors      = "doctors"
	MongoCollectionAppointments = "appointments"
)

const (
	MongoIndexAppointmentsDoctorSchedule   = "doctor_date_time_scheduled_unique"
	MongoIndexAppointmentsDoctorWindow     = "doctor_window"
	MongoIndexAppointmentsPatient          = "patient_date_time"
	MongoIndexAppointmentsPendingReminders = "pending_reminders"
	MongoIndexDoctorsUserID                = "user_id_unique"
	MongoIndexDoctorsSpecialty             = "specialty"
)
