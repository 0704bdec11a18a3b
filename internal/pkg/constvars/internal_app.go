package constvars

type ContextKey string

const (
	ResourceDoctors      = "doctors"
	ResourceAppointments = "appointments"
)

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_SESSION_DATA_KEY         ContextKey = "session_data"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "MDBK_SVC_"
)

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
	AppointmentStatusNoShow    = "no-show"
)

const (
	// DateLayout is the calendar date accepted by the availability query.
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

const (
	DefaultSlotDurationInMinutes = 30
	DefaultReminderLeadInHours   = 24
)

const (
	BookingLockKeyFormat    = "booking:lock:doctor:%s:%04d-%02d-%02d"
	ReminderLeaderLockKey   = "reminders:leader"
	ReminderLeaderLockTTL   = 2
	ReminderQueueDelayName  = "appointment_reminders_delay"
	ReminderQueueReadyName  = "appointment_reminders"
	ReminderMessageTypeJSON = "JSON"
)
