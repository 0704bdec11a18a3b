package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s characters long",
	"max":      "maximum at %s characters long",
	"gt":       "must be greater than %s",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"gtfield":  "must be after %s",
	"oneof":    "must be one of [%s]",
	"mongodb":  "must be a valid id",
	"dive":     "is invalid",
	"clock":    "must be a 24h clock time in HH:MM format",
	"date":     "must be a date in YYYY-MM-DD format",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":     true,
	"max":     true,
	"gt":      true,
	"gte":     true,
	"lte":     true,
	"gtfield": true,
	"oneof":   true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientServiceUnavailable            = "the service is temporarily unavailable, please try again"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientDoctorNotFound                = "doctor not found"
	ErrClientAppointmentNotFound           = "appointment not found"
	ErrClientDoctorDoesNotWorkOnThisDay    = "doctor does not work on this day"
	ErrClientOutsideWorkingHours           = "appointment time is outside doctor's working hours"
	ErrClientDoctorUnavailable             = "doctor is unavailable at this time"
	ErrClientSlotAlreadyBooked             = "this time slot is already booked"
	ErrClientConcurrencyConflict           = "this time slot is being booked by someone else, please check availability again"
	ErrClientInvalidStatusTransition       = "appointment status cannot be changed"
	ErrClientAppointmentNotEditable        = "appointment can no longer be changed"
	ErrClientDuplicateWorkingHours         = "working hours contain more than one rule for the same day"
	ErrClientInvalidWorkingHours           = "working hours start time must be before end time"
	ErrClientInvalidUnavailableTime        = "unavailable time start must be before end"
	ErrClientInvalidDate                   = "date must be in YYYY-MM-DD format"
	ErrClientPatientIDRequired             = "patient id is required"
	ErrClientInvalidAppointmentWindow      = "endTime must be after dateTime"
	ErrClientDoctorAlreadyExists           = "doctor profile already exists for this user"
)

// Error messages for developers
const (
	ErrDevInvalidInput               = "invalid input"
	ErrDevCannotParseJSON            = "cannot parse JSON"
	ErrDevCannotMarshalJSON          = "cannot marshal JSON"
	ErrDevValidationFailed           = "validation failed"
	ErrDevURLParamIDValidationFailed = "failed to validate url param '%s'"
	ErrDevQueryParamValidationFailed = "failed to validate query param '%s'"
	ErrDevServerDeadlineExceeded     = "server deadline exceeded"
	ErrDevMissingRequestID           = "request id not found in context"
	ErrDevMissingSessionData         = "session data not found in context"
	ErrDevAuthTokenMissing           = "auth token missing"
	ErrDevAuthTokenInvalidOrExpired  = "auth token invalid or expired"
	ErrDevAuthRoleNotAllowed         = "role '%s' is not allowed to access this resource"
	ErrDevDoctorNotFound             = "doctor not found"
	ErrDevAppointmentNotFound        = "appointment not found"
	ErrDevDoctorDoesNotWorkOnThisDay = "no working hours rule for the requested weekday"
	ErrDevOutsideWorkingHours        = "interval is not contained in the working hours window"
	ErrDevDoctorUnavailable          = "interval overlaps an unavailable interval"
	ErrDevSlotAlreadyBooked          = "interval overlaps a scheduled appointment"
	ErrDevConcurrencyConflict        = "booking lock could not be acquired or store rejected a concurrent write"
	ErrDevInvalidStatusTransition    = "invalid status transition from '%s' to '%s'"
	ErrDevAppointmentNotEditable     = "appointment in terminal status '%s'"
	ErrDevDuplicateWorkingHours      = "duplicate working hours rule for day %d"
	ErrDevInvalidWorkingHours        = "working hours rule for day %d has start >= end"
	ErrDevInvalidUnavailableTime     = "unavailable interval %d has start >= end"
	ErrDevInvalidDate                = "cannot parse date"
	ErrDevPatientIDRequired          = "patient id required when booking on behalf of a patient"
	ErrDevInvalidAppointmentWindow   = "appointment interval is empty"
	ErrDevDoctorAlreadyExists        = "doctor with the same user id already exists"
	ErrDevMongoDBInsertDocument      = "failed to insert document into mongodb"
	ErrDevMongoDBFindDocument        = "failed to find document in mongodb"
	ErrDevMongoDBUpdateDocument      = "failed to update document in mongodb"
	ErrDevMongoDBDeleteDocument      = "failed to delete document in mongodb"
	ErrDevMongoDBDecodeDocument      = "failed to decode mongodb document"
	ErrDevMongoDBCreateIndex         = "failed to create mongodb index"
	ErrDevRedisSet                   = "failed to set value in redis"
	ErrDevRedisGet                   = "failed to get value from redis"
	ErrDevRedisDelete                = "failed to delete value from redis"
	ErrDevRedisEval                  = "failed to evaluate redis script"
	ErrDevRedisUnlock                = "failed to unlock redis key"
	ErrDevRabbitMQPublish            = "failed to publish message to rabbitmq"
)
