package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingDataKey           = "data"
	LoggingSessionDataKey    = "session_data"
	LoggingQueryParamsKey    = "query_params"
	LoggingResponseKey       = "response"
	LoggingRequestKey        = "request"
	LoggingResponseLengthKey = "response_length"
	LoggingErrorTypeKey      = "error_type"

	LoggingMethodKey     = "method"
	LoggingEndpointKey   = "endpoint"
	LoggingRemoteAddrKey = "remote_addr"
	LoggingUserAgentKey  = "user_agent"
	LoggingQueryKey      = "query"
	LoggingStatusCodeKey = "status_code"
	LoggingDurationKey   = "duration"
	LoggingSuccessKey    = "success"

	LoggingDoctorIDKey      = "doctor_id"
	LoggingPatientIDKey     = "patient_id"
	LoggingAppointmentIDKey = "appointment_id"
	LoggingUserIDKey        = "user_id"
	LoggingRoleKey          = "role"
	LoggingDateKey          = "date"
	LoggingIntervalStartKey = "interval_start"
	LoggingIntervalEndKey   = "interval_end"
	LoggingSlotCountKey     = "slot_count"
	LoggingFireAtKey        = "fire_at"
	LoggingQueueKey         = "queue"
	LoggingDeliveryTagKey   = "delivery_tag"
	LoggingCronSpecKey      = "cron_spec"
	LoggingDueCountKey      = "due_count"
	LoggingSentCountKey     = "sent_count"

	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingLockAttemptKey        = "lock_attempt"
)
