package config

type InternalConfig struct {
	App      App
	JWT      AppJWT
	Booking  AppBooking
	Reminder AppReminder
	RabbitMQ AppRabbitMQ
}

type App struct {
	Env                        string
	Port                       string
	Version                    string
	Address                    string
	Timezone                   string
	EndpointPrefix             string
	MaxRequests                int
	ShutdownTimeoutInSeconds   int
	RequestTimeoutInSeconds    int
	SlotDurationInMinutes      int
	RequestBodyLimitInKilobyte int
}

type AppJWT struct {
	Secret string
}

// AppBooking tunes the per-doctor reservation lock.
type AppBooking struct {
	LockTTLInSeconds                int
	LockWaitTimeoutInMilliseconds   int
	LockRetryIntervalInMilliseconds int
}

type AppReminder struct {
	LeadTimeInHours       int
	WorkerCronSpec        string
	SweepBatchSize        int
	DispatchRatePerSecond int
}

type AppRabbitMQ struct {
	ReminderDelayQueue string
	ReminderReadyQueue string
	NotificationQueue  string
	Prefetch           int
}
