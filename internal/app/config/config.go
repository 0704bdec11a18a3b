package config

import (
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "medibook"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "Asia/Jakarta"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUESTS", 10),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			RequestTimeoutInSeconds:    utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 10),
			SlotDurationInMinutes:      utils.GetEnvInt("APP_SLOT_DURATION_IN_MINUTES", constvars.DefaultSlotDurationInMinutes),
			RequestBodyLimitInKilobyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_KILOBYTE", 64),
		},
		JWT: AppJWT{
			Secret: utils.GetEnvString("JWT_SECRET", "anyjwt"),
		},
		Booking: AppBooking{
			LockTTLInSeconds:                utils.GetEnvInt("BOOKING_LOCK_TTL_IN_SECONDS", 10),
			LockWaitTimeoutInMilliseconds:   utils.GetEnvInt("BOOKING_LOCK_WAIT_TIMEOUT_IN_MILLISECONDS", 2000),
			LockRetryIntervalInMilliseconds: utils.GetEnvInt("BOOKING_LOCK_RETRY_INTERVAL_IN_MILLISECONDS", 50),
		},
		Reminder: AppReminder{
			LeadTimeInHours:       utils.GetEnvInt("APP_REMINDER_LEAD_TIME_IN_HOURS", constvars.DefaultReminderLeadInHours),
			WorkerCronSpec:        utils.GetEnvString("APP_REMINDER_WORKER_CRON_SPEC", "@every 15m"),
			SweepBatchSize:        utils.GetEnvInt("APP_REMINDER_SWEEP_BATCH_SIZE", 100),
			DispatchRatePerSecond: utils.GetEnvInt("APP_REMINDER_DISPATCH_RATE_PER_SECOND", 20),
		},
		RabbitMQ: AppRabbitMQ{
			ReminderDelayQueue: utils.GetEnvString("APP_RABBITMQ_REMINDER_DELAY_QUEUE", constvars.ReminderQueueDelayName),
			ReminderReadyQueue: utils.GetEnvString("APP_RABBITMQ_REMINDER_READY_QUEUE", constvars.ReminderQueueReadyName),
			NotificationQueue:  utils.GetEnvString("APP_RABBITMQ_NOTIFICATION_QUEUE", "appointment_notifications"),
			Prefetch:           utils.GetEnvInt("APP_RABBITMQ_PREFETCH", 10),
		},
	}
}
