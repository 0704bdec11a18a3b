package main

import (
	"context"
	"errors"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/app/delivery/http/routers"
	"medibook-service/internal/app/drivers/database"
	"medibook-service/internal/app/drivers/logger"
	"medibook-service/internal/app/drivers/messaging"
	"medibook-service/internal/app/services/core/appointments"
	"medibook-service/internal/app/services/core/availability"
	"medibook-service/internal/app/services/core/booking"
	"medibook-service/internal/app/services/core/doctors"
	"medibook-service/internal/app/services/core/reminders"
	"medibook-service/internal/app/services/shared/locker"
	"medibook-service/internal/app/services/shared/redis"
	"medibook-service/internal/app/services/shared/reminderqueue"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Version sets the default build version
var Version = "develop"

// Tag sets the default latest commit tag
var Tag = "0.0.1-rc"

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)
	log.Info("Starting medibook service",
		zap.String("version", Version),
		zap.String("tag", Tag),
		zap.String("env", internalConfig.App.Env))

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("Error loading location", zap.String("timezone", internalConfig.App.Timezone), zap.Error(err))
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig, log)
	redisClient := database.NewRedisClient(driverConfig, log)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig, log)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		Logger:         log,
		RabbitMQ:       rabbitMQ,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	err = bootstrapingTheApp(bootstrap)
	if err != nil {
		log.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:              internalConfig.App.Port,
		Handler:           chiRouter,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(internalConfig.App.RequestTimeoutInSeconds) * time.Second,
		WriteTimeout:      time.Duration(internalConfig.App.RequestTimeoutInSeconds+5) * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server listening", zap.String("address", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Failed to release resources", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	ctx := context.Background()
	dbName := bootstrap.DriverConfig.MongoDB.DbName

	// Repositories
	doctorMongoRepository := doctors.NewDoctorMongoRepository(bootstrap.MongoDB, dbName)
	appointmentMongoRepository := appointments.NewAppointmentMongoRepository(bootstrap.MongoDB, dbName)
	err := doctorMongoRepository.EnsureIndexes(ctx)
	if err != nil {
		return err
	}
	err = appointmentMongoRepository.EnsureIndexes(ctx)
	if err != nil {
		return err
	}

	// Redis locker
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockService := locker.NewLockService(redisRepository, bootstrap.Logger)
	guard := booking.NewGuard(lockService, doctorMongoRepository, appointmentMongoRepository, bootstrap.InternalConfig, bootstrap.Logger)

	// Reminder queue
	reminderPublisher, err := reminderqueue.NewPublisher(bootstrap.RabbitMQ, bootstrap.InternalConfig, bootstrap.Logger)
	if err != nil {
		return err
	}

	// Usecases
	doctorUsecase := doctors.NewDoctorUsecase(doctorMongoRepository, appointmentMongoRepository, bootstrap.Logger)
	availabilityUsecase := availability.NewAvailabilityUsecase(doctorMongoRepository, appointmentMongoRepository, bootstrap.InternalConfig, bootstrap.Logger)
	appointmentUsecase := appointments.NewAppointmentUsecase(appointmentMongoRepository, doctorMongoRepository, guard, reminderPublisher, bootstrap.InternalConfig, bootstrap.Logger)
	reminderUsecase := reminders.NewReminderUsecase(appointmentMongoRepository, reminderPublisher, bootstrap.InternalConfig, bootstrap.Logger)

	// Background workers
	reminderWorker := reminders.NewWorker(bootstrap.Logger, bootstrap.InternalConfig, lockService, reminderUsecase)
	reminderWorker.Start(ctx)

	reminderConsumer := reminderqueue.NewConsumer(bootstrap.RabbitMQ, bootstrap.InternalConfig, reminderUsecase, bootstrap.Logger)
	err = reminderConsumer.Start(ctx)
	if err != nil {
		reminderWorker.Stop()
		return err
	}

	bootstrap.WorkerStop = func() {
		reminderConsumer.Stop()
		reminderWorker.Stop()
	}

	// HTTP
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)
	doctorController := controllers.NewDoctorController(bootstrap.Logger, bootstrap.InternalConfig, doctorUsecase, availabilityUsecase)
	appointmentController := controllers.NewAppointmentController(bootstrap.Logger, bootstrap.InternalConfig, appointmentUsecase)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, middlewares, doctorController, appointmentController)
	return nil
}
