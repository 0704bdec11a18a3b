package main

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/drivers/database"
	"medibook-service/internal/app/drivers/logger"
	"medibook-service/internal/app/services/core/appointments"
	"medibook-service/internal/app/services/core/doctors"
	"time"

	"go.uber.org/zap"
)

// indexer is implemented by every mongo repository owning indexes.
type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	log := logger.NewZapLogger(driverConfig, internalConfig)
	defer log.Sync()

	mongoDB := database.NewMongoDB(driverConfig, log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	defer mongoDB.Disconnect(ctx)

	dbName := driverConfig.MongoDB.DbName
	collections := map[string]indexer{
		"doctors":      doctors.NewDoctorMongoRepository(mongoDB, dbName),
		"appointments": appointments.NewAppointmentMongoRepository(mongoDB, dbName),
	}

	for name, repository := range collections {
		err := repository.EnsureIndexes(ctx)
		if err != nil {
			log.Fatal("Error ensuring indexes", zap.String("collection", name), zap.Error(err))
		}
		log.Info("Indexes ensured", zap.String("collection", name))
	}
}
