package appointments

import (
	"context"
	"errors"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/interval"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AppointmentMongoRepository struct {
	Collection *mongo.Collection
}

func NewAppointmentMongoRepository(db *mongo.Client, dbName string) *AppointmentMongoRepository {
	return &AppointmentMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionAppointments),
	}
}

var _ contracts.AppointmentRepository = (*AppointmentMongoRepository)(nil)

var errAppointmentModified = errors.New("appointment was changed or is no longer scheduled")

// EnsureIndexes creates the lookup indexes and the partial unique index that
// keeps two scheduled appointments of a doctor from sharing a start time.
func (r *AppointmentMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "dateTime", Value: 1}},
			Options: options.Index().
				SetName(constvars.MongoIndexAppointmentsDoctorSchedule).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": constvars.AppointmentStatusScheduled}),
		},
		{
			Keys:    bson.D{{Key: "doctorId", Value: 1}, {Key: "status", Value: 1}, {Key: "dateTime", Value: 1}, {Key: "endTime", Value: 1}},
			Options: options.Index().SetName(constvars.MongoIndexAppointmentsDoctorWindow),
		},
		{
			Keys:    bson.D{{Key: "patientId", Value: 1}, {Key: "dateTime", Value: 1}},
			Options: options.Index().SetName(constvars.MongoIndexAppointmentsPatient),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "reminderSent", Value: 1}, {Key: "reminderTime", Value: 1}},
			Options: options.Index().SetName(constvars.MongoIndexAppointmentsPendingReminders),
		},
	})
	if err != nil {
		return exceptions.ErrMongoDBCreateIndex(err)
	}
	return nil
}

func (r *AppointmentMongoRepository) Create(ctx context.Context, appointment *models.Appointment) (string, error) {
	appointment.ID = ""
	result, err := r.Collection.InsertOne(ctx, appointment)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	appointment.ID = result.InsertedID.(primitive.ObjectID).Hex()
	return appointment.ID, nil
}

func (r *AppointmentMongoRepository) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	objectID, err := primitive.ObjectIDFromHex(appointmentID)
	if err != nil {
		return nil, nil
	}

	var appointment models.Appointment
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&appointment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &appointment, nil
}

func (r *AppointmentMongoRepository) FindAll(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	query := bson.M{}
	if filter.PatientID != "" {
		query["patientId"] = filter.PatientID
	}
	if filter.DoctorID != "" {
		query["doctorId"] = filter.DoctorID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	dateRange := bson.M{}
	if filter.From != nil {
		dateRange["$gte"] = *filter.From
	}
	if filter.To != nil {
		dateRange["$lt"] = *filter.To
	}
	if len(dateRange) > 0 {
		query["dateTime"] = dateRange
	}

	return r.find(ctx, query, options.Find().SetSort(bson.D{{Key: "dateTime", Value: 1}}))
}

// FindScheduledOverlapping uses the closed-open overlap test
// dateTime < window.End && endTime > window.Start.
func (r *AppointmentMongoRepository) FindScheduledOverlapping(ctx context.Context, doctorID string, window interval.Interval, excludeID string) ([]models.Appointment, error) {
	query := bson.M{
		"doctorId": doctorID,
		"status":   constvars.AppointmentStatusScheduled,
		"dateTime": bson.M{"$lt": window.End},
		"endTime":  bson.M{"$gt": window.Start},
	}
	if excludeID != "" {
		if objectID, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			query["_id"] = bson.M{"$ne": objectID}
		}
	}

	return r.find(ctx, query, options.Find().SetSort(bson.D{{Key: "dateTime", Value: 1}}))
}

func (r *AppointmentMongoRepository) FindPendingReminders(ctx context.Context, now time.Time, limit int) ([]models.Appointment, error) {
	query := bson.M{
		"status":       constvars.AppointmentStatusScheduled,
		"reminderSent": false,
		"reminderTime": bson.M{"$lte": now},
		"dateTime":     bson.M{"$gt": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "reminderTime", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, query, opts)
}

func (r *AppointmentMongoRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.Appointment, error) {
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	appointments := []models.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, exceptions.ErrMongoDBDecodeDocument(err)
	}
	return appointments, nil
}

func (r *AppointmentMongoRepository) Update(ctx context.Context, appointment *models.Appointment, expectedUpdatedAt time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(appointment.ID)
	if err != nil {
		return exceptions.ErrAppointmentNotFound(err)
	}

	update := bson.M{"$set": bson.M{
		"dateTime":       appointment.DateTime,
		"endTime":        appointment.EndTime,
		"reasonForVisit": appointment.ReasonForVisit,
		"status":         appointment.Status,
		"notes":          appointment.Notes,
		"reminderSent":   appointment.ReminderSent,
		"reminderTime":   appointment.ReminderTime,
		"updatedAt":      appointment.UpdatedAt,
	}}

	filter := bson.M{
		"_id":       objectID,
		"status":    constvars.AppointmentStatusScheduled,
		"updatedAt": expectedUpdatedAt,
	}

	result, err := r.Collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(false))
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrConcurrencyConflict(errAppointmentModified)
	}
	return nil
}

func (r *AppointmentMongoRepository) Delete(ctx context.Context, appointmentID string) error {
	objectID, err := primitive.ObjectIDFromHex(appointmentID)
	if err != nil {
		return exceptions.ErrAppointmentNotFound(err)
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	return nil
}

func (r *AppointmentMongoRepository) DeleteByDoctorID(ctx context.Context, doctorID string) (int64, error) {
	result, err := r.Collection.DeleteMany(ctx, bson.M{"doctorId": doctorID})
	if err != nil {
		return 0, exceptions.ErrMongoDBDeleteDocument(err)
	}
	return result.DeletedCount, nil
}

// MarkReminderSent matches on reminderTime so a reminder queued before a
// reschedule cannot mark the new one as sent.
func (r *AppointmentMongoRepository) MarkReminderSent(ctx context.Context, appointmentID string, reminderTime time.Time) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(appointmentID)
	if err != nil {
		return false, nil
	}

	filter := bson.M{
		"_id":          objectID,
		"status":       constvars.AppointmentStatusScheduled,
		"reminderSent": false,
		"reminderTime": reminderTime,
	}
	update := bson.M{"$set": bson.M{"reminderSent": true, "updatedAt": time.Now()}}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount == 1, nil
}
