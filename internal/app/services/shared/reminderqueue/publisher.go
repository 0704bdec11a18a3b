package reminderqueue

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// channel is the subset of *amqp091.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Publisher queues reminders on the delay queue and hands due notifications
// to the notification queue.
type Publisher struct {
	mu                sync.Mutex
	channel           channel
	delayQueue        string
	notificationQueue string
	log               *zap.Logger
	now               func() time.Time
}

var (
	_ contracts.ReminderScheduler     = (*Publisher)(nil)
	_ contracts.NotificationPublisher = (*Publisher)(nil)
)

// DeclareQueues declares the ready and notification queues and the delay
// queue whose expired messages dead-letter into the ready queue.
func DeclareQueues(ch *amqp091.Channel, cfg config.AppRabbitMQ) error {
	_, err := ch.QueueDeclare(cfg.ReminderReadyQueue, true, false, false, false, nil)
	if err != nil {
		return err
	}

	_, err = ch.QueueDeclare(cfg.ReminderDelayQueue, true, false, false, false, amqp091.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": cfg.ReminderReadyQueue,
	})
	if err != nil {
		return err
	}

	_, err = ch.QueueDeclare(cfg.NotificationQueue, true, false, false, false, nil)
	return err
}

func NewPublisher(conn *amqp091.Connection, internalConfig *config.InternalConfig, logger *zap.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := DeclareQueues(ch, internalConfig.RabbitMQ); err != nil {
		_ = ch.Close()
		return nil, err
	}
	return newPublisher(ch, internalConfig.RabbitMQ, logger), nil
}

func newPublisher(ch channel, cfg config.AppRabbitMQ, logger *zap.Logger) *Publisher {
	return &Publisher{
		channel:           ch,
		delayQueue:        cfg.ReminderDelayQueue,
		notificationQueue: cfg.NotificationQueue,
		log:               logger,
		now:               time.Now,
	}
}

// ScheduleReminder never fails the caller; publish errors are logged and the
// reminder sweep picks the appointment up later.
func (p *Publisher) ScheduleReminder(ctx context.Context, appointmentID, patientID string, fireAt time.Time) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	publishing, err := encodeReminder(&ReminderMessage{
		AppointmentID: appointmentID,
		PatientID:     patientID,
		FireAt:        fireAt,
	}, p.now())
	if err != nil {
		p.log.Error("reminderqueue.Publisher.ScheduleReminder error encoding message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return
	}

	if err := p.publish(ctx, p.delayQueue, publishing); err != nil {
		p.log.Error("reminderqueue.Publisher.ScheduleReminder error publishing message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.String(constvars.LoggingQueueKey, p.delayQueue),
			zap.Error(err),
		)
		return
	}

	p.log.Info("reminderqueue.Publisher.ScheduleReminder queued reminder",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.Time(constvars.LoggingFireAtKey, fireAt),
	)
}

func (p *Publisher) PublishReminderNotification(ctx context.Context, notification *contracts.ReminderNotification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	if err := p.publish(ctx, p.notificationQueue, buildPublishing(body)); err != nil {
		return exceptions.ErrRabbitMQPublish(err)
	}
	return nil
}

// publish serializes access, amqp channels are not safe for concurrent use.
func (p *Publisher) publish(ctx context.Context, queue string, publishing amqp091.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.PublishWithContext(ctx, "", queue, false, false, publishing)
}
