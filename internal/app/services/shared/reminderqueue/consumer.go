package reminderqueue

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/utils"
	"sync"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer dispatches reminders as they become ready.
type Consumer struct {
	conn      *amqp091.Connection
	channel   *amqp091.Channel
	queue     string
	prefetch  int
	reminders contracts.ReminderUsecase
	log       *zap.Logger
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewConsumer(conn *amqp091.Connection, internalConfig *config.InternalConfig, reminderUsecase contracts.ReminderUsecase, logger *zap.Logger) *Consumer {
	return &Consumer{
		conn:      conn,
		queue:     internalConfig.RabbitMQ.ReminderReadyQueue,
		prefetch:  internalConfig.RabbitMQ.Prefetch,
		reminders: reminderUsecase,
		log:       logger,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	if c.prefetch > 0 {
		if err := ch.Qos(c.prefetch, 0, false); err != nil {
			_ = ch.Close()
			return err
		}
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return err
	}
	c.channel = ch

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-runCtx.Done():
				return
			case delivery, ok := <-deliveries:
				if !ok {
					c.log.Warn("reminderqueue.Consumer deliveries channel closed", zap.String(constvars.LoggingQueueKey, c.queue))
					return
				}
				c.handle(runCtx, delivery)
			}
		}
	}()

	c.log.Info("reminderqueue.Consumer started", zap.String(constvars.LoggingQueueKey, c.queue))
	return nil
}

// acknowledger is satisfied by amqp091.Delivery.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Consumer) handle(ctx context.Context, delivery amqp091.Delivery) {
	c.process(ctx, delivery.Body, delivery.DeliveryTag, &delivery)
}

// process acks handled and stale reminders and drops everything else.
// Reminders that failed on infrastructure errors stay unsent in the store
// and are picked up by the reminder sweep.
func (c *Consumer) process(ctx context.Context, body []byte, tag uint64, ack acknowledger) {
	ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, utils.GenerateRequestID())
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	message, err := decodeReminder(body)
	if err != nil {
		c.log.Error("reminderqueue.Consumer dropping malformed message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Uint64(constvars.LoggingDeliveryTagKey, tag),
			zap.Error(err),
		)
		_ = ack.Nack(false, false)
		return
	}

	claimed, err := c.reminders.DispatchReminder(ctx, message.AppointmentID, message.FireAt)
	if err != nil && !claimed {
		c.log.Error("reminderqueue.Consumer dispatch failed, leaving it to the sweep",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, message.AppointmentID),
			zap.Error(err),
		)
		_ = ack.Nack(false, false)
		return
	}
	if err != nil {
		c.log.Error("reminderqueue.Consumer notification publish failed after claim",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, message.AppointmentID),
			zap.Error(err),
		)
	}
	_ = ack.Ack(false)
}

func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.log.Warn("reminderqueue.Consumer failed to close channel", zap.Error(err))
		}
	}
}
