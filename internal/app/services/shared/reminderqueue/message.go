package reminderqueue

import (
	"errors"
	"medibook-service/internal/pkg/constvars"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
)

var errMalformedMessage = errors.New("reminder message is missing appointmentId or fireAt")

// ReminderMessage travels through the delay queue and is dispatched once it
// dead-letters into the ready queue.
type ReminderMessage struct {
	AppointmentID string    `json:"appointmentId"`
	PatientID     string    `json:"patientId"`
	FireAt        time.Time `json:"fireAt"`
}

// expiration renders the per-message TTL RabbitMQ expects, in milliseconds
// and never negative.
func expiration(fireAt, now time.Time) string {
	delay := fireAt.Sub(now)
	if delay < 0 {
		delay = 0
	}
	return strconv.FormatInt(delay.Milliseconds(), 10)
}

func buildPublishing(body []byte) amqp091.Publishing {
	return amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp091.Table{
			"message_type": constvars.ReminderMessageTypeJSON,
		},
	}
}

func encodeReminder(message *ReminderMessage, now time.Time) (amqp091.Publishing, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return amqp091.Publishing{}, err
	}
	publishing := buildPublishing(body)
	publishing.Expiration = expiration(message.FireAt, now)
	return publishing, nil
}

func decodeReminder(body []byte) (*ReminderMessage, error) {
	var message ReminderMessage
	if err := json.Unmarshal(body, &message); err != nil {
		return nil, err
	}
	if message.AppointmentID == "" || message.FireAt.IsZero() {
		return nil, errMalformedMessage
	}
	return &message, nil
}
