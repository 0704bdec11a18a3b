package fakes

import (
	"context"
	"medibook-service/internal/app/contracts"
	"sync"
	"time"
)

type ScheduledReminder struct {
	AppointmentID string
	PatientID     string
	FireAt        time.Time
}

type ReminderScheduler struct {
	mu        sync.Mutex
	scheduled []ScheduledReminder
}

func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, appointmentID, patientID string, fireAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled = append(s.scheduled, ScheduledReminder{AppointmentID: appointmentID, PatientID: patientID, FireAt: fireAt})
}

func (s *ReminderScheduler) Scheduled() []ScheduledReminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ScheduledReminder(nil), s.scheduled...)
}

type NotificationPublisher struct {
	mu        sync.Mutex
	published []contracts.ReminderNotification
	Err       error
}

func (p *NotificationPublisher) PublishReminderNotification(ctx context.Context, notification *contracts.ReminderNotification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.published = append(p.published, *notification)
	return nil
}

func (p *NotificationPublisher) Published() []contracts.ReminderNotification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]contracts.ReminderNotification(nil), p.published...)
}
