package reminders

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultCronSpec = "@every 15m"

// Worker periodically dispatches reminders that are due but unsent. Only
// the instance holding the leader lock sweeps.
type Worker struct {
	log       *zap.Logger
	cfg       *config.InternalConfig
	locker    contracts.LockerService
	reminders contracts.ReminderUsecase
	stop      chan struct{}
	cron      *cron.Cron
	runCtx    context.Context
	cancel    context.CancelFunc
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, reminderUsecase contracts.ReminderUsecase) *Worker {
	return &Worker{log: log, cfg: cfg, locker: lockerSvc, reminders: reminderUsecase, stop: make(chan struct{})}
}

func (w *Worker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	spec := w.cfg.Reminder.WorkerCronSpec
	_, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("reminders.Worker.Start invalid cron spec, falling back to the default",
			zap.String(constvars.LoggingCronSpecKey, spec),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc(defaultCronSpec, func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop waits for an in-flight sweep to return.
func (w *Worker) Stop() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	ttl := constvars.ReminderLeaderLockTTL * time.Minute
	acquired, token, err := w.locker.TryLock(ctx, constvars.ReminderLeaderLockKey, ttl)
	if err != nil {
		w.log.Warn("reminders.Worker.runOnce error acquiring leader lock",
			zap.String(constvars.LoggingRedisKey, constvars.ReminderLeaderLockKey),
			zap.Error(err),
		)
		return
	}
	if !acquired {
		w.log.Info("reminders.Worker.runOnce leader lock held by another instance",
			zap.String(constvars.LoggingRedisKey, constvars.ReminderLeaderLockKey),
		)
		return
	}
	defer func() {
		unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := w.locker.Unlock(unlockCtx, constvars.ReminderLeaderLockKey, token); err != nil {
			w.log.Warn("reminders.Worker.runOnce error releasing leader lock",
				zap.String(constvars.LoggingRedisKey, constvars.ReminderLeaderLockKey),
				zap.Error(err),
			)
		}
	}()

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		tick := time.NewTicker(ttl / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-w.stop:
				return
			case <-tick.C:
				if err := w.locker.Refresh(refreshCtx, constvars.ReminderLeaderLockKey, token, ttl); err != nil {
					w.log.Warn("reminders.Worker.runOnce error refreshing leader lock",
						zap.String(constvars.LoggingRedisKey, constvars.ReminderLeaderLockKey),
						zap.Error(err),
					)
				}
			}
		}
	}()

	sent, err := w.reminders.DispatchDueReminders(ctx, time.Now())
	if err != nil {
		w.log.Warn("reminders.Worker.runOnce error calling ReminderUsecase.DispatchDueReminders", zap.Error(err))
		return
	}
	w.log.Info("reminders.Worker.runOnce sweep finished", zap.Int(constvars.LoggingSentCountKey, sent))
}
