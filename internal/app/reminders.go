package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reminders запускает задачи по cron расписанию в часовом поясе платформы
type Reminders struct {
	cron   *cron.Cron
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewReminders создаёт планировщик напоминаний
func NewReminders(loc *time.Location, logger *zap.Logger) *Reminders {
	if loc == nil {
		loc = time.Local
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Reminders{
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add регистрирует задачу по стандартному 5-польному cron выражению
func (r *Reminders) Add(spec, name string, timeout time.Duration, fn PollFunc) error {
	_, err := r.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(r.ctx, timeout)
		defer cancel()

		started := time.Now()
		r.logger.Info("Running scheduled job", zap.String("job", name))
		if err := fn(ctx); err != nil {
			r.logger.Error("Scheduled job failed",
				zap.String("job", name),
				zap.Error(err))
			return
		}
		r.logger.Info("Scheduled job completed",
			zap.String("job", name),
			zap.Duration("took", time.Since(started)))
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	return nil
}

// Start запускает cron в отдельной горутине
func (r *Reminders) Start() {
	r.logger.Info("Starting reminders", zap.Int("jobs", len(r.cron.Entries())))
	r.cron.Start()
}

// Stop останавливает cron и ждёт завершения выполняющихся задач
func (r *Reminders) Stop() {
	r.cancel()
	<-r.cron.Stop().Done()
	r.logger.Info("Reminders stopped")
}
