package service

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"task-planner/internal/notify"
)

// Dispatcher runs one reminder fan-out.
type Dispatcher interface {
	Dispatch(ctx context.Context) (notify.Summary, error)
}

type NotificationSchedulerInterface interface {
	TriggerNow(ctx context.Context) (notify.Summary, error)
}

// NotificationScheduler fires the dispatcher at fixed daily slots and on
// demand. Scheduled and manual runs are not serialized against each other.
type NotificationScheduler struct {
	scheduler  *SchedulerService
	dispatcher Dispatcher
	timeout    time.Duration
	logger     *log.Logger
	now        func() time.Time
}

func NewNotificationScheduler(scheduler *SchedulerService, dispatcher Dispatcher, timeout time.Duration, logger *log.Logger) *NotificationScheduler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &NotificationScheduler{
		scheduler:  scheduler,
		dispatcher: dispatcher,
		timeout:    timeout,
		logger:     logger.WithPrefix("notifications"),
		now:        time.Now,
	}
}

// Register schedules one dispatch per HH:MM slot.
func (n *NotificationScheduler) Register(times []string) error {
	for _, slot := range times {
		id, err := n.scheduler.ScheduleDaily(slot, func() { n.runSlot(slot) })
		if err != nil {
			return fmt.Errorf("schedule notifications at %s: %w", slot, err)
		}
		next := n.scheduler.Next(id, n.now())
		n.logger.Info("reminder scheduled", "slot", slot, "next", next.Format(time.RFC3339))
	}
	return nil
}

func (n *NotificationScheduler) runSlot(slot string) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	summary, err := n.dispatcher.Dispatch(ctx)
	if err != nil {
		n.logger.Error("scheduled dispatch failed", "slot", slot, "err", err)
		return
	}
	n.logger.Info("scheduled dispatch done", "slot", slot, "sent", summary.Sent, "failed", summary.Failed)
}

// TriggerNow runs a dispatch immediately. The run keeps going if ctx is
// canceled and is bounded by the dispatch timeout instead.
func (n *NotificationScheduler) TriggerNow(ctx context.Context) (notify.Summary, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	summary, err := n.dispatcher.Dispatch(ctx)
	if err != nil {
		n.logger.Error("manual dispatch failed", "err", err)
		return summary, err
	}
	n.logger.Info("manual dispatch done", "sent", summary.Sent, "failed", summary.Failed)
	return summary, nil
}
