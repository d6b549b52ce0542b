// Package worker contains the background reminder process. It periodically
// scans crops for harvests coming due and turns them into notifications.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"farmbook/internal/amqp"
	"farmbook/internal/core"
	"farmbook/internal/report"
	"farmbook/internal/store"
)

// ReminderWorker creates harvest-due notifications on a fixed interval.
type ReminderWorker struct {
	store       store.Store
	events      *amqp.Client // optional; consumed for logging when present
	horizonDays int
	interval    time.Duration
}

func NewReminderWorker(s store.Store, events *amqp.Client, horizonDays int, interval time.Duration) *ReminderWorker {
	return &ReminderWorker{
		store:       s,
		events:      events,
		horizonDays: horizonDays,
		interval:    interval,
	}
}

// Run scans once at startup and then on every tick until the context ends.
// The event consumer, when configured, runs alongside the scan loop.
func (w *ReminderWorker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if _, err := w.ScanOnce(ctx, time.Now()); err != nil {
			slog.ErrorContext(ctx, "Startup reminder scan failed", "error", err)
		}

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				created, err := w.ScanOnce(ctx, time.Now())
				if err != nil {
					slog.ErrorContext(ctx, "Reminder scan failed", "error", err)
					continue
				}
				if created > 0 {
					slog.InfoContext(ctx, "Reminder scan completed", "notifications_created", created)
				}
			}
		}
	})

	if w.events != nil {
		g.Go(func() error {
			return w.events.ConsumeEvents(ctx, func(msg *amqp.EventMessage) error {
				slog.InfoContext(ctx, "Farm event received",
					"entity", msg.Entity, "action", msg.Action, "id", msg.ID)
				return nil
			})
		})
	}

	return g.Wait()
}

// ScanOnce creates one notification per unharvested crop whose estimated
// harvest date falls within the horizon. A crop that already has a
// notification pointing at it is skipped, so repeated scans are idempotent.
func (w *ReminderWorker) ScanOnce(ctx context.Context, now time.Time) (int, error) {
	crops, err := w.store.ListCrops(ctx)
	if err != nil {
		return 0, fmt.Errorf("list crops: %w", err)
	}

	existing, err := w.store.ListNotifications(ctx)
	if err != nil {
		return 0, fmt.Errorf("list notifications: %w", err)
	}
	notified := make(map[string]bool, len(existing))
	for _, n := range existing {
		if n.Link != "" {
			notified[n.Link] = true
		}
	}

	events := report.UpcomingEvents(crops, nil, now, w.horizonDays)

	created := 0
	for _, ev := range events {
		if ev.Kind != report.EventHarvest {
			continue
		}
		link := "/crops/" + ev.RefID
		if notified[link] {
			continue
		}
		msg := fmt.Sprintf("Harvest due: %s (%s)", ev.Title, ev.Date.String())
		if _, err := w.store.AddNotification(ctx, core.Notification{
			Message: msg,
			Link:    link,
		}); err != nil {
			return created, fmt.Errorf("add notification: %w", err)
		}
		created++
	}
	return created, nil
}
