package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/trainbooking/internal/kafka"
	"github.com/go-co-op/gocron/v2"
	kafkaGo "github.com/segmentio/kafka-go"
)

type Notifier interface {
	Send(ctx context.Context, event kafka.TicketEvent) error
}

type CacheRefresher interface {
	RefreshCache(ctx context.Context) error
}

// NotificationHandler turns ticket events into notifications. Undecodable
// messages are logged and skipped so they are still committed.
func NotificationHandler(n Notifier) func(context.Context, kafkaGo.Message) error {
	return func(ctx context.Context, msg kafkaGo.Message) error {
		event, err := kafka.DecodeTicketEvent(msg)
		if err != nil {
			log.Printf("skip message at offset %d: %v", msg.Offset, err)
			return nil
		}
		return n.Send(ctx, event)
	}
}

// ScheduleCacheRefresh registers a job that reloads the train cache every interval.
func ScheduleCacheRefresh(ctx context.Context, s gocron.Scheduler, every time.Duration, r CacheRefresher) (gocron.Job, error) {
	job, err := s.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			if err := r.RefreshCache(ctx); err != nil {
				log.Printf("refresh train cache: %v", err)
			}
		}),
		gocron.WithName("refresh-train-cache"),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule cache refresh: %w", err)
	}
	return job, nil
}
