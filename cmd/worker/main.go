package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/trainbooking/config"
	"github.com/Domenick1991/trainbooking/internal/cache"
	"github.com/Domenick1991/trainbooking/internal/email"
	"github.com/Domenick1991/trainbooking/internal/kafka"
	"github.com/Domenick1991/trainbooking/internal/repository"
	"github.com/Domenick1991/trainbooking/internal/service/trains"
	"github.com/Domenick1991/trainbooking/internal/worker"
	"github.com/go-co-op/gocron/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("load .env: %v", err)
	}

	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Trains.CacheTTLSeconds)*time.Second)
	defer redisCache.Close()

	trainService := trains.NewTrainService(repository.NewTrainRepository(pool), redisCache)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("create scheduler: %v", err)
	}
	if _, err := worker.ScheduleCacheRefresh(ctx, scheduler, time.Duration(cfg.Worker.CacheRefreshSeconds)*time.Second, trainService); err != nil {
		log.Fatalf("%v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			log.Printf("scheduler shutdown: %v", err)
		}
	}()

	sender, err := email.NewSender(cfg.SMTP)
	if err != nil {
		log.Fatalf("create email sender: %v", err)
	}

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.NotificationsTopic != "" {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
		defer consumer.Close()

		go func() {
			if err := consumer.Consume(ctx, worker.NotificationHandler(sender)); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("consumer stopped: %v", err)
				stop()
			}
		}()
	} else {
		log.Printf("kafka notifications topic not configured, consumer disabled")
	}

	log.Printf("worker started")
	<-ctx.Done()
	log.Printf("shutting down worker")
}
