package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/trainbooking/config"
	"github.com/Domenick1991/trainbooking/internal/bootstrap"
	"github.com/Domenick1991/trainbooking/internal/cache"
	"github.com/Domenick1991/trainbooking/internal/kafka"
	"github.com/Domenick1991/trainbooking/internal/repository"
	"github.com/Domenick1991/trainbooking/internal/service/tickets"
	"github.com/Domenick1991/trainbooking/internal/service/trains"
	"github.com/Domenick1991/trainbooking/internal/service/users"
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

	if cfg.Database.Migrate {
		if err := repository.Migrate(ctx, pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Trains.CacheTTLSeconds)*time.Second)
	defer redisCache.Close()

	userRepo := repository.NewUserRepository(pool)
	trainRepo := repository.NewTrainRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	var opts []tickets.TicketServiceOption
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			log.Printf("warning: kafka unavailable, events may be lost: %v", err)
		}
		opts = append(opts,
			tickets.WithProducer(producer, cfg.Kafka.TicketTopic),
			tickets.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
			tickets.WithPublishRetries(cfg.Kafka.PublishRetries),
		)
	}

	userService := users.NewUserService(userRepo)
	trainService := trains.NewTrainService(trainRepo, redisCache)
	ticketService := tickets.NewTicketService(userRepo, trainRepo, ticketRepo, opts...)

	if err := bootstrap.Run(ctx, cfg, userService, trainService, ticketService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
