package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/taskforge/user-service/config"
	"github.com/taskforge/user-service/internal/application"
	"github.com/taskforge/user-service/internal/infrastructure/messaging"
	pginfra "github.com/taskforge/user-service/internal/infrastructure/postgres"
	"github.com/taskforge/user-service/pkg/helpers"
)

// The relay is the guaranteed delivery path for domain events: it polls
// the outbox table for rows the API's fast-path publish did not settle
// and retries them until they go out.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-outbox-relay", cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	pub, err := messaging.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer pub.Close()

	relay := application.NewRelay(
		pginfra.NewOutboxRepository(pool),
		pub,
		logger,
		cfg.OutboxInterval,
		cfg.OutboxBatchSize,
	)

	done := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(done)
	}()

	logger.WithField("interval", cfg.OutboxInterval.String()).Info("outbox relay started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down...")
	cancel()
	<-done
}
