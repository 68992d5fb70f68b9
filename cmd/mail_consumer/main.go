package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/SeakMengs/Annotator/internal/config"
	"github.com/SeakMengs/Annotator/internal/env"
	"github.com/SeakMengs/Annotator/internal/mailer"
	"github.com/SeakMengs/Annotator/internal/queue"
	"github.com/SeakMengs/Annotator/internal/util"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

const (
	MAX_WORKER = 3
)

func main() {
	cfg := config.GetConfig()
	logger := util.NewLogger(cfg.ENV)

	if !cfg.RabbitMQ.IsConfigured() {
		logger.Fatal("RABBITMQ_URL is not set")
	}

	mail := mailer.NewSendgrid(cfg.Mail.SEND_GRID.API_KEY, cfg.Mail.FROM_EMAIL, cfg.IsProduction(), logger)

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Panic("Error connecting to RabbitMQ: ", err)
	}
	logger.Info("RabbitMQ connected \n")
	defer func() {
		if err := rabbitMQ.Close(); err != nil {
			logger.Errorf("Failed to close RabbitMQ connection: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rabbitMQ.ConsumeMailJob(ctx, queue.NewMailJobHandler(mail), MAX_WORKER, logger); err != nil {
		logger.Fatalf("Failed to consume mail job: %v", err)
	}

	logger.Infof("Started consuming mail job")

	<-ctx.Done()
	logger.Info("Mail consumer stopped")
}
