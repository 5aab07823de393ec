package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	notificationsrepo "github.com/Luckywi/admin-balzac/internal/notifications/repository"
	notificationsservice "github.com/Luckywi/admin-balzac/internal/notifications/service"
	"github.com/Luckywi/admin-balzac/pkg/config"
	"github.com/Luckywi/admin-balzac/pkg/kafka"
	kafka_config "github.com/Luckywi/admin-balzac/pkg/kafka/config"
)

const (
	ServiceName     = "notifier"
	ConsumerGroupID = "notifier"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting notifier service")

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	tokenRepo := notificationsrepo.NewMongoDeviceTokenRepository(cfg)
	sender := notificationsservice.NewFCMSender(cfg)
	dispatcher := notificationsservice.NewDispatcher(tokenRepo, sender, cfg)

	consumer, err := kafka.NewConsumer(kafkaCfg, kafka.TopicRdvCreated, ConsumerGroupID, kafka.TopicRdvDLQ, dispatcher.HandleMessage)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	consumerErrors := make(chan error, 1)
	go func() {
		consumerErrors <- consumer.Start(ctx)
	}()

	select {
	case sig := <-shutdown:
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
		<-consumerErrors

	case err := <-consumerErrors:
		if err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Fatal("Kafka consumer failed", "error", err)
		}
	}

	cfg.Log.Info("Notifier stopped gracefully")
}
