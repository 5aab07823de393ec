package main

import (
	"context"
	"errors"

	availabilityhandler "github.com/Luckywi/admin-balzac/internal/availability/handler"
	availabilityservice "github.com/Luckywi/admin-balzac/internal/availability/service"
	cataloghandler "github.com/Luckywi/admin-balzac/internal/catalog/handler"
	catalogrepo "github.com/Luckywi/admin-balzac/internal/catalog/repository"
	catalogservice "github.com/Luckywi/admin-balzac/internal/catalog/service"
	catalogvalidator "github.com/Luckywi/admin-balzac/internal/catalog/validator"
	notificationshandler "github.com/Luckywi/admin-balzac/internal/notifications/handler"
	notificationsrepo "github.com/Luckywi/admin-balzac/internal/notifications/repository"
	rdvshandler "github.com/Luckywi/admin-balzac/internal/rdvs/handler"
	rdvsrepo "github.com/Luckywi/admin-balzac/internal/rdvs/repository"
	rdvsservice "github.com/Luckywi/admin-balzac/internal/rdvs/service"
	rdvsvalidator "github.com/Luckywi/admin-balzac/internal/rdvs/validator"
	salonhandler "github.com/Luckywi/admin-balzac/internal/salon/handler"
	salonrepo "github.com/Luckywi/admin-balzac/internal/salon/repository"
	salonservice "github.com/Luckywi/admin-balzac/internal/salon/service"
	salonvalidator "github.com/Luckywi/admin-balzac/internal/salon/validator"
	staffhandler "github.com/Luckywi/admin-balzac/internal/staff/handler"
	staffrepo "github.com/Luckywi/admin-balzac/internal/staff/repository"
	staffservice "github.com/Luckywi/admin-balzac/internal/staff/service"
	staffvalidator "github.com/Luckywi/admin-balzac/internal/staff/validator"
	"github.com/Luckywi/admin-balzac/pkg/app"
	"github.com/Luckywi/admin-balzac/pkg/config"
	"github.com/Luckywi/admin-balzac/pkg/contracts"
	"github.com/Luckywi/admin-balzac/pkg/kafka"
	kafka_config "github.com/Luckywi/admin-balzac/pkg/kafka/config"
)

const ServiceName = "admin"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting admin service")

	producer := initProducer(cfg)
	if producer != nil {
		defer producer.Close()
	}

	handlers, watcher := initHandlers(cfg, producer)

	watchCtx, stopWatcher := context.WithCancel(context.Background())
	defer stopWatcher()
	go func() {
		if err := watcher.Run(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Error("Availability watcher stopped", "error", err)
		}
	}()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handlers...)
	serverApp.Run()
}

// initProducer builds the rdv.created producer. The admin service keeps
// working without Kafka, bookings just stop notifying.
func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Warn("Invalid Kafka configuration, booking events disabled", "error", err)
		return nil
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, kafka.TopicRdvCreated, kafka.TopicRdvDLQ)
	if err != nil {
		cfg.Log.Warn("Failed to create Kafka producer, booking events disabled", "error", err)
		return nil
	}

	return producer
}

func initHandlers(cfg *config.Config, producer *kafka.Producer) ([]contracts.Handler, *availabilityservice.Watcher) {
	salonRepo := salonrepo.NewMongoSalonRepository(cfg)
	staffRepo := staffrepo.NewMongoStaffRepository(cfg)
	sectionRepo := catalogrepo.NewMongoSectionRepository(cfg)
	serviceRepo := catalogrepo.NewMongoServiceRepository(cfg)
	rdvRepo := rdvsrepo.NewMongoRdvRepository(cfg)
	lockRepo := rdvsrepo.NewRdvLockRepository(cfg)
	tokenRepo := notificationsrepo.NewMongoDeviceTokenRepository(cfg)

	salonService := salonservice.NewSalonService(salonRepo, salonvalidator.NewSalonValidator(cfg.Log), cfg)
	staffService := staffservice.NewStaffService(staffRepo, staffvalidator.NewStaffValidator(cfg.Log), cfg)
	catalogService := catalogservice.NewCatalogService(sectionRepo, serviceRepo, catalogvalidator.NewCatalogValidator(cfg.Log), cfg)
	availabilityService := availabilityservice.NewAvailabilityService(salonRepo, staffRepo, serviceRepo, rdvRepo, cfg)
	watcher := availabilityservice.NewWatcher(rdvRepo, availabilityService, cfg)

	var publisher rdvsservice.EventPublisher
	if producer != nil {
		publisher = producer
	}
	rdvService := rdvsservice.NewRdvService(
		rdvRepo,
		lockRepo,
		rdvsvalidator.NewRdvValidator(cfg.Log),
		availabilityService,
		catalogService,
		publisher,
		cfg,
	)

	cfg.Log.Info("Admin services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		salonhandler.NewSalonHandler(salonService, cfg.Log),
		staffhandler.NewStaffHandler(staffService, cfg.Log),
		cataloghandler.NewCatalogHandler(catalogService, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilityService, watcher, cfg.Log),
		rdvshandler.NewRdvHandler(rdvService, cfg.Log),
		notificationshandler.NewDeviceTokenHandler(tokenRepo, cfg.Log),
	}, watcher
}
