package main

import (
	buseshandler "busport/internal/buses/handler"
	busesrepository "busport/internal/buses/repository"
	busesservice "busport/internal/buses/service"
	busesvalidator "busport/internal/buses/validator"
	editshandler "busport/internal/edits/handler"
	editsrepository "busport/internal/edits/repository"
	editsservice "busport/internal/edits/service"
	requestshandler "busport/internal/requests/handler"
	requestsrepository "busport/internal/requests/repository"
	requestsservice "busport/internal/requests/service"
	requestsvalidator "busport/internal/requests/validator"
	statshandler "busport/internal/stats/handler"
	statsrepository "busport/internal/stats/repository"
	statsservice "busport/internal/stats/service"
	usersrepository "busport/internal/users/repository"
	"busport/pkg/app"
	"busport/pkg/config"
	"busport/pkg/contracts"
	"busport/pkg/events"
	"busport/pkg/middleware"

	"github.com/joho/godotenv"
)

const ServiceName = "busport"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()

	cfg.Log.Info("Starting busport service")
	cfg.SetMongo()

	publisher := initPublisher(cfg)
	handlers := initHandlers(cfg, publisher)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handlers...)
	serverApp.OnShutdown(publisher.Close)
	serverApp.OnShutdown(func() error {
		cfg.GracefulShutdown()
		return nil
	})
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Warn("No Kafka brokers configured, moderation events will be dropped")
		return events.NewNoopPublisher()
	}

	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaModerationTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka publisher", "error", err)
	}

	cfg.Log.Info("Kafka moderation publisher initialized",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.KafkaModerationTopic,
	)
	return publisher
}

func initHandlers(cfg *config.Config, publisher events.Publisher) []contracts.Handler {
	userAuth := middleware.UserAuth([]byte(cfg.UserJWTSecret))
	adminAuth := middleware.AdminAuth([]byte(cfg.AdminJWTSecret))

	busRepo := busesrepository.NewMongoBusRepository(cfg)
	requestRepo := requestsrepository.NewMongoBusRequestRepository(cfg)
	editRepo := editsrepository.NewMongoBusEditRequestRepository(cfg)
	userRepo := usersrepository.NewMongoUserRepository(cfg)
	counterRepo := statsrepository.NewMongoCounterRepository(cfg)

	busValidator := busesvalidator.NewBusValidator()
	requestValidator := requestsvalidator.NewBusRequestValidator()

	busService := busesservice.NewBusService(busRepo, counterRepo, cfg)
	requestService := requestsservice.NewBusRequestService(requestRepo, busRepo, requestValidator, cfg)
	moderationService := requestsservice.NewModerationService(requestRepo, busRepo, busValidator, publisher, cfg)
	editService := editsservice.NewBusEditRequestService(editRepo, busRepo, userRepo, busValidator, publisher, cfg)
	statsService := statsservice.NewStatsService(userRepo, busRepo, counterRepo, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		buseshandler.NewBusHandler(busService, cfg.Log, adminAuth),
		requestshandler.NewBusRequestHandler(requestService, moderationService, cfg.Log, userAuth, adminAuth),
		editshandler.NewBusEditRequestHandler(editService, cfg.Log, userAuth, adminAuth),
		statshandler.NewStatsHandler(statsService, cfg.Log),
	}
}
