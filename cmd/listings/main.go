package main

import (
	"nestbay/internal/listings/handler"
	"nestbay/internal/listings/repository"
	"nestbay/internal/listings/service"
	"nestbay/internal/listings/validator"
	"nestbay/pkg/app"
	"nestbay/pkg/config"
	"nestbay/pkg/events"
	kafka_config "nestbay/pkg/kafka/config"
)

const ServiceName = "listings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Listings service")

	publisher, err := events.NewKafkaPublisher(kafka_config.Load(), ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create change publisher", "error", err)
	}
	defer publisher.Close()

	listingService := initServices(cfg, publisher)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewListingHandler(listingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.ListingService {
	listingValidator := validator.NewListingValidator(cfg.Log)
	listingService := service.NewListingService(
		repository.NewMongoListingRepository(cfg),
		repository.NewMongoReviewRepository(cfg),
		repository.NewMongoCalendarRepository(cfg),
		repository.NewMongoMediaRepository(cfg),
		listingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Listing service initialized", "database", cfg.MongoDatabaseName)
	return listingService
}
