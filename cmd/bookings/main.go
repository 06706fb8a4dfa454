package main

import (
	"nestbay/internal/bookings/expiry"
	"nestbay/internal/bookings/handler"
	"nestbay/internal/bookings/repository"
	"nestbay/internal/bookings/service"
	"nestbay/internal/bookings/validator"
	"nestbay/pkg/app"
	"nestbay/pkg/config"
	"nestbay/pkg/events"
	kafka_config "nestbay/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")

	publisher, err := events.NewKafkaPublisher(kafka_config.Load(), ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create change publisher", "error", err)
	}
	defer publisher.Close()

	bookingRepo := repository.NewMongoBookingRepository(cfg)
	bookingService := initServices(cfg, bookingRepo, publisher)

	sweeper := expiry.NewSweeper(bookingRepo, cfg.Log, cfg.ExpirySweepSpec)
	if err := sweeper.Start(); err != nil {
		cfg.Log.Fatal("Failed to start expiry sweeper", "error", err)
	}
	defer sweeper.Stop()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, repo repository.BookingRepository, publisher events.Publisher) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	listingReader := repository.NewMongoListingReader(cfg)
	bookingService := service.NewBookingService(
		repo,
		listingReader,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
