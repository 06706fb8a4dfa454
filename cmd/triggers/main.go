package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	listingsrepository "nestbay/internal/listings/repository"
	profilesrepository "nestbay/internal/profiles/repository"
	"nestbay/internal/triggers"
	"nestbay/pkg/config"
	"nestbay/pkg/events"
	kafka_config "nestbay/pkg/kafka/config"
)

const ServiceName = "triggers"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting trigger worker")

	worker, err := triggers.NewWorker(kafka_config.Load(), cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create trigger worker", "error", err)
	}
	defer worker.Close()

	registerHandlers(worker, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Fatal("Trigger worker failed", "error", err)
	}
	cfg.Log.Info("Trigger worker stopped")
}

func registerHandlers(worker *triggers.Worker, cfg *config.Config) {
	listings := listingsrepository.NewMongoListingRepository(cfg)
	reviews := listingsrepository.NewMongoReviewRepository(cfg)
	calendar := listingsrepository.NewMongoCalendarRepository(cfg)
	media := listingsrepository.NewMongoMediaRepository(cfg)
	profiles := profilesrepository.NewMongoProfileRepository(cfg)

	rating := triggers.NewRatingHandler(reviews, listings, cfg.Log)
	worker.Register(events.CollectionListingReviews, events.EventCreated, rating)
	worker.Register(events.CollectionListingReviews, events.EventUpdated, rating)

	mirror := triggers.NewKYCMirrorHandler(profiles, cfg.Log)
	worker.Register(events.CollectionKYCRequests, events.EventCreated, mirror)
	worker.Register(events.CollectionKYCRequests, events.EventUpdated, mirror)

	cascade := triggers.NewCascadeHandler(calendar, reviews, media, cfg.Log)
	worker.Register(events.CollectionListings, events.EventDeleted, cascade)
}
