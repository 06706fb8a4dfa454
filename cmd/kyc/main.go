package main

import (
	kychandler "nestbay/internal/kyc/handler"
	kycrepository "nestbay/internal/kyc/repository"
	kycservice "nestbay/internal/kyc/service"
	kycvalidator "nestbay/internal/kyc/validator"
	profilehandler "nestbay/internal/profiles/handler"
	profilerepository "nestbay/internal/profiles/repository"
	profileservice "nestbay/internal/profiles/service"
	profilevalidator "nestbay/internal/profiles/validator"
	"nestbay/pkg/app"
	"nestbay/pkg/config"
	"nestbay/pkg/contracts"
	"nestbay/pkg/events"
	kafka_config "nestbay/pkg/kafka/config"
	"nestbay/pkg/sealer"

	"github.com/julienschmidt/httprouter"
)

const ServiceName = "kyc"

// routes mounts the KYC and profile handlers on one router. The two
// domains share a binary because a verification decision lands on the
// profile record.
type routes []contracts.Handler

func (rs routes) RegisterRoutes(router *httprouter.Router) {
	for _, h := range rs {
		h.RegisterRoutes(router)
	}
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting KYC service")

	publisher, err := events.NewKafkaPublisher(kafka_config.Load(), ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create change publisher", "error", err)
	}
	defer publisher.Close()

	documentSealer, err := sealer.New(cfg.DocumentSealKey)
	if err != nil {
		cfg.Log.Fatal("Invalid document seal key", "error", err)
	}

	kycService := kycservice.NewKYCService(
		kycrepository.NewMongoKYCRepository(cfg),
		kycvalidator.NewKYCValidator(cfg.Log),
		publisher,
		documentSealer,
		cfg,
	)
	profileService := profileservice.NewProfileService(
		profilerepository.NewMongoProfileRepository(cfg),
		profilevalidator.NewProfileValidator(cfg.Log),
		publisher,
		cfg,
	)
	cfg.Log.Info("KYC and profile services initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(routes{
		kychandler.NewKYCHandler(kycService, cfg.Log),
		profilehandler.NewProfileHandler(profileService, cfg.Log),
	})
	serverApp.Run()
}
