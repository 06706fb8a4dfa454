package main

import (
	"nestbay/internal/chats/handler"
	"nestbay/internal/chats/repository"
	"nestbay/internal/chats/service"
	"nestbay/internal/chats/validator"
	"nestbay/pkg/app"
	"nestbay/pkg/config"
)

const ServiceName = "chats"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Chats service")
	chatService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewChatHandler(chatService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ChatService {
	chatValidator := validator.NewChatValidator(cfg.Log)
	chatService := service.NewChatService(
		repository.NewMongoConversationRepository(cfg),
		repository.NewMongoMessageRepository(cfg),
		chatValidator,
		cfg,
	)

	cfg.Log.Info("Chat service initialized", "database", cfg.MongoDatabaseName)
	return chatService
}
