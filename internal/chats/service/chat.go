package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	chatserrors "nestbay/internal/chats/errors"
	"nestbay/internal/chats/repository"
	"nestbay/internal/chats/validator"
	"nestbay/pkg/config"
	apperrors "nestbay/pkg/errors"
	"nestbay/pkg/model"
	"nestbay/pkg/sanitizer"
)

type ChatService interface {
	CreateConversation(ctx context.Context, conversation *model.Conversation) error
	ListConversations(ctx context.Context, userID string, limit int, offset int64) ([]*model.Conversation, int64, error)
	PostMessage(ctx context.Context, message *model.ChatMessage) error
	ListMessages(ctx context.Context, conversationID string, actorID string, limit int, offset int64) ([]*model.ChatMessage, int64, error)
}

type chatService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	validator     *validator.ChatValidator
	cfg           *config.Config
	now           func() time.Time
}

func NewChatService(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	validator *validator.ChatValidator,
	cfg *config.Config,
) ChatService {
	return &chatService{
		conversations: conversations,
		messages:      messages,
		validator:     validator,
		cfg:           cfg,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *chatService) CreateConversation(ctx context.Context, conversation *model.Conversation) error {
	if err := s.validator.ValidateConversation(conversation); err != nil {
		return apperrors.Validation("Invalid conversation", map[string]any{"error": err.Error()})
	}

	if err := s.conversations.Create(ctx, conversation); err != nil {
		s.cfg.Log.Error("Failed to create conversation", "listing_id", conversation.ListingID, "error", err)
		return apperrors.Internal("Failed to create conversation", err)
	}

	s.cfg.Log.Info("Conversation created", "id", conversation.ID, "listing_id", conversation.ListingID)
	return nil
}

func (s *chatService) ListConversations(ctx context.Context, userID string, limit int, offset int64) ([]*model.Conversation, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	var total int64
	var conversations []*model.Conversation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = s.conversations.CountByParticipant(ctx, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count conversations", "user_id", userID, "error", errCount)
			errCount = apperrors.Internal("Failed to count conversations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		conversations, errFind = s.conversations.FindByParticipant(ctx, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list conversations", "user_id", userID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve conversations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return conversations, total, nil
}

func (s *chatService) PostMessage(ctx context.Context, message *model.ChatMessage) error {
	message.Body = sanitizer.SanitizeFreeText(message.Body)
	message.SentAt = s.now()
	if err := s.validator.ValidateMessage(message); err != nil {
		return apperrors.Validation("Invalid message", map[string]any{"error": err.Error()})
	}

	conversation, err := s.conversations.FindByID(ctx, message.ConversationID)
	if err != nil {
		return s.mapConversationError(err, message.ConversationID)
	}
	if !slices.Contains(conversation.Participants, message.SenderID) {
		return apperrors.Forbidden("Only conversation participants may post messages")
	}

	if err := s.messages.Insert(ctx, message); err != nil {
		s.cfg.Log.Error("Failed to post message", "conversation_id", message.ConversationID, "error", err)
		return apperrors.Internal("Failed to post message", err)
	}

	if err := s.conversations.TouchLastMessage(ctx, message.ConversationID, message.SentAt); err != nil {
		// Ordering hint only, the message itself is stored.
		s.cfg.Log.Warn("Failed to touch conversation", "conversation_id", message.ConversationID, "error", err)
	}

	s.cfg.Log.Info("Message posted", "id", message.ID, "conversation_id", message.ConversationID)
	return nil
}

func (s *chatService) ListMessages(ctx context.Context, conversationID string, actorID string, limit int, offset int64) ([]*model.ChatMessage, int64, error) {
	if conversationID == "" {
		return nil, 0, apperrors.InvalidInput("Conversation ID cannot be empty")
	}

	conversation, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		return nil, 0, s.mapConversationError(err, conversationID)
	}
	if actorID != "" && !slices.Contains(conversation.Participants, actorID) {
		return nil, 0, apperrors.Forbidden("Only conversation participants may read messages")
	}

	var total int64
	var messages []*model.ChatMessage
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = s.messages.CountByConversation(ctx, conversationID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count messages", "conversation_id", conversationID, "error", errCount)
			errCount = apperrors.Internal("Failed to count messages", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		messages, errFind = s.messages.FindByConversation(ctx, conversationID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list messages", "conversation_id", conversationID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve messages", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return messages, total, nil
}

func (s *chatService) mapConversationError(err error, id string) error {
	if errors.Is(err, chatserrors.ErrConversationNotFound) {
		return apperrors.NotFoundWithID("Conversation", id)
	}
	if errors.Is(err, chatserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid conversation ID format")
	}
	return apperrors.Internal("Failed to load conversation", err)
}
