package service

import (
	"context"
	"io"
	"testing"
	"time"

	chatserrors "nestbay/internal/chats/errors"
	"nestbay/internal/chats/validator"
	"nestbay/pkg/config"
	apperrors "nestbay/pkg/errors"
	"nestbay/pkg/logger"
	"nestbay/pkg/model"
)

type mockConversationRepo struct {
	createFn   func(ctx context.Context, conversation *model.Conversation) error
	findByIDFn func(ctx context.Context, id string) (*model.Conversation, error)
	touchFn    func(ctx context.Context, id string, at time.Time) error
}

func (m *mockConversationRepo) Create(ctx context.Context, conversation *model.Conversation) error {
	if m.createFn != nil {
		return m.createFn(ctx, conversation)
	}
	conversation.ID = testConversationID
	return nil
}

func (m *mockConversationRepo) FindByID(ctx context.Context, id string) (*model.Conversation, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockConversationRepo) FindByParticipant(context.Context, string, int, int64) ([]*model.Conversation, error) {
	return nil, nil
}

func (m *mockConversationRepo) CountByParticipant(context.Context, string) (int64, error) {
	return 0, nil
}

func (m *mockConversationRepo) TouchLastMessage(ctx context.Context, id string, at time.Time) error {
	if m.touchFn != nil {
		return m.touchFn(ctx, id, at)
	}
	return nil
}

type mockMessageRepo struct {
	insertFn func(ctx context.Context, message *model.ChatMessage) error
}

func (m *mockMessageRepo) Insert(ctx context.Context, message *model.ChatMessage) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, message)
	}
	message.ID = "65a0000000000000000000ff"
	return nil
}

func (m *mockMessageRepo) FindByConversation(context.Context, string, int, int64) ([]*model.ChatMessage, error) {
	return nil, nil
}

func (m *mockMessageRepo) CountByConversation(context.Context, string) (int64, error) {
	return 0, nil
}

const (
	testConversationID = "65a0000000000000000000bb"
	testChatListingID  = "65a0000000000000000000aa"
)

func newTestService(t *testing.T, conversations *mockConversationRepo, messages *mockMessageRepo) ChatService {
	t.Helper()
	cfg := &config.Config{Log: logger.New(logger.Config{Output: io.Discard})}
	return NewChatService(conversations, messages, validator.NewChatValidator(cfg.Log), cfg)
}

func existingConversation() *model.Conversation {
	return &model.Conversation{
		ID:           testConversationID,
		ListingID:    testChatListingID,
		Participants: []string{"guest-1", "host-1"},
	}
}

func TestCreateConversationRejectsSelfChat(t *testing.T) {
	svc := newTestService(t, &mockConversationRepo{}, &mockMessageRepo{})

	err := svc.CreateConversation(context.Background(), &model.Conversation{
		ListingID:    testChatListingID,
		Participants: []string{"guest-1", "guest-1"},
	})
	if err == nil {
		t.Fatal("CreateConversation() error = nil, want validation failure")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeValidation)
	}
}

func TestPostMessageTouchesConversation(t *testing.T) {
	var touched bool
	conversations := &mockConversationRepo{
		findByIDFn: func(context.Context, string) (*model.Conversation, error) {
			return existingConversation(), nil
		},
		touchFn: func(_ context.Context, id string, _ time.Time) error {
			if id != testConversationID {
				t.Fatalf("TouchLastMessage(%s), want %s", id, testConversationID)
			}
			touched = true
			return nil
		},
	}
	svc := newTestService(t, conversations, &mockMessageRepo{})

	message := &model.ChatMessage{
		ConversationID: testConversationID,
		SenderID:       "guest-1",
		Body:           "Is the loft free next weekend?",
	}
	if err := svc.PostMessage(context.Background(), message); err != nil {
		t.Fatalf("PostMessage() error = %v", err)
	}
	if !touched {
		t.Error("conversation last_message_at was not touched")
	}
	if message.SentAt.IsZero() {
		t.Error("SentAt was not stamped")
	}
}

func TestPostMessageForbiddenForOutsider(t *testing.T) {
	conversations := &mockConversationRepo{
		findByIDFn: func(context.Context, string) (*model.Conversation, error) {
			return existingConversation(), nil
		},
	}
	svc := newTestService(t, conversations, &mockMessageRepo{})

	err := svc.PostMessage(context.Background(), &model.ChatMessage{
		ConversationID: testConversationID,
		SenderID:       "stranger",
		Body:           "hello",
	})
	if err == nil {
		t.Fatal("PostMessage() error = nil, want FORBIDDEN")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeForbidden {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeForbidden)
	}
}

func TestPostMessageConversationNotFound(t *testing.T) {
	conversations := &mockConversationRepo{
		findByIDFn: func(context.Context, string) (*model.Conversation, error) {
			return nil, chatserrors.ErrConversationNotFound
		},
	}
	svc := newTestService(t, conversations, &mockMessageRepo{})

	err := svc.PostMessage(context.Background(), &model.ChatMessage{
		ConversationID: testConversationID,
		SenderID:       "guest-1",
		Body:           "hello",
	})
	if err == nil {
		t.Fatal("PostMessage() error = nil, want NOT_FOUND")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeNotFound)
	}
}
