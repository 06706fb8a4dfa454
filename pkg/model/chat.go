package model

import "time"

// Conversation links a guest and a host around one listing.
type Conversation struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ListingID     string    `json:"listing_id" bson:"listing_id" validate:"required,mongodb"`
	Participants  []string  `json:"participants" bson:"participants" validate:"required,len=2,dive,required"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	LastMessageAt time.Time `json:"last_message_at,omitempty" bson:"last_message_at,omitempty"`
}

type ChatMessage struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ConversationID string    `json:"conversation_id" bson:"conversation_id" validate:"required,mongodb"`
	SenderID       string    `json:"sender_id" bson:"sender_id" validate:"required"`
	Body           string    `json:"body" bson:"body" validate:"required,max=4000"`
	SentAt         time.Time `json:"sent_at" bson:"sent_at"`
}
