// Package events carries document change notifications between the CRUD
// services and the trigger worker. Every committed write publishes one
// DocumentChange; consumers treat delivery as at-least-once and must be
// idempotent.
package events

import (
	"context"
	"encoding/json"
	"time"

	"nestbay/pkg/kafka"
	kafka_config "nestbay/pkg/kafka/config"
	kafka_middleware "nestbay/pkg/kafka/middleware"
	"nestbay/pkg/logger"
)

const (
	TopicDocumentChanges    = "nestbay.document-changes"
	TopicDocumentChangesDLQ = "nestbay.document-changes.dlq"

	SchemaVersion = "1"
)

const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// Collection names shared by repositories and trigger routing.
const (
	CollectionListings        = "listings"
	CollectionBookings        = "bookings"
	CollectionKYCRequests     = "kycRequests"
	CollectionProfiles        = "profiles"
	CollectionConversations   = "conversations"
	CollectionMessages        = "messages"
	CollectionListingReviews  = "listingReviews"
	CollectionListingCalendar = "listingCalendar"
	CollectionListingMedia    = "listingMedia"
)

type DocumentChange struct {
	Collection string          `json:"collection"`
	Event      string          `json:"event"`
	DocumentID string          `json:"document_id"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Snapshot encodes a document for the Before/After fields. A document
// that cannot be encoded becomes a nil snapshot rather than an error;
// trigger handlers already treat missing snapshots as a no-op.
func Snapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

func (dc *DocumentChange) DecodeBefore(v any) error {
	return json.Unmarshal(dc.Before, v)
}

func (dc *DocumentChange) DecodeAfter(v any) error {
	return json.Unmarshal(dc.After, v)
}

// EventType is the routing key handlers dispatch on, e.g.
// "listingReviews.created".
func (dc *DocumentChange) EventType() string {
	return dc.Collection + "." + dc.Event
}

// Publisher emits document changes. Publishing is best effort: a failed
// publish is logged and dropped, it never fails the user-facing write.
type Publisher interface {
	Publish(ctx context.Context, change DocumentChange)
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

func NewKafkaPublisher(cfg *kafka_config.Config, source string, log *logger.Logger) (Publisher, error) {
	producer, err := kafka.NewProducer(cfg, TopicDocumentChanges, TopicDocumentChangesDLQ)
	if err != nil {
		return nil, err
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(log))

	return &kafkaPublisher{
		producer: producer,
		source:   source,
		log:      log,
	}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, change DocumentChange) {
	if change.OccurredAt.IsZero() {
		change.OccurredAt = time.Now().UTC()
	}

	msg := kafka.NewMessage().
		WithKey(change.Collection + "/" + change.DocumentID).
		WithValue(change).
		WithEventType(change.EventType()).
		WithSource(p.source).
		WithSchemaVersion(SchemaVersion).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish document change",
			"collection", change.Collection,
			"event", change.Event,
			"document_id", change.DocumentID,
			"error", err,
		)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher discards changes. Used by binaries that only read and by
// tests that do not care about events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, DocumentChange) {}

func (NopPublisher) Close() error { return nil }
