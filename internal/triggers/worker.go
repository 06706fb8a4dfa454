// Package triggers reacts to document change events the way the
// store itself cannot: derived fields, cross-collection mirrors and
// cascading cleanup. Handlers recompute from the source of truth, so
// redelivered events converge instead of double-applying.
package triggers

import (
	"context"
	"fmt"

	"nestbay/pkg/events"
	"nestbay/pkg/kafka"
	kafka_config "nestbay/pkg/kafka/config"
	kafkamiddleware "nestbay/pkg/kafka/middleware"
	"nestbay/pkg/logger"
)

const GroupID = "nestbay-triggers"

// ChangeHandler processes one document change. A returned error means
// the handler failed against current state; the worker logs it and
// commits the event anyway.
type ChangeHandler interface {
	Handle(ctx context.Context, change events.DocumentChange) error
}

type Worker struct {
	consumer *kafka.Consumer
	handlers map[string]ChangeHandler
	log      *logger.Logger
}

func NewWorker(cfg *kafka_config.Config, log *logger.Logger) (*Worker, error) {
	w := &Worker{
		handlers: make(map[string]ChangeHandler),
		log:      log,
	}

	consumer, err := kafka.NewConsumer(
		cfg,
		events.TopicDocumentChanges,
		GroupID,
		events.TopicDocumentChangesDLQ,
		w.dispatch,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trigger consumer: %w", err)
	}
	consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(log))

	w.consumer = consumer
	return w, nil
}

// Register binds a handler to a (collection, event) pair. Unhandled
// pairs are committed untouched.
func (w *Worker) Register(collection, event string, handler ChangeHandler) {
	w.handlers[collection+"."+event] = handler
}

func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("Trigger worker starting",
		"topic", events.TopicDocumentChanges,
		"group_id", GroupID,
		"handlers", len(w.handlers),
	)
	return w.consumer.Start(ctx)
}

func (w *Worker) Close() error {
	return w.consumer.Close()
}

func (w *Worker) dispatch(ctx context.Context, msg kafka.Message) error {
	var change events.DocumentChange
	if err := msg.DecodeValue(&change); err != nil {
		// Undecodable payloads can never succeed, route to the DLQ.
		return kafka.Permanent(fmt.Errorf("failed to decode document change: %w", err))
	}

	handler, ok := w.handlers[change.EventType()]
	if !ok {
		return nil
	}

	if err := handler.Handle(ctx, change); err != nil {
		// Swallow after logging: handlers are idempotent recomputes,
		// the next event for the same document repairs the state.
		w.log.Error("Trigger handler failed",
			"event_type", change.EventType(),
			"document_id", change.DocumentID,
			"error", err,
		)
	}
	return nil
}
