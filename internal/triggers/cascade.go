package triggers

import (
	"context"
	"fmt"

	"nestbay/pkg/events"
	"nestbay/pkg/logger"
)

// ChildCollection batch-deletes every child document of a listing in
// one sibling collection.
type ChildCollection interface {
	HasByListing(ctx context.Context, listingID string) (bool, error)
	DeleteByListing(ctx context.Context, listingID string) (int64, error)
}

// CascadeHandler sweeps the calendar, review and media children of a
// deleted listing. Bookings are left alone on purpose: guests keep
// their history even when the listing goes away. There is no rollback
// across collections; a failed leg is retried by the next delivery.
type CascadeHandler struct {
	children map[string]ChildCollection
	log      *logger.Logger
}

func NewCascadeHandler(calendar, reviews, media ChildCollection, log *logger.Logger) *CascadeHandler {
	return &CascadeHandler{
		children: map[string]ChildCollection{
			events.CollectionListingCalendar: calendar,
			events.CollectionListingReviews:  reviews,
			events.CollectionListingMedia:    media,
		},
		log: log,
	}
}

func (h *CascadeHandler) Handle(ctx context.Context, change events.DocumentChange) error {
	listingID := change.DocumentID
	if listingID == "" {
		h.log.Warn("Listing delete without document ID, skipping")
		return nil
	}

	var failed []string
	for name, child := range h.children {
		// Most listings never accumulate children in every
		// subcollection, so check before issuing a delete. A failed
		// check falls through to the delete, which settles it.
		if has, err := child.HasByListing(ctx, listingID); err == nil && !has {
			continue
		}

		deleted, err := child.DeleteByListing(ctx, listingID)
		if err != nil {
			h.log.Error("Cascade leg failed",
				"listing_id", listingID,
				"collection", name,
				"error", err,
			)
			failed = append(failed, name)
			continue
		}
		if deleted > 0 {
			h.log.Info("Cascade leg completed",
				"listing_id", listingID,
				"collection", name,
				"deleted", deleted,
			)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("cascade incomplete for listing %s: %v", listingID, failed)
	}
	return nil
}
