package triggers

import (
	"context"
	"fmt"
	"math"
	"time"

	"nestbay/pkg/events"
	"nestbay/pkg/logger"
	"nestbay/pkg/model"
)

// ReviewSource reads every review of a listing for the recompute.
type ReviewSource interface {
	FindAllByListing(ctx context.Context, listingID string) ([]*model.Review, error)
}

// ListingRater writes the derived rating field.
type ListingRater interface {
	UpdateRating(ctx context.Context, id string, rating float64, updatedAt time.Time) error
}

// RatingHandler recomputes a listing's rating whenever a review is
// written. It always reads the full review set from the store, so a
// redelivered event computes the same mean instead of drifting.
type RatingHandler struct {
	reviews  ReviewSource
	listings ListingRater
	log      *logger.Logger
	now      func() time.Time
}

func NewRatingHandler(reviews ReviewSource, listings ListingRater, log *logger.Logger) *RatingHandler {
	return &RatingHandler{
		reviews:  reviews,
		listings: listings,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (h *RatingHandler) Handle(ctx context.Context, change events.DocumentChange) error {
	var review model.Review
	if err := change.DecodeAfter(&review); err != nil {
		return fmt.Errorf("failed to decode review snapshot: %w", err)
	}
	if review.ListingID == "" {
		h.log.Warn("Review change without listing reference, skipping", "document_id", change.DocumentID)
		return nil
	}

	all, err := h.reviews.FindAllByListing(ctx, review.ListingID)
	if err != nil {
		return fmt.Errorf("failed to load reviews for listing %s: %w", review.ListingID, err)
	}

	rating, ok := MeanRating(all)
	if !ok {
		// Nothing to average, leave the stored rating untouched.
		h.log.Info("No qualifying ratings, skipping recompute", "listing_id", review.ListingID)
		return nil
	}

	if err := h.listings.UpdateRating(ctx, review.ListingID, rating, h.now()); err != nil {
		return fmt.Errorf("failed to write rating for listing %s: %w", review.ListingID, err)
	}

	h.log.Info("Listing rating recomputed",
		"listing_id", review.ListingID,
		"rating", rating,
		"reviews", len(all),
	)
	return nil
}

// MeanRating averages the positive ratings in the set, rounded half-up
// to one decimal place. Zero or missing ratings are excluded. The
// second return reports whether any rating qualified.
func MeanRating(reviews []*model.Review) (float64, bool) {
	var sum, count int
	for _, review := range reviews {
		if review.Rating > 0 {
			sum += review.Rating
			count++
		}
	}
	if count == 0 {
		return 0, false
	}

	mean := float64(sum) / float64(count)
	return math.Floor(mean*10+0.5) / 10, true
}
