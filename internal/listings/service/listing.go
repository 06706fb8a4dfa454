package service

import (
	"context"
	"errors"
	"sync"
	"time"

	listingserrors "nestbay/internal/listings/errors"
	"nestbay/internal/listings/repository"
	"nestbay/internal/listings/validator"
	"nestbay/pkg/config"
	apperrors "nestbay/pkg/errors"
	"nestbay/pkg/events"
	"nestbay/pkg/model"
	"nestbay/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type ListingService interface {
	Create(ctx context.Context, listing *model.Listing) error
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	List(ctx context.Context, filter repository.ListingFilter, limit int, offset int64) ([]*model.Listing, int64, error)
	Update(ctx context.Context, id string, actorID string, updates *model.ListingUpdate) (*model.Listing, error)
	Delete(ctx context.Context, id string, actorID string) error

	AddReview(ctx context.Context, review *model.Review) error
	ListReviews(ctx context.Context, listingID string, limit int, offset int64) ([]*model.Review, int64, error)
	SetCalendar(ctx context.Context, listingID string, actorID string, days []model.CalendarDay) error
	GetCalendar(ctx context.Context, listingID string, from, to time.Time) ([]*model.CalendarDay, error)
	AddMedia(ctx context.Context, actorID string, item *model.MediaItem) error
	ListMedia(ctx context.Context, listingID string) ([]*model.MediaItem, error)
}

type listingService struct {
	repo      repository.ListingRepository
	reviews   repository.ReviewRepository
	calendar  repository.CalendarRepository
	media     repository.MediaRepository
	validator *validator.ListingValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewListingService(
	repo repository.ListingRepository,
	reviews repository.ReviewRepository,
	calendar repository.CalendarRepository,
	media repository.MediaRepository,
	validator *validator.ListingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ListingService {
	return &listingService{
		repo:      repo,
		reviews:   reviews,
		calendar:  calendar,
		media:     media,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *listingService) sanitize(listing *model.Listing) {
	listing.Title = sanitizer.SanitizeName(listing.Title)
	listing.Description = sanitizer.SanitizeFreeText(listing.Description)
	listing.City = sanitizer.SanitizeCity(listing.City)
	listing.Address = sanitizer.SanitizeFreeText(listing.Address)
}

func (s *listingService) Create(ctx context.Context, listing *model.Listing) error {
	if listing.Status == "" {
		listing.Status = model.ListingDraft
	}
	listing.Rating = 0
	listing.ReviewsCount = 0
	s.sanitize(listing)

	if err := s.validator.Validate(listing); err != nil {
		s.cfg.Log.Warn("Listing validation failed", "owner_id", listing.OwnerID, "error", err)
		return apperrors.Validation("Invalid listing", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		s.cfg.Log.Error("Failed to create listing", "error", err)
		return apperrors.Internal("Failed to create listing", err)
	}

	s.publisher.Publish(ctx, events.DocumentChange{
		Collection: events.CollectionListings,
		Event:      events.EventCreated,
		DocumentID: listing.ID,
		After:      events.Snapshot(listing),
		OccurredAt: s.now(),
	})

	s.cfg.Log.Info("Listing created", "id", listing.ID, "owner_id", listing.OwnerID, "status", listing.Status)
	return nil
}

func (s *listingService) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Listing ID cannot be empty")
	}

	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapListingError(err, id, "Failed to retrieve listing")
	}
	return listing, nil
}

func (s *listingService) List(ctx context.Context, filter repository.ListingFilter, limit int, offset int64) ([]*model.Listing, int64, error) {
	var total int64
	var listings []*model.Listing
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count listings", "error", errCount)
			errCount = apperrors.Internal("Failed to count listings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		listings, errFind = s.repo.FindAll(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list listings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve listings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return listings, total, nil
}

func (s *listingService) Update(ctx context.Context, id string, actorID string, updates *model.ListingUpdate) (*model.Listing, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Listing ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, apperrors.Validation("Invalid listing update", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapListingError(err, id, "Failed to check listing existence")
	}
	if actorID != "" && actorID != existing.OwnerID {
		return nil, apperrors.Forbidden("Only the listing owner may modify it")
	}

	before := events.Snapshot(existing)
	merged := s.merge(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return nil, apperrors.Validation("Invalid listing", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		return nil, s.mapListingError(err, id, "Failed to update listing")
	}

	s.publisher.Publish(ctx, events.DocumentChange{
		Collection: events.CollectionListings,
		Event:      events.EventUpdated,
		DocumentID: id,
		Before:     before,
		After:      events.Snapshot(merged),
		OccurredAt: s.now(),
	})

	s.cfg.Log.Info("Listing updated", "id", id)
	return merged, nil
}

func (s *listingService) merge(existing *model.Listing, updates *model.ListingUpdate) *model.Listing {
	merged := *existing
	if updates.Title != "" {
		merged.Title = updates.Title
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.City != "" {
		merged.City = updates.City
	}
	if updates.Address != nil {
		merged.Address = *updates.Address
	}
	if updates.Pricing != nil {
		merged.Pricing = *updates.Pricing
	}
	if updates.MaxGuests != nil {
		merged.MaxGuests = *updates.MaxGuests
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	return &merged
}

// Delete removes the listing document and announces it. Cleanup of the
// review/calendar/media children happens downstream off the deleted
// event, and existing bookings are deliberately left in place.
func (s *listingService) Delete(ctx context.Context, id string, actorID string) error {
	if id == "" {
		return apperrors.InvalidInput("Listing ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapListingError(err, id, "Failed to check listing existence")
	}
	if actorID != "" && actorID != existing.OwnerID {
		return apperrors.Forbidden("Only the listing owner may delete it")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapListingError(err, id, "Failed to delete listing")
	}

	s.publisher.Publish(ctx, events.DocumentChange{
		Collection: events.CollectionListings,
		Event:      events.EventDeleted,
		DocumentID: id,
		Before:     events.Snapshot(existing),
		OccurredAt: s.now(),
	})

	s.cfg.Log.Info("Listing deleted", "id", id, "owner_id", existing.OwnerID)
	return nil
}

func (s *listingService) AddReview(ctx context.Context, review *model.Review) error {
	review.Comment = sanitizer.SanitizeFreeText(review.Comment)
	if err := s.validator.ValidateReview(review); err != nil {
		return apperrors.Validation("Invalid review", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.FindByID(ctx, review.ListingID); err != nil {
		return s.mapListingError(err, review.ListingID, "Failed to check listing existence")
	}

	// The review row and the denormalized counter land together or
	// not at all.
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.reviews.Insert(sessCtx, review); err != nil {
			return err
		}
		return s.repo.IncrementReviewsCount(sessCtx, review.ListingID, 1)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to insert review", "listing_id", review.ListingID, "error", err)
		return apperrors.Internal("Failed to add review", err)
	}

	s.publisher.Publish(ctx, events.DocumentChange{
		Collection: events.CollectionListingReviews,
		Event:      events.EventCreated,
		DocumentID: review.ID,
		After:      events.Snapshot(review),
		OccurredAt: s.now(),
	})

	s.cfg.Log.Info("Review added", "id", review.ID, "listing_id", review.ListingID, "rating", review.Rating)
	return nil
}

func (s *listingService) ListReviews(ctx context.Context, listingID string, limit int, offset int64) ([]*model.Review, int64, error) {
	if listingID == "" {
		return nil, 0, apperrors.InvalidInput("Listing ID cannot be empty")
	}

	var total int64
	var reviews []*model.Review
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = s.reviews.CountByListing(ctx, listingID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reviews", "listing_id", listingID, "error", errCount)
			errCount = apperrors.Internal("Failed to count reviews", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reviews, errFind = s.reviews.FindByListing(ctx, listingID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reviews", "listing_id", listingID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reviews", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reviews, total, nil
}

func (s *listingService) SetCalendar(ctx context.Context, listingID string, actorID string, days []model.CalendarDay) error {
	if listingID == "" {
		return apperrors.InvalidInput("Listing ID cannot be empty")
	}
	if err := s.validator.ValidateCalendar(days); err != nil {
		return apperrors.Validation("Invalid calendar submission", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		return s.mapListingError(err, listingID, "Failed to check listing existence")
	}
	if actorID != "" && actorID != existing.OwnerID {
		return apperrors.Forbidden("Only the listing owner may edit the calendar")
	}

	if err := s.calendar.UpsertDays(ctx, listingID, days); err != nil {
		s.cfg.Log.Error("Failed to set calendar", "listing_id", listingID, "error", err)
		return apperrors.Internal("Failed to set calendar", err)
	}

	s.cfg.Log.Info("Calendar updated", "listing_id", listingID, "days", len(days))
	return nil
}

func (s *listingService) GetCalendar(ctx context.Context, listingID string, from, to time.Time) ([]*model.CalendarDay, error) {
	if listingID == "" {
		return nil, apperrors.InvalidInput("Listing ID cannot be empty")
	}

	days, err := s.calendar.FindByListing(ctx, listingID, from, to)
	if err != nil {
		s.cfg.Log.Error("Failed to get calendar", "listing_id", listingID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve calendar", err)
	}
	return days, nil
}

func (s *listingService) AddMedia(ctx context.Context, actorID string, item *model.MediaItem) error {
	item.URL = sanitizer.SanitizeURL(item.URL)
	if err := s.validator.ValidateMedia(item); err != nil {
		return apperrors.Validation("Invalid media item", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, item.ListingID)
	if err != nil {
		return s.mapListingError(err, item.ListingID, "Failed to check listing existence")
	}
	if actorID != "" && actorID != existing.OwnerID {
		return apperrors.Forbidden("Only the listing owner may add media")
	}

	if err := s.media.Insert(ctx, item); err != nil {
		s.cfg.Log.Error("Failed to add media item", "listing_id", item.ListingID, "error", err)
		return apperrors.Internal("Failed to add media item", err)
	}

	s.cfg.Log.Info("Media item added", "id", item.ID, "listing_id", item.ListingID, "kind", item.Kind)
	return nil
}

func (s *listingService) ListMedia(ctx context.Context, listingID string) ([]*model.MediaItem, error) {
	if listingID == "" {
		return nil, apperrors.InvalidInput("Listing ID cannot be empty")
	}

	items, err := s.media.FindByListing(ctx, listingID)
	if err != nil {
		s.cfg.Log.Error("Failed to list media", "listing_id", listingID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve media", err)
	}
	return items, nil
}

func (s *listingService) mapListingError(err error, id string, internalMsg string) error {
	if errors.Is(err, listingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Listing", id)
	}
	if errors.Is(err, listingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid listing ID format")
	}
	return apperrors.Internal(internalMsg, err)
}
