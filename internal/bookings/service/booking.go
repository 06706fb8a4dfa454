package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "nestbay/internal/bookings/errors"
	"nestbay/internal/bookings/repository"
	"nestbay/internal/bookings/validator"
	"nestbay/pkg/config"
	apperrors "nestbay/pkg/errors"
	"nestbay/pkg/events"
	"nestbay/pkg/model"
	"nestbay/pkg/sanitizer"
)

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByGuest(ctx context.Context, guestID string, limit int, offset int64) ([]*model.Booking, int64, error)
	ListByHost(ctx context.Context, hostID string, limit int, offset int64) ([]*model.Booking, int64, error)
	SetStatus(ctx context.Context, id string, actorID string, update *model.BookingStatusUpdate) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	listings  repository.ListingReader
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	listings repository.ListingReader,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		listings:  listings,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	req.Message = sanitizer.SanitizeFreeText(req.Message)
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "listing_id", req.ListingID, "error", err)
		return nil, apperrors.Validation("Invalid booking request", map[string]any{"error": err.Error()})
	}

	listing, err := s.listings.FindByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrListingNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", req.ListingID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid listing ID format")
		}
		return nil, apperrors.Internal("Failed to load listing", err)
	}

	if listing.Status != model.ListingPublished {
		return nil, apperrors.Conflict("Listing is not open for booking")
	}
	if req.Guests > listing.MaxGuests {
		return nil, apperrors.Validation("Too many guests for this listing", map[string]any{
			"guests":     req.Guests,
			"max_guests": listing.MaxGuests,
		})
	}

	now := s.now()
	nights := Nights(req.CheckIn, req.CheckOut)
	booking := &model.Booking{
		ListingID: req.ListingID,
		GuestID:   req.GuestID,
		HostID:    listing.OwnerID,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Guests:    req.Guests,
		Nights:    nights,
		Pricing:   Quote(listing.Pricing, nights, s.cfg.ServiceFeeRate),
		Message:   req.Message,
		Status:    model.BookingPending,
		ExpiresAt: now.Add(s.cfg.BookingRequestTTL),
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "listing_id", req.ListingID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.publisher.Publish(ctx, events.DocumentChange{
		Collection: events.CollectionBookings,
		Event:      events.EventCreated,
		DocumentID: booking.ID,
		After:      events.Snapshot(booking),
		OccurredAt: now,
	})

	s.cfg.Log.Info("Booking request created",
		"id", booking.ID,
		"listing_id", booking.ListingID,
		"guest_id", booking.GuestID,
		"nights", booking.Nights,
		"total", booking.Pricing.Total,
		"expires_at", booking.ExpiresAt,
	)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	booking.Status = booking.EffectiveStatus(s.now())
	return booking, nil
}

func (s *bookingService) ListByGuest(ctx context.Context, guestID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if guestID == "" {
		return nil, 0, apperrors.InvalidInput("Guest ID cannot be empty")
	}
	return s.list(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.CountByGuest(ctx, guestID) },
		func(ctx context.Context) ([]*model.Booking, error) {
			return s.repo.FindByGuest(ctx, guestID, limit, offset)
		},
	)
}

func (s *bookingService) ListByHost(ctx context.Context, hostID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if hostID == "" {
		return nil, 0, apperrors.InvalidInput("Host ID cannot be empty")
	}
	return s.list(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.CountByHost(ctx, hostID) },
		func(ctx context.Context) ([]*model.Booking, error) {
			return s.repo.FindByHost(ctx, hostID, limit, offset)
		},
	)
}

func (s *bookingService) list(
	ctx context.Context,
	count func(context.Context) (int64, error),
	find func(context.Context) ([]*model.Booking, error),
) ([]*model.Booking, int64, error) {
	var total int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = find(ctx)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	now := s.now()
	for _, b := range bookings {
		b.Status = b.EffectiveStatus(now)
	}
	return bookings, total, nil
}

func (s *bookingService) SetStatus(ctx context.Context, id string, actorID string, update *model.BookingStatusUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		return nil, apperrors.Validation("Invalid status update", map[string]any{"error": err.Error()})
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actorID != "" && actorID != booking.HostID {
		return nil, apperrors.Forbidden("Only the listing host may decide a booking request")
	}

	// Re-setting the same terminal value is a no-op so host retries
	// stay safe.
	if booking.Status == update.Status {
		return booking, nil
	}
	if booking.Status != model.BookingPending {
		return nil, apperrors.Conflict(
			fmt.Sprintf("Booking is already %s and cannot move to %s", booking.Status, update.Status))
	}

	now := s.now()
	before := events.Snapshot(booking)

	modified, err := s.repo.UpdateStatus(ctx, id, model.BookingPending, update.Status, now)
	if err != nil {
		s.cfg.Log.Error("Failed to update booking status", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update booking status", err)
	}
	if modified == 0 {
		// Lost the race: someone else decided or the sweep expired it
		// between our read and the conditional write.
		current, findErr := s.repo.FindByID(ctx, id)
		if findErr == nil && current.Status == update.Status {
			return current, nil
		}
		return nil, apperrors.Conflict("Booking request was already decided")
	}

	booking.Status = update.Status
	booking.UpdatedAt = now

	s.publisher.Publish(ctx, events.DocumentChange{
		Collection: events.CollectionBookings,
		Event:      events.EventUpdated,
		DocumentID: booking.ID,
		Before:     before,
		After:      events.Snapshot(booking),
		OccurredAt: now,
	})

	s.cfg.Log.Info("Booking status updated",
		"id", id,
		"status", update.Status,
		"actor_id", actorID,
	)
	return booking, nil
}
