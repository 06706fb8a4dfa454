package service

import (
	"context"
	"io"
	"testing"
	"time"

	bookingserrors "nestbay/internal/bookings/errors"
	"nestbay/internal/bookings/validator"
	"nestbay/pkg/config"
	apperrors "nestbay/pkg/errors"
	"nestbay/pkg/events"
	"nestbay/pkg/logger"
	"nestbay/pkg/model"
)

type mockBookingRepo struct {
	createFn       func(ctx context.Context, booking *model.Booking) error
	findByIDFn     func(ctx context.Context, id string) (*model.Booking, error)
	updateStatusFn func(ctx context.Context, id, from, to string, updatedAt time.Time) (int64, error)
	findByGuestFn  func(ctx context.Context, guestID string, limit int, offset int64) ([]*model.Booking, error)
	countByGuestFn func(ctx context.Context, guestID string) (int64, error)
	findByHostFn   func(ctx context.Context, hostID string, limit int, offset int64) ([]*model.Booking, error)
	countByHostFn  func(ctx context.Context, hostID string) (int64, error)
	expireFn       func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFn != nil {
		return m.createFn(ctx, booking)
	}
	booking.ID = "65a000000000000000000001"
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockBookingRepo) FindByGuest(ctx context.Context, guestID string, limit int, offset int64) ([]*model.Booking, error) {
	return m.findByGuestFn(ctx, guestID, limit, offset)
}

func (m *mockBookingRepo) CountByGuest(ctx context.Context, guestID string) (int64, error) {
	return m.countByGuestFn(ctx, guestID)
}

func (m *mockBookingRepo) FindByHost(ctx context.Context, hostID string, limit int, offset int64) ([]*model.Booking, error) {
	return m.findByHostFn(ctx, hostID, limit, offset)
}

func (m *mockBookingRepo) CountByHost(ctx context.Context, hostID string) (int64, error) {
	return m.countByHostFn(ctx, hostID)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id, from, to string, updatedAt time.Time) (int64, error) {
	return m.updateStatusFn(ctx, id, from, to, updatedAt)
}

func (m *mockBookingRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	return m.expireFn(ctx, now)
}

type mockListingReader struct {
	findByIDFn func(ctx context.Context, id string) (*model.Listing, error)
}

func (m *mockListingReader) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	return m.findByIDFn(ctx, id)
}

type capturingPublisher struct {
	changes []events.DocumentChange
}

func (p *capturingPublisher) Publish(_ context.Context, change events.DocumentChange) {
	p.changes = append(p.changes, change)
}

func (p *capturingPublisher) Close() error { return nil }

const (
	testListingID = "65a0000000000000000000aa"
	testBookingID = "65a000000000000000000001"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Log:               logger.New(logger.Config{Output: io.Discard}),
		ServiceFeeRate:    0.14,
		BookingRequestTTL: 24 * time.Hour,
	}
}

func publishedListing() *model.Listing {
	return &model.Listing{
		ID:        testListingID,
		OwnerID:   "host-1",
		Title:     "Seaside loft",
		City:      "Haifa",
		Pricing:   model.ListingPricing{BasePrice: 100, CleaningFee: 50},
		MaxGuests: 4,
		Status:    model.ListingPublished,
	}
}

func newTestService(
	t *testing.T,
	repo *mockBookingRepo,
	listings *mockListingReader,
	publisher events.Publisher,
	now time.Time,
) BookingService {
	t.Helper()
	cfg := testConfig(t)
	svc := NewBookingService(repo, listings, validator.NewBookingValidator(cfg.Log), publisher, cfg)
	svc.(*bookingService).now = func() time.Time { return now }
	return svc
}

func validRequest() *model.BookingRequest {
	checkIn := time.Date(2026, 7, 10, 15, 0, 0, 0, time.UTC)
	return &model.BookingRequest{
		ListingID: testListingID,
		GuestID:   "guest-1",
		CheckIn:   checkIn,
		CheckOut:  checkIn.AddDate(0, 0, 3),
		Guests:    2,
		Message:   "Looking forward to it",
	}
}

func TestCreateBookingRequest(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockBookingRepo{}
	listings := &mockListingReader{
		findByIDFn: func(_ context.Context, id string) (*model.Listing, error) {
			if id != testListingID {
				t.Fatalf("unexpected listing lookup: %s", id)
			}
			return publishedListing(), nil
		},
	}
	publisher := &capturingPublisher{}
	svc := newTestService(t, repo, listings, publisher, now)

	booking, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if booking.Status != model.BookingPending {
		t.Errorf("Status = %s, want %s", booking.Status, model.BookingPending)
	}
	if booking.HostID != "host-1" {
		t.Errorf("HostID = %s, want host-1", booking.HostID)
	}
	if booking.Nights != 3 {
		t.Errorf("Nights = %d, want 3", booking.Nights)
	}
	if booking.Pricing.Total != 392 {
		t.Errorf("Total = %d, want 392", booking.Pricing.Total)
	}
	if !booking.ExpiresAt.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("ExpiresAt = %s, want %s", booking.ExpiresAt, now.Add(24*time.Hour))
	}

	if len(publisher.changes) != 1 {
		t.Fatalf("published %d changes, want 1", len(publisher.changes))
	}
	change := publisher.changes[0]
	if change.Collection != events.CollectionBookings || change.Event != events.EventCreated {
		t.Errorf("published %s.%s, want bookings.created", change.Collection, change.Event)
	}
	if change.DocumentID != booking.ID {
		t.Errorf("DocumentID = %s, want %s", change.DocumentID, booking.ID)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(req *model.BookingRequest)
		listing func() *model.Listing
		code    string
	}{
		{
			name:   "checkout before checkin",
			mutate: func(req *model.BookingRequest) { req.CheckOut = req.CheckIn.Add(-time.Hour) },
			code:   apperrors.CodeValidation,
		},
		{
			name:   "zero guests",
			mutate: func(req *model.BookingRequest) { req.Guests = 0 },
			code:   apperrors.CodeValidation,
		},
		{
			name:   "too many guests for listing",
			mutate: func(req *model.BookingRequest) { req.Guests = 9 },
			code:   apperrors.CodeValidation,
		},
		{
			name:   "listing not published",
			mutate: func(req *model.BookingRequest) {},
			listing: func() *model.Listing {
				l := publishedListing()
				l.Status = model.ListingDraft
				return l
			},
			code: apperrors.CodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings := &mockListingReader{
				findByIDFn: func(_ context.Context, _ string) (*model.Listing, error) {
					if tt.listing != nil {
						return tt.listing(), nil
					}
					return publishedListing(), nil
				},
			}
			svc := newTestService(t, &mockBookingRepo{}, listings, events.NopPublisher{}, now)

			req := validRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)
			if err == nil {
				t.Fatal("Create() error = nil, want AppError")
			}
			if appErr := apperrors.AsAppError(err); appErr.Code != tt.code {
				t.Errorf("Code = %s, want %s", appErr.Code, tt.code)
			}
		})
	}
}

func TestCreateBookingListingNotFound(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	listings := &mockListingReader{
		findByIDFn: func(_ context.Context, _ string) (*model.Listing, error) {
			return nil, bookingserrors.ErrListingNotFound
		},
	}
	svc := newTestService(t, &mockBookingRepo{}, listings, events.NopPublisher{}, now)

	_, err := svc.Create(context.Background(), validRequest())
	if err == nil {
		t.Fatal("Create() error = nil, want NOT_FOUND")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("Create() error = %v, want NOT_FOUND", err)
	}
}

func pendingBooking(expiresAt time.Time) *model.Booking {
	return &model.Booking{
		ID:        testBookingID,
		ListingID: testListingID,
		GuestID:   "guest-1",
		HostID:    "host-1",
		Guests:    2,
		Nights:    3,
		Status:    model.BookingPending,
		ExpiresAt: expiresAt,
	}
}

func TestGetByIDDerivesExpiry(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockBookingRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Booking, error) {
			return pendingBooking(now.Add(-time.Minute)), nil
		},
	}
	svc := newTestService(t, repo, &mockListingReader{}, events.NopPublisher{}, now)

	booking, err := svc.GetByID(context.Background(), testBookingID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if booking.Status != model.BookingExpired {
		t.Errorf("Status = %s, want %s", booking.Status, model.BookingExpired)
	}
}

func TestSetStatusApprove(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockBookingRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Booking, error) {
			return pendingBooking(now.Add(time.Hour)), nil
		},
		updateStatusFn: func(_ context.Context, id, from, to string, _ time.Time) (int64, error) {
			if from != model.BookingPending || to != model.BookingApproved {
				t.Fatalf("UpdateStatus(%s -> %s), want pending -> approved", from, to)
			}
			return 1, nil
		},
	}
	publisher := &capturingPublisher{}
	svc := newTestService(t, repo, &mockListingReader{}, publisher, now)

	booking, err := svc.SetStatus(context.Background(), testBookingID, "host-1", &model.BookingStatusUpdate{Status: model.BookingApproved})
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if booking.Status != model.BookingApproved {
		t.Errorf("Status = %s, want %s", booking.Status, model.BookingApproved)
	}

	if len(publisher.changes) != 1 {
		t.Fatalf("published %d changes, want 1", len(publisher.changes))
	}
	if publisher.changes[0].Event != events.EventUpdated {
		t.Errorf("Event = %s, want %s", publisher.changes[0].Event, events.EventUpdated)
	}
}

func TestSetStatusIdempotentRepeat(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockBookingRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Booking, error) {
			b := pendingBooking(now.Add(time.Hour))
			b.Status = model.BookingApproved
			return b, nil
		},
		updateStatusFn: func(_ context.Context, _, _, _ string, _ time.Time) (int64, error) {
			t.Fatal("UpdateStatus should not be called for a repeated terminal value")
			return 0, nil
		},
	}
	publisher := &capturingPublisher{}
	svc := newTestService(t, repo, &mockListingReader{}, publisher, now)

	booking, err := svc.SetStatus(context.Background(), testBookingID, "host-1", &model.BookingStatusUpdate{Status: model.BookingApproved})
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if booking.Status != model.BookingApproved {
		t.Errorf("Status = %s, want %s", booking.Status, model.BookingApproved)
	}
	if len(publisher.changes) != 0 {
		t.Errorf("published %d changes, want 0", len(publisher.changes))
	}
}

func TestSetStatusConflicts(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		current func() *model.Booking
		update  string
	}{
		{
			name: "already rejected",
			current: func() *model.Booking {
				b := pendingBooking(now.Add(time.Hour))
				b.Status = model.BookingRejected
				return b
			},
			update: model.BookingApproved,
		},
		{
			name: "pending past expiry",
			current: func() *model.Booking {
				return pendingBooking(now.Add(-time.Minute))
			},
			update: model.BookingApproved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBookingRepo{
				findByIDFn: func(_ context.Context, _ string) (*model.Booking, error) {
					return tt.current(), nil
				},
			}
			svc := newTestService(t, repo, &mockListingReader{}, events.NopPublisher{}, now)

			_, err := svc.SetStatus(context.Background(), testBookingID, "host-1", &model.BookingStatusUpdate{Status: tt.update})
			if err == nil {
				t.Fatal("SetStatus() error = nil, want CONFLICT")
			}
			if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
				t.Fatalf("SetStatus() error = %v, want CONFLICT", err)
			}
		})
	}
}

func TestSetStatusForbiddenForNonHost(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockBookingRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Booking, error) {
			return pendingBooking(now.Add(time.Hour)), nil
		},
	}
	svc := newTestService(t, repo, &mockListingReader{}, events.NopPublisher{}, now)

	_, err := svc.SetStatus(context.Background(), testBookingID, "guest-1", &model.BookingStatusUpdate{Status: model.BookingApproved})
	if err == nil {
		t.Fatal("SetStatus() error = nil, want FORBIDDEN")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeForbidden {
		t.Fatalf("SetStatus() error = %v, want FORBIDDEN", err)
	}
}

func TestSetStatusLostRace(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	repo := &mockBookingRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Booking, error) {
			calls++
			b := pendingBooking(now.Add(time.Hour))
			if calls > 1 {
				b.Status = model.BookingApproved
			}
			return b, nil
		},
		updateStatusFn: func(_ context.Context, _, _, _ string, _ time.Time) (int64, error) {
			return 0, nil
		},
	}
	svc := newTestService(t, repo, &mockListingReader{}, events.NopPublisher{}, now)

	booking, err := svc.SetStatus(context.Background(), testBookingID, "host-1", &model.BookingStatusUpdate{Status: model.BookingApproved})
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if booking.Status != model.BookingApproved {
		t.Errorf("Status = %s, want %s", booking.Status, model.BookingApproved)
	}
}

func TestListByGuestAppliesDerivedExpiry(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockBookingRepo{
		findByGuestFn: func(_ context.Context, _ string, _ int, _ int64) ([]*model.Booking, error) {
			fresh := pendingBooking(now.Add(time.Hour))
			stale := pendingBooking(now.Add(-time.Hour))
			stale.ID = "65a000000000000000000002"
			return []*model.Booking{fresh, stale}, nil
		},
		countByGuestFn: func(_ context.Context, _ string) (int64, error) {
			return 2, nil
		},
	}
	svc := newTestService(t, repo, &mockListingReader{}, events.NopPublisher{}, now)

	bookings, total, err := svc.ListByGuest(context.Background(), "guest-1", 10, 0)
	if err != nil {
		t.Fatalf("ListByGuest() error = %v", err)
	}
	if total != 2 || len(bookings) != 2 {
		t.Fatalf("got %d bookings, total %d, want 2/2", len(bookings), total)
	}
	if bookings[0].Status != model.BookingPending {
		t.Errorf("fresh booking Status = %s, want pending", bookings[0].Status)
	}
	if bookings[1].Status != model.BookingExpired {
		t.Errorf("stale booking Status = %s, want expired", bookings[1].Status)
	}
}
