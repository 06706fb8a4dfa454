package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"nestbay/internal/listings/repository"
	"nestbay/internal/listings/validator"
	"nestbay/pkg/config"
	mongotx "nestbay/pkg/db/mongo"
	apperrors "nestbay/pkg/errors"
	"nestbay/pkg/events"
	"nestbay/pkg/logger"
	"nestbay/pkg/model"
)

type mockListingRepo struct {
	createFn    func(ctx context.Context, listing *model.Listing) error
	findByIDFn  func(ctx context.Context, id string) (*model.Listing, error)
	findAllFn   func(ctx context.Context, filter repository.ListingFilter, limit int, offset int64) ([]*model.Listing, error)
	countFn     func(ctx context.Context, filter repository.ListingFilter) (int64, error)
	updateFn    func(ctx context.Context, id string, listing *model.Listing) error
	deleteFn    func(ctx context.Context, id string) error
	incrementFn func(ctx context.Context, id string, delta int) error
}

func (m *mockListingRepo) Create(ctx context.Context, listing *model.Listing) error {
	if m.createFn != nil {
		return m.createFn(ctx, listing)
	}
	listing.ID = testListingID
	return nil
}

func (m *mockListingRepo) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockListingRepo) FindAll(ctx context.Context, filter repository.ListingFilter, limit int, offset int64) ([]*model.Listing, error) {
	return m.findAllFn(ctx, filter, limit, offset)
}

func (m *mockListingRepo) Count(ctx context.Context, filter repository.ListingFilter) (int64, error) {
	return m.countFn(ctx, filter)
}

func (m *mockListingRepo) Update(ctx context.Context, id string, listing *model.Listing) error {
	return m.updateFn(ctx, id, listing)
}

func (m *mockListingRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockListingRepo) IncrementReviewsCount(ctx context.Context, id string, delta int) error {
	if m.incrementFn != nil {
		return m.incrementFn(ctx, id, delta)
	}
	return nil
}

// ExecuteTransaction runs fn directly so mocked store calls inside
// the closure are observed without a live session.
func (m *mockListingRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func (m *mockListingRepo) UpdateRating(context.Context, string, float64, time.Time) error {
	return nil
}

type mockReviewRepo struct {
	insertFn func(ctx context.Context, review *model.Review) error
}

func (m *mockReviewRepo) Insert(ctx context.Context, review *model.Review) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, review)
	}
	review.ID = "65a0000000000000000000cc"
	return nil
}

func (m *mockReviewRepo) FindByListing(context.Context, string, int, int64) ([]*model.Review, error) {
	return nil, nil
}
func (m *mockReviewRepo) CountByListing(context.Context, string) (int64, error) { return 0, nil }
func (m *mockReviewRepo) FindAllByListing(context.Context, string) ([]*model.Review, error) {
	return nil, nil
}
func (m *mockReviewRepo) HasByListing(context.Context, string) (bool, error)     { return false, nil }
func (m *mockReviewRepo) DeleteByListing(context.Context, string) (int64, error) { return 0, nil }

type mockCalendarRepo struct {
	upsertFn func(ctx context.Context, listingID string, days []model.CalendarDay) error
}

func (m *mockCalendarRepo) UpsertDays(ctx context.Context, listingID string, days []model.CalendarDay) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, listingID, days)
	}
	return nil
}

func (m *mockCalendarRepo) FindByListing(context.Context, string, time.Time, time.Time) ([]*model.CalendarDay, error) {
	return nil, nil
}
func (m *mockCalendarRepo) HasByListing(context.Context, string) (bool, error)     { return false, nil }
func (m *mockCalendarRepo) DeleteByListing(context.Context, string) (int64, error) { return 0, nil }

type mockMediaRepo struct{}

func (m *mockMediaRepo) Insert(_ context.Context, item *model.MediaItem) error {
	item.ID = "65a0000000000000000000dd"
	return nil
}
func (m *mockMediaRepo) FindByListing(context.Context, string) ([]*model.MediaItem, error) {
	return nil, nil
}
func (m *mockMediaRepo) HasByListing(context.Context, string) (bool, error)     { return false, nil }
func (m *mockMediaRepo) DeleteByListing(context.Context, string) (int64, error) { return 0, nil }

type capturingPublisher struct {
	changes []events.DocumentChange
}

func (p *capturingPublisher) Publish(_ context.Context, change events.DocumentChange) {
	p.changes = append(p.changes, change)
}

func (p *capturingPublisher) Close() error { return nil }

const testListingID = "65a0000000000000000000aa"

func newTestService(t *testing.T, repo *mockListingRepo, reviews *mockReviewRepo, calendar *mockCalendarRepo, publisher events.Publisher) ListingService {
	t.Helper()
	cfg := &config.Config{Log: logger.New(logger.Config{Output: io.Discard})}
	return NewListingService(repo, reviews, calendar, &mockMediaRepo{}, validator.NewListingValidator(cfg.Log), publisher, cfg)
}

func ownedListing() *model.Listing {
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

func TestCreateListingDefaultsToDraft(t *testing.T) {
	publisher := &capturingPublisher{}
	svc := newTestService(t, &mockListingRepo{}, &mockReviewRepo{}, &mockCalendarRepo{}, publisher)

	listing := &model.Listing{
		OwnerID:   "host-1",
		Title:     "  Seaside loft  ",
		City:      "haifa",
		Pricing:   model.ListingPricing{BasePrice: 100},
		MaxGuests: 4,
		Rating:    4.9,
	}

	if err := svc.Create(context.Background(), listing); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if listing.Status != model.ListingDraft {
		t.Errorf("Status = %s, want %s", listing.Status, model.ListingDraft)
	}
	if listing.Rating != 0 {
		t.Errorf("Rating = %g, want 0; derived fields must not be client-settable", listing.Rating)
	}
	if listing.Title != "Seaside loft" {
		t.Errorf("Title = %q, want trimmed", listing.Title)
	}

	if len(publisher.changes) != 1 || publisher.changes[0].Event != events.EventCreated {
		t.Fatalf("expected one listings.created event, got %+v", publisher.changes)
	}
}

func TestCreateListingValidation(t *testing.T) {
	svc := newTestService(t, &mockListingRepo{}, &mockReviewRepo{}, &mockCalendarRepo{}, events.NopPublisher{})

	listing := &model.Listing{OwnerID: "host-1", Title: "x", City: "Haifa", MaxGuests: 4}
	err := svc.Create(context.Background(), listing)
	if err == nil {
		t.Fatal("Create() error = nil, want validation failure")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeValidation)
	}
}

func TestUpdateListingForbiddenForNonOwner(t *testing.T) {
	repo := &mockListingRepo{
		findByIDFn: func(context.Context, string) (*model.Listing, error) {
			return ownedListing(), nil
		},
	}
	svc := newTestService(t, repo, &mockReviewRepo{}, &mockCalendarRepo{}, events.NopPublisher{})

	title := "New title"
	_, err := svc.Update(context.Background(), testListingID, "intruder", &model.ListingUpdate{Title: title})
	if err == nil {
		t.Fatal("Update() error = nil, want FORBIDDEN")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeForbidden {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeForbidden)
	}
}

func TestDeleteListingPublishesBeforeSnapshot(t *testing.T) {
	repo := &mockListingRepo{
		findByIDFn: func(context.Context, string) (*model.Listing, error) {
			return ownedListing(), nil
		},
		deleteFn: func(context.Context, string) error { return nil },
	}
	publisher := &capturingPublisher{}
	svc := newTestService(t, repo, &mockReviewRepo{}, &mockCalendarRepo{}, publisher)

	if err := svc.Delete(context.Background(), testListingID, "host-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if len(publisher.changes) != 1 {
		t.Fatalf("published %d changes, want 1", len(publisher.changes))
	}
	change := publisher.changes[0]
	if change.Event != events.EventDeleted || change.Collection != events.CollectionListings {
		t.Errorf("published %s.%s, want listings.deleted", change.Collection, change.Event)
	}
	if len(change.Before) == 0 {
		t.Error("deleted event is missing the before snapshot")
	}
	if change.DocumentID != testListingID {
		t.Errorf("DocumentID = %s, want %s", change.DocumentID, testListingID)
	}
}

func TestAddReviewBumpsCountAndPublishes(t *testing.T) {
	var bumped bool
	repo := &mockListingRepo{
		findByIDFn: func(context.Context, string) (*model.Listing, error) {
			return ownedListing(), nil
		},
		incrementFn: func(_ context.Context, id string, delta int) error {
			if id != testListingID || delta != 1 {
				t.Fatalf("IncrementReviewsCount(%s, %d), want (%s, 1)", id, delta, testListingID)
			}
			bumped = true
			return nil
		},
	}
	publisher := &capturingPublisher{}
	svc := newTestService(t, repo, &mockReviewRepo{}, &mockCalendarRepo{}, publisher)

	review := &model.Review{
		ListingID: testListingID,
		AuthorID:  "guest-1",
		Rating:    5,
		Comment:   "Great stay",
	}
	if err := svc.AddReview(context.Background(), review); err != nil {
		t.Fatalf("AddReview() error = %v", err)
	}

	if !bumped {
		t.Error("reviews count was not incremented")
	}
	if len(publisher.changes) != 1 {
		t.Fatalf("published %d changes, want 1", len(publisher.changes))
	}
	change := publisher.changes[0]
	if change.Collection != events.CollectionListingReviews || change.Event != events.EventCreated {
		t.Errorf("published %s.%s, want listingReviews.created", change.Collection, change.Event)
	}
}

func TestAddReviewFailsWhenCountBumpFails(t *testing.T) {
	repo := &mockListingRepo{
		findByIDFn: func(context.Context, string) (*model.Listing, error) {
			return ownedListing(), nil
		},
		incrementFn: func(context.Context, string, int) error {
			return errors.New("write conflict")
		},
	}
	publisher := &capturingPublisher{}
	svc := newTestService(t, repo, &mockReviewRepo{}, &mockCalendarRepo{}, publisher)

	err := svc.AddReview(context.Background(), &model.Review{
		ListingID: testListingID,
		AuthorID:  "guest-1",
		Rating:    4,
		Comment:   "Fine",
	})
	if err == nil {
		t.Fatal("AddReview() error = nil, want internal failure")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInternal {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeInternal)
	}
	if len(publisher.changes) != 0 {
		t.Errorf("published %d changes on a failed write, want 0", len(publisher.changes))
	}
}

func TestAddReviewRejectsOutOfRangeRating(t *testing.T) {
	repo := &mockListingRepo{
		findByIDFn: func(context.Context, string) (*model.Listing, error) {
			return ownedListing(), nil
		},
	}
	svc := newTestService(t, repo, &mockReviewRepo{}, &mockCalendarRepo{}, events.NopPublisher{})

	err := svc.AddReview(context.Background(), &model.Review{
		ListingID: testListingID,
		AuthorID:  "guest-1",
		Rating:    6,
	})
	if err == nil {
		t.Fatal("AddReview() error = nil, want validation failure")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeValidation)
	}
}

func TestSetCalendarRejectsDuplicateDates(t *testing.T) {
	repo := &mockListingRepo{
		findByIDFn: func(context.Context, string) (*model.Listing, error) {
			return ownedListing(), nil
		},
	}
	svc := newTestService(t, repo, &mockReviewRepo{}, &mockCalendarRepo{}, events.NopPublisher{})

	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	err := svc.SetCalendar(context.Background(), testListingID, "host-1", []model.CalendarDay{
		{Date: day, Available: true},
		{Date: day, Available: false},
	})
	if err == nil {
		t.Fatal("SetCalendar() error = nil, want validation failure")
	}
}
