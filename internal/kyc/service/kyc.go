package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	kycerrors "nestbay/internal/kyc/errors"
	"nestbay/internal/kyc/repository"
	"nestbay/internal/kyc/validator"
	"nestbay/pkg/config"
	apperrors "nestbay/pkg/errors"
	"nestbay/pkg/events"
	"nestbay/pkg/model"
	"nestbay/pkg/sanitizer"
	"nestbay/pkg/sealer"
)

type KYCService interface {
	Submit(ctx context.Context, request *model.KYCRequest) error
	GetByID(ctx context.Context, id string) (*model.KYCRequest, error)
	ListByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.KYCRequest, int64, error)
	Review(ctx context.Context, id string, reviewerID string, update *model.KYCStatusUpdate) (*model.KYCRequest, error)
}

type kycService struct {
	repo      repository.KYCRepository
	validator *validator.KYCValidator
	publisher events.Publisher
	sealer    *sealer.Sealer
	cfg       *config.Config
	now       func() time.Time
}

func NewKYCService(
	repo repository.KYCRepository,
	validator *validator.KYCValidator,
	publisher events.Publisher,
	sealer *sealer.Sealer,
	cfg *config.Config,
) KYCService {
	return &kycService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		sealer:    sealer,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Submit stores a new verification request. Every submission starts
// pending regardless of what the client sent; the profile mirror
// follows from the published event.
func (s *kycService) Submit(ctx context.Context, request *model.KYCRequest) error {
	request.Status = model.KYCPending
	request.ReviewerID = ""
	request.Note = ""
	request.DocumentURL = sanitizer.SanitizeURL(request.DocumentURL)

	if err := s.validator.Validate(request); err != nil {
		s.cfg.Log.Warn("KYC submission validation failed", "user_id", request.UserID, "error", err)
		return apperrors.Validation("Invalid KYC submission", map[string]any{"error": err.Error()})
	}

	// The document URL is PII; it is stored and published sealed and
	// only opened for authorized readers.
	documentURL := request.DocumentURL
	sealed, err := s.sealer.Seal(documentURL)
	if err != nil {
		s.cfg.Log.Error("Failed to seal document URL", "user_id", request.UserID, "error", err)
		return apperrors.Internal("Failed to submit KYC request", err)
	}
	request.DocumentURL = sealed

	if err := s.repo.Create(ctx, request); err != nil {
		s.cfg.Log.Error("Failed to create KYC request", "user_id", request.UserID, "error", err)
		return apperrors.Internal("Failed to submit KYC request", err)
	}

	s.publisher.Publish(ctx, events.DocumentChange{
		Collection: events.CollectionKYCRequests,
		Event:      events.EventCreated,
		DocumentID: request.ID,
		After:      events.Snapshot(request),
		OccurredAt: s.now(),
	})

	request.DocumentURL = documentURL
	s.cfg.Log.Info("KYC request submitted", "id", request.ID, "user_id", request.UserID)
	return nil
}

func (s *kycService) GetByID(ctx context.Context, id string) (*model.KYCRequest, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("KYC request ID cannot be empty")
	}

	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err, id, "Failed to retrieve KYC request")
	}
	s.reveal(request)
	return request, nil
}

func (s *kycService) ListByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.KYCRequest, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	var total int64
	var requests []*model.KYCRequest
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = s.repo.CountByUser(ctx, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count KYC requests", "user_id", userID, "error", errCount)
			errCount = apperrors.Internal("Failed to count KYC requests", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		requests, errFind = s.repo.FindByUser(ctx, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list KYC requests", "user_id", userID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve KYC requests", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	for _, request := range requests {
		s.reveal(request)
	}
	return requests, total, nil
}

func (s *kycService) Review(ctx context.Context, id string, reviewerID string, update *model.KYCStatusUpdate) (*model.KYCRequest, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("KYC request ID cannot be empty")
	}
	if reviewerID == "" {
		return nil, apperrors.Unauthorized("Reviewer identity is required")
	}
	update.Note = sanitizer.SanitizeFreeText(update.Note)
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		return nil, apperrors.Validation("Invalid review", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err, id, "Failed to check KYC request existence")
	}

	if existing.Status == update.Status {
		s.reveal(existing)
		return existing, nil
	}
	if existing.Status != model.KYCPending {
		return nil, apperrors.Conflict(
			fmt.Sprintf("KYC request is already %s and cannot move to %s", existing.Status, update.Status))
	}

	now := s.now()
	before := events.Snapshot(existing)

	if err := s.repo.UpdateReview(ctx, id, update.Status, reviewerID, update.Note, now); err != nil {
		s.cfg.Log.Error("Failed to review KYC request", "id", id, "error", err)
		return nil, s.mapError(err, id, "Failed to review KYC request")
	}

	existing.Status = update.Status
	existing.ReviewerID = reviewerID
	existing.Note = update.Note
	existing.UpdatedAt = now

	s.publisher.Publish(ctx, events.DocumentChange{
		Collection: events.CollectionKYCRequests,
		Event:      events.EventUpdated,
		DocumentID: id,
		Before:     before,
		After:      events.Snapshot(existing),
		OccurredAt: now,
	})

	s.cfg.Log.Info("KYC request reviewed", "id", id, "status", update.Status, "reviewer_id", reviewerID)
	s.reveal(existing)
	return existing, nil
}

// reveal opens the sealed document URL in place. Rows written before
// sealing was introduced are left untouched.
func (s *kycService) reveal(request *model.KYCRequest) {
	if request.DocumentURL == "" {
		return
	}
	opened, err := s.sealer.Open(request.DocumentURL)
	if err != nil {
		return
	}
	request.DocumentURL = opened
}

func (s *kycService) mapError(err error, id string, internalMsg string) error {
	if errors.Is(err, kycerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("KYC request", id)
	}
	if errors.Is(err, kycerrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid KYC request ID format")
	}
	return apperrors.Internal(internalMsg, err)
}
