package service

import (
	"context"
	"errors"
	"time"

	profileserrors "nestbay/internal/profiles/errors"
	"nestbay/internal/profiles/repository"
	"nestbay/internal/profiles/validator"
	"nestbay/pkg/config"
	apperrors "nestbay/pkg/errors"
	"nestbay/pkg/events"
	"nestbay/pkg/locale"
	"nestbay/pkg/model"
	"nestbay/pkg/sanitizer"
)

type ProfileService interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByUser(ctx context.Context, userID string) (*model.Profile, error)
	Update(ctx context.Context, userID string, updates *model.ProfileUpdate) (*model.Profile, error)
}

type profileService struct {
	repo      repository.ProfileRepository
	validator *validator.ProfileValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewProfileService(
	repo repository.ProfileRepository,
	validator *validator.ProfileValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ProfileService {
	return &profileService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *profileService) sanitize(profile *model.Profile) {
	profile.DisplayName = sanitizer.SanitizeName(profile.DisplayName)
	if profile.Phone != "" {
		profile.Phone = sanitizer.SanitizePhone(profile.Phone)
	}
	s.inferLocale(profile)
}

// inferLocale derives display locale fields from the phone number.
// Profiles without a phone, or with one from outside our markets,
// keep the UTC fallback and no country code.
func (s *profileService) inferLocale(profile *model.Profile) {
	profile.CountryCode = ""
	profile.Timezone = locale.DefaultTimezone
	if profile.Phone == "" {
		return
	}
	if country := locale.InferCountryFromPhone(profile.Phone); country != nil {
		profile.CountryCode = country.Code
		profile.Timezone = country.DefaultTimezone
	}
}

// Create registers a profile. Verification state always starts
// unverified, only the KYC flow moves it.
func (s *profileService) Create(ctx context.Context, profile *model.Profile) error {
	profile.KYCStatus = model.KYCUnverified
	if profile.Role == "" {
		profile.Role = "guest"
	}
	s.sanitize(profile)

	if err := s.validator.Validate(profile); err != nil {
		s.cfg.Log.Warn("Profile validation failed", "user_id", profile.UserID, "error", err)
		return apperrors.Validation("Invalid profile", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		if errors.Is(err, profileserrors.ErrDuplicateUser) {
			return apperrors.Conflict("A profile already exists for this user")
		}
		s.cfg.Log.Error("Failed to create profile", "user_id", profile.UserID, "error", err)
		return apperrors.Internal("Failed to create profile", err)
	}

	s.publisher.Publish(ctx, events.DocumentChange{
		Collection: events.CollectionProfiles,
		Event:      events.EventCreated,
		DocumentID: profile.ID,
		After:      events.Snapshot(profile),
		OccurredAt: s.now(),
	})

	s.cfg.Log.Info("Profile created", "id", profile.ID, "user_id", profile.UserID, "role", profile.Role)
	return nil
}

func (s *profileService) GetByUser(ctx context.Context, userID string) (*model.Profile, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	profile, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, profileserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Profile", userID)
		}
		return nil, apperrors.Internal("Failed to retrieve profile", err)
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, userID string, updates *model.ProfileUpdate) (*model.Profile, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, apperrors.Validation("Invalid profile update", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, profileserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Profile", userID)
		}
		return nil, apperrors.Internal("Failed to check profile existence", err)
	}

	before := events.Snapshot(existing)
	merged := *existing
	if updates.DisplayName != "" {
		merged.DisplayName = updates.DisplayName
	}
	if updates.Email != "" {
		merged.Email = updates.Email
	}
	if updates.Phone != nil {
		merged.Phone = *updates.Phone
	}
	if updates.Role != "" {
		merged.Role = updates.Role
	}
	s.sanitize(&merged)

	if err := s.validator.Validate(&merged); err != nil {
		return nil, apperrors.Validation("Invalid profile", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, userID, &merged); err != nil {
		if errors.Is(err, profileserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Profile", userID)
		}
		s.cfg.Log.Error("Failed to update profile", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to update profile", err)
	}

	s.publisher.Publish(ctx, events.DocumentChange{
		Collection: events.CollectionProfiles,
		Event:      events.EventUpdated,
		DocumentID: merged.ID,
		Before:     before,
		After:      events.Snapshot(&merged),
		OccurredAt: s.now(),
	})

	s.cfg.Log.Info("Profile updated", "user_id", userID)
	return &merged, nil
}
