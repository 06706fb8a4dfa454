package service

import (
	"context"
	"io"
	"testing"
	"time"

	profileserrors "nestbay/internal/profiles/errors"
	"nestbay/internal/profiles/validator"
	"nestbay/pkg/config"
	apperrors "nestbay/pkg/errors"
	"nestbay/pkg/events"
	"nestbay/pkg/logger"
	"nestbay/pkg/model"
)

type mockProfileRepo struct {
	createFn     func(ctx context.Context, profile *model.Profile) error
	findByUserFn func(ctx context.Context, userID string) (*model.Profile, error)
	updateFn     func(ctx context.Context, userID string, profile *model.Profile) error
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *model.Profile) error {
	if m.createFn != nil {
		return m.createFn(ctx, profile)
	}
	profile.ID = "65a0000000000000000000dd"
	return nil
}

func (m *mockProfileRepo) FindByUser(ctx context.Context, userID string) (*model.Profile, error) {
	return m.findByUserFn(ctx, userID)
}

func (m *mockProfileRepo) Update(ctx context.Context, userID string, profile *model.Profile) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, profile)
	}
	return nil
}

func (m *mockProfileRepo) UpdateKYCStatus(context.Context, string, string, time.Time) (bool, error) {
	return true, nil
}

type capturingPublisher struct {
	changes []events.DocumentChange
}

func (p *capturingPublisher) Publish(_ context.Context, change events.DocumentChange) {
	p.changes = append(p.changes, change)
}

func (p *capturingPublisher) Close() error { return nil }

func newTestService(t *testing.T, repo *mockProfileRepo, publisher events.Publisher) ProfileService {
	t.Helper()
	cfg := &config.Config{Log: logger.New(logger.Config{Output: io.Discard})}
	return NewProfileService(repo, validator.NewProfileValidator(cfg.Log), publisher, cfg)
}

func TestCreateProfileStartsUnverified(t *testing.T) {
	publisher := &capturingPublisher{}
	svc := newTestService(t, &mockProfileRepo{}, publisher)

	profile := &model.Profile{
		UserID:      "user-1",
		DisplayName: "Dana",
		Email:       "dana@example.com",
		KYCStatus:   model.KYCApproved,
	}
	if err := svc.Create(context.Background(), profile); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if profile.KYCStatus != model.KYCUnverified {
		t.Errorf("KYCStatus = %s, want %s", profile.KYCStatus, model.KYCUnverified)
	}
	if profile.Role != "guest" {
		t.Errorf("Role = %s, want guest", profile.Role)
	}
	if len(publisher.changes) != 1 || publisher.changes[0].Event != events.EventCreated {
		t.Fatalf("expected one profiles.created change, got %v", publisher.changes)
	}
}

func TestCreateProfileInfersLocaleFromPhone(t *testing.T) {
	svc := newTestService(t, &mockProfileRepo{}, events.NopPublisher{})

	profile := &model.Profile{
		UserID:      "user-1",
		DisplayName: "Dana",
		Email:       "dana@example.com",
		Phone:       "+33612345678",
	}
	if err := svc.Create(context.Background(), profile); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if profile.CountryCode != "FR" {
		t.Errorf("CountryCode = %s, want FR", profile.CountryCode)
	}
	if profile.Timezone != "Europe/Paris" {
		t.Errorf("Timezone = %s, want Europe/Paris", profile.Timezone)
	}
}

func TestCreateProfileWithoutPhoneFallsBackToUTC(t *testing.T) {
	svc := newTestService(t, &mockProfileRepo{}, events.NopPublisher{})

	profile := &model.Profile{
		UserID:      "user-1",
		DisplayName: "Dana",
		Email:       "dana@example.com",
	}
	if err := svc.Create(context.Background(), profile); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if profile.CountryCode != "" {
		t.Errorf("CountryCode = %s, want empty", profile.CountryCode)
	}
	if profile.Timezone != "UTC" {
		t.Errorf("Timezone = %s, want UTC", profile.Timezone)
	}
}

func TestCreateProfileDuplicateUser(t *testing.T) {
	repo := &mockProfileRepo{
		createFn: func(context.Context, *model.Profile) error {
			return profileserrors.ErrDuplicateUser
		},
	}
	svc := newTestService(t, repo, events.NopPublisher{})

	profile := &model.Profile{
		UserID:      "user-1",
		DisplayName: "Dana",
		Email:       "dana@example.com",
	}
	err := svc.Create(context.Background(), profile)
	if err == nil {
		t.Fatal("Create() error = nil, want conflict")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeConflict)
	}
}

func TestUpdateProfileMergesFields(t *testing.T) {
	publisher := &capturingPublisher{}
	repo := &mockProfileRepo{
		findByUserFn: func(_ context.Context, userID string) (*model.Profile, error) {
			return &model.Profile{
				ID:          "65a0000000000000000000dd",
				UserID:      userID,
				DisplayName: "Dana",
				Email:       "dana@example.com",
				Role:        "guest",
				KYCStatus:   model.KYCUnverified,
			}, nil
		},
	}
	svc := newTestService(t, repo, publisher)

	updated, err := svc.Update(context.Background(), "user-1", &model.ProfileUpdate{
		DisplayName: "Dana H",
		Role:        "host",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.DisplayName != "Dana H" {
		t.Errorf("DisplayName = %s, want Dana H", updated.DisplayName)
	}
	if updated.Role != "host" {
		t.Errorf("Role = %s, want host", updated.Role)
	}
	if updated.Email != "dana@example.com" {
		t.Errorf("Email = %s, unchanged field was overwritten", updated.Email)
	}
	if len(publisher.changes) != 1 || publisher.changes[0].Event != events.EventUpdated {
		t.Fatalf("expected one profiles.updated change, got %d", len(publisher.changes))
	}
	if publisher.changes[0].Before == nil {
		t.Error("updated change published without a before snapshot")
	}
}
