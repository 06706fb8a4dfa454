package expiry

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"nestbay/pkg/logger"
	"nestbay/pkg/model"
)

type mockRepo struct {
	expireFn func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	return m.expireFn(ctx, now)
}

func (m *mockRepo) Create(context.Context, *model.Booking) error { return nil }
func (m *mockRepo) FindByID(context.Context, string) (*model.Booking, error) {
	return nil, nil
}
func (m *mockRepo) FindByGuest(context.Context, string, int, int64) ([]*model.Booking, error) {
	return nil, nil
}
func (m *mockRepo) CountByGuest(context.Context, string) (int64, error) { return 0, nil }
func (m *mockRepo) FindByHost(context.Context, string, int, int64) ([]*model.Booking, error) {
	return nil, nil
}
func (m *mockRepo) CountByHost(context.Context, string) (int64, error) { return 0, nil }
func (m *mockRepo) UpdateStatus(context.Context, string, string, string, time.Time) (int64, error) {
	return 0, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard})
}

func TestRunOncePassesCurrentTime(t *testing.T) {
	fixed := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	var got time.Time
	repo := &mockRepo{
		expireFn: func(_ context.Context, now time.Time) (int64, error) {
			got = now
			return 3, nil
		},
	}

	s := NewSweeper(repo, testLogger(), "@hourly")
	s.now = func() time.Time { return fixed }
	s.RunOnce(context.Background())

	if !got.Equal(fixed) {
		t.Errorf("ExpireOverdue called with %s, want %s", got, fixed)
	}
}

func TestRunOnceSwallowsStoreErrors(t *testing.T) {
	repo := &mockRepo{
		expireFn: func(context.Context, time.Time) (int64, error) {
			return 0, errors.New("store down")
		},
	}

	s := NewSweeper(repo, testLogger(), "@hourly")
	s.RunOnce(context.Background())
}

func TestStartRejectsBadSpec(t *testing.T) {
	repo := &mockRepo{
		expireFn: func(context.Context, time.Time) (int64, error) { return 0, nil },
	}

	s := NewSweeper(repo, testLogger(), "not a cron spec")
	if err := s.Start(); err == nil {
		t.Fatal("Start() error = nil, want parse failure")
	}
}
