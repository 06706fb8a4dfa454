package triggers

import (
	"context"
	"testing"
	"time"

	"nestbay/pkg/events"
	"nestbay/pkg/model"
)

type mockProfileMirror struct {
	updated bool
	userID  string
	status  string
	matched bool
}

func (m *mockProfileMirror) UpdateKYCStatus(_ context.Context, userID, status string, _ time.Time) (bool, error) {
	m.updated = true
	m.userID = userID
	m.status = status
	return m.matched, nil
}

func kycChange(event string, before, after *model.KYCRequest) events.DocumentChange {
	return events.DocumentChange{
		Collection: events.CollectionKYCRequests,
		Event:      event,
		DocumentID: "65a0000000000000000000ee",
		Before:     events.Snapshot(before),
		After:      events.Snapshot(after),
		OccurredAt: time.Now().UTC(),
	}
}

func TestKYCMirrorOnSubmission(t *testing.T) {
	mirror := &mockProfileMirror{matched: true}
	h := NewKYCMirrorHandler(mirror, testLogger())

	change := kycChange(events.EventCreated, nil, &model.KYCRequest{
		UserID: "user-1",
		Status: model.KYCPending,
	})
	if err := h.Handle(context.Background(), change); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if !mirror.updated {
		t.Fatal("profile was not updated")
	}
	if mirror.userID != "user-1" || mirror.status != model.KYCPending {
		t.Errorf("mirrored (%s, %s), want (user-1, pending)", mirror.userID, mirror.status)
	}
}

func TestKYCMirrorCopiesDecision(t *testing.T) {
	mirror := &mockProfileMirror{matched: true}
	h := NewKYCMirrorHandler(mirror, testLogger())

	change := kycChange(events.EventUpdated,
		&model.KYCRequest{UserID: "user-1", Status: model.KYCPending},
		&model.KYCRequest{UserID: "user-1", Status: model.KYCApproved},
	)
	if err := h.Handle(context.Background(), change); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if mirror.status != model.KYCApproved {
		t.Errorf("mirrored status %s, want approved", mirror.status)
	}
}

func TestKYCMirrorIgnoresNonStatusEdits(t *testing.T) {
	mirror := &mockProfileMirror{matched: true}
	h := NewKYCMirrorHandler(mirror, testLogger())

	change := kycChange(events.EventUpdated,
		&model.KYCRequest{UserID: "user-1", Status: model.KYCApproved, Note: ""},
		&model.KYCRequest{UserID: "user-1", Status: model.KYCApproved, Note: "double checked"},
	)
	if err := h.Handle(context.Background(), change); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if mirror.updated {
		t.Error("profile rewritten for a non-status edit")
	}
}

func TestKYCMirrorSkipsWithoutUser(t *testing.T) {
	mirror := &mockProfileMirror{matched: true}
	h := NewKYCMirrorHandler(mirror, testLogger())

	change := kycChange(events.EventCreated, nil, &model.KYCRequest{Status: model.KYCPending})
	if err := h.Handle(context.Background(), change); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if mirror.updated {
		t.Error("profile updated despite missing user reference")
	}
}

func TestKYCMirrorToleratesMissingProfile(t *testing.T) {
	mirror := &mockProfileMirror{matched: false}
	h := NewKYCMirrorHandler(mirror, testLogger())

	change := kycChange(events.EventCreated, nil, &model.KYCRequest{
		UserID: "ghost",
		Status: model.KYCPending,
	})
	if err := h.Handle(context.Background(), change); err != nil {
		t.Fatalf("Handle() error = %v, want nil for missing profile", err)
	}
}
