package triggers

import (
	"context"
	"errors"
	"testing"
	"time"

	"nestbay/pkg/events"
	"nestbay/pkg/model"
)

type mockChild struct {
	calls    int
	checks   int
	deleted  int64
	err      error
	checkErr error
	lastID   string
}

func (m *mockChild) HasByListing(_ context.Context, listingID string) (bool, error) {
	m.checks++
	return m.deleted > 0, m.checkErr
}

func (m *mockChild) DeleteByListing(_ context.Context, listingID string) (int64, error) {
	m.calls++
	m.lastID = listingID
	return m.deleted, m.err
}

func deleteChange(listingID string) events.DocumentChange {
	return events.DocumentChange{
		Collection: events.CollectionListings,
		Event:      events.EventDeleted,
		DocumentID: listingID,
		Before:     events.Snapshot(&model.Listing{ID: listingID, OwnerID: "host-1"}),
		OccurredAt: time.Now().UTC(),
	}
}

func TestCascadeSweepsPopulatedChildren(t *testing.T) {
	calendar := &mockChild{deleted: 30}
	reviews := &mockChild{deleted: 4}
	media := &mockChild{deleted: 0}
	h := NewCascadeHandler(calendar, reviews, media, testLogger())

	listingID := "65a0000000000000000000aa"
	if err := h.Handle(context.Background(), deleteChange(listingID)); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	for name, child := range map[string]*mockChild{"calendar": calendar, "reviews": reviews} {
		if child.calls != 1 {
			t.Errorf("%s swept %d times, want 1", name, child.calls)
		}
		if child.lastID != listingID {
			t.Errorf("%s swept listing %s, want %s", name, child.lastID, listingID)
		}
	}
	if media.checks != 1 {
		t.Errorf("existence checked %d times on empty media, want 1", media.checks)
	}
	if media.calls != 0 {
		t.Errorf("empty media swept %d times, want 0", media.calls)
	}
}

func TestCascadeDeletesWhenCheckFails(t *testing.T) {
	media := &mockChild{checkErr: errors.New("store down")}
	h := NewCascadeHandler(&mockChild{}, &mockChild{}, media, testLogger())

	if err := h.Handle(context.Background(), deleteChange("65a0000000000000000000aa")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if media.calls != 1 {
		t.Errorf("media swept %d times after failed check, want 1", media.calls)
	}
}

func TestCascadeContinuesPastFailedLeg(t *testing.T) {
	calendar := &mockChild{deleted: 3, err: errors.New("store down")}
	reviews := &mockChild{deleted: 2}
	media := &mockChild{deleted: 1}
	h := NewCascadeHandler(calendar, reviews, media, testLogger())

	err := h.Handle(context.Background(), deleteChange("65a0000000000000000000aa"))
	if err == nil {
		t.Fatal("Handle() error = nil, want failure report")
	}

	if reviews.calls != 1 || media.calls != 1 {
		t.Error("remaining legs skipped after a failed one")
	}
}

func TestCascadeSkipsWithoutDocumentID(t *testing.T) {
	calendar := &mockChild{}
	h := NewCascadeHandler(calendar, &mockChild{}, &mockChild{}, testLogger())

	change := deleteChange("")
	if err := h.Handle(context.Background(), change); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if calendar.calls != 0 {
		t.Error("cascade ran without a listing ID")
	}
}
