package triggers

import (
	"context"
	"io"
	"testing"
	"time"

	"nestbay/pkg/events"
	"nestbay/pkg/logger"
	"nestbay/pkg/model"
)

type mockReviewSource struct {
	reviews []*model.Review
	err     error
}

func (m *mockReviewSource) FindAllByListing(context.Context, string) ([]*model.Review, error) {
	return m.reviews, m.err
}

type mockRater struct {
	updated   bool
	listingID string
	rating    float64
}

func (m *mockRater) UpdateRating(_ context.Context, id string, rating float64, _ time.Time) error {
	m.updated = true
	m.listingID = id
	m.rating = rating
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard})
}

func reviewChange(t *testing.T, listingID string) events.DocumentChange {
	t.Helper()
	return events.DocumentChange{
		Collection: events.CollectionListingReviews,
		Event:      events.EventCreated,
		DocumentID: "65a0000000000000000000cc",
		After: events.Snapshot(&model.Review{
			ID:        "65a0000000000000000000cc",
			ListingID: listingID,
			AuthorID:  "guest-1",
			Rating:    5,
		}),
		OccurredAt: time.Now().UTC(),
	}
}

func TestMeanRating(t *testing.T) {
	r := func(rating int) *model.Review { return &model.Review{Rating: rating} }

	tests := []struct {
		name    string
		reviews []*model.Review
		want    float64
		wantOK  bool
	}{
		{
			name:    "simple mean",
			reviews: []*model.Review{r(4), r(5)},
			want:    4.5,
			wantOK:  true,
		},
		{
			name:    "rounds half up to one decimal",
			reviews: []*model.Review{r(4), r(4), r(5)},
			want:    4.3,
			wantOK:  true,
		},
		{
			name:    "zero ratings excluded",
			reviews: []*model.Review{r(0), r(3)},
			want:    3,
			wantOK:  true,
		},
		{
			name:    "no qualifying ratings",
			reviews: []*model.Review{r(0), r(0)},
			wantOK:  false,
		},
		{
			name:    "empty set",
			reviews: nil,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MeanRating(tt.reviews)
			if ok != tt.wantOK {
				t.Fatalf("MeanRating() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("MeanRating() = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestRatingHandlerRecomputesFromStore(t *testing.T) {
	source := &mockReviewSource{reviews: []*model.Review{
		{Rating: 4}, {Rating: 4}, {Rating: 5},
	}}
	rater := &mockRater{}
	h := NewRatingHandler(source, rater, testLogger())

	listingID := "65a0000000000000000000aa"
	if err := h.Handle(context.Background(), reviewChange(t, listingID)); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if !rater.updated {
		t.Fatal("rating was not written")
	}
	if rater.listingID != listingID {
		t.Errorf("wrote rating to %s, want %s", rater.listingID, listingID)
	}
	if rater.rating != 4.3 {
		t.Errorf("rating = %g, want 4.3", rater.rating)
	}
}

func TestRatingHandlerSkipsWhenNoQualifyingReviews(t *testing.T) {
	source := &mockReviewSource{reviews: []*model.Review{{Rating: 0}}}
	rater := &mockRater{}
	h := NewRatingHandler(source, rater, testLogger())

	if err := h.Handle(context.Background(), reviewChange(t, "65a0000000000000000000aa")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if rater.updated {
		t.Error("rating written despite no qualifying reviews")
	}
}

func TestRatingHandlerSkipsWithoutListingReference(t *testing.T) {
	rater := &mockRater{}
	h := NewRatingHandler(&mockReviewSource{}, rater, testLogger())

	change := events.DocumentChange{
		Collection: events.CollectionListingReviews,
		Event:      events.EventCreated,
		After:      events.Snapshot(&model.Review{Rating: 5}),
	}
	if err := h.Handle(context.Background(), change); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if rater.updated {
		t.Error("rating written despite missing listing reference")
	}
}
