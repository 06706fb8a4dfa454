package model

import "time"

const (
	ListingDraft     = "draft"
	ListingPublished = "published"
	ListingArchived  = "archived"
)

type ListingPricing struct {
	BasePrice   int64 `json:"base_price" bson:"base_price" validate:"min=0"`
	CleaningFee int64 `json:"cleaning_fee" bson:"cleaning_fee" validate:"min=0"`
}

type Listing struct {
	ID          string         `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID     string         `json:"owner_id" bson:"owner_id" validate:"required"`
	Title       string         `json:"title" bson:"title" validate:"required,min=3,max=120"`
	Description string         `json:"description" bson:"description" validate:"omitempty,max=5000"`
	City        string         `json:"city" bson:"city" validate:"required,min=2,max=80"`
	Address     string         `json:"address" bson:"address" validate:"omitempty,max=200"`
	Pricing     ListingPricing `json:"pricing" bson:"pricing"`
	MaxGuests   int            `json:"max_guests" bson:"max_guests" validate:"required,min=1,max=50"`
	Status      string         `json:"status" bson:"status" validate:"required,oneof=draft published archived"`
	// Rating is derived from reviews by the trigger worker, one
	// decimal place. Never written by user requests.
	Rating       float64   `json:"rating" bson:"rating" validate:"min=0,max=5"`
	ReviewsCount int       `json:"reviews_count" bson:"reviews_count" validate:"min=0"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

type ListingUpdate struct {
	Title       string          `json:"title,omitempty" validate:"omitempty,min=3,max=120"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=5000"`
	City        string          `json:"city,omitempty" validate:"omitempty,min=2,max=80"`
	Address     *string         `json:"address,omitempty" validate:"omitempty,max=200"`
	Pricing     *ListingPricing `json:"pricing,omitempty"`
	MaxGuests   *int            `json:"max_guests,omitempty" validate:"omitempty,min=1,max=50"`
	Status      string          `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
}

// Review lives in the listingReviews collection, keyed by listing_id.
type Review struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ListingID string    `json:"listing_id" bson:"listing_id" validate:"required,mongodb"`
	AuthorID  string    `json:"author_id" bson:"author_id" validate:"required"`
	Rating    int       `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" bson:"comment" validate:"omitempty,max=2000"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type CalendarDay struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ListingID string    `json:"listing_id" bson:"listing_id" validate:"required,mongodb"`
	Date      time.Time `json:"date" bson:"date" validate:"required"`
	Available bool      `json:"available" bson:"available"`
}

type MediaItem struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ListingID string    `json:"listing_id" bson:"listing_id" validate:"required,mongodb"`
	URL       string    `json:"url" bson:"url" validate:"required,url"`
	Kind      string    `json:"kind" bson:"kind" validate:"required,oneof=photo video"`
	Position  int       `json:"position" bson:"position" validate:"min=0"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
