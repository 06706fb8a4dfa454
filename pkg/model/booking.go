package model

import (
	"time"
)

// Booking statuses. A booking starts pending and moves to exactly one
// terminal state: approved/rejected by the host, or expired once the
// host let the request time out.
const (
	BookingPending  = "pending"
	BookingApproved = "approved"
	BookingRejected = "rejected"
	BookingExpired  = "expired"
)

type Pricing struct {
	BasePrice   int64 `json:"base_price" bson:"base_price" validate:"min=0"`
	CleaningFee int64 `json:"cleaning_fee" bson:"cleaning_fee" validate:"min=0"`
	ServiceFee  int64 `json:"service_fee" bson:"service_fee" validate:"min=0"`
	Total       int64 `json:"total" bson:"total" validate:"min=0"`
}

type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ListingID string    `json:"listing_id" bson:"listing_id" validate:"required,mongodb"`
	GuestID   string    `json:"guest_id" bson:"guest_id" validate:"required"`
	HostID    string    `json:"host_id" bson:"host_id" validate:"required"`
	CheckIn   time.Time `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut  time.Time `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	Guests    int       `json:"guests" bson:"guests" validate:"required,min=1"`
	Nights    int       `json:"nights" bson:"nights" validate:"min=1"`
	Pricing   Pricing   `json:"pricing" bson:"pricing"`
	Message   string    `json:"message,omitempty" bson:"message,omitempty" validate:"omitempty,max=2000"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=pending approved rejected expired"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// EffectiveStatus is what observers see: a pending booking past its
// expiry reads as expired even before the sweep persists that state.
func (b *Booking) EffectiveStatus(now time.Time) string {
	if b.Status == BookingPending && now.After(b.ExpiresAt) {
		return BookingExpired
	}
	return b.Status
}

// BookingRequest is the guest-facing create input. Host, nights and
// pricing are derived server-side from the listing.
type BookingRequest struct {
	ListingID string    `json:"listing_id" validate:"required,mongodb"`
	GuestID   string    `json:"guest_id" validate:"required"`
	CheckIn   time.Time `json:"check_in" validate:"required"`
	CheckOut  time.Time `json:"check_out" validate:"required,gtfield=CheckIn"`
	Guests    int       `json:"guests" validate:"required,min=1"`
	Message   string    `json:"message" validate:"omitempty,max=2000"`
}

type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}
