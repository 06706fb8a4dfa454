package model

import "time"

const (
	KYCPending  = "pending"
	KYCApproved = "approved"
	KYCRejected = "rejected"
)

// KYCRequest is one identity-verification submission. The linked
// profile's kyc_status mirrors the request's status via the trigger
// worker.
type KYCRequest struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID       string    `json:"user_id" bson:"user_id" validate:"required"`
	DocumentType string    `json:"document_type" bson:"document_type" validate:"required,oneof=passport id_card driving_license"`
	DocumentURL  string    `json:"document_url" bson:"document_url" validate:"required,url"`
	Status       string    `json:"status" bson:"status" validate:"required,oneof=pending approved rejected"`
	ReviewerID   string    `json:"reviewer_id,omitempty" bson:"reviewer_id,omitempty"`
	Note         string    `json:"note,omitempty" bson:"note,omitempty" validate:"omitempty,max=1000"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

type KYCStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Note   string `json:"note" validate:"omitempty,max=1000"`
}
