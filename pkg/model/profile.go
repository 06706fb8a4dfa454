package model

import "time"

// KYCUnverified is the profile state before any verification request
// exists. The other kyc_status values mirror KYCRequest statuses.
const KYCUnverified = "unverified"

type Profile struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID      string    `json:"user_id" bson:"user_id" validate:"required"`
	DisplayName string    `json:"display_name" bson:"display_name" validate:"required,min=2,max=80"`
	Email       string    `json:"email" bson:"email" validate:"required,email"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Role        string    `json:"role" bson:"role" validate:"required,oneof=guest host admin"`
	KYCStatus   string    `json:"kyc_status" bson:"kyc_status" validate:"required,oneof=unverified pending approved rejected"`
	CountryCode string    `json:"country_code,omitempty" bson:"country_code,omitempty"`
	Timezone    string    `json:"timezone,omitempty" bson:"timezone,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

type ProfileUpdate struct {
	DisplayName string  `json:"display_name,omitempty" validate:"omitempty,min=2,max=80"`
	Email       string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty"`
	Role        string  `json:"role,omitempty" validate:"omitempty,oneof=guest host admin"`
}
