package service

import (
	"math"
	"time"

	"nestbay/pkg/model"
)

// Nights counts billable nights for a stay. Partial days count as a
// full night, so a late check-in still pays for it.
func Nights(checkIn, checkOut time.Time) int {
	if !checkOut.After(checkIn) {
		return 0
	}
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// ServiceFee charges the platform rate on the nightly subtotal,
// rounded half-up to the nearest currency unit.
func ServiceFee(basePrice int64, nights int, rate float64) int64 {
	return int64(math.Floor(float64(basePrice)*float64(nights)*rate + 0.5))
}

// Quote fixes the full price of a stay at request time. The quote is
// stored on the booking so later listing price changes never move an
// already requested total.
func Quote(pricing model.ListingPricing, nights int, rate float64) model.Pricing {
	fee := ServiceFee(pricing.BasePrice, nights, rate)
	return model.Pricing{
		BasePrice:   pricing.BasePrice,
		CleaningFee: pricing.CleaningFee,
		ServiceFee:  fee,
		Total:       pricing.BasePrice*int64(nights) + pricing.CleaningFee + fee,
	}
}
