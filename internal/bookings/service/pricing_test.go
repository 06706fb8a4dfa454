package service

import (
	"testing"
	"time"

	"nestbay/pkg/model"
)

func TestNights(t *testing.T) {
	base := time.Date(2026, 6, 1, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{
			name:     "exact three days",
			checkIn:  base,
			checkOut: base.AddDate(0, 0, 3),
			want:     3,
		},
		{
			name:     "partial day rounds up",
			checkIn:  base,
			checkOut: base.AddDate(0, 0, 2).Add(5 * time.Hour),
			want:     3,
		},
		{
			name:     "under one day is one night",
			checkIn:  base,
			checkOut: base.Add(6 * time.Hour),
			want:     1,
		},
		{
			name:     "checkout before checkin",
			checkIn:  base,
			checkOut: base.Add(-time.Hour),
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Nights(tt.checkIn, tt.checkOut); got != tt.want {
				t.Errorf("Nights() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestServiceFee(t *testing.T) {
	tests := []struct {
		name      string
		basePrice int64
		nights    int
		rate      float64
		want      int64
	}{
		{
			name:      "whole number fee",
			basePrice: 100,
			nights:    3,
			rate:      0.14,
			want:      42,
		},
		{
			name:      "half rounds up",
			basePrice: 25,
			nights:    1,
			rate:      0.14,
			want:      4,
		},
		{
			name:      "below half rounds down",
			basePrice: 17,
			nights:    1,
			rate:      0.14,
			want:      2,
		},
		{
			name:      "zero rate",
			basePrice: 100,
			nights:    5,
			rate:      0,
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ServiceFee(tt.basePrice, tt.nights, tt.rate); got != tt.want {
				t.Errorf("ServiceFee() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	got := Quote(model.ListingPricing{BasePrice: 100, CleaningFee: 50}, 3, 0.14)

	want := model.Pricing{
		BasePrice:   100,
		CleaningFee: 50,
		ServiceFee:  42,
		Total:       392,
	}
	if got != want {
		t.Errorf("Quote() = %+v, want %+v", got, want)
	}
}

func TestQuoteCleaningFeeExcludedFromServiceFee(t *testing.T) {
	got := Quote(model.ListingPricing{BasePrice: 100, CleaningFee: 1000}, 1, 0.14)

	if got.ServiceFee != 14 {
		t.Errorf("ServiceFee = %d, want 14", got.ServiceFee)
	}
	if got.Total != 100+1000+14 {
		t.Errorf("Total = %d, want %d", got.Total, 100+1000+14)
	}
}
