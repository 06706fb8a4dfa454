package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"nestbay/pkg/logger"
	"nestbay/pkg/model"

	"github.com/go-playground/validator/v10"
)

// maxCalendarDays caps a single availability submission to roughly two
// years so one request cannot flood the calendar collection.
const maxCalendarDays = 730

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ListingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewListingValidator(log *logger.Logger) *ListingValidator {
	return &ListingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *ListingValidator) Validate(listing *model.Listing) error {
	return v.translate(v.validate.Struct(listing))
}

func (v *ListingValidator) ValidateUpdate(update *model.ListingUpdate) error {
	if err := v.translate(v.validate.Struct(update)); err != nil {
		return err
	}
	if update.Pricing != nil {
		return v.translate(v.validate.Struct(update.Pricing))
	}
	return nil
}

func (v *ListingValidator) ValidateReview(review *model.Review) error {
	return v.translate(v.validate.Struct(review))
}

func (v *ListingValidator) ValidateCalendar(days []model.CalendarDay) error {
	if len(days) == 0 {
		return ValidationErrors{
			ValidationError{Field: "Days", Message: "at least one day is required"},
		}
	}
	if len(days) > maxCalendarDays {
		return ValidationErrors{
			ValidationError{Field: "Days", Message: fmt.Sprintf("at most %d days per request", maxCalendarDays)},
		}
	}

	seen := make(map[time.Time]struct{}, len(days))
	for i, day := range days {
		if day.Date.IsZero() {
			return ValidationErrors{
				ValidationError{Field: fmt.Sprintf("Days[%d].Date", i), Message: "date is required"},
			}
		}
		key := day.Date.UTC().Truncate(24 * time.Hour)
		if _, dup := seen[key]; dup {
			return ValidationErrors{
				ValidationError{Field: fmt.Sprintf("Days[%d].Date", i), Message: "duplicate date in request"},
			}
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (v *ListingValidator) ValidateMedia(item *model.MediaItem) error {
	return v.translate(v.validate.Struct(item))
}

func (v *ListingValidator) translate(err error) error {
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var validationErrors ValidationErrors
	for _, fieldErr := range validationErrs {
		message := fieldErr.Error()

		switch fieldErr.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fieldErr.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", fieldErr.Field(), fieldErr.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", fieldErr.Field(), fieldErr.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), fieldErr.Param())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", fieldErr.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid document ID", fieldErr.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   fieldErr.Field(),
			Message: message,
		})
	}
	return validationErrors
}
