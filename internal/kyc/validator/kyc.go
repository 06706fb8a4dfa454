package validator

import (
	"errors"
	"fmt"
	"strings"

	"nestbay/pkg/logger"
	"nestbay/pkg/model"

	"github.com/go-playground/validator/v10"
)

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

type KYCValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewKYCValidator(log *logger.Logger) *KYCValidator {
	return &KYCValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *KYCValidator) Validate(request *model.KYCRequest) error {
	return v.translate(v.validate.Struct(request))
}

func (v *KYCValidator) ValidateStatusUpdate(update *model.KYCStatusUpdate) error {
	return v.translate(v.validate.Struct(update))
}

func (v *KYCValidator) translate(err error) error {
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
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), fieldErr.Param())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", fieldErr.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", fieldErr.Field(), fieldErr.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   fieldErr.Field(),
			Message: message,
		})
	}
	return validationErrors
}
