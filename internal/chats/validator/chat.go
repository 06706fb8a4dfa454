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

type ChatValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewChatValidator(log *logger.Logger) *ChatValidator {
	return &ChatValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *ChatValidator) ValidateConversation(conversation *model.Conversation) error {
	if err := v.translate(v.validate.Struct(conversation)); err != nil {
		return err
	}
	if conversation.Participants[0] == conversation.Participants[1] {
		return ValidationErrors{
			ValidationError{Field: "Participants", Message: "participants must be two distinct users"},
		}
	}
	return nil
}

func (v *ChatValidator) ValidateMessage(message *model.ChatMessage) error {
	return v.translate(v.validate.Struct(message))
}

func (v *ChatValidator) translate(err error) error {
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
		case "len":
			message = fmt.Sprintf("%s must have exactly %s entries", fieldErr.Field(), fieldErr.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", fieldErr.Field(), fieldErr.Param())
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
