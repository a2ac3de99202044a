package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var hhmmssPattern = regexp.MustCompile(`^\d{2,}:[0-5]\d:[0-5]\d$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("hhmmss", validateHHMMSS)
}

func GetValidator() *validator.Validate {
	return validate
}

func validateHHMMSS(fl validator.FieldLevel) bool {
	return hhmmssPattern.MatchString(fl.Field().String())
}

type ValidationError struct {
	Field   string `json:"field" example:"title"`
	Message string `json:"message" example:"title is required"`
}

func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			var message string

			switch fieldError.Tag() {
			case "required":
				message = fieldError.Field() + " is required"
			case "min":
				message = fieldError.Field() + " must be at least " + fieldError.Param()
			case "max":
				message = fieldError.Field() + " must be at most " + fieldError.Param()
			case "uuid":
				message = fieldError.Field() + " must be a valid UUID"
			case "hhmmss":
				message = fieldError.Field() + " must use the HH:MM:SS format"
			case "datetime":
				message = fieldError.Field() + " must be a date formatted " + fieldError.Param()
			case "dive":
				message = fieldError.Field() + " contains invalid items"
			default:
				message = fieldError.Field() + " is invalid"
			}

			errors = append(errors, ValidationError{
				Field:   fieldError.Field(),
				Message: message,
			})
		}
	}

	return errors
}

type Validator interface {
	Validate() error
}
