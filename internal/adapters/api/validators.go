package api

import (
	"fmt"
	"strings"

	"dashboard.app/pkg/validation"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validateCurrency accepts 3-letter currency codes in any case
func validateCurrency(fl validator.FieldLevel) bool {
	return validation.IsValidCurrency(strings.ToUpper(fl.Field().String()))
}

// validateInterval accepts the candle intervals supported by the exchange
func validateInterval(fl validator.FieldLevel) bool {
	return validation.IsValidInterval(strings.TrimSpace(fl.Field().String()))
}

// RegisterValidators registers the custom binding tags on gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("currency", validateCurrency); err != nil {
		return err
	}
	return v.RegisterValidation("interval", validateInterval)
}

// bindingMessage turns binding failures into a client-facing message
func bindingMessage(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return "Invalid request format"
	}

	fe := validationErrors[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s parameter is required", field)
	case "min", "max":
		return fmt.Sprintf("%s parameter is out of range", field)
	default:
		return fmt.Sprintf("invalid %s parameter", field)
	}
}
