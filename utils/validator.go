package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"helpnet/models"
)

// ValidationService wraps go-playground/validator with the custom rules
// used by request payloads.
type ValidationService struct {
	validate *validator.Validate
}

func NewValidationService() *ValidationService {
	v := validator.New()

	v.RegisterValidation("emergency_type", validateEmergencyType)
	v.RegisterValidation("emergency_status", validateEmergencyStatus)
	v.RegisterValidation("coordinate", validateCoordinate)

	return &ValidationService{validate: v}
}

func (s *ValidationService) ValidateStruct(obj interface{}) error {
	if err := s.validate.Struct(obj); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			details := make([]map[string]string, 0, len(errs))
			for _, fe := range errs {
				details = append(details, map[string]string{
					"field":   strings.ToLower(fe.Field()),
					"rule":    fe.Tag(),
					"message": fieldMessage(fe),
				})
			}
			return NewValidationError("Request validation failed", details)
		}
		return NewValidationError("Request validation failed", nil)
	}
	return nil
}

func validateEmergencyType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.EmergencyTypeMedical, models.EmergencyTypeFire,
		models.EmergencyTypeAccident, models.EmergencyTypeSecurity,
		models.EmergencyTypeOther:
		return true
	}
	return false
}

func validateEmergencyStatus(fl validator.FieldLevel) bool {
	return models.IsValidEmergencyStatus(fl.Field().String())
}

func validateCoordinate(fl validator.FieldLevel) bool {
	v := fl.Field().Float()
	name := strings.ToLower(fl.FieldName())
	if strings.Contains(name, "lat") {
		return v >= -90 && v <= 90
	}
	return v >= -180 && v <= 180
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", strings.ToLower(fe.Field()))
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "emergency_type":
		return "must be one of: medical, fire, accident, security, other"
	case "emergency_status":
		return "is not a valid emergency status"
	case "coordinate":
		return "is out of range"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
