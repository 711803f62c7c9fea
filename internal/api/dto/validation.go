package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/resolvepro/complaint-service/internal/domain"
	apperrors "github.com/resolvepro/complaint-service/pkg/util/errorutil"
)

// NewValidator returns a validator that knows the complaint enums and reports
// fields by their json names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("complaint_status", func(fl validator.FieldLevel) bool {
		return domain.ComplaintStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("complaint_priority", func(fl validator.FieldLevel) bool {
		return domain.ComplaintPriority(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate runs struct validation and converts failures into a 400 DomainError whose
// details map each offending field to the rule it broke.
func Validate(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = describe(fe)
	}
	return apperrors.NewValidationError(validationMessage(fieldErrs[0]), details)
}

func validationMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" || fe.Tag() == "notblank" {
		return "missing required fields"
	}
	return "invalid " + fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email"
	case "complaint_status":
		return "must be one of Pending, In Progress, Resolved"
	case "complaint_priority":
		return "must be one of Low, Medium, High"
	case "role":
		return "must be one of user, engineer, admin"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gt", "gte", "min":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
