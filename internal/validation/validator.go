// Package validation adapts go-playground/validator to echo.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"user-center/internal/apperror"
	"user-center/internal/dto"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

func New() *CustomValidator {
	v := validator.New()
	// report the names clients send, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	v.RegisterStructValidation(validateUpdateUser, dto.UpdateUserRequest{})
	return &CustomValidator{validator: v}
}

// validateUpdateUser checks only the fields present in the body. name may not
// be null; avatar may.
func validateUpdateUser(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.UpdateUserRequest)
	if req.Name.Set {
		switch n := utf8.RuneCountInString(req.Name.Value); {
		case !req.Name.Valid:
			sl.ReportError(req.Name, "name", "Name", "notnull", "")
		case n < 1:
			sl.ReportError(req.Name.Value, "name", "Name", "min", "1")
		case n > 100:
			sl.ReportError(req.Name.Value, "name", "Name", "max", "100")
		}
	}
	if req.Avatar.Valid && utf8.RuneCountInString(req.Avatar.Value) > 500 {
		sl.ReportError(req.Avatar.Value, "avatar", "Avatar", "max", "500")
	}
}

// Validate checks every field and reports all failures at once as a
// validation error, "field: reason" joined by "; ".
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Wrap(apperror.KindValidation, "invalid request", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+": "+reason(fe))
	}
	return apperror.Validation(strings.Join(msgs, "; "))
}

func reason(fe validator.FieldError) string {
	text := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "field required"
	case "notnull":
		return "must not be null"
	case "min":
		if text {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be greater than or equal to " + fe.Param()
	case "max":
		if text {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be less than or equal to " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
