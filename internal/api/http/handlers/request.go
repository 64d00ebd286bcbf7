package handlers

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodes the JSON body into dst and runs struct validation.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(dst); err != nil {
		details := map[string]any{}
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range fieldErrs {
				details[fieldErr.Field()] = fieldErr.Tag()
			}
		}
		return apperrors.NewValidationError("invalid request", details)
	}
	return nil
}

// csvQuery splits a comma separated query parameter into typed values. The first
// key present wins, so aliases such as userType can follow user_type.
func csvQuery[T ~string](c *fiber.Ctx, keys ...string) []T {
	var raw string
	for _, key := range keys {
		if raw = c.Query(key); raw != "" {
			break
		}
	}
	if raw == "" {
		return nil
	}
	var values []T
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, T(part))
		}
	}
	return values
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	if v := strings.TrimSpace(c.Query(key)); v != "" {
		return &v
	}
	return nil
}
