package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lehoyeon/greenhand/internal/apperr"
)

type errorBody struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Errors  []apperr.FieldViolation `json:"errors,omitempty"`
}

// ErrorHandler renders handler errors as JSON. Internal and unclassified
// errors are logged in full and answered with a generic message.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(errorBody{Code: statusCode(fe.Code), Message: fe.Message})
		}

		e, ok := apperr.As(err)
		if !ok || e.Kind == apperr.KindInternal {
			logger.Error("request failed",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.String("request_id", RequestIDFrom(c)),
				slog.Any("error", err),
			)
			return c.Status(http.StatusInternalServerError).JSON(errorBody{Code: apperr.CodeInternal, Message: apperr.GenericMessage})
		}

		return c.Status(apperr.Status(e)).JSON(errorBody{Code: e.Code, Message: e.Message, Errors: e.Fields})
	}
}

func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return apperr.CodeInternal
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

func errorStatus(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return apperr.Status(err)
}
