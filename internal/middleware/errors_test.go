package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/lehoyeon/greenhand/internal/apperr"
	"github.com/lehoyeon/greenhand/internal/logging"
)

func TestErrorHandlerRendersErrors(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewWithWriter(&logs, "info")
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	app.Use(RequestID())

	app.Get("/validation", func(*fiber.Ctx) error {
		return apperr.Violations([]apperr.FieldViolation{{Field: "username", Message: "username is required"}})
	})
	app.Get("/missing", func(*fiber.Ctx) error {
		return apperr.NotFound(apperr.CodeAccountNotFound, "no account")
	})
	app.Get("/internal", func(*fiber.Ctx) error {
		return apperr.Internal(errors.New("pq: password authentication failed"))
	})
	app.Get("/foreign", func(*fiber.Ctx) error {
		return errors.New("nil map write")
	})
	app.Get("/fiber", func(*fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTooManyRequests, "slow down")
	})

	cases := []struct {
		path   string
		status int
		code   string
		fields int
	}{
		{"/validation", 400, apperr.CodeValidationFailed, 1},
		{"/missing", 404, apperr.CodeAccountNotFound, 0},
		{"/internal", 500, apperr.CodeInternal, 0},
		{"/foreign", 500, apperr.CodeInternal, 0},
		{"/fiber", 429, "TOO_MANY_REQUESTS", 0},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			var body errorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.StatusCode != tc.status {
				t.Fatalf("expected status %d got %d", tc.status, resp.StatusCode)
			}
			if body.Code != tc.code {
				t.Fatalf("expected code %s got %s", tc.code, body.Code)
			}
			if len(body.Errors) != tc.fields {
				t.Fatalf("expected %d field errors got %d", tc.fields, len(body.Errors))
			}
			if tc.status == 500 && body.Message != apperr.GenericMessage {
				t.Fatalf("internal detail leaked: %q", body.Message)
			}
		})
	}

	if !strings.Contains(logs.String(), "pq: password authentication failed") {
		t.Fatalf("expected internal cause in logs, got %s", logs.String())
	}
	if n := strings.Count(logs.String(), "request failed"); n != 2 {
		t.Fatalf("expected 2 logged failures, got %d", n)
	}
}
