package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/fireflight/fireflight/internal/core/domain"
)

// Result is the envelope of every response body.
type Result struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
}

// APIError is the data of a failed Result.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // domain error kind or bad_request, internal, ...
	Message   string `json:"message"` // human-readable message
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(Result{OK: true, Data: data})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Result{OK: true, Data: data})
}

// newError builds a failed Result with a request ID.
func newError(c *fiber.Ctx, status int, code, message, detail string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(Result{Data: APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		Detail:    detail,
		RequestID: reqID,
	}})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg, "")
}

// errFrom maps err to a status by its domain kind.
func errFrom(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	status := statusFor(kind)

	msg, detail := err.Error(), ""
	var de *domain.Error
	if errors.As(err, &de) {
		if de.Message != "" {
			msg = de.Message
		}
		detail = de.Detail
	}
	if status >= fiber.StatusInternalServerError {
		LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "kind", kind, "error", err)
	}
	return newError(c, status, string(kind), msg, detail)
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidInput:
		return fiber.StatusBadRequest
	case domain.KindAuth, domain.KindNotAuthenticated:
		return fiber.StatusUnauthorized
	case domain.KindNetwork, domain.KindMalformedResponse, domain.KindUnexpectedStatus:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
