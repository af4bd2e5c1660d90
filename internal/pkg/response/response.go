package response

import "github.com/gofiber/fiber/v3"

// Envelope is the JSON shape every endpoint answers with.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Errors  any    `json:"errors,omitempty"`
	Error   string `json:"error,omitempty"`
}

const (
	MessageOK                  = "ok"
	MessageBadRequest          = "Bad request"
	MessageUnauthorized        = "Unauthorized"
	MessageForbidden           = "Forbidden"
	MessageNotFound            = "Not found"
	MessageConflict            = "Conflict"
	MessageTooManyRequests     = "Too many requests from this IP, please try again later."
	MessageInternalServerError = "Internal server error"
	MessageError               = "Error"
)

func Success(c fiber.Ctx, status int, message string, data any) error {
	st := normalizeStatus(status)
	return c.Status(st).JSON(Envelope{Success: true, Message: message, Data: data})
}

// List answers with data plus the number of items it holds.
func List(c fiber.Ctx, data any, count int) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Data: data, Count: &count})
}

func Error(c fiber.Ctx, status int, message string, errs any) error {
	st := normalizeStatus(status)
	return c.Status(st).JSON(Envelope{Success: false, Message: normalizeMessage(message, st), Errors: errs})
}

// ErrorWithDetail adds the underlying error text; only used outside production.
func ErrorWithDetail(c fiber.Ctx, status int, message string, errs any, detail string) error {
	st := normalizeStatus(status)
	return c.Status(st).JSON(Envelope{Success: false, Message: normalizeMessage(message, st), Errors: errs, Error: detail})
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func normalizeMessage(message string, status int) string {
	if message != "" {
		return message
	}
	return defaultMessageForStatus(status)
}

func defaultMessageForStatus(status int) string {
	switch status {
	case fiber.StatusOK:
		return MessageOK
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusUnauthorized:
		return MessageUnauthorized
	case fiber.StatusForbidden:
		return MessageForbidden
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusConflict:
		return MessageConflict
	case fiber.StatusTooManyRequests:
		return MessageTooManyRequests
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return MessageError
	}
}
