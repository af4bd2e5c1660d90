package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

type AccessLogMiddleware struct {
	logger *log.Logger
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger}
}

// Middleware must run outside the error middleware so the logged status is
// the one the client received.
func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)

		err := c.Next()

		dur := time.Since(start)
		status := c.Response().StatusCode()

		ip := c.IP()
		method := c.Method()
		path := c.OriginalURL()

		ua := c.Get("User-Agent")
		uid := ""
		if id, ok := UserIDFrom(c); ok {
			uid = id.String()
		}

		reqBytes := c.Request().Header.ContentLength()
		respBytes := len(c.Response().Body())

		if m != nil && m.logger != nil {
			m.logger.Printf(
				"HTTP access | rid=%s ip=%s method=%s path=%s status=%d latency=%s user=%s req_bytes=%d resp_bytes=%d ua=%q",
				rid, ip, method, path, status, dur, uid, reqBytes, respBytes, ua,
			)
		}

		return err
	}
}
