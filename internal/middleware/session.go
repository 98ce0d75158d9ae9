package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// SessionCookie names the cookie carrying the anonymous visitor id.
const SessionCookie = "studyloop_sid"

const (
	sessionLocal  = "sessionID"
	sessionMaxAge = 365 * 24 * time.Hour
)

// NewSession returns a middleware that gives every visitor a stable opaque
// session id. A missing or malformed cookie is replaced with a fresh UUID.
// The id scopes votes and reports; it is never an identity.
func NewSession(secure bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		sid := c.Cookies(SessionCookie)
		if _, err := uuid.Parse(sid); err != nil || sid == "" {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    sid,
				Path:     "/",
				Expires:  time.Now().Add(sessionMaxAge),
				HTTPOnly: true,
				Secure:   secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(sessionLocal, sid)
		return c.Next()
	}
}

// SessionID returns the visitor's session id, or "" outside NewSession.
func SessionID(c fiber.Ctx) string {
	sid, _ := c.Locals(sessionLocal).(string)
	return sid
}
