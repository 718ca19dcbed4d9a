package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// VisitorCookie carries the signed visitor token.
const VisitorCookie = "uoc_visitor"

const visitorKey = "visitor_id"

// Visitor binds every request to a visitor id. A missing, expired or
// tampered cookie gets a fresh id and a new cookie.
func Visitor(secret string, ttl time.Duration, secure bool, log *zap.SugaredLogger) echo.MiddlewareFunc {
	log = log.Named("visitor")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ck, err := c.Cookie(VisitorCookie); err == nil {
				if id, err := ParseVisitor(secret, ck.Value); err == nil {
					c.Set(visitorKey, id)
					return next(c)
				}
			}

			id := uuid.NewString()
			token, err := SignVisitor(secret, id, ttl)
			if err != nil {
				log.Errorw("issue visitor token", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "could not start session")
			}
			c.SetCookie(&http.Cookie{
				Name:     VisitorCookie,
				Value:    token,
				Path:     "/",
				MaxAge:   int(ttl / time.Second),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(visitorKey, id)
			log.Debugw("new visitor", "visitor", id)
			return next(c)
		}
	}
}

// VisitorID returns the visitor bound to c, or "anon" outside the Visitor
// middleware.
func VisitorID(c echo.Context) string {
	if v, ok := c.Get(visitorKey).(string); ok && v != "" {
		return v
	}
	return "anon"
}
