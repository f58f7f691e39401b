package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/pkg/jwt"
)

const (
	LocalPersonID = "person_id"
	LocalSubject  = "subject"
)

type (
	// SessionChecker reports whether a token's session was signed out after it was issued.
	SessionChecker interface {
		Active(ctx context.Context, sub jwt.Subject) (bool, error)
	}

	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
	}

	middleware struct {
		allowOrigins string
		sessions     SessionChecker
	}
)

func NewMiddleware(allowOrigins string, sessions SessionChecker) Middleware {
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	return &middleware{
		allowOrigins: allowOrigins,
		sessions:     sessions,
	}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: m.allowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	})
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return unauthorized(c, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		sub, err := jwtService.GetSubjectByToken(strings.TrimSpace(token))
		if err != nil {
			return unauthorized(c, domain.MessageFailedTokenInvalid, err)
		}
		if m.sessions != nil {
			active, err := m.sessions.Active(c.UserContext(), sub)
			if err != nil {
				return unauthorized(c, domain.MessageFailedTokenInvalid, err)
			}
			if !active {
				return unauthorized(c, domain.MessageFailedTokenInvalid, domain.ErrTokenInvalid)
			}
		}

		c.Locals(LocalPersonID, sub.PersonID)
		c.Locals(LocalSubject, sub)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"result":  domain.ResultPermissionDeny,
		"message": message + ": " + err.Error(),
	})
}
