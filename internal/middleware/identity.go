package middleware

import (
	"context"
	"log/slog"
	"strings"

	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "ripple_session"

const (
	identityKey = "identity"
	tokenKey    = "sessionToken"
)

// SessionResolver resolves a session token into a caller identity.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (models.Identity, error)
}

// ResolveIdentity resolves the caller identity exactly once per request
// and stores it in locals for every downstream handler. Resolution fails
// only when the session store itself is unreachable; an unknown or
// missing token is simply anonymous.
func ResolveIdentity(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromCtx(c)
		id, err := resolver.ResolveSession(c.Context(), token)
		if err != nil {
			appErr := models.AsAppError(err)
			if appErr.Code == models.CodeStoreUnavailable {
				Logger.Error("session store unavailable", slog.String("error", err.Error()))
			}
			return models.RespondWithError(c, err)
		}
		SetIdentity(c, id, token)
		return c.Next()
	}
}

// TokenFromCtx extracts the session token from the Authorization header
// ("Bearer <token>") or the session cookie.
func TokenFromCtx(c *fiber.Ctx) string {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return c.Cookies(SessionCookie)
}

// IdentityFromCtx returns the identity resolved for this request, or the
// anonymous identity if resolution has not run.
func IdentityFromCtx(c *fiber.Ctx) models.Identity {
	if id, ok := c.Locals(identityKey).(models.Identity); ok {
		return id
	}
	return models.Anonymous()
}

// SetIdentity stores the resolved identity and token in request locals.
// Exposed for handler tests.
func SetIdentity(c *fiber.Ctx, id models.Identity, token string) {
	c.Locals(identityKey, id)
	c.Locals(tokenKey, token)
}

// SessionTokenFromCtx returns the raw session token for this request.
func SessionTokenFromCtx(c *fiber.Ctx) string {
	if token, ok := c.Locals(tokenKey).(string); ok {
		return token
	}
	return ""
}

// RequireUser rejects requests whose identity is not an authenticated
// user. Guests are read-only and fail here too.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := IdentityFromCtx(c)
		if !id.IsUser() {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Please log in"))
		}
		return c.Next()
	}
}

// AllowGuest admits authenticated users and guests; anonymous callers are
// rejected. Only read paths should use this.
func AllowGuest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := IdentityFromCtx(c)
		if !id.CanRead() {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Please log in or continue as guest"))
		}
		return c.Next()
	}
}
