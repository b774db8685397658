package server

import (
	"ripple/internal/middleware"
	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// setSessionCookie attaches the opaque session token to the response.
func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		HTTPOnly: true,
		Secure:   s.config.Env == "production" || s.config.Env == "prod",
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   int(s.config.SessionTTL.Seconds()),
	})
}

// clearSessionCookie instructs the client to discard the session token.
func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		HTTPOnly: true,
		MaxAge:   -1,
	})
}

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	// Validate input
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fail(c, models.NewValidationError("Username, email, and password are required"))
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return fail(c, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return fail(c, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return fail(c, models.NewValidationError(err.Error()))
	}

	user, err := s.authService.RegisterLocal(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		observability.AuthAttempts.WithLabelValues("signup", "failure").Inc()
		return fail(c, err)
	}

	// Auto-login after registration
	token, err := s.authService.EstablishSession(c.Context(), user.ID)
	if err != nil {
		return fail(c, err)
	}
	s.setSessionCookie(c, token)

	observability.AuthAttempts.WithLabelValues("signup", "success").Inc()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.AuthenticateLocal(c.Context(), req.Username, req.Password)
	if err != nil {
		observability.AuthAttempts.WithLabelValues("local", "failure").Inc()
		return fail(c, err)
	}

	token, err := s.authService.EstablishSession(c.Context(), user.ID)
	if err != nil {
		return fail(c, err)
	}
	s.setSessionCookie(c, token)

	observability.AuthAttempts.WithLabelValues("local", "success").Inc()
	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /api/auth/logout. Logging out twice is fine.
func (s *Server) Logout(c *fiber.Ctx) error {
	token := middleware.SessionTokenFromCtx(c)
	if err := s.authService.EndSession(c.Context(), token); err != nil {
		return fail(c, err)
	}
	s.clearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// GuestLogin handles POST /api/auth/guest. Guests get a session flagged
// for read-only browsing; nothing is persisted to the user table.
func (s *Server) GuestLogin(c *fiber.Ctx) error {
	token, err := s.authService.EstablishGuestSession(c.Context())
	if err != nil {
		return fail(c, err)
	}
	s.setSessionCookie(c, token)

	observability.AuthAttempts.WithLabelValues("guest", "success").Inc()
	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"username": "Guest User",
			"is_guest": true,
		},
	})
}

// GetFlashes handles GET /api/auth/flashes, returning and clearing the
// session's one-shot messages.
func (s *Server) GetFlashes(c *fiber.Ctx) error {
	token := middleware.SessionTokenFromCtx(c)
	flashes, err := s.authService.PopFlashes(c.Context(), token)
	if err != nil {
		return fail(c, err)
	}
	if flashes == nil {
		flashes = []string{}
	}
	return c.JSON(fiber.Map{"flashes": flashes})
}

// ExternalCallback handles GET /api/auth/:provider/callback. The verifier
// owns the provider exchange; this handler only consumes the asserted
// identity and binds a session.
func (s *Server) ExternalCallback(c *fiber.Ctx) error {
	provider := c.Params("provider")
	code := c.Query("code")
	if code == "" {
		return fail(c, models.NewValidationError("Missing authorization code"))
	}

	ext, err := s.verifier.Verify(c.Context(), provider, code)
	if err != nil {
		observability.AuthAttempts.WithLabelValues(provider, "failure").Inc()
		return fail(c, models.NewExternalIdentityError("Provider exchange failed"))
	}
	ext.Provider = provider

	user, err := s.authService.AuthenticateExternal(c.Context(), ext)
	if err != nil {
		observability.AuthAttempts.WithLabelValues(provider, "failure").Inc()
		return fail(c, err)
	}

	token, err := s.authService.EstablishSession(c.Context(), user.ID)
	if err != nil {
		return fail(c, err)
	}
	s.setSessionCookie(c, token)

	observability.AuthAttempts.WithLabelValues(provider, "success").Inc()
	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}
