package server

import (
	"ripple/internal/middleware"
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// getOrCreateProfile returns the user's profile, creating a default one
// on first view for accounts that predate profiles.
func (s *Server) getOrCreateProfile(c *fiber.Ctx, userID uint) (*models.Profile, error) {
	profile, err := s.userRepo.GetProfile(c.Context(), userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	profile = &models.Profile{UserID: userID}
	if err := s.userRepo.CreateProfile(c.Context(), profile); err != nil {
		// A concurrent first view may have created it already.
		if models.AsAppError(err).Code == models.CodeConflict {
			return s.userRepo.GetProfile(c.Context(), userID)
		}
		return nil, err
	}
	return profile, nil
}

// GetMyProfile handles GET /api/profile
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)

	user, err := s.userRepo.GetByID(c.Context(), identity.UserID)
	if err != nil {
		return fail(c, err)
	}

	profile, err := s.getOrCreateProfile(c, identity.UserID)
	if err != nil {
		return fail(c, err)
	}
	user.Profile = profile

	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/profile
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)

	var req struct {
		Bio       *string `json:"bio"`
		Location  *string `json:"location"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	profile, err := s.getOrCreateProfile(c, identity.UserID)
	if err != nil {
		return fail(c, err)
	}

	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Location != nil {
		profile.Location = *req.Location
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}

	if err := s.userRepo.UpdateProfile(c.Context(), profile); err != nil {
		return fail(c, err)
	}

	return c.JSON(profile)
}

// GetAllUsers handles GET /api/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	users, err := s.userRepo.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	if user.Profile == nil {
		profile, profErr := s.getOrCreateProfile(c, userID)
		if profErr != nil {
			return fail(c, profErr)
		}
		user.Profile = profile
	}

	return c.JSON(user)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	p := parsePagination(c, 20)

	posts, err := s.postRepo.GetByUserID(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(posts)
}
