package server

import (
	"ripple/internal/middleware"
	"ripple/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// SendFollowRequest handles POST /api/follows/:userId
func (s *Server) SendFollowRequest(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)
	targetUserID, err := parseIDParam(c, "userId")
	if err != nil {
		return fail(c, err)
	}

	follow, err := s.followService.RequestFollow(c.Context(), identity.UserID, targetUserID)
	if err != nil {
		return fail(c, err)
	}

	observability.FollowTransitions.WithLabelValues("requested").Inc()
	return c.Status(fiber.StatusCreated).JSON(follow)
}

// GetPendingRequests handles GET /api/follows/requests
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)

	requests, err := s.followService.ListPending(c.Context(), identity.UserID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(requests)
}

// AcceptFollowRequest handles POST /api/follows/requests/:followId/accept
func (s *Server) AcceptFollowRequest(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)
	followID, err := parseIDParam(c, "followId")
	if err != nil {
		return fail(c, err)
	}

	follow, err := s.followService.AcceptFollow(c.Context(), identity.UserID, followID)
	if err != nil {
		return fail(c, err)
	}

	observability.FollowTransitions.WithLabelValues("accepted").Inc()
	return c.JSON(follow)
}

// RejectFollowRequest handles POST /api/follows/requests/:followId/reject
func (s *Server) RejectFollowRequest(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)
	followID, err := parseIDParam(c, "followId")
	if err != nil {
		return fail(c, err)
	}

	if err := s.followService.RejectFollow(c.Context(), identity.UserID, followID); err != nil {
		return fail(c, err)
	}

	observability.FollowTransitions.WithLabelValues("rejected").Inc()
	return c.JSON(fiber.Map{"message": "Follow request rejected"})
}

// Unfollow handles DELETE /api/follows/:userId. Works on pending edges
// (withdrawing a request) and accepted edges alike.
func (s *Server) Unfollow(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)
	targetUserID, err := parseIDParam(c, "userId")
	if err != nil {
		return fail(c, err)
	}

	if err := s.followService.Unfollow(c.Context(), identity.UserID, targetUserID); err != nil {
		return fail(c, err)
	}

	observability.FollowTransitions.WithLabelValues("unfollowed").Inc()
	return c.JSON(fiber.Map{"message": "Unfollowed user successfully"})
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	followers, err := s.followService.ListFollowers(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(followers)
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	following, err := s.followService.ListFollowing(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(following)
}
