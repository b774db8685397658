package server

import (
	"ripple/internal/middleware"
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}
	if req.Title == "" || req.Content == "" {
		return fail(c, models.NewValidationError("Title and content are required"))
	}

	post := &models.Post{
		Title:   req.Title,
		Content: req.Content,
		UserID:  identity.UserID,
	}
	if err := s.postRepo.Create(c.Context(), post); err != nil {
		return fail(c, err)
	}

	post, err := s.postRepo.GetByID(c.Context(), post.ID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	posts, err := s.postRepo.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	post, err := s.postRepo.GetByID(c.Context(), postID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id. Only the owner may delete.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	post, err := s.postRepo.GetByID(c.Context(), postID)
	if err != nil {
		return fail(c, err)
	}
	if post.UserID != identity.UserID {
		return fail(c, models.NewForbiddenError("You can only delete your own posts"))
	}

	if err := s.postRepo.Delete(c.Context(), postID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if _, err := s.postRepo.GetByID(c.Context(), postID); err != nil {
		return fail(c, err)
	}

	if err := s.postRepo.Like(c.Context(), identity.UserID, postID); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Post liked"})
}

// UnlikePost handles DELETE /api/posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := s.postRepo.Unlike(c.Context(), identity.UserID, postID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post unliked"})
}
