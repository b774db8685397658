package server

import (
	"ripple/internal/middleware"
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}
	if req.Content == "" {
		return fail(c, models.NewValidationError("Content is required"))
	}

	if _, err := s.postRepo.GetByID(c.Context(), postID); err != nil {
		return fail(c, err)
	}

	comment := &models.Comment{
		Content: req.Content,
		UserID:  identity.UserID,
		PostID:  postID,
	}
	if err := s.commentRepo.Create(c.Context(), comment); err != nil {
		return fail(c, err)
	}

	comment, err = s.commentRepo.GetByID(c.Context(), comment.ID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	p := parsePagination(c, 50)

	if _, err := s.postRepo.GetByID(c.Context(), postID); err != nil {
		return fail(c, err)
	}

	comments, err := s.commentRepo.GetByPostID(c.Context(), postID, p.Limit, p.Offset)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(comments)
}

// DeleteComment handles DELETE /api/posts/:id/comments/:commentId. The
// comment author or the post owner may delete.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	commentID, err := parseIDParam(c, "commentId")
	if err != nil {
		return fail(c, err)
	}

	comment, err := s.commentRepo.GetByID(c.Context(), commentID)
	if err != nil {
		return fail(c, err)
	}
	if comment.PostID != postID {
		return fail(c, models.NewNotFoundError("Comment", commentID))
	}

	if comment.UserID != identity.UserID {
		post, postErr := s.postRepo.GetByID(c.Context(), postID)
		if postErr != nil {
			return fail(c, postErr)
		}
		if post.UserID != identity.UserID {
			return fail(c, models.NewForbiddenError("You can only delete your own comments"))
		}
	}

	if err := s.commentRepo.Delete(c.Context(), commentID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
