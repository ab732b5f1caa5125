package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samueladole/crovio/internal/api/dto"
	"github.com/samueladole/crovio/internal/auth"
	"github.com/samueladole/crovio/internal/service"
	apperrors "github.com/samueladole/crovio/pkg/util/errorutil"
)

// CommentsHandler manages replies on community posts.
type CommentsHandler struct {
	service *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{service: commentService}
}

// List GET /community/posts/:id/comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	var q dto.Pagination
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewBadRequest("invalid query")
	}
	if err := q.Validate(); err != nil {
		return dto.ValidationError(err)
	}

	comments, err := h.service.List(c.UserContext(), c.Params("id"), q.Limit, q.Offset)
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, dto.NewCommentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create POST /community/posts/:id/comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return auth.ErrUnauthenticated
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if err := req.Validate(); err != nil {
		return dto.ValidationError(err)
	}

	comment, err := h.service.Create(c.UserContext(), subject, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// Delete DELETE /community/comments/:id.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return auth.ErrUnauthenticated
	}
	if err := h.service.Delete(c.UserContext(), subject, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
