package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samueladole/crovio/internal/api/dto"
	"github.com/samueladole/crovio/internal/auth"
	"github.com/samueladole/crovio/internal/service"
	apperrors "github.com/samueladole/crovio/pkg/util/errorutil"
)

// PostsHandler manages community post endpoints.
type PostsHandler struct {
	service *service.PostService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(postService *service.PostService) *PostsHandler {
	return &PostsHandler{service: postService}
}

// List GET /community/posts.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	var q dto.PostListQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewBadRequest("invalid query")
	}
	if err := q.Pagination.Validate(); err != nil {
		return dto.ValidationError(err)
	}

	posts, err := h.service.List(c.UserContext(), optional(q.Category), q.Limit, q.Offset)
	if err != nil {
		return err
	}
	items := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		items = append(items, dto.NewPostResponse(&posts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /community/posts/:id.
func (h *PostsHandler) Get(c *fiber.Ctx) error {
	post, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPostResponse(post)})
}

// Create POST /community/posts.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return auth.ErrUnauthenticated
	}
	var req dto.PostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if err := req.ValidateCreate(); err != nil {
		return dto.ValidationError(err)
	}

	post, err := h.service.Create(c.UserContext(), subject, req.Input())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewPostResponse(post)})
}

// Update PUT /community/posts/:id.
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return auth.ErrUnauthenticated
	}
	var req dto.PostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if err := req.Validate(); err != nil {
		return dto.ValidationError(err)
	}

	post, err := h.service.Update(c.UserContext(), subject, c.Params("id"), req.Input())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPostResponse(post)})
}

// Delete DELETE /community/posts/:id.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return auth.ErrUnauthenticated
	}
	if err := h.service.Delete(c.UserContext(), subject, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
