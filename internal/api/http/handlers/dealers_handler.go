package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samueladole/crovio/internal/api/dto"
	"github.com/samueladole/crovio/internal/service"
	apperrors "github.com/samueladole/crovio/pkg/util/errorutil"
)

// DealersHandler serves the admin dealer directory.
type DealersHandler struct {
	service *service.DealerService
}

// NewDealersHandler constructs handler.
func NewDealersHandler(dealerService *service.DealerService) *DealersHandler {
	return &DealersHandler{service: dealerService}
}

// List GET /dealers.
func (h *DealersHandler) List(c *fiber.Ctx) error {
	var q dto.Pagination
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewBadRequest("invalid query")
	}
	if err := q.Validate(); err != nil {
		return dto.ValidationError(err)
	}

	dealers, err := h.service.List(c.UserContext(), q.Limit, q.Offset)
	if err != nil {
		return err
	}
	items := make([]dto.DealerResponse, 0, len(dealers))
	for _, d := range dealers {
		items = append(items, dto.NewDealerResponse(d))
	}
	return c.JSON(fiber.Map{"data": items})
}
