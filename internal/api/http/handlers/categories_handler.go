package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/resolvepro/complaint-service/internal/api/dto"
	"github.com/resolvepro/complaint-service/internal/service"
	"github.com/resolvepro/complaint-service/pkg/util/response"
)

// CategoriesHandler lists complaint categories.
type CategoriesHandler struct {
	categories *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categories *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{categories: categories}
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	categories, err := h.categories.List(c.UserContext())
	if err != nil {
		return err
	}
	return response.OK(c, "categories retrieved", dto.NewCategoryResponses(categories))
}
