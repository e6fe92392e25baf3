// internal/handlers/category.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/slayk/storefront-admin/internal/i18n"
	"github.com/slayk/storefront-admin/internal/services"
	"github.com/slayk/storefront-admin/internal/utils"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// GET /categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, categories)
}

// GET /categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.categoryService.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, category)
}

// POST /categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrSlugExists) {
			utils.ConflictResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyCategorySlugExists))
			return
		}
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, category)
}

// POST /categories/recount
func (h *CategoryHandler) RecountCategories(c *gin.Context) {
	categories, err := h.categoryService.RecountCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, categories)
}

// DELETE /categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.categoryService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, i18n.KeyCategoryDeleted)
}
