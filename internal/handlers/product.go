// internal/handlers/product.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/slayk/storefront-admin/internal/i18n"
	"github.com/slayk/storefront-admin/internal/services"
	"github.com/slayk/storefront-admin/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	storageService *services.StorageService
}

func NewProductHandler(productService *services.ProductService, storageService *services.StorageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storageService: storageService,
	}
}

type stockUpdateRequest struct {
	StockQuantity *int `json:"stock_quantity" validate:"required"`
}

// GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	params, err := utils.GetListParams(c)
	if err != nil {
		utils.PaginationErrorResponse(c)
		return
	}

	filter := services.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), filter, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.ListResponse(c, utils.NewListResult(products, total, params))
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// GET /products/slug/:slug
func (h *ProductHandler) GetProductBySlug(c *gin.Context) {
	product, err := h.productService.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		h.respondProductError(c, err)
		return
	}

	utils.CreatedResponse(c, product)
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req services.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.respondProductError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, i18n.KeyProductDeleted)
}

// PATCH /products/:id/stock
//
// The quantity comes from ?stock_quantity= or, failing that, a JSON body.
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var quantity int
	if raw := c.Query("stock_quantity"); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "stock_quantity"), nil)
			return
		}
		quantity = q
	} else {
		var req stockUpdateRequest
		if !bindJSON(c, &req) {
			return
		}
		quantity = *req.StockQuantity
	}

	level, err := h.productService.SetStock(c.Request.Context(), c.Param("id"), quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, level)
}

// POST /products/upload-images
func (h *ProductHandler) UploadImages(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadNoFiles), err.Error())
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		files = form.File["files"]
	}
	if len(files) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadNoFiles), nil)
		return
	}

	results, err := h.storageService.UploadProductImages(c.Request.Context(), files)
	if err != nil {
		respondError(c, err)
		return
	}

	urls := make([]string, 0, len(results))
	for _, r := range results {
		urls = append(urls, r.URL)
	}

	utils.CreatedResponse(c, gin.H{
		"images": results,
		"urls":   urls,
	})
}

func (h *ProductHandler) respondProductError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrSlugExists) {
		utils.ConflictResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyProductSlugExists))
		return
	}
	respondError(c, err)
}
