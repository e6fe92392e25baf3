// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/slayk/storefront-admin/internal/i18n"
	"github.com/slayk/storefront-admin/internal/services"
	"github.com/slayk/storefront-admin/internal/utils"
)

type OrderHandler struct {
	orderService   *services.OrderService
	paymentService *services.PaymentService
}

func NewOrderHandler(orderService *services.OrderService, paymentService *services.PaymentService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		paymentService: paymentService,
	}
}

// GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	params, err := utils.GetListParams(c)
	if err != nil {
		utils.PaginationErrorResponse(c)
		return
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), c.Query("status"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.ListResponse(c, utils.NewListResult(orders, total, params))
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}

// POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, order)
}

// PUT /orders/:id
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req services.UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}

// DELETE /orders/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, i18n.KeyOrderDeleted)
}

// POST /orders/:id/reconcile-stock
func (h *OrderHandler) ReconcileStock(c *gin.Context) {
	result, err := h.orderService.ReconcileStock(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// POST /orders/:id/payment-intent
func (h *OrderHandler) CreatePaymentIntent(c *gin.Context) {
	intent, err := h.paymentService.CreatePaymentIntent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, intent)
}
