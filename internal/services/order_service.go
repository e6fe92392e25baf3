// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/slayk/storefront-admin/internal/config"
	"github.com/slayk/storefront-admin/internal/models"
	"github.com/slayk/storefront-admin/internal/utils"
)

// OrderNotifier is told about every committed order.
type OrderNotifier interface {
	SendOrderConfirmation(order *models.Order) error
}

type OrderService struct {
	db       *gorm.DB
	cfg      config.OrderConfig
	notifier OrderNotifier
}

type OrderItemRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	ProductName   string          `json:"product_name" validate:"max=255"`
	ProductImage  string          `json:"product_image"`
	Quantity      int             `json:"quantity" validate:"min=1"`
	Price         decimal.Decimal `json:"price"`
	SelectedSize  *string         `json:"selected_size" validate:"omitempty,max=100"`
	SelectedColor *string         `json:"selected_color" validate:"omitempty,max=100"`
}

// CreateOrderRequest is the cart as submitted by the storefront. Totals are
// taken as given.
type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" validate:"dive"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method" validate:"required,max=50"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	Shipping        decimal.Decimal        `json:"shipping"`
	Total           decimal.Decimal        `json:"total"`
}

type UpdateOrderRequest struct {
	Status         *models.OrderStatus `json:"status" validate:"omitnil,min=1,max=32"`
	TrackingNumber *string             `json:"tracking_number" validate:"omitempty,max=100"`
}

type ReconcileResult struct {
	Order *models.Order `json:"order"`
	// Applied lists product ids whose decrement was applied by this call.
	Applied []string `json:"applied"`
	// Unapplied lists product ids that are still missing.
	Unapplied []string `json:"unapplied"`
}

func NewOrderService(db *gorm.DB, cfg config.OrderConfig, notifier OrderNotifier) *OrderService {
	return &OrderService{
		db:       db,
		cfg:      cfg,
		notifier: notifier,
	}
}

func (s *OrderService) newOrderNumber() string {
	return s.cfg.NumberPrefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}

// CreateOrder persists the order and decrements stock for each line item in
// one transaction. Under the strict policy a line item that cannot be applied
// aborts the whole order; otherwise the item is left unapplied and reported
// in UnappliedItems.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	order := &models.Order{
		OrderNumber:     s.newOrderNumber(),
		Items:           make([]models.OrderItem, 0, len(req.Items)),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        req.Subtotal,
		Shipping:        req.Shipping,
		Total:           req.Total,
		Status:          models.OrderStatusPending,
	}
	for i, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			Position:      i,
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			ProductImage:  item.ProductImage,
			Quantity:      item.Quantity,
			Price:         item.Price,
			SelectedSize:  item.SelectedSize,
			SelectedColor: item.SelectedColor,
		})
	}

	strict := s.cfg.StockPolicy == config.StockPolicyStrict
	var unapplied []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range order.Items {
			item := &order.Items[i]

			if strict {
				if err := applyLineItem(tx, item); err != nil {
					return err
				}
				continue
			}

			applied, err := applyLineItemBestEffort(tx, item, i)
			if err != nil {
				return err
			}
			if !applied {
				unapplied = append(unapplied, item.ProductID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.UnappliedItems = unapplied
	if len(unapplied) > 0 {
		logrus.WithFields(logrus.Fields{
			"order_number": order.OrderNumber,
			"products":     unapplied,
		}).Warn("Order placed with unapplied stock decrements")
	}

	if s.notifier != nil {
		confirmed := *order
		go func() {
			if err := s.notifier.SendOrderConfirmation(&confirmed); err != nil {
				logrus.WithError(err).WithField("order_number", confirmed.OrderNumber).
					Error("Failed to send order confirmation")
			}
		}()
	}

	return order, nil
}

// applyLineItem decrements the product's stock and marks the item applied.
// A missing product yields a LineItemError wrapping ErrLineItemUnavailable.
func applyLineItem(tx *gorm.DB, item *models.OrderItem) error {
	result := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).Updates(map[string]interface{}{
		"stock_quantity": gorm.Expr("stock_quantity - ?", item.Quantity),
		"in_stock":       gorm.Expr("stock_quantity - ? > 0", item.Quantity),
		"updated_at":     tx.NowFunc(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to decrement stock for %s: %w", item.ProductID, result.Error)
	}
	if result.RowsAffected == 0 {
		return &LineItemError{ProductID: item.ProductID, Err: ErrLineItemUnavailable}
	}

	if err := tx.Model(&models.OrderItem{}).Where("id = ?", item.ID).
		UpdateColumn("stock_applied", true).Error; err != nil {
		return fmt.Errorf("failed to mark line item: %w", err)
	}
	item.StockApplied = true
	return nil
}

// applyLineItemBestEffort runs applyLineItem behind a savepoint. A failure is
// rolled back to the savepoint and reported as not applied; only a failure to
// manage the savepoint itself is returned.
func applyLineItemBestEffort(tx *gorm.DB, item *models.OrderItem, position int) (bool, error) {
	savepoint := fmt.Sprintf("line_item_%d", position)
	if err := tx.SavePoint(savepoint).Error; err != nil {
		return false, fmt.Errorf("failed to create savepoint: %w", err)
	}

	err := applyLineItem(tx, item)
	if err == nil {
		return true, nil
	}

	if rbErr := tx.RollbackTo(savepoint).Error; rbErr != nil {
		return false, fmt.Errorf("failed to roll back line item: %w", rbErr)
	}
	item.StockApplied = false
	logrus.WithError(err).WithFields(logrus.Fields{
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	}).Warn("Skipping stock decrement for line item")
	return false, nil
}

// ReconcileStock applies the decrement for every line item of the order that
// is still unapplied. Items already applied are never touched again.
func (s *OrderService) ReconcileStock(ctx context.Context, id string) (*ReconcileResult, error) {
	result := &ReconcileResult{Applied: []string{}, Unapplied: []string{}}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := findOrder(tx, id)
		if err != nil {
			return err
		}

		for i := range order.Items {
			item := &order.Items[i]
			if item.StockApplied {
				continue
			}

			savepoint := fmt.Sprintf("reconcile_%d", i)
			if err := tx.SavePoint(savepoint).Error; err != nil {
				return fmt.Errorf("failed to create savepoint: %w", err)
			}

			// Claim the item first so a concurrent reconcile cannot apply it twice.
			claim := tx.Model(&models.OrderItem{}).
				Where("id = ? AND stock_applied = ?", item.ID, false).
				UpdateColumn("stock_applied", true)
			if claim.Error != nil {
				return fmt.Errorf("failed to claim line item: %w", claim.Error)
			}
			if claim.RowsAffected == 0 {
				item.StockApplied = true
				continue
			}

			if err := applyLineItem(tx, item); err != nil {
				if rbErr := tx.RollbackTo(savepoint).Error; rbErr != nil {
					return fmt.Errorf("failed to roll back line item: %w", rbErr)
				}
				item.StockApplied = false
				result.Unapplied = append(result.Unapplied, item.ProductID)
				continue
			}
			result.Applied = append(result.Applied, item.ProductID)
		}

		result.Order = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.Applied) > 0 {
		logrus.WithFields(logrus.Fields{
			"order_number": result.Order.OrderNumber,
			"products":     result.Applied,
		}).Info("Reconciled order stock")
	}
	return result, nil
}

func (s *OrderService) ListOrders(ctx context.Context, status string, params utils.ListParams) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	orders := []models.Order{}
	err := params.Apply(query.Preload("Items", orderItemsByPosition).
		Order("created_at DESC").Order("id DESC")).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}
	for i := range orders {
		ensureItems(&orders[i])
	}

	return orders, total, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return findOrder(s.db.WithContext(ctx), id)
}

func (s *OrderService) UpdateOrder(ctx context.Context, id string, req *UpdateOrderRequest) (*models.Order, error) {
	db := s.db.WithContext(ctx)

	updates := map[string]interface{}{"updated_at": db.NowFunc()}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.TrackingNumber != nil {
		updates["tracking_number"] = *req.TrackingNumber
	}

	result := db.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrOrderNotFound
	}

	return findOrder(db, id)
}

// DeleteOrder removes the order and its items. Stock is not restored.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		result := tx.Delete(&models.Order{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
}

func findOrder(db *gorm.DB, id string) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items", orderItemsByPosition).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	ensureItems(&order)
	return &order, nil
}

func orderItemsByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// ensureItems keeps an order without line items serializing as [].
func ensureItems(order *models.Order) {
	if order.Items == nil {
		order.Items = []models.OrderItem{}
	}
}
