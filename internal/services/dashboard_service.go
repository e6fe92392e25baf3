package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/slayk/storefront-admin/internal/models"
)

const recentOrdersLimit = 5

type DashboardService struct {
	db *gorm.DB
}

type DashboardStats struct {
	TotalProducts    int64           `json:"total_products"`
	TotalOrders      int64           `json:"total_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	PendingOrders    int64           `json:"pending_orders"`
	LowStockProducts int64           `json:"low_stock_products"`
	RecentOrders     []models.Order  `json:"recent_orders"`
}

type InventoryItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stock_quantity"`
	InStock       bool            `json:"in_stock"`
	Image         string          `json:"image"`
	Price         decimal.Decimal `json:"price"`
}

type InventorySummary struct {
	Total           int `json:"total"`
	OutOfStockCount int `json:"out_of_stock_count"`
	LowStockCount   int `json:"low_stock_count"`
	InStockCount    int `json:"in_stock_count"`
}

type InventoryStatus struct {
	OutOfStock []InventoryItem  `json:"out_of_stock"`
	LowStock   []InventoryItem  `json:"low_stock"`
	InStock    []InventoryItem  `json:"in_stock"`
	Summary    InventorySummary `json:"summary"`
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{}

	if err := db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := db.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}
	if err := db.Model(&models.Product{}).Where("stock_quantity < ?", models.LowStockThreshold).
		Count(&stats.LowStockProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count low stock products: %w", err)
	}

	revenue, err := s.revenue(db)
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = revenue

	stats.RecentOrders = []models.Order{}
	if err := db.Preload("Items", orderItemsByPosition).
		Order("created_at DESC").Order("id DESC").
		Limit(recentOrdersLimit).Find(&stats.RecentOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent orders: %w", err)
	}
	for i := range stats.RecentOrders {
		ensureItems(&stats.RecentOrders[i])
	}

	return stats, nil
}

// revenue sums order totals over the revenue statuses.
func (s *DashboardService) revenue(db *gorm.DB) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	row := db.Model(&models.Order{}).
		Select("SUM(total)").
		Where("status IN ?", models.RevenueStatuses).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Inventory partitions every product by stock level, lowest stock first.
func (s *DashboardService) Inventory(ctx context.Context) (*InventoryStatus, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).
		Select("id", "name", "slug", "category", "stock_quantity", "in_stock", "image", "price").
		Order("stock_quantity ASC").Order("name ASC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}

	status := &InventoryStatus{
		OutOfStock: []InventoryItem{},
		LowStock:   []InventoryItem{},
		InStock:    []InventoryItem{},
	}
	for _, p := range products {
		item := InventoryItem{
			ID:            p.ID,
			Name:          p.Name,
			Slug:          p.Slug,
			Category:      p.Category,
			StockQuantity: p.StockQuantity,
			InStock:       p.InStock,
			Image:         p.Image,
			Price:         p.Price,
		}
		switch {
		case p.StockQuantity <= 0:
			status.OutOfStock = append(status.OutOfStock, item)
		case p.StockQuantity < models.LowStockThreshold:
			status.LowStock = append(status.LowStock, item)
		default:
			status.InStock = append(status.InStock, item)
		}
	}

	status.Summary = InventorySummary{
		Total:           len(products),
		OutOfStockCount: len(status.OutOfStock),
		LowStockCount:   len(status.LowStock),
		InStockCount:    len(status.InStock),
	}
	return status, nil
}
