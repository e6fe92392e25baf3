package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/slayk/storefront-admin/internal/models"
)

type DashboardServiceSuite struct {
	serviceSuite
	service *DashboardService
}

func (s *DashboardServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.service = NewDashboardService(s.db)
}

func (s *DashboardServiceSuite) insertOrder(number string, status models.OrderStatus, total int64) {
	order := &models.Order{
		OrderNumber: number,
		Status:      status,
		Subtotal:    decimal.NewFromInt(total),
		Shipping:    decimal.Zero,
		Total:       decimal.NewFromInt(total),
	}
	s.Require().NoError(s.db.Create(order).Error)
	time.Sleep(2 * time.Millisecond)
}

func (s *DashboardServiceSuite) TestStatsRevenueAndPending() {
	s.insertOrder("SLAYK-00000001", models.OrderStatusDelivered, 100)
	s.insertOrder("SLAYK-00000002", models.OrderStatusShipped, 50)
	s.insertOrder("SLAYK-00000003", models.OrderStatusProcessing, 50)
	s.insertOrder("SLAYK-00000004", models.OrderStatusPending, 70)
	s.insertOrder("SLAYK-00000005", models.OrderStatusCancelled, 30)
	s.insertOrder("SLAYK-00000006", "Returned", 40)

	s.insertProduct("low", "bath", 9)
	s.insertProduct("none", "bath", 0)
	s.insertProduct("plenty", "bath", 10)

	stats, err := s.service.Stats(s.ctx)
	s.Require().NoError(err)

	s.True(stats.TotalRevenue.Equal(decimal.NewFromInt(200)), "revenue %s", stats.TotalRevenue)
	s.EqualValues(1, stats.PendingOrders)
	s.EqualValues(6, stats.TotalOrders)
	s.EqualValues(3, stats.TotalProducts)
	s.EqualValues(2, stats.LowStockProducts)

	s.Require().Len(stats.RecentOrders, 5)
	s.Equal("SLAYK-00000006", stats.RecentOrders[0].OrderNumber)
	s.Equal("SLAYK-00000002", stats.RecentOrders[4].OrderNumber)
	s.NotNil(stats.RecentOrders[0].Items)
}

func (s *DashboardServiceSuite) TestStatsOnEmptyStore() {
	stats, err := s.service.Stats(s.ctx)
	s.Require().NoError(err)
	s.True(stats.TotalRevenue.IsZero())
	s.NotNil(stats.RecentOrders)
	s.Empty(stats.RecentOrders)
}

func (s *DashboardServiceSuite) TestInventoryPartitions() {
	s.insertProduct("oversold", "bath", -2)
	s.insertProduct("empty", "bath", 0)
	s.insertProduct("five", "bath", 5)
	s.insertProduct("nine", "bath", 9)
	s.insertProduct("ten", "bath", 10)
	s.insertProduct("fifty", "bath", 50)

	inventory, err := s.service.Inventory(s.ctx)
	s.Require().NoError(err)

	slugs := func(items []InventoryItem) []string {
		out := []string{}
		for _, item := range items {
			out = append(out, item.Slug)
		}
		return out
	}
	s.Equal([]string{"oversold", "empty"}, slugs(inventory.OutOfStock))
	s.Equal([]string{"five", "nine"}, slugs(inventory.LowStock))
	s.Equal([]string{"ten", "fifty"}, slugs(inventory.InStock))
	s.Equal(InventorySummary{Total: 6, OutOfStockCount: 2, LowStockCount: 2, InStockCount: 2}, inventory.Summary)
	s.True(inventory.LowStock[0].Price.Equal(decimal.NewFromInt(100)))
}

func TestDashboardServiceSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceSuite))
}
