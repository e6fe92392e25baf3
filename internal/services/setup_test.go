package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/slayk/storefront-admin/internal/config"
	"github.com/slayk/storefront-admin/internal/database"
	"github.com/slayk/storefront-admin/internal/models"
)

// serviceSuite gives every test a fresh in-memory database.
type serviceSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context
}

func (s *serviceSuite) SetupTest() {
	db, err := database.Initialize(config.DatabaseConfig{
		Driver:       "sqlite",
		SQLitePath:   ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	s.Require().NoError(err)
	s.Require().NoError(database.RunMigrations(db))
	s.db = db
	s.ctx = context.Background()
}

func (s *serviceSuite) TearDownTest() {
	database.Close(s.db)
}

func (s *serviceSuite) insertCategory(slug string, count int) *models.Category {
	category := &models.Category{Name: slug, Slug: slug, Count: count}
	s.Require().NoError(s.db.Create(category).Error)
	return category
}

func (s *serviceSuite) insertProduct(slug, category string, stock int) *models.Product {
	product := &models.Product{
		Name:          slug,
		Slug:          slug,
		Category:      category,
		Price:         decimal.NewFromInt(100),
		OriginalPrice: decimal.NewFromInt(200),
		StockQuantity: stock,
		Rating:        models.DefaultProductRating,
	}
	product.SyncStockFlag()
	s.Require().NoError(s.db.Create(product).Error)
	return product
}

func (s *serviceSuite) reloadProduct(id string) models.Product {
	var product models.Product
	s.Require().NoError(s.db.First(&product, "id = ?", id).Error)
	return product
}

func (s *serviceSuite) reloadCategory(slug string) models.Category {
	var category models.Category
	s.Require().NoError(s.db.First(&category, "slug = ?", slug).Error)
	return category
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
