package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/slayk/storefront-admin/internal/config"
	"github.com/slayk/storefront-admin/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Initialize(config.DatabaseConfig{
		Driver:       "sqlite",
		SQLitePath:   ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))
	t.Cleanup(func() { Close(db) })
	return db
}

func TestInitializeRejectsUnknownDriver(t *testing.T) {
	_, err := Initialize(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestRunMigrationsCreatesEveryTable(t *testing.T) {
	db := openTestDB(t)

	for _, model := range []interface{}{
		&models.User{}, &models.Category{}, &models.Product{},
		&models.Order{}, &models.OrderItem{}, &models.AuditLog{},
	} {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
}

func TestAuditLogStoresJSONValues(t *testing.T) {
	db := openTestDB(t)

	entry := &models.AuditLog{
		Action:       "POST /api/orders",
		ResourceType: "orders",
		NewValues:    models.JSONB{"payment_method": "cod", "items": float64(2)},
		StatusCode:   201,
	}
	require.NoError(t, db.Create(entry).Error)

	var stored models.AuditLog
	require.NoError(t, db.First(&stored, "id = ?", entry.ID).Error)
	assert.Equal(t, "cod", stored.NewValues["payment_method"])
	assert.Equal(t, float64(2), stored.NewValues["items"])
}

func TestSeedCatalogIsRepeatable(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first, err := SeedCatalog(ctx, db, false)
	require.NoError(t, err)
	assert.Equal(t, 8, first.Categories)
	assert.Equal(t, 10, first.Products)
	assert.Equal(t, 4, first.Orders)

	second, err := SeedCatalog(ctx, db, false)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, second)

	var products int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.EqualValues(t, 10, products)

	var outOfStock models.Product
	require.NoError(t, db.Where("slug = ?", "blackout-curtains-premium").First(&outOfStock).Error)
	assert.Equal(t, 0, outOfStock.StockQuantity)
	assert.False(t, outOfStock.InStock)

	var order models.Order
	require.NoError(t, db.Preload("Items").Where("order_number = ?", "SLAYK-I9J0K1L2").First(&order).Error)
	require.Len(t, order.Items, 2)
	for _, item := range order.Items {
		assert.NotEmpty(t, item.ProductID)
		assert.True(t, item.StockApplied)
	}
}

func TestSeedCatalogReset(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := SeedCatalog(ctx, db, false)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Product{}).Where("slug = ?", "ceramic-dinner-set").
		Update("stock_quantity", 1).Error)

	result, err := SeedCatalog(ctx, db, true)
	require.NoError(t, err)
	assert.Equal(t, 10, result.Products)

	var product models.Product
	require.NoError(t, db.Where("slug = ?", "ceramic-dinner-set").First(&product).Error)
	assert.Equal(t, 50, product.StockQuantity)
}

func TestSeedAdminCreatesThenResets(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	created, err := SeedAdmin(ctx, db, "Admin@Slayk.com", "Admin", "first-password")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = SeedAdmin(ctx, db, "admin@slayk.com", "Admin", "second-password")
	require.NoError(t, err)
	assert.False(t, created)

	var user models.User
	require.NoError(t, db.Where("email = ?", "admin@slayk.com").First(&user).Error)
	assert.True(t, user.IsAdmin())
	assert.NoError(t, user.CheckPassword("second-password"))
	assert.Error(t, user.CheckPassword("first-password"))

	_, err = SeedAdmin(ctx, db, "", "Admin", "x")
	assert.Error(t, err)
}
