package database

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/slayk/storefront-admin/internal/models"
)

//go:embed fixtures/catalog.json
var catalogFixture []byte

type seedCatalog struct {
	Categories []models.Category `json:"categories"`
	Products   []models.Product  `json:"products"`
	Orders     []seedOrder       `json:"orders"`
}

type seedOrder struct {
	OrderNumber     string                 `json:"order_number"`
	Items           []seedOrderItem        `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	Shipping        decimal.Decimal        `json:"shipping"`
	Total           decimal.Decimal        `json:"total"`
	Status          models.OrderStatus     `json:"status"`
	TrackingNumber  *string                `json:"tracking_number"`
}

type seedOrderItem struct {
	ProductSlug   string          `json:"product_slug"`
	ProductName   string          `json:"product_name"`
	ProductImage  string          `json:"product_image"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	SelectedSize  *string         `json:"selected_size"`
	SelectedColor *string         `json:"selected_color"`
}

// SeedResult reports how many fixture records were inserted.
type SeedResult struct {
	Categories int
	Products   int
	Orders     int
}

// SeedCatalog loads the embedded storefront catalog. Records whose slug or
// order number already exists are left alone, so the call can be repeated.
// With reset set, every category, product and order is removed first.
// Category counts are not touched here; callers recount afterwards.
func SeedCatalog(ctx context.Context, db *gorm.DB, reset bool) (SeedResult, error) {
	var catalog seedCatalog
	if err := json.Unmarshal(catalogFixture, &catalog); err != nil {
		return SeedResult{}, fmt.Errorf("failed to decode catalog fixture: %w", err)
	}

	var result SeedResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if reset {
			for _, model := range []interface{}{&models.OrderItem{}, &models.Order{}, &models.Product{}, &models.Category{}} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
					return fmt.Errorf("failed to reset catalog: %w", err)
				}
			}
		}

		for i := range catalog.Categories {
			category := catalog.Categories[i]
			inserted, err := insertIfAbsent(tx, &models.Category{}, "slug = ?", category.Slug, &category)
			if err != nil {
				return fmt.Errorf("failed to seed category %s: %w", category.Slug, err)
			}
			if inserted {
				result.Categories++
			}
		}

		productIDs := make(map[string]string, len(catalog.Products))
		for i := range catalog.Products {
			product := catalog.Products[i]
			product.SyncStockFlag()
			inserted, err := insertIfAbsent(tx, &models.Product{}, "slug = ?", product.Slug, &product)
			if err != nil {
				return fmt.Errorf("failed to seed product %s: %w", product.Slug, err)
			}
			if inserted {
				result.Products++
			}

			var stored models.Product
			if err := tx.Select("id").Where("slug = ?", product.Slug).First(&stored).Error; err != nil {
				return fmt.Errorf("failed to resolve product %s: %w", product.Slug, err)
			}
			productIDs[product.Slug] = stored.ID
		}

		for _, fixture := range catalog.Orders {
			order := fixture.toModel(productIDs)
			inserted, err := insertIfAbsent(tx, &models.Order{}, "order_number = ?", order.OrderNumber, order)
			if err != nil {
				return fmt.Errorf("failed to seed order %s: %w", order.OrderNumber, err)
			}
			if inserted {
				result.Orders++
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	logrus.WithFields(logrus.Fields{
		"categories": result.Categories,
		"products":   result.Products,
		"orders":     result.Orders,
	}).Info("Catalog seeded")
	return result, nil
}

// insertIfAbsent creates record unless a row of probe's table matches the query.
func insertIfAbsent(tx *gorm.DB, probe interface{}, query string, arg interface{}, record interface{}) (bool, error) {
	var count int64
	if err := tx.Model(probe).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	return true, tx.Create(record).Error
}

func (o seedOrder) toModel(productIDs map[string]string) *models.Order {
	order := &models.Order{
		OrderNumber:     o.OrderNumber,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Subtotal:        o.Subtotal,
		Shipping:        o.Shipping,
		Total:           o.Total,
		Status:          o.Status,
		TrackingNumber:  o.TrackingNumber,
	}
	for i, item := range o.Items {
		order.Items = append(order.Items, models.OrderItem{
			Position:      i,
			ProductID:     productIDs[item.ProductSlug],
			ProductName:   item.ProductName,
			ProductImage:  item.ProductImage,
			Quantity:      item.Quantity,
			Price:         item.Price,
			SelectedSize:  item.SelectedSize,
			SelectedColor: item.SelectedColor,
			// Historical orders; their stock was taken before the catalog existed.
			StockApplied: true,
		})
	}
	return order
}

// SeedAdmin creates the bootstrap admin account, or resets its password and
// role when the email is already registered. It reports whether a new account
// was created.
func SeedAdmin(ctx context.Context, db *gorm.DB, email, name, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, errors.New("admin email and password are required")
	}

	var user models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Email: email, Name: name, Role: models.UserRoleAdmin}
		if err := user.SetPassword(password); err != nil {
			return false, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return false, fmt.Errorf("failed to create admin: %w", err)
		}
		logrus.WithField("email", email).Info("Admin user created")
		return true, nil
	case err != nil:
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := user.SetPassword(password); err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Role = models.UserRoleAdmin
	if err := db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"hashed_password": user.HashedPassword,
		"role":            user.Role,
	}).Error; err != nil {
		return false, fmt.Errorf("failed to reset admin password: %w", err)
	}
	logrus.WithField("email", email).Info("Admin password reset")
	return false, nil
}
