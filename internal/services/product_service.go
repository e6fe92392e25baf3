// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/slayk/storefront-admin/internal/models"
	"github.com/slayk/storefront-admin/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

// CreateProductRequest carries no in_stock field; it is derived from
// stock_quantity.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,max=255"`
	Slug          string          `json:"slug" validate:"required,slug,max=255"`
	Category      string          `json:"category" validate:"required,max=100"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Discount      int             `json:"discount" validate:"gte=0,lte=100"`
	Description   string          `json:"description"`
	Features      []string        `json:"features"`
	Colors        []string        `json:"colors"`
	Sizes         []string        `json:"sizes"`
	Image         string          `json:"image"`
	Images        []string        `json:"images"`
	IsNew         bool            `json:"is_new"`
	IsBestSeller  bool            `json:"is_best_seller"`
	StockQuantity *int            `json:"stock_quantity"`
}

// UpdateProductRequest is a partial update: nil fields are left untouched.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,max=255"`
	Slug          *string          `json:"slug" validate:"omitempty,slug,max=255"`
	Category      *string          `json:"category" validate:"omitempty,max=100"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Discount      *int             `json:"discount" validate:"omitempty,gte=0,lte=100"`
	Description   *string          `json:"description"`
	Features      *[]string        `json:"features"`
	Colors        *[]string        `json:"colors"`
	Sizes         *[]string        `json:"sizes"`
	Image         *string          `json:"image"`
	Images        *[]string        `json:"images"`
	IsNew         *bool            `json:"is_new"`
	IsBestSeller  *bool            `json:"is_best_seller"`
	StockQuantity *int             `json:"stock_quantity"`
}

type ProductFilter struct {
	Category string
	Search   string
}

// StockLevel is the result of a direct stock adjustment.
type StockLevel struct {
	ProductID     string `json:"product_id"`
	StockQuantity int    `json:"stock_quantity"`
	InStock       bool   `json:"in_stock"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
}

func (s *ProductService) ListProducts(ctx context.Context, filter ProductFilter, params utils.ListParams) ([]models.Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := containsPattern(search)
		query = query.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	products := []models.Product{}
	if err := params.Apply(query.Order("created_at ASC").Order("id ASC")).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.findProduct(s.db.WithContext(ctx), "id = ?", id)
}

func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.findProduct(s.db.WithContext(ctx), "slug = ?", slug)
}

func (s *ProductService) findProduct(db *gorm.DB, query string, arg interface{}) (*models.Product, error) {
	var product models.Product
	if err := db.Where(query, arg).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:          req.Name,
		Slug:          req.Slug,
		Category:      req.Category,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Discount:      req.Discount,
		Description:   req.Description,
		Features:      models.StringList(req.Features),
		Colors:        models.StringList(req.Colors),
		Sizes:         models.StringList(req.Sizes),
		Image:         req.Image,
		Images:        models.StringList(req.Images),
		IsNew:         req.IsNew,
		IsBestSeller:  req.IsBestSeller,
		StockQuantity: models.DefaultStockQuantity,
		Rating:        models.DefaultProductRating,
		Reviews:       0,
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	product.SyncStockFlag()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugFree(tx, &models.Product{}, product.Slug, ""); err != nil {
			return err
		}
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return adjustCategoryCount(tx, product.Category, 1)
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, error) {
	var updated *models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.findProduct(tx, "id = ?", id)
		if err != nil {
			return err
		}

		updates := req.columns()
		updates["updated_at"] = tx.NowFunc()

		if req.Slug != nil && *req.Slug != product.Slug {
			if err := ensureSlugFree(tx, &models.Product{}, *req.Slug, id); err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		if req.Category != nil && *req.Category != product.Category {
			if err := adjustCategoryCount(tx, product.Category, -1); err != nil {
				return err
			}
			if err := adjustCategoryCount(tx, *req.Category, 1); err != nil {
				return err
			}
		}

		updated, err = s.findProduct(tx, "id = ?", id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// columns maps the present fields of the request to column updates.
func (r *UpdateProductRequest) columns() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.Name != nil {
		updates["name"] = *r.Name
	}
	if r.Slug != nil {
		updates["slug"] = *r.Slug
	}
	if r.Category != nil {
		updates["category"] = *r.Category
	}
	if r.Price != nil {
		updates["price"] = *r.Price
	}
	if r.OriginalPrice != nil {
		updates["original_price"] = *r.OriginalPrice
	}
	if r.Discount != nil {
		updates["discount"] = *r.Discount
	}
	if r.Description != nil {
		updates["description"] = *r.Description
	}
	if r.Features != nil {
		updates["features"] = models.StringList(*r.Features)
	}
	if r.Colors != nil {
		updates["colors"] = models.StringList(*r.Colors)
	}
	if r.Sizes != nil {
		updates["sizes"] = models.StringList(*r.Sizes)
	}
	if r.Image != nil {
		updates["image"] = *r.Image
	}
	if r.Images != nil {
		updates["images"] = models.StringList(*r.Images)
	}
	if r.IsNew != nil {
		updates["is_new"] = *r.IsNew
	}
	if r.IsBestSeller != nil {
		updates["is_best_seller"] = *r.IsBestSeller
	}
	if r.StockQuantity != nil {
		updates["stock_quantity"] = *r.StockQuantity
		updates["in_stock"] = *r.StockQuantity > 0
	}
	return updates
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.findProduct(tx, "id = ?", id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return adjustCategoryCount(tx, product.Category, -1)
	})
}

// SetStock overwrites the stock level. Negative quantities are accepted.
func (s *ProductService) SetStock(ctx context.Context, id string, quantity int) (*StockLevel, error) {
	db := s.db.WithContext(ctx)
	result := db.Model(&models.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"stock_quantity": quantity,
		"in_stock":       quantity > 0,
		"updated_at":     db.NowFunc(),
	})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrProductNotFound
	}

	return &StockLevel{
		ProductID:     id,
		StockQuantity: quantity,
		InStock:       quantity > 0,
	}, nil
}

// ensureSlugFree fails with ErrSlugExists when another row of model's table
// already uses slug. exceptID excludes the row being updated.
func ensureSlugFree(tx *gorm.DB, model interface{}, slug, exceptID string) error {
	query := tx.Model(model).Where("slug = ?", slug)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%q: %w", slug, ErrSlugExists)
	}
	return nil
}
