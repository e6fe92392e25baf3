package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/slayk/storefront-admin/internal/models"
)

type CategoryService struct {
	db *gorm.DB
}

type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Slug  string `json:"slug" validate:"required,slug,max=255"`
	Image string `json:"image"`
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Name:  req.Name,
		Slug:  req.Slug,
		Image: req.Image,
		Count: 0,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugFree(tx, &models.Category{}, category.Slug, ""); err != nil {
			return err
		}
		if err := tx.Create(category).Error; err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes the category only. Products keep the slug.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// RecountCategories recomputes every count from the products that
// reference the category slug and returns the refreshed list.
func (s *CategoryService) RecountCategories(ctx context.Context) ([]models.Category, error) {
	db := s.db.WithContext(ctx)
	err := db.Exec(
		"UPDATE categories SET count = (SELECT COUNT(*) FROM products WHERE products.category = categories.slug), updated_at = ?",
		db.NowFunc(),
	).Error
	if err != nil {
		return nil, fmt.Errorf("failed to recount categories: %w", err)
	}
	return s.ListCategories(ctx)
}

// adjustCategoryCount moves the count of the category with slug by delta.
// A slug without a category row is a no-op.
func adjustCategoryCount(tx *gorm.DB, slug string, delta int) error {
	if slug == "" {
		return nil
	}
	err := tx.Model(&models.Category{}).Where("slug = ?", slug).
		UpdateColumn("count", gorm.Expr("count + ?", delta)).Error
	if err != nil {
		return fmt.Errorf("failed to adjust category count: %w", err)
	}
	return nil
}
