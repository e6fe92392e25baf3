package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/slayk/storefront-admin/internal/models"
	"github.com/slayk/storefront-admin/internal/utils"
)

type ProductServiceSuite struct {
	serviceSuite
	service *ProductService
}

func (s *ProductServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.service = NewProductService(s.db)
}

func (s *ProductServiceSuite) TestCreateProductAppliesDefaults() {
	s.insertCategory("rugs-carpets", 0)

	product, err := s.service.CreateProduct(s.ctx, &CreateProductRequest{
		Name:          "Handwoven Jute Area Rug",
		Slug:          "handwoven-jute-rug",
		Category:      "rugs-carpets",
		Price:         decimal.NewFromInt(3999),
		OriginalPrice: decimal.NewFromInt(7999),
	})
	s.Require().NoError(err)

	s.NotEmpty(product.ID)
	s.Equal(models.DefaultProductRating, product.Rating)
	s.Equal(0, product.Reviews)
	s.Equal(models.DefaultStockQuantity, product.StockQuantity)
	s.True(product.InStock)
	s.False(product.CreatedAt.IsZero())
	s.Equal(1, s.reloadCategory("rugs-carpets").Count)
}

func (s *ProductServiceSuite) TestCreateProductDerivesInStock() {
	product, err := s.service.CreateProduct(s.ctx, &CreateProductRequest{
		Name: "Empty", Slug: "empty", Category: "bath", StockQuantity: intPtr(0),
	})
	s.Require().NoError(err)
	s.False(product.InStock)
	s.False(s.reloadProduct(product.ID).InStock)
}

func (s *ProductServiceSuite) TestCreateProductDuplicateSlug() {
	s.insertCategory("curtains", 0)
	original := s.insertProduct("sheer-elegance-curtains", "curtains", 120)

	_, err := s.service.CreateProduct(s.ctx, &CreateProductRequest{
		Name: "Other", Slug: "sheer-elegance-curtains", Category: "curtains", StockQuantity: intPtr(1),
	})
	s.ErrorIs(err, ErrSlugExists)

	stored := s.reloadProduct(original.ID)
	s.Equal("sheer-elegance-curtains", stored.Name)
	s.Equal(120, stored.StockQuantity)
	s.Equal(0, s.reloadCategory("curtains").Count)
}

func (s *ProductServiceSuite) TestUpdateEmptyPartialOnlyAdvancesUpdatedAt() {
	product := s.insertProduct("lamp", "lighting", 7)
	time.Sleep(5 * time.Millisecond)

	updated, err := s.service.UpdateProduct(s.ctx, product.ID, &UpdateProductRequest{})
	s.Require().NoError(err)

	s.Equal(product.Name, updated.Name)
	s.Equal(product.Slug, updated.Slug)
	s.Equal(product.StockQuantity, updated.StockQuantity)
	s.True(product.Price.Equal(updated.Price))
	s.True(updated.UpdatedAt.After(product.UpdatedAt))
}

func (s *ProductServiceSuite) TestUpdateStockRederivesInStock() {
	product := s.insertProduct("towels", "bath", 3)

	updated, err := s.service.UpdateProduct(s.ctx, product.ID, &UpdateProductRequest{StockQuantity: intPtr(0)})
	s.Require().NoError(err)
	s.Equal(0, updated.StockQuantity)
	s.False(updated.InStock)

	updated, err = s.service.UpdateProduct(s.ctx, product.ID, &UpdateProductRequest{StockQuantity: intPtr(4)})
	s.Require().NoError(err)
	s.True(updated.InStock)
}

func (s *ProductServiceSuite) TestUpdateOnlyPresentFields() {
	product := s.insertProduct("cushion", "cushion-covers", 20)
	features := []string{"Hidden Zipper"}

	updated, err := s.service.UpdateProduct(s.ctx, product.ID, &UpdateProductRequest{
		Name:     strPtr("Velvet Cushion"),
		Features: &features,
	})
	s.Require().NoError(err)
	s.Equal("Velvet Cushion", updated.Name)
	s.Equal(models.StringList{"Hidden Zipper"}, updated.Features)
	s.Equal("cushion", updated.Slug)
	s.Equal(20, updated.StockQuantity)
}

func (s *ProductServiceSuite) TestUpdateSlugConflict() {
	s.insertProduct("taken", "bath", 1)
	product := s.insertProduct("mine", "bath", 1)

	_, err := s.service.UpdateProduct(s.ctx, product.ID, &UpdateProductRequest{Slug: strPtr("taken")})
	s.ErrorIs(err, ErrSlugExists)

	_, err = s.service.UpdateProduct(s.ctx, product.ID, &UpdateProductRequest{Slug: strPtr("mine")})
	s.NoError(err)
}

func (s *ProductServiceSuite) TestUpdateCategoryMovesCount() {
	s.insertCategory("bedsheets", 1)
	s.insertCategory("bath", 0)
	product := s.insertProduct("sheet", "bedsheets", 5)

	_, err := s.service.UpdateProduct(s.ctx, product.ID, &UpdateProductRequest{Category: strPtr("bath")})
	s.Require().NoError(err)

	s.Equal(0, s.reloadCategory("bedsheets").Count)
	s.Equal(1, s.reloadCategory("bath").Count)
}

func (s *ProductServiceSuite) TestUpdateMissingProduct() {
	_, err := s.service.UpdateProduct(s.ctx, "missing", &UpdateProductRequest{})
	s.ErrorIs(err, ErrProductNotFound)
}

func (s *ProductServiceSuite) TestDeleteProductDecrementsCategory() {
	s.insertCategory("kitchen", 1)
	product := s.insertProduct("dinner-set", "kitchen", 50)

	s.Require().NoError(s.service.DeleteProduct(s.ctx, product.ID))
	s.Equal(0, s.reloadCategory("kitchen").Count)

	_, err := s.service.GetProduct(s.ctx, product.ID)
	s.ErrorIs(err, ErrProductNotFound)
	s.ErrorIs(s.service.DeleteProduct(s.ctx, product.ID), ErrProductNotFound)
}

func (s *ProductServiceSuite) TestDeleteProductAllowsNegativeCount() {
	s.insertCategory("wall-decor", 0)
	product := s.insertProduct("macrame", "wall-decor", 9)

	s.Require().NoError(s.service.DeleteProduct(s.ctx, product.ID))
	s.Equal(-1, s.reloadCategory("wall-decor").Count)
}

func (s *ProductServiceSuite) TestListPagesAreDisjoint() {
	for _, slug := range []string{"a", "b", "c", "d", "e"} {
		s.insertProduct(slug, "bath", 10)
	}

	seen := map[string]bool{}
	for skip := 0; skip < 6; skip += 2 {
		products, total, err := s.service.ListProducts(s.ctx, ProductFilter{}, utils.ListParams{Skip: skip, Limit: 2})
		s.Require().NoError(err)
		s.EqualValues(5, total)
		for _, p := range products {
			s.False(seen[p.ID], "product %s returned twice", p.Slug)
			seen[p.ID] = true
		}
	}
	s.Len(seen, 5)
}

func (s *ProductServiceSuite) TestListFiltersAndSearch() {
	jute := s.insertProduct("handwoven-jute-rug", "rugs-carpets", 75)
	s.Require().NoError(s.db.Model(jute).Update("name", "Handwoven JUTE Area Rug").Error)
	other := s.insertProduct("pendant", "lighting", 65)
	s.Require().NoError(s.db.Model(other).Update("description", "Glass and jute shade").Error)
	s.insertProduct("towel", "bath", 180)

	products, total, err := s.service.ListProducts(s.ctx, ProductFilter{Search: "Jute"}, utils.ListParams{Limit: 100})
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Len(products, 2)

	products, _, err = s.service.ListProducts(s.ctx, ProductFilter{Category: "bath"}, utils.ListParams{Limit: 100})
	s.Require().NoError(err)
	s.Require().Len(products, 1)
	s.Equal("towel", products[0].Slug)

	products, total, err = s.service.ListProducts(s.ctx, ProductFilter{Search: "100%"}, utils.ListParams{Limit: 100})
	s.Require().NoError(err)
	s.EqualValues(0, total)
	s.Empty(products)
}

func (s *ProductServiceSuite) TestGetProductBySlug() {
	product := s.insertProduct("geometric-duvet-cover", "bedsheets", 8)

	found, err := s.service.GetProductBySlug(s.ctx, "geometric-duvet-cover")
	s.Require().NoError(err)
	s.Equal(product.ID, found.ID)

	_, err = s.service.GetProductBySlug(s.ctx, "nope")
	s.ErrorIs(err, ErrProductNotFound)
}

func (s *ProductServiceSuite) TestSetStock() {
	product := s.insertProduct("rug", "rugs-carpets", 5)

	level, err := s.service.SetStock(s.ctx, product.ID, -3)
	s.Require().NoError(err)
	s.Equal(-3, level.StockQuantity)
	s.False(level.InStock)

	stored := s.reloadProduct(product.ID)
	s.Equal(-3, stored.StockQuantity)
	s.False(stored.InStock)

	level, err = s.service.SetStock(s.ctx, product.ID, 12)
	s.Require().NoError(err)
	s.True(level.InStock)

	_, err = s.service.SetStock(s.ctx, "missing", 1)
	s.ErrorIs(err, ErrProductNotFound)
}

func TestProductServiceSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceSuite))
}
