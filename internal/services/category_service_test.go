package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CategoryServiceSuite struct {
	serviceSuite
	service *CategoryService
}

func (s *CategoryServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.service = NewCategoryService(s.db)
}

func (s *CategoryServiceSuite) TestCreateAndList() {
	for _, req := range []CreateCategoryRequest{
		{Name: "Wall Decor", Slug: "wall-decor"},
		{Name: "Bath", Slug: "bath"},
		{Name: "Kitchen", Slug: "kitchen"},
	} {
		category, err := s.service.CreateCategory(s.ctx, &req)
		s.Require().NoError(err)
		s.Equal(0, category.Count)
		s.NotEmpty(category.ID)
	}

	categories, err := s.service.ListCategories(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(categories, 3)
	s.Equal("Bath", categories[0].Name)
	s.Equal("Kitchen", categories[1].Name)
	s.Equal("Wall Decor", categories[2].Name)
}

func (s *CategoryServiceSuite) TestCreateDuplicateSlug() {
	s.insertCategory("bath", 4)

	_, err := s.service.CreateCategory(s.ctx, &CreateCategoryRequest{Name: "Bathroom", Slug: "bath"})
	s.ErrorIs(err, ErrSlugExists)
	s.Equal(4, s.reloadCategory("bath").Count)
}

func (s *CategoryServiceSuite) TestGetAndDelete() {
	category := s.insertCategory("lighting", 0)
	s.insertProduct("pendant", "lighting", 3)

	found, err := s.service.GetCategory(s.ctx, category.ID)
	s.Require().NoError(err)
	s.Equal("lighting", found.Slug)

	s.Require().NoError(s.service.DeleteCategory(s.ctx, category.ID))
	_, err = s.service.GetCategory(s.ctx, category.ID)
	s.ErrorIs(err, ErrCategoryNotFound)
	s.ErrorIs(s.service.DeleteCategory(s.ctx, category.ID), ErrCategoryNotFound)

	var orphans int64
	s.Require().NoError(s.db.Table("products").Where("category = ?", "lighting").Count(&orphans).Error)
	s.EqualValues(1, orphans)
}

func (s *CategoryServiceSuite) TestRecountRepairsDrift() {
	s.insertCategory("curtains", -3)
	s.insertCategory("bath", 9)
	s.insertProduct("sheer", "curtains", 1)
	s.insertProduct("blackout", "curtains", 0)

	categories, err := s.service.RecountCategories(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(categories, 2)

	s.Equal(2, s.reloadCategory("curtains").Count)
	s.Equal(0, s.reloadCategory("bath").Count)
}

func TestCategoryServiceSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceSuite))
}
