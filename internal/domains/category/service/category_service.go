package service

import (
	"context"

	"yamdb-backend/internal/authz"
	"yamdb-backend/internal/domains/category"
)

type categoryServiceImpl struct {
	repo       category.CategoryRepository
	authorizer authz.Authorizer
}

func NewCategoryService(repo category.CategoryRepository, authorizer authz.Authorizer) category.CategoryService {
	return &categoryServiceImpl{repo: repo, authorizer: authorizer}
}

func (s *categoryServiceImpl) Create(ctx context.Context, actor authz.Actor, req category.CreateCategoryReq) (*category.Category, error) {
	if err := s.authorizer.Authorize(actor, authz.Categories, authz.Write, nil); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := &category.Category{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryServiceImpl) List(ctx context.Context, req category.ListCategoriesReq) ([]category.Category, error) {
	return s.repo.List(ctx, req.Search)
}

// Delete xoá category; titles thuộc category giữ lại với category = null.
func (s *categoryServiceImpl) Delete(ctx context.Context, actor authz.Actor, slug string) error {
	if err := s.authorizer.Authorize(actor, authz.Categories, authz.Write, nil); err != nil {
		return err
	}
	return s.repo.DeleteBySlug(ctx, slug)
}
