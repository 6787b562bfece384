package category

import (
	"context"

	"yamdb-backend/internal/authz"
)

type CategoryService interface {
	Create(ctx context.Context, actor authz.Actor, req CreateCategoryReq) (*Category, error)
	List(ctx context.Context, req ListCategoriesReq) ([]Category, error)
	Delete(ctx context.Context, actor authz.Actor, slug string) error
}
