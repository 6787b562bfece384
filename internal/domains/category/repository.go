package category

import "context"

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	List(ctx context.Context, search string) ([]Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	DeleteBySlug(ctx context.Context, slug string) error
}
