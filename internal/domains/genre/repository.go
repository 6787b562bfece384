package genre

import "context"

type GenreRepository interface {
	Create(ctx context.Context, g *Genre) error
	List(ctx context.Context, search string) ([]Genre, error)
	GetBySlug(ctx context.Context, slug string) (*Genre, error)
	DeleteBySlug(ctx context.Context, slug string) error
}
