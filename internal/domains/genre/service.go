package genre

import (
	"context"

	"yamdb-backend/internal/authz"
)

type GenreService interface {
	Create(ctx context.Context, actor authz.Actor, req CreateGenreReq) (*Genre, error)
	List(ctx context.Context, req ListGenresReq) ([]Genre, error)
	Delete(ctx context.Context, actor authz.Actor, slug string) error
}
