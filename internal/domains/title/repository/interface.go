package repository

import (
	"context"

	"yamdb-backend/internal/domains/title/model"
)

// TitleRepository - data access for titles and the genre_titles link table.
type TitleRepository interface {
	// Create inserts the title and links genreIDs in one transaction.
	Create(ctx context.Context, t *model.Title, genreIDs []int64) error
	GetByID(ctx context.Context, id int64) (*model.Title, error)
	List(ctx context.Context, filter model.TitleFilter) ([]*model.Title, error)
	// Update writes the scalar fields. A nil genreIDs keeps the current links,
	// a non-nil one replaces them.
	Update(ctx context.Context, t *model.Title, genreIDs []int64) error
	Delete(ctx context.Context, id int64) error
}
