package repository

import (
	"context"

	"yamdb-backend/internal/domains/review/model"
)

// ReviewRepository định nghĩa data access cho reviews. Mọi lookup đều scope
// theo title.
type ReviewRepository interface {
	TitleExists(ctx context.Context, titleID int64) (bool, error)

	Create(ctx context.Context, review *model.Review) error
	GetByTitle(ctx context.Context, titleID, reviewID int64) (*model.Review, error)
	ListByTitle(ctx context.Context, titleID int64) ([]*model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, titleID, reviewID int64) error
}

// CommentRepository scope theo review.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByReview(ctx context.Context, reviewID, commentID int64) (*model.Comment, error)
	ListByReview(ctx context.Context, reviewID int64) ([]*model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, reviewID, commentID int64) error
}
