package service

import (
	"context"

	"yamdb-backend/internal/authz"
	"yamdb-backend/internal/domains/review/model"
)

// ServiceInterface là business API cho reviews và comments. Title và review
// cha được truyền tường minh từ path.
type ServiceInterface interface {
	CreateReview(ctx context.Context, actor authz.Actor, titleID int64, req model.CreateReviewRequest) (*model.ReviewResponse, error)
	ListReviews(ctx context.Context, titleID int64) ([]model.ReviewResponse, error)
	GetReview(ctx context.Context, titleID, reviewID int64) (*model.ReviewResponse, error)
	UpdateReview(ctx context.Context, actor authz.Actor, titleID, reviewID int64, req model.UpdateReviewRequest) (*model.ReviewResponse, error)
	DeleteReview(ctx context.Context, actor authz.Actor, titleID, reviewID int64) error

	CreateComment(ctx context.Context, actor authz.Actor, titleID, reviewID int64, req model.CreateCommentRequest) (*model.CommentResponse, error)
	ListComments(ctx context.Context, titleID, reviewID int64) ([]model.CommentResponse, error)
	GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*model.CommentResponse, error)
	UpdateComment(ctx context.Context, actor authz.Actor, titleID, reviewID, commentID int64, req model.UpdateCommentRequest) (*model.CommentResponse, error)
	DeleteComment(ctx context.Context, actor authz.Actor, titleID, reviewID, commentID int64) error
}
