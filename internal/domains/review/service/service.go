package service

import (
	"context"

	"yamdb-backend/internal/authz"
	"yamdb-backend/internal/domains/review/model"
	"yamdb-backend/internal/domains/review/repository"
)

type reviewService struct {
	reviews    repository.ReviewRepository
	comments   repository.CommentRepository
	authorizer authz.Authorizer
}

func NewReviewService(
	reviews repository.ReviewRepository,
	comments repository.CommentRepository,
	authorizer authz.Authorizer,
) ServiceInterface {
	return &reviewService{
		reviews:    reviews,
		comments:   comments,
		authorizer: authorizer,
	}
}

// =====================================================
// REVIEWS
// =====================================================

// CreateReview: title phải tồn tại trước, sau đó mới validate score và
// uniqueness (author, title).
func (s *reviewService) CreateReview(ctx context.Context, actor authz.Actor, titleID int64, req model.CreateReviewRequest) (*model.ReviewResponse, error) {
	if err := s.authorizer.Authorize(actor, authz.Reviews, authz.Write, &actor.UserID); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	review := &model.Review{
		TitleID:        titleID,
		AuthorID:       actor.UserID,
		AuthorUsername: actor.Username,
		Text:           req.Text,
		Score:          *req.Score,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	resp := review.ToResponse()
	return &resp, nil
}

func (s *reviewService) ListReviews(ctx context.Context, titleID int64) ([]model.ReviewResponse, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}
	out := make([]model.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, r.ToResponse())
	}
	return out, nil
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID int64) (*model.ReviewResponse, error) {
	review, err := s.reviews.GetByTitle(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	resp := review.ToResponse()
	return &resp, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, actor authz.Actor, titleID, reviewID int64, req model.UpdateReviewRequest) (*model.ReviewResponse, error) {
	review, err := s.reviews.GetByTitle(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Authorize(actor, authz.Reviews, authz.Write, &review.AuthorID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}

	resp := review.ToResponse()
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, actor authz.Actor, titleID, reviewID int64) error {
	review, err := s.reviews.GetByTitle(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := s.authorizer.Authorize(actor, authz.Reviews, authz.Write, &review.AuthorID); err != nil {
		return err
	}
	return s.reviews.Delete(ctx, titleID, reviewID)
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	exists, err := s.reviews.TitleExists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrTitleNotFound
	}
	return nil
}

// =====================================================
// COMMENTS
// =====================================================

// CreateComment: review được resolve theo cặp (title, review); review của
// title khác trả NotFound.
func (s *reviewService) CreateComment(ctx context.Context, actor authz.Actor, titleID, reviewID int64, req model.CreateCommentRequest) (*model.CommentResponse, error) {
	if err := s.authorizer.Authorize(actor, authz.Comments, authz.Write, &actor.UserID); err != nil {
		return nil, err
	}
	if _, err := s.reviews.GetByTitle(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ReviewID:       reviewID,
		AuthorID:       actor.UserID,
		AuthorUsername: actor.Username,
		Text:           req.Text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	resp := comment.ToResponse()
	return &resp, nil
}

func (s *reviewService) ListComments(ctx context.Context, titleID, reviewID int64) ([]model.CommentResponse, error) {
	if _, err := s.reviews.GetByTitle(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	out := make([]model.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.ToResponse())
	}
	return out, nil
}

func (s *reviewService) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*model.CommentResponse, error) {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	resp := comment.ToResponse()
	return &resp, nil
}

func (s *reviewService) UpdateComment(ctx context.Context, actor authz.Actor, titleID, reviewID, commentID int64, req model.UpdateCommentRequest) (*model.CommentResponse, error) {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Authorize(actor, authz.Comments, authz.Write, &comment.AuthorID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	resp := comment.ToResponse()
	return &resp, nil
}

func (s *reviewService) DeleteComment(ctx context.Context, actor authz.Actor, titleID, reviewID, commentID int64) error {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := s.authorizer.Authorize(actor, authz.Comments, authz.Write, &comment.AuthorID); err != nil {
		return err
	}
	return s.comments.Delete(ctx, reviewID, commentID)
}

func (s *reviewService) findComment(ctx context.Context, titleID, reviewID, commentID int64) (*model.Comment, error) {
	if _, err := s.reviews.GetByTitle(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.comments.GetByReview(ctx, reviewID, commentID)
}
