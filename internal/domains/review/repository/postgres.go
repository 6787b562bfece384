package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"yamdb-backend/internal/domains/review/model"
	"yamdb-backend/pkg/database"
)

// =====================================================
// REVIEWS
// =====================================================

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

const reviewSelect = `
	SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.pub_date
	FROM reviews r
	JOIN users u ON u.id = r.author_id`

func scanReview(row pgx.Row) (*model.Review, error) {
	r := &model.Review{}
	if err := row.Scan(&r.ID, &r.TitleID, &r.AuthorID, &r.AuthorUsername, &r.Text, &r.Score, &r.PubDate); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *postgresReviewRepository) TitleExists(ctx context.Context, titleID int64) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM titles WHERE id = $1)`, titleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check title: %w", err)
	}
	return exists, nil
}

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (title_id, author_id, text, score)
		VALUES ($1, $2, $3, $4)
		RETURNING id, pub_date`,
		review.TitleID, review.AuthorID, review.Text, review.Score,
	).Scan(&review.ID, &review.PubDate)
	if err != nil {
		if constraint, ok := database.UniqueViolation(err); ok && constraint == "unique_review" {
			return model.ErrAlreadyReviewed.WithErr(err)
		}
		if _, ok := database.ForeignKeyViolation(err); ok {
			return model.ErrTitleNotFound.WithErr(err)
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *postgresReviewRepository) GetByTitle(ctx context.Context, titleID, reviewID int64) (*model.Review, error) {
	review, err := scanReview(r.pool.QueryRow(ctx, reviewSelect+`
		WHERE r.title_id = $1 AND r.id = $2`, titleID, reviewID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

func (r *postgresReviewRepository) ListByTitle(ctx context.Context, titleID int64) ([]*model.Review, error) {
	rows, err := r.pool.Query(ctx, reviewSelect+`
		WHERE r.title_id = $1
		ORDER BY r.pub_date DESC, r.id DESC`, titleID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	reviews, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Review, error) {
		return scanReview(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan reviews: %w", err)
	}
	return reviews, nil
}

// Update chỉ ghi text và score. Author và title bất biến.
func (r *postgresReviewRepository) Update(ctx context.Context, review *model.Review) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reviews SET text = $3, score = $4
		WHERE title_id = $1 AND id = $2`,
		review.TitleID, review.ID, review.Text, review.Score,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

func (r *postgresReviewRepository) Delete(ctx context.Context, titleID, reviewID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE title_id = $1 AND id = $2`, titleID, reviewID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

// =====================================================
// COMMENTS
// =====================================================

type postgresCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &postgresCommentRepository{pool: pool}
}

const commentSelect = `
	SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.pub_date
	FROM comments c
	JOIN users u ON u.id = c.author_id`

func scanComment(row pgx.Row) (*model.Comment, error) {
	c := &model.Comment{}
	if err := row.Scan(&c.ID, &c.ReviewID, &c.AuthorID, &c.AuthorUsername, &c.Text, &c.PubDate); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO comments (review_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, pub_date`,
		comment.ReviewID, comment.AuthorID, comment.Text,
	).Scan(&comment.ID, &comment.PubDate)
	if err != nil {
		if _, ok := database.ForeignKeyViolation(err); ok {
			return model.ErrReviewNotFound.WithErr(err)
		}
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *postgresCommentRepository) GetByReview(ctx context.Context, reviewID, commentID int64) (*model.Comment, error) {
	comment, err := scanComment(r.pool.QueryRow(ctx, commentSelect+`
		WHERE c.review_id = $1 AND c.id = $2`, reviewID, commentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return comment, nil
}

func (r *postgresCommentRepository) ListByReview(ctx context.Context, reviewID int64) ([]*model.Comment, error) {
	rows, err := r.pool.Query(ctx, commentSelect+`
		WHERE c.review_id = $1
		ORDER BY c.pub_date, c.id`, reviewID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Comment, error) {
		return scanComment(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan comments: %w", err)
	}
	return comments, nil
}

func (r *postgresCommentRepository) Update(ctx context.Context, comment *model.Comment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE comments SET text = $3
		WHERE review_id = $1 AND id = $2`,
		comment.ReviewID, comment.ID, comment.Text,
	)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

func (r *postgresCommentRepository) Delete(ctx context.Context, reviewID, commentID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE review_id = $1 AND id = $2`, reviewID, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}
