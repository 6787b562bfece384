package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"yamdb-backend/internal/shared/apperr"
)

// =====================================================
// REVIEW DTOs
// =====================================================

type CreateReviewRequest struct {
	Text  string `json:"text"`
	Score *int   `json:"score"`
}

func (r CreateReviewRequest) Validate() error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required),
		validation.Field(&r.Score, validation.NotNil, validation.Min(MinScore), validation.Max(MaxScore)),
	))
}

type UpdateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

func (r UpdateReviewRequest) Validate() error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.NilOrNotEmpty),
		validation.Field(&r.Score, validation.Min(MinScore), validation.Max(MaxScore)),
	))
}

type ReviewResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func (r *Review) ToResponse() ReviewResponse {
	return ReviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Author:  r.AuthorUsername,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}

// =====================================================
// COMMENT DTOs
// =====================================================

type CreateCommentRequest struct {
	Text string `json:"text"`
}

func (r CreateCommentRequest) Validate() error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required),
	))
}

type UpdateCommentRequest struct {
	Text *string `json:"text"`
}

func (r UpdateCommentRequest) Validate() error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.NilOrNotEmpty),
	))
}

type CommentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func (c *Comment) ToResponse() CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		Text:    c.Text,
		Author:  c.AuthorUsername,
		PubDate: c.PubDate,
	}
}
