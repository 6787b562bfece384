package model

import "yamdb-backend/internal/shared/apperr"

var (
	ErrTitleNotFound   = apperr.New(apperr.KindNotFound, "TITLE_NOT_FOUND", "title not found")
	ErrReviewNotFound  = apperr.New(apperr.KindNotFound, "REVIEW_NOT_FOUND", "review not found")
	ErrCommentNotFound = apperr.New(apperr.KindNotFound, "COMMENT_NOT_FOUND", "comment not found")

	ErrAlreadyReviewed = apperr.New(apperr.KindConflict, "ALREADY_REVIEWED",
		"you have already reviewed this title")
)
