package model

import "yamdb-backend/internal/shared/apperr"

var (
	ErrTitleNotFound   = apperr.New(apperr.KindNotFound, "TITLE_NOT_FOUND", "title not found")
	ErrDuplicateTitle  = apperr.New(apperr.KindConflict, "TITLE_EXISTS", "title with this name, year and category already exists")
	ErrUnknownCategory = apperr.Field("UNKNOWN_CATEGORY", "category", "category with this slug does not exist")
	ErrUnknownGenre    = apperr.Field("UNKNOWN_GENRE", "genre", "genre with this slug does not exist")
)
