package genre

import "yamdb-backend/internal/shared/apperr"

var (
	ErrGenreNotFound = apperr.New(apperr.KindNotFound, "GENRE_NOT_FOUND", "genre not found")
	ErrDuplicateSlug    = apperr.ConflictField("GENRE_SLUG_TAKEN", "slug", "genre with this slug already exists")
)
