package category

import "yamdb-backend/internal/shared/apperr"

var (
	ErrCategoryNotFound = apperr.New(apperr.KindNotFound, "CATEGORY_NOT_FOUND", "category not found")
	ErrDuplicateSlug    = apperr.ConflictField("CATEGORY_SLUG_TAKEN", "slug", "category with this slug already exists")
)
