package genre

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"yamdb-backend/internal/shared/apperr"
)

const (
	MaxNameLength = 256
	MaxSlugLength = 50
)

var SlugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CreateGenreReq struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (r CreateGenreReq) Validate() error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&r.Slug, validation.Required, validation.Length(1, MaxSlugLength), validation.Match(SlugPattern)),
	))
}

type ListGenresReq struct {
	Search string `form:"search"`
}
