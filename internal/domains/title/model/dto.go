package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"yamdb-backend/internal/shared/apperr"
)

const MaxNameLength = 256

// Giới hạn của cột titles.year (SMALLINT).
const (
	MinYear = -32768
	MaxYear = 32767
)

func yearRules(currentYear int) []validation.Rule {
	return []validation.Rule{
		validation.Min(MinYear).Error("year is out of range"),
		validation.Max(currentYear).Error("year cannot be in the future"),
	}
}

// CreateTitleRequest tham chiếu category và genres bằng slug.
type CreateTitleRequest struct {
	Name        string   `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

func (r CreateTitleRequest) Validate(currentYear int) error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&r.Year, append([]validation.Rule{validation.NotNil}, yearRules(currentYear)...)...),
		validation.Field(&r.Category, validation.Required),
		validation.Field(&r.Genre, validation.NotNil),
	))
}

// UpdateTitleRequest - PATCH, field nil thì giữ nguyên.
type UpdateTitleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

func (r UpdateTitleRequest) Validate(currentYear int) error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&r.Year, yearRules(currentYear)...),
		validation.Field(&r.Category, validation.NilOrNotEmpty),
	))
}

// ListTitlesRequest - query params of GET /titles
type ListTitlesRequest struct {
	Category string `form:"category"`
	Genre    string `form:"genre"`
	Name     string `form:"name"`
	Year     *int   `form:"year"`
}

func (r ListTitlesRequest) Validate() error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Year, validation.Min(MinYear), validation.Max(MaxYear)),
	))
}

func (r ListTitlesRequest) ToFilter() TitleFilter {
	return TitleFilter{
		Category: r.Category,
		Genre:    r.Genre,
		Name:     r.Name,
		Year:     r.Year,
	}
}
