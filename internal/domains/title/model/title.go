package model

import (
	"yamdb-backend/internal/domains/category"
	"yamdb-backend/internal/domains/genre"
	review "yamdb-backend/internal/domains/review/model"
)

// ============ ENTITIES ============

// Title - tác phẩm (book, film, song...) được review.
type Title struct {
	ID          int64
	Name        string
	Year        int
	Description *string
	CategoryID  *int64

	// Relationships, loaded on read
	Category *category.Category
	Genres   []genre.Genre

	// Review stats, computed on read
	ReviewCount int64
	ScoreSum    int64
}

// TitleFilter - filter object for list query. Empty fields are ignored.
type TitleFilter struct {
	Category string
	Genre    string
	Name     string
	Year     *int
}

// ============ RESPONSE ============

type TitleResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Year        int                `json:"year"`
	Rating      *float64           `json:"rating"`
	Description *string            `json:"description"`
	Genre       []genre.Genre      `json:"genre"`
	Category    *category.Category `json:"category"`
}

func (t *Title) ToResponse() TitleResponse {
	genres := t.Genres
	if genres == nil {
		genres = []genre.Genre{}
	}
	return TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      review.RatingFloat(review.Rating(t.ReviewCount, t.ScoreSum)),
		Description: t.Description,
		Genre:       genres,
		Category:    t.Category,
	}
}
