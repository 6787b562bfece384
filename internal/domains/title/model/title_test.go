package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb-backend/internal/domains/category"
)

func TestToResponse(t *testing.T) {
	noReviews := (&Title{ID: 1, Name: "Solaris", Year: 1972}).ToResponse()
	assert.Nil(t, noReviews.Rating)
	assert.NotNil(t, noReviews.Genre)
	assert.Nil(t, noReviews.Category)

	rated := (&Title{
		ID: 2, Name: "Stalker", Year: 1979,
		Category:    &category.Category{ID: 1, Name: "Films", Slug: "films"},
		ReviewCount: 3, ScoreSum: 25,
	}).ToResponse()
	require.NotNil(t, rated.Rating)
	assert.InDelta(t, 25.0/3, *rated.Rating, 1e-9)
	assert.Equal(t, "films", rated.Category.Slug)
}

func TestCreateTitleRequest_Validate(t *testing.T) {
	year := 2030
	req := CreateTitleRequest{Name: "X", Year: &year, Category: "films", Genre: []string{}}
	assert.Error(t, req.Validate(2024))
	assert.NoError(t, req.Validate(2030))

	req.Name = ""
	assert.Error(t, req.Validate(2030))
}

func TestTitleRequests_YearRange(t *testing.T) {
	tooOld := -40000
	create := CreateTitleRequest{Name: "Dune", Year: &tooOld, Category: "films", Genre: []string{}}
	assert.Error(t, create.Validate(2026))

	floor := MinYear
	create.Year = &floor
	assert.NoError(t, create.Validate(2026))

	assert.Error(t, UpdateTitleRequest{Year: &tooOld}.Validate(2026))
	assert.NoError(t, UpdateTitleRequest{}.Validate(2026))

	tooLate := 40000
	assert.Error(t, ListTitlesRequest{Year: &tooLate}.Validate())
	assert.Error(t, ListTitlesRequest{Year: &tooOld}.Validate())
	assert.NoError(t, ListTitlesRequest{Year: &floor}.Validate())
	assert.NoError(t, ListTitlesRequest{}.Validate())
}
