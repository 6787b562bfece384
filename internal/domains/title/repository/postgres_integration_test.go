//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb-backend/internal/domains/category"
	categoryRepo "yamdb-backend/internal/domains/category/repository"
	"yamdb-backend/internal/domains/genre"
	genreRepo "yamdb-backend/internal/domains/genre/repository"
	reviewModel "yamdb-backend/internal/domains/review/model"
	reviewRepo "yamdb-backend/internal/domains/review/repository"
	"yamdb-backend/internal/domains/title/model"
	"yamdb-backend/internal/infrastructure/database/dbtest"
	"yamdb-backend/internal/shared/apperr"
	"yamdb-backend/pkg/cache"
)

type fixture struct {
	pool       *pgxpool.Pool
	titles     TitleRepository
	categories category.CategoryRepository
	genres     genre.GenreRepository
	films      *category.Category
	drama      *genre.Genre
	comedy     *genre.Genre
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	pool := dbtest.NewPool(t)

	f := &fixture{
		pool:       pool,
		titles:     NewPostgresRepository(pool),
		categories: categoryRepo.NewPostgresRepository(pool, cache.NewNoop()),
		genres:     genreRepo.NewPostgresRepository(pool, cache.NewNoop()),
		films:      &category.Category{Name: "Films", Slug: "films"},
		drama:      &genre.Genre{Name: "Drama", Slug: "drama"},
		comedy:     &genre.Genre{Name: "Comedy", Slug: "comedy"},
	}
	require.NoError(t, f.categories.Create(ctx, f.films))
	require.NoError(t, f.genres.Create(ctx, f.drama))
	require.NoError(t, f.genres.Create(ctx, f.comedy))
	return f
}

func (f *fixture) createTitle(t *testing.T, name string, year int, genreIDs ...int64) *model.Title {
	t.Helper()
	title := &model.Title{Name: name, Year: year, CategoryID: &f.films.ID}
	require.NoError(t, f.titles.Create(context.Background(), title, genreIDs))
	return title
}

func (f *fixture) createUser(t *testing.T, username string) int64 {
	t.Helper()
	var id int64
	require.NoError(t, f.pool.QueryRow(context.Background(),
		`INSERT INTO users (username, email) VALUES ($1, $1 || '@yamdb.ru') RETURNING id`, username,
	).Scan(&id))
	return id
}

func TestTitleRepository_CreateAndGet(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created := f.createTitle(t, "Solaris", 1972, f.drama.ID, f.comedy.ID)

	got, err := f.titles.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Solaris", got.Name)
	require.NotNil(t, got.Category)
	assert.Equal(t, "films", got.Category.Slug)
	assert.Equal(t, []string{"comedy", "drama"}, []string{got.Genres[0].Slug, got.Genres[1].Slug})
	assert.Nil(t, got.ToResponse().Rating)

	_, err = f.titles.GetByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, model.ErrTitleNotFound)
}

func TestTitleRepository_UniqueTitle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.createTitle(t, "Solaris", 1972)

	err := f.titles.Create(ctx, &model.Title{Name: "Solaris", Year: 1972, CategoryID: &f.films.ID}, nil)
	assert.ErrorIs(t, err, model.ErrDuplicateTitle)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// NULL category còn unique
	require.NoError(t, f.titles.Create(ctx, &model.Title{Name: "Solaris", Year: 1972}, nil))
	err = f.titles.Create(ctx, &model.Title{Name: "Solaris", Year: 1972}, nil)
	assert.ErrorIs(t, err, model.ErrDuplicateTitle)
}

func TestTitleRepository_ListFilters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.createTitle(t, "Stalker", 1979, f.drama.ID)
	f.createTitle(t, "Solaris", 1972, f.drama.ID, f.comedy.ID)
	f.createTitle(t, "Mirror", 1975)

	all, err := f.titles.List(ctx, model.TitleFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mirror", "Solaris", "Stalker"}, names(all))

	year := 1972
	cases := map[string]struct {
		filter model.TitleFilter
		want   []string
	}{
		"genre":          {model.TitleFilter{Genre: "drama"}, []string{"Solaris", "Stalker"}},
		"genre+year":     {model.TitleFilter{Genre: "drama", Year: &year}, []string{"Solaris"}},
		"name substring": {model.TitleFilter{Name: "s"}, []string{"Solaris", "Stalker"}},
		"category":       {model.TitleFilter{Category: "films", Genre: "comedy"}, []string{"Solaris"}},
		"no match":       {model.TitleFilter{Category: "music"}, nil},
	}
	for name, tc := range cases {
		got, err := f.titles.List(ctx, tc.filter)
		require.NoError(t, err, name)
		assert.Equal(t, tc.want, names(got), name)
	}
}

func TestTitleRepository_UpdateGenres(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	title := f.createTitle(t, "Solaris", 1972, f.drama.ID)

	title.Year = 1971
	require.NoError(t, f.titles.Update(ctx, title, nil))
	got, err := f.titles.GetByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Equal(t, 1971, got.Year)
	assert.Len(t, got.Genres, 1)

	require.NoError(t, f.titles.Update(ctx, title, []int64{f.comedy.ID}))
	got, err = f.titles.GetByID(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "comedy", got.Genres[0].Slug)

	require.NoError(t, f.titles.Update(ctx, title, []int64{}))
	got, err = f.titles.GetByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Genres)
}

func TestTitleRepository_RatingAndCascades(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	title := f.createTitle(t, "Solaris", 1972, f.drama.ID)
	reviews := reviewRepo.NewPostgresReviewRepository(f.pool)

	for i, score := range []int{10, 7, 8} {
		author := f.createUser(t, []string{"alice", "bob", "carol"}[i])
		require.NoError(t, reviews.Create(ctx, &reviewModel.Review{TitleID: title.ID, AuthorID: author, Text: "ok", Score: score}))
	}

	got, err := f.titles.GetByID(ctx, title.ID)
	require.NoError(t, err)
	rating := got.ToResponse().Rating
	require.NotNil(t, rating)
	assert.InDelta(t, 25.0/3, *rating, 1e-9)

	// Xoá category: title giữ lại, category = null
	require.NoError(t, f.categories.DeleteBySlug(ctx, "films"))
	got, err = f.titles.GetByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)
	assert.Nil(t, got.CategoryID)

	// Xoá genre: link bị xoá, title còn
	require.NoError(t, f.genres.DeleteBySlug(ctx, "drama"))
	got, err = f.titles.GetByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Genres)

	// Xoá title: reviews và genre links bị xoá theo
	require.NoError(t, f.genres.Create(ctx, &genre.Genre{Name: "Drama", Slug: "drama"}))
	dramaAgain, err := f.genres.GetBySlug(ctx, "drama")
	require.NoError(t, err)
	title.CategoryID = nil
	require.NoError(t, f.titles.Update(ctx, title, []int64{dramaAgain.ID, f.comedy.ID}))

	require.NoError(t, f.titles.Delete(ctx, title.ID))
	for _, table := range []string{"reviews", "genre_titles"} {
		var count int
		require.NoError(t, f.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&count))
		assert.Zero(t, count, table)
	}
	assert.ErrorIs(t, f.titles.Delete(ctx, title.ID), model.ErrTitleNotFound)
}

func names(titles []*model.Title) []string {
	var out []string
	for _, t := range titles {
		out = append(out, t.Name)
	}
	return out
}
